package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "bib-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken_HMAC(t *testing.T) {
	svc := newTestJWTService(t)
	userID, tenantID := uuid.New(), uuid.New()

	token, err := svc.GenerateToken(userID, tenantID, []string{RoleUnderwriter})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.True(t, claims.HasRole(RoleUnderwriter))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuer := newTestJWTService(t)
	token, err := issuer.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "someone-else"})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s", Expiration: -time.Minute})
	require.NoError(t, err)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestRSA_ValidationOnlyMode(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM)})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), uuid.New(), []string{RoleRiskAnalyst})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleRiskAnalyst))

	_, err = validator.GenerateToken(uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestNewJWTService_NoKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}

	t.Run("skipped method needs no token", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
	})

	t.Run("missing header is unauthenticated", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid bearer token attaches claims", func(t *testing.T) {
		tenantID := uuid.New()
		token, err := svc.GenerateToken(uuid.New(), tenantID, []string{RoleAdmin})
		require.NoError(t, err)

		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, handler)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, tenantID, seen.TenantID)
	})
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, status.Code(RequireRole(context.Background(), RoleAdmin)))

	ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleAuditor}})
	assert.Equal(t, codes.PermissionDenied, status.Code(RequireRole(ctx, RoleAdmin, RoleUnderwriter)))
	assert.NoError(t, RequireRole(ctx, RoleAdmin, RoleAuditor))
}

func TestUnaryAuthInterceptor_RejectsNonBearerScheme(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, nil)
	token, err := svc.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	for _, header := range []string{token, "Basic " + token, "Bearer ", "bearer " + token + "x"} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", header))
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, func(context.Context, any) (any, error) {
			return nil, nil
		})
		assert.Equal(t, codes.Unauthenticated, status.Code(err), header)
	}
}

func TestAuthorizeTenant(t *testing.T) {
	tenantID := uuid.New()
	ctx := ContextWithClaims(context.Background(), &Claims{TenantID: tenantID, Roles: []string{RoleUnderwriter}})
	got, err := AuthorizeTenant(ctx, RoleUnderwriter)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)

	_, err = AuthorizeTenant(ctx, RoleAdmin)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	unscoped := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleAdmin}})
	_, err = AuthorizeTenant(unscoped, RoleAdmin)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}
