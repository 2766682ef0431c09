package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenValidator turns a raw bearer token into claims. *JWTService
// implements it.
type TokenValidator interface {
	ValidateToken(raw string) (*Claims, error)
}

var _ TokenValidator = (*JWTService)(nil)

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// UnaryAuthInterceptor authenticates every call except the public methods
// (typically the health service) and stores the caller's claims in the
// handler context.
func UnaryAuthInterceptor(v TokenValidator, public []string) grpc.UnaryServerInterceptor {
	open := make(map[string]bool, len(public))
	for _, m := range public {
		open[m] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}
		raw, err := bearerToken(ctx)
		if err != nil {
			return nil, err
		}
		claims, err := v.ValidateToken(raw)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}
		return next(ContextWithClaims(ctx, claims), req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "missing authorization header")
	}
	scheme, token, found := strings.Cut(values[0], " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", status.Error(codes.Unauthenticated, "authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

// RequireRole returns PermissionDenied unless the caller holds one of roles.
func RequireRole(ctx context.Context, roles ...string) error {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "no claims in context")
	}
	if !claims.HasAnyRole(roles...) {
		return status.Errorf(codes.PermissionDenied, "required role(s): %v", roles)
	}
	return nil
}

// AuthorizeTenant checks roles and returns the tenant the caller's data is
// scoped to. Tokens without a tenant cannot read or write risk data.
func AuthorizeTenant(ctx context.Context, roles ...string) (uuid.UUID, error) {
	if err := RequireRole(ctx, roles...); err != nil {
		return uuid.Nil, err
	}
	claims, _ := ClaimsFromContext(ctx)
	if claims.TenantID == uuid.Nil {
		return uuid.Nil, status.Error(codes.PermissionDenied, "token is not scoped to a tenant")
	}
	return claims.TenantID, nil
}
