//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
	"github.com/bibbank/credit-risk/internal/infrastructure/postgres"
	"github.com/bibbank/credit-risk/pkg/testutil"
)

func setupDB(t *testing.T) *testutil.PostgresContainer {
	t.Helper()
	return testutil.NewPostgresContainer(context.Background(), t,
		testutil.WithMigrations(postgres.Migrations, postgres.MigrationsDir))
}

func newAssessment(t *testing.T, customer string, status valueobject.ApplicationStatus, at time.Time) model.RiskAssessment {
	t.Helper()
	a, err := model.NewRiskAssessment(model.AssessmentParams{
		TenantID:       testutil.TestTenantID.String(),
		CustomerID:     customer,
		LoanAmount:     2_000_000,
		TenureMonths:   36,
		InterestRate:   9.5,
		LoanPurpose:    "Home Purchase",
		Probability:    0.85,
		CreditScore:    382.5,
		Level:          valueobject.RiskLevelHigh,
		Status:         status,
		Recommendation: "High risk",
		ModelUsed:      "rule_based_fallback",
		Contributors:   []model.Contribution{{Feature: "debt_to_income_ratio", Impact: 0.6834}},
		Factors:        model.Factors{DTIPercent: 85.42, LTI: 2.22, EstimatedEMI: 64065.9, MonthlyIncome: 75000},
		ProcessingTime: 1500 * time.Microsecond,
	}, at)
	require.NoError(t, err)
	return a
}

func TestAssessmentRepo_SaveFindList(t *testing.T) {
	pc := setupDB(t)
	repo := postgres.NewAssessmentRepo(pc.Pool)
	ctx := context.Background()
	tenant := testutil.TestTenantID.String()

	first := newAssessment(t, "CUST-1", valueobject.StatusRejected, testutil.TestNow)
	second := newAssessment(t, "CUST-2", valueobject.StatusPending, testutil.TestNow.Add(time.Minute))
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first), "re-saving is a no-op")

	got, err := repo.FindByID(ctx, tenant, first.ID())
	require.NoError(t, err)
	assert.Equal(t, first.Contributors(), got.Contributors())
	assert.Equal(t, first.Factors(), got.Factors())
	assert.Equal(t, valueobject.StatusRejected, got.Status())
	assert.Equal(t, 1500*time.Microsecond, got.ProcessingTime())
	assert.True(t, first.CreatedAt().Equal(got.CreatedAt()))

	_, err = repo.FindByID(ctx, "other-tenant", first.ID())
	assert.ErrorIs(t, err, model.ErrNotFound)

	all, total, err := repo.List(ctx, port.AssessmentFilter{TenantID: tenant, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID(), all[0].ID(), "newest first")

	filtered, total, err := repo.List(ctx, port.AssessmentFilter{TenantID: tenant, Status: valueobject.StatusRejected, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, first.ID(), filtered[0].ID())

	page, total, err := repo.List(ctx, port.AssessmentFilter{TenantID: tenant, CustomerID: "CUST-2", Limit: 10, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, page)
}

func TestAssessmentRepo_CountByStatus(t *testing.T) {
	pc := setupDB(t)
	repo := postgres.NewAssessmentRepo(pc.Pool)
	ctx := context.Background()

	for i, st := range []valueobject.ApplicationStatus{
		valueobject.StatusApproved, valueobject.StatusApproved, valueobject.StatusRejected,
	} {
		require.NoError(t, repo.Save(ctx, newAssessment(t, "CUST-1", st, testutil.TestNow.Add(time.Duration(i)*time.Second))))
	}

	counts, err := repo.CountByStatus(ctx, testutil.TestTenantID.String())
	require.NoError(t, err)
	assert.Equal(t, map[valueobject.ApplicationStatus]int{
		valueobject.StatusApproved: 2,
		valueobject.StatusRejected: 1,
	}, counts)

	counts, err = repo.CountByStatus(ctx, "other-tenant")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestNPARecordRepo_UpsertAndSummarize(t *testing.T) {
	pc := setupDB(t)
	repo := postgres.NewNPARecordRepo(pc.Pool)
	ctx := context.Background()
	tenant := testutil.TestTenantID.String()

	std := model.NPAClassification{Category: valueobject.NPAStandard, Provision: decimal.RequireFromString("400.00")}
	rec, err := model.NewNPARecord(tenant, "LN-1", 10, decimal.NewFromInt(100_000), std, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rec))

	loss := model.NPAClassification{Category: valueobject.NPALoss, Provision: decimal.RequireFromString("100000.00")}
	moved, err := rec.Reclassify(1200, decimal.NewFromInt(100_000), loss, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, moved))

	assert.ErrorIs(t, repo.Save(ctx, moved), model.ErrConcurrentUpdate, "stale version")

	got, err := repo.FindByLoanID(ctx, tenant, "LN-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version())
	assert.Equal(t, valueobject.NPALoss, got.Category())
	assert.True(t, got.ProvisionAmount().Equal(decimal.NewFromInt(100_000)))

	other, err := model.NewNPARecord(tenant, "LN-2", 0, decimal.NewFromInt(50_000),
		model.NPAClassification{Category: valueobject.NPAStandard, Provision: decimal.RequireFromString("200.00")}, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	summary, err := repo.SummarizeByCategory(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	var history int
	require.NoError(t, pc.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM npa_classification_history`).Scan(&history))
	assert.Equal(t, 3, history)

	_, err = repo.FindByLoanID(ctx, tenant, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	pc.Truncate(t, "npa_classification_history", "npa_records")
	summary, err = repo.SummarizeByCategory(ctx, tenant)
	require.NoError(t, err)
	assert.Empty(t, summary)
}
