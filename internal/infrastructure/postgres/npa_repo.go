package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/credit-risk/pkg/postgres"
)

var _ port.NPARecordRepository = (*NPARecordRepo)(nil)

// NPARecordRepo implements port.NPARecordRepository. Every saved version is
// also appended to npa_classification_history in the same transaction.
type NPARecordRepo struct {
	pool *pgxpool.Pool
}

func NewNPARecordRepo(pool *pgxpool.Pool) *NPARecordRepo {
	return &NPARecordRepo{pool: pool}
}

// Save upserts by (tenant, loan). The stored version must be exactly one
// behind r.Version(), otherwise model.ErrConcurrentUpdate is returned.
func (r *NPARecordRepo) Save(ctx context.Context, rec model.NPARecord) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := upsertNPARecord(ctx, tx, rec); err != nil {
			return err
		}
		return appendNPAHistory(ctx, tx, rec)
	})
}

func upsertNPARecord(ctx context.Context, q pkgpostgres.Querier, rec model.NPARecord) error {
	query := `
		INSERT INTO npa_records (
			id, tenant_id, loan_id, overdue_days, outstanding_amount,
			category, provision_amount, version, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (tenant_id, loan_id) DO UPDATE SET
			overdue_days       = EXCLUDED.overdue_days,
			outstanding_amount = EXCLUDED.outstanding_amount,
			category           = EXCLUDED.category,
			provision_amount   = EXCLUDED.provision_amount,
			version            = EXCLUDED.version,
			updated_at         = EXCLUDED.updated_at
		WHERE npa_records.version = EXCLUDED.version - 1
	`
	tag, err := q.Exec(ctx, query,
		rec.ID(), rec.TenantID(), rec.LoanID(), rec.OverdueDays(),
		rec.OutstandingAmount(), rec.Category().String(), rec.ProvisionAmount(),
		rec.Version(), rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save npa record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("npa record for loan %s: %w", rec.LoanID(), model.ErrConcurrentUpdate)
	}
	return nil
}

func appendNPAHistory(ctx context.Context, q pkgpostgres.Querier, rec model.NPARecord) error {
	query := `
		INSERT INTO npa_classification_history (
			record_id, version, overdue_days, category, provision_amount, recorded_at
		)
		SELECT id, $3, $4, $5, $6, $7 FROM npa_records
		WHERE tenant_id = $1 AND loan_id = $2
	`
	_, err := q.Exec(ctx, query,
		rec.TenantID(), rec.LoanID(), rec.Version(), rec.OverdueDays(),
		rec.Category().String(), rec.ProvisionAmount(), rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("append npa history: %w", err)
	}
	return nil
}

// FindByLoanID retrieves the current classification of a loan.
func (r *NPARecordRepo) FindByLoanID(ctx context.Context, tenantID, loanID string) (model.NPARecord, error) {
	query := `
		SELECT id, tenant_id, loan_id, overdue_days, outstanding_amount,
		       category, provision_amount, version, updated_at
		FROM npa_records
		WHERE tenant_id = $1 AND loan_id = $2
	`
	var (
		id, tenant, loan, categoryStr string
		days, version                 int
		outstanding, provision        decimal.Decimal
		updatedAt                     time.Time
	)
	err := r.pool.QueryRow(ctx, query, tenantID, loanID).Scan(
		&id, &tenant, &loan, &days, &outstanding, &categoryStr, &provision, &version, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NPARecord{}, fmt.Errorf("npa record for loan %s: %w", loanID, model.ErrNotFound)
	}
	if err != nil {
		return model.NPARecord{}, fmt.Errorf("find npa record: %w", err)
	}
	category, err := valueobject.NPACategoryFromString(categoryStr)
	if err != nil {
		return model.NPARecord{}, fmt.Errorf("npa record %s: %w", id, err)
	}
	return model.ReconstructNPARecord(id, tenant, loan, days, outstanding, category, provision, version, updatedAt), nil
}

// SummarizeByCategory totals count, outstanding and provision per category.
// Categories with no loans are omitted.
func (r *NPARecordRepo) SummarizeByCategory(ctx context.Context, tenantID string) ([]port.NPACategorySummary, error) {
	query := `
		SELECT category, COUNT(*),
		       COALESCE(SUM(outstanding_amount), 0),
		       COALESCE(SUM(provision_amount), 0)
		FROM npa_records
		WHERE tenant_id = $1
		GROUP BY category
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("summarize npa records: %w", err)
	}
	defer rows.Close()

	var out []port.NPACategorySummary
	for rows.Next() {
		var (
			categoryStr string
			s           port.NPACategorySummary
		)
		if err := rows.Scan(&categoryStr, &s.Count, &s.Outstanding, &s.Provision); err != nil {
			return nil, fmt.Errorf("scan npa summary: %w", err)
		}
		if s.Category, err = valueobject.NPACategoryFromString(categoryStr); err != nil {
			return nil, fmt.Errorf("scan npa summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
