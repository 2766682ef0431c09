package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/credit-risk/pkg/postgres"
)

var _ port.AssessmentRepository = (*AssessmentRepo)(nil)

// AssessmentRepo implements port.AssessmentRepository.
type AssessmentRepo struct {
	db pkgpostgres.Querier
}

// NewAssessmentRepo creates a repository on a pool or transaction.
func NewAssessmentRepo(db pkgpostgres.Querier) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

const assessmentColumns = `
	id, tenant_id, customer_id, loan_amount, tenure_months, interest_rate,
	loan_purpose, risk_probability, credit_score, risk_level, status,
	recommendation, model_used, contributors, factors, processing_time_ms,
	created_at`

// Save inserts an assessment. Assessments are immutable, so saving the same
// id twice is a no-op.
func (r *AssessmentRepo) Save(ctx context.Context, a model.RiskAssessment) error {
	contributors, err := json.Marshal(a.Contributors())
	if err != nil {
		return fmt.Errorf("marshal contributors: %w", err)
	}
	factors, err := json.Marshal(a.Factors())
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}

	query := `INSERT INTO risk_assessments (` + assessmentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO NOTHING`
	_, err = r.db.Exec(ctx, query,
		a.ID(), a.TenantID(), a.CustomerID(),
		a.LoanAmount(), a.TenureMonths(), a.InterestRate(), a.LoanPurpose(),
		a.RiskProbability(), a.CreditScore(),
		a.RiskLevel().String(), a.Status().String(),
		a.Recommendation(), a.ModelUsed(),
		contributors, factors,
		float64(a.ProcessingTime().Microseconds())/1000,
		a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save risk assessment: %w", err)
	}
	return nil
}

// FindByID retrieves one assessment within a tenant.
func (r *AssessmentRepo) FindByID(ctx context.Context, tenantID, id string) (model.RiskAssessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM risk_assessments
		WHERE tenant_id = $1 AND id = $2`
	a, err := scanAssessment(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RiskAssessment{}, fmt.Errorf("risk assessment %s: %w", id, model.ErrNotFound)
	}
	return a, err
}

// List returns a page of a tenant's assessments newest first.
func (r *AssessmentRepo) List(ctx context.Context, f port.AssessmentFilter) ([]model.RiskAssessment, int, error) {
	where, args := assessmentWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM risk_assessments`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count risk assessments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM risk_assessments%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, assessmentColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list risk assessments: %w", err)
	}
	defer rows.Close()

	var result []model.RiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list risk assessments: %w", err)
	}
	return result, total, nil
}

// CountByStatus groups a tenant's assessments by decision.
func (r *AssessmentRepo) CountByStatus(ctx context.Context, tenantID string) (map[valueobject.ApplicationStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM risk_assessments
		WHERE tenant_id = $1
		GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count risk assessments by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[valueobject.ApplicationStatus]int)
	for rows.Next() {
		var (
			raw string
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		st, err := valueobject.ApplicationStatusFromString(raw)
		if err != nil {
			return nil, err
		}
		counts[st] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count risk assessments by status: %w", err)
	}
	return counts, nil
}

func assessmentWhere(f port.AssessmentFilter) (string, []any) {
	clauses := []string{"tenant_id = $1"}
	args := []any{f.TenantID}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if !f.Status.IsZero() {
		args = append(args, f.Status.String())
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanAssessment(s scannable) (model.RiskAssessment, error) {
	var (
		id, tenantID, customerID, purpose  string
		levelStr, statusStr, rec, modelUse string
		loanAmount, rate, prob, score, ms  float64
		tenure                             int
		contributorsRaw, factorsRaw        []byte
		createdAt                          time.Time
	)
	err := s.Scan(
		&id, &tenantID, &customerID, &loanAmount, &tenure, &rate,
		&purpose, &prob, &score, &levelStr, &statusStr,
		&rec, &modelUse, &contributorsRaw, &factorsRaw, &ms,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RiskAssessment{}, err
		}
		return model.RiskAssessment{}, fmt.Errorf("scan risk assessment: %w", err)
	}

	level, err := valueobject.RiskLevelFromString(levelStr)
	if err != nil {
		return model.RiskAssessment{}, fmt.Errorf("scan risk assessment %s: %w", id, err)
	}
	status, err := valueobject.ApplicationStatusFromString(statusStr)
	if err != nil {
		return model.RiskAssessment{}, fmt.Errorf("scan risk assessment %s: %w", id, err)
	}
	var contributors []model.Contribution
	if err := json.Unmarshal(contributorsRaw, &contributors); err != nil {
		return model.RiskAssessment{}, fmt.Errorf("decode contributors of %s: %w", id, err)
	}
	var factors model.Factors
	if err := json.Unmarshal(factorsRaw, &factors); err != nil {
		return model.RiskAssessment{}, fmt.Errorf("decode factors of %s: %w", id, err)
	}

	return model.ReconstructRiskAssessment(id, model.AssessmentParams{
		TenantID:       tenantID,
		CustomerID:     customerID,
		LoanAmount:     loanAmount,
		TenureMonths:   tenure,
		InterestRate:   rate,
		LoanPurpose:    purpose,
		Probability:    prob,
		CreditScore:    score,
		Level:          level,
		Status:         status,
		Recommendation: rec,
		ModelUsed:      modelUse,
		Contributors:   contributors,
		Factors:        factors,
		ProcessingTime: time.Duration(ms * float64(time.Millisecond)),
	}, createdAt), nil
}
