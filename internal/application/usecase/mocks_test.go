package usecase_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bibbank/credit-risk/internal/domain/event"
	"github.com/bibbank/credit-risk/internal/domain/model"
	"github.com/bibbank/credit-risk/internal/domain/port"
	"github.com/bibbank/credit-risk/internal/domain/valueobject"
	"github.com/bibbank/credit-risk/pkg/testutil"
)

var (
	discard  = slog.New(slog.DiscardHandler)
	tenantID = testutil.TestTenantID.String()
	clock    = testutil.FixedClock(testutil.TestNow)
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	mu           sync.Mutex
	saveFunc     func(ctx context.Context, a model.RiskAssessment) error
	findByIDFunc func(ctx context.Context, tenantID, id string) (model.RiskAssessment, error)
	listFunc     func(ctx context.Context, f port.AssessmentFilter) ([]model.RiskAssessment, int, error)
	countFunc    func(ctx context.Context, tenantID string) (map[valueobject.ApplicationStatus]int, error)
	saved        []model.RiskAssessment
	findCalls    int
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a model.RiskAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, tenantID, id string) (model.RiskAssessment, error) {
	m.findCalls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, tenantID, id)
	}
	return model.RiskAssessment{}, model.ErrNotFound
}

func (m *mockAssessmentRepository) List(ctx context.Context, f port.AssessmentFilter) ([]model.RiskAssessment, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockAssessmentRepository) CountByStatus(ctx context.Context, tenantID string) (map[valueobject.ApplicationStatus]int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, tenantID)
	}
	return map[valueobject.ApplicationStatus]int{}, nil
}

type mockEventPublisher struct {
	mu        sync.Mutex
	err       error
	published []event.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...event.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, evts...)
	return m.err
}

type mockCache struct {
	entries map[string]model.RiskAssessment
	getErr  error
	puts    int
}

func (m *mockCache) Get(_ context.Context, _, id string) (model.RiskAssessment, bool, error) {
	if m.getErr != nil {
		return model.RiskAssessment{}, false, m.getErr
	}
	a, ok := m.entries[id]
	return a, ok, nil
}

func (m *mockCache) Put(_ context.Context, a model.RiskAssessment) error {
	if m.entries == nil {
		m.entries = map[string]model.RiskAssessment{}
	}
	m.entries[a.ID()] = a
	m.puts++
	return nil
}

type mockNPARepository struct {
	records   map[string]model.NPARecord
	saveErr   error
	summaries []port.NPACategorySummary
}

func (m *mockNPARepository) Save(_ context.Context, r model.NPARecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.records == nil {
		m.records = map[string]model.NPARecord{}
	}
	m.records[r.LoanID()] = r.ClearEvents()
	return nil
}

func (m *mockNPARepository) FindByLoanID(_ context.Context, _, loanID string) (model.NPARecord, error) {
	r, ok := m.records[loanID]
	if !ok {
		return model.NPARecord{}, model.ErrNotFound
	}
	return r, nil
}

func (m *mockNPARepository) SummarizeByCategory(context.Context, string) ([]port.NPACategorySummary, error) {
	return m.summaries, nil
}

type recordingMetrics struct {
	mu          sync.Mutex
	assessments []string
	fallbacks   []string
	npa         []string
}

func (m *recordingMetrics) RecordAssessment(_ context.Context, strategy, status string, _ float64, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments = append(m.assessments, strategy+"/"+status)
}

func (m *recordingMetrics) RecordFallback(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, reason)
}

func (m *recordingMetrics) RecordNPAClassification(_ context.Context, category string) {
	m.npa = append(m.npa, category)
}
