package services

import (
	"context"
	"sync"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// Hand-rolled fakes for the pipeline collaborators. Call counters are
// mutex-guarded because the analysis fan-out hits the generator from
// several goroutines at once.

type fakeTenderRepo struct {
	tenders map[string]*entities.Tender
}

func newFakeTenderRepo(tenders ...*entities.Tender) *fakeTenderRepo {
	r := &fakeTenderRepo{tenders: map[string]*entities.Tender{}}
	for _, t := range tenders {
		r.tenders[t.ID] = t
	}
	return r
}

func (r *fakeTenderRepo) GetByID(_ context.Context, id string) (*entities.Tender, error) {
	t, ok := r.tenders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("tender not found")
	}
	return t, nil
}

func (r *fakeTenderRepo) ListByUser(_ context.Context, userID string) ([]*entities.Tender, error) {
	out := []*entities.Tender{}
	for _, t := range r.tenders {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTenderRepo) Create(_ context.Context, tender *entities.Tender) error {
	r.tenders[tender.ID] = tender
	return nil
}

type fakeCapabilityRepo struct {
	companies map[string]*entities.Company
	products  map[string]*entities.Product
}

func newFakeCapabilityRepo() *fakeCapabilityRepo {
	return &fakeCapabilityRepo{
		companies: map[string]*entities.Company{},
		products:  map[string]*entities.Product{},
	}
}

func (r *fakeCapabilityRepo) GetCompaniesByIDs(_ context.Context, ids []string) ([]*entities.Company, error) {
	out := []*entities.Company{}
	for _, id := range ids {
		if c, ok := r.companies[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCapabilityRepo) GetProductsByIDs(_ context.Context, ids []string) ([]*entities.Product, error) {
	out := []*entities.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeCapabilityRepo) CreateCompany(_ context.Context, company *entities.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *fakeCapabilityRepo) CreateProduct(_ context.Context, product *entities.Product) error {
	r.products[product.ID] = product
	return nil
}

// fakeSearchRepo answers per-partition with canned matches or errors
// and records every query it receives.
type fakeSearchRepo struct {
	mu      sync.Mutex
	matches map[string][]entities.CapabilityMatch
	errs    map[string]error
	queries []repositories.CapabilitySearchQuery
}

func newFakeSearchRepo() *fakeSearchRepo {
	return &fakeSearchRepo{
		matches: map[string][]entities.CapabilityMatch{},
		errs:    map[string]error{},
	}
}

func (r *fakeSearchRepo) Query(_ context.Context, q repositories.CapabilitySearchQuery) ([]entities.CapabilityMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if err := r.errs[q.Partition]; err != nil {
		return nil, err
	}
	return r.matches[q.Partition], nil
}

func (r *fakeSearchRepo) IndexCompany(_ context.Context, _ *entities.Company) error { return nil }
func (r *fakeSearchRepo) IndexProduct(_ context.Context, _ *entities.Product) error { return nil }
func (r *fakeSearchRepo) InitSchema(_ context.Context) error                        { return nil }

func (r *fakeSearchRepo) queryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

// fakeGenerator routes responses by system prompt so each analysis
// task can be driven independently.
type fakeGenerator struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     int
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		responses: map[string]string{},
		errs:      map[string]error{},
	}
}

func (g *fakeGenerator) Complete(_ context.Context, systemPrompt, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if err := g.errs[systemPrompt]; err != nil {
		return "", err
	}
	return g.responses[systemPrompt], nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeAnalysisRepo struct {
	mu        sync.Mutex
	stored    map[string]*entities.TenderAnalysis
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{stored: map[string]*entities.TenderAnalysis{}}
}

func analysisKey(userID, tenderID string) string { return userID + "/" + tenderID }

func (r *fakeAnalysisRepo) GetByUserAndTender(_ context.Context, userID, tenderID string) (*entities.TenderAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.stored[analysisKey(userID, tenderID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("analysis not found")
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAnalysisRepo) Upsert(_ context.Context, analysis *entities.TenderAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	copied := *analysis
	r.stored[analysisKey(analysis.UserID, analysis.TenderID)] = &copied
	return nil
}

type fakeQuestionRepo struct {
	sets       map[string][]*entities.TenderQuestion
	replaceErr error
	replaces   int
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{sets: map[string][]*entities.TenderQuestion{}}
}

func (r *fakeQuestionRepo) ListByUserAndTender(_ context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	return r.sets[analysisKey(userID, tenderID)], nil
}

func (r *fakeQuestionRepo) ReplaceSet(_ context.Context, userID, tenderID string, questions []*entities.TenderQuestion) error {
	r.replaces++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.sets[analysisKey(userID, tenderID)] = questions
	return nil
}
