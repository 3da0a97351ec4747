package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tenderintel/backend/internal/application/decode"
	"github.com/tenderintel/backend/internal/application/scoring"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/providers"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// questionsFragment is the decoded shape of the question task output
type questionsFragment struct {
	Content   string            `json:"content"`
	Questions []decodedQuestion `json:"questions"`
}

type decodedQuestion struct {
	Category        string `json:"category"`
	Question        string `json:"question"`
	KnockOutRisk    int    `json:"knock_out_risk"`
	ScoringImpact   int    `json:"scoring_impact"`
	FinancialImpact int    `json:"financial_impact"`
	ScheduleImpact  int    `json:"schedule_impact"`
	EvidenceBurden  int    `json:"evidence_burden"`
	Suggestion      string `json:"suggestion"`
}

// TenderQuestionService generates scored clarification questions for a
// tender and stores them with replace-whole-set semantics.
type TenderQuestionService struct {
	tenderRepo     repositories.TenderRepository
	capabilityRepo repositories.CapabilityRepository
	questionRepo   repositories.QuestionRepository
	retrieval      *CapabilityRetrievalService
	generator      providers.TextGenerator

	retrievalLimit int
	taskTimeout    time.Duration
}

// NewTenderQuestionService creates a new question service
func NewTenderQuestionService(
	tenderRepo repositories.TenderRepository,
	capabilityRepo repositories.CapabilityRepository,
	questionRepo repositories.QuestionRepository,
	retrieval *CapabilityRetrievalService,
	generator providers.TextGenerator,
	retrievalLimit int,
	taskTimeout time.Duration,
) *TenderQuestionService {
	if retrievalLimit <= 0 {
		retrievalLimit = 10
	}
	if taskTimeout <= 0 {
		taskTimeout = 60 * time.Second
	}
	return &TenderQuestionService{
		tenderRepo:     tenderRepo,
		capabilityRepo: capabilityRepo,
		questionRepo:   questionRepo,
		retrieval:      retrieval,
		generator:      generator,
		retrievalLimit: retrievalLimit,
		taskTimeout:    taskTimeout,
	}
}

// GenerateQuestions produces a fresh scored question set for the
// tender and replaces any previously stored set for the pair. If the
// generation backend fails outright the stored set is kept and
// returned unchanged. The returned slice is sorted descending by
// total, ties in generation order.
func (s *TenderQuestionService) GenerateQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if tenderID == "" {
		return nil, apperrors.NewValidationError("tender ID is required")
	}

	if s.generator == nil {
		return nil, apperrors.NewUnavailableError("generation backend is not configured", nil)
	}

	logger := observability.LoggerFromContext(ctx)

	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.UserID != userID {
		return nil, apperrors.NewNotFoundError("tender not found for user")
	}

	queryText := tender.Title
	if tender.Description != "" {
		queryText += " " + tender.Description
	}
	matches, err := s.retrieval.Retrieve(ctx, userID, queryText, s.retrievalLimit)
	if err != nil {
		return nil, err
	}

	pc := &promptContext{tender: tender, matches: matches}
	if companies, products, err := s.resolveProfiles(ctx, matches); err == nil {
		pc.companies = companies
		pc.products = products
	}

	taskCtx, cancel := context.WithTimeout(ctx, s.taskTimeout)
	defer cancel()

	raw, err := s.generator.Complete(taskCtx, questionsSystemPrompt, buildUserPrompt(pc))
	if err != nil {
		// A backend outage must not destroy a previously stored set, so
		// the replace is skipped and the stored set is served as-is. Only
		// a completed generation, even one that decoded to nothing,
		// overwrites it.
		logger.Warn().Str("tender_id", tenderID).Err(err).Msg("question generation failed, keeping stored set")
		return s.questionRepo.ListByUserAndTender(ctx, userID, tenderID)
	}

	questions := s.decodeQuestions(raw, userID, tenderID)
	scoring.ScoreAndSort(questions)

	if err := s.questionRepo.ReplaceSet(ctx, userID, tenderID, questions); err != nil {
		// Same durability tradeoff as the analysis upsert: the computed
		// set is still returned.
		logger.Error().Str("tender_id", tenderID).Err(err).Msg("failed to persist question set")
	}

	return questions, nil
}

// ListQuestions returns the stored question set in scored order
func (s *TenderQuestionService) ListQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if tenderID == "" {
		return nil, apperrors.NewValidationError("tender ID is required")
	}
	return s.questionRepo.ListByUserAndTender(ctx, userID, tenderID)
}

func (s *TenderQuestionService) resolveProfiles(ctx context.Context, matches []entities.CapabilityMatch) ([]*entities.Company, []*entities.Product, error) {
	var companyIDs, productIDs []string
	for _, m := range matches {
		switch m.Kind {
		case entities.ProfileKindCompany:
			companyIDs = append(companyIDs, m.ProfileID)
		case entities.ProfileKindProduct:
			productIDs = append(productIDs, m.ProfileID)
		}
	}

	companies, err := s.capabilityRepo.GetCompaniesByIDs(ctx, companyIDs)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.capabilityRepo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	return companies, products, nil
}

func (s *TenderQuestionService) decodeQuestions(raw, userID, tenderID string) []*entities.TenderQuestion {
	frag := questionsFragment{}
	if !decode.Into(raw, []string{"content", "questions"}, &frag) {
		return []*entities.TenderQuestion{}
	}

	now := time.Now().UTC()
	questions := make([]*entities.TenderQuestion, 0, len(frag.Questions))
	for _, dq := range frag.Questions {
		if dq.Question == "" {
			continue
		}
		questions = append(questions, &entities.TenderQuestion{
			ID:              uuid.New().String(),
			UserID:          userID,
			TenderID:        tenderID,
			Category:        dq.Category,
			Question:        dq.Question,
			KnockOutRisk:    dq.KnockOutRisk,
			ScoringImpact:   dq.ScoringImpact,
			FinancialImpact: dq.FinancialImpact,
			ScheduleImpact:  dq.ScheduleImpact,
			EvidenceBurden:  dq.EvidenceBurden,
			Suggestion:      dq.Suggestion,
			CreatedAt:       now,
		})
	}
	return questions
}
