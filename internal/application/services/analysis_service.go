package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/providers"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// TenderAnalysisService runs the analysis pipeline: cache check,
// capability retrieval, generation fan-out, decode, idempotent upsert.
//
// Availability is valued over per-section correctness: once dispatch
// starts, the composite result is always produced. Individual task
// failures and undecodable outputs degrade their own slot to a
// fallback fragment and never abort siblings.
type TenderAnalysisService struct {
	tenderRepo     repositories.TenderRepository
	capabilityRepo repositories.CapabilityRepository
	analysisRepo   repositories.AnalysisRepository
	retrieval      *CapabilityRetrievalService
	generator      providers.TextGenerator

	retrievalLimit int
	taskTimeout    time.Duration
}

// NewTenderAnalysisService creates a new analysis service
func NewTenderAnalysisService(
	tenderRepo repositories.TenderRepository,
	capabilityRepo repositories.CapabilityRepository,
	analysisRepo repositories.AnalysisRepository,
	retrieval *CapabilityRetrievalService,
	generator providers.TextGenerator,
	retrievalLimit int,
	taskTimeout time.Duration,
) *TenderAnalysisService {
	if retrievalLimit <= 0 {
		retrievalLimit = 10
	}
	if taskTimeout <= 0 {
		taskTimeout = 60 * time.Second
	}
	return &TenderAnalysisService{
		tenderRepo:     tenderRepo,
		capabilityRepo: capabilityRepo,
		analysisRepo:   analysisRepo,
		retrieval:      retrieval,
		generator:      generator,
		retrievalLimit: retrievalLimit,
		taskTimeout:    taskTimeout,
	}
}

// AnalyzeTender returns the analysis for (user, tender). Without force
// an existing row is returned as-is with FromCache set and no backend
// calls made. With force, or on a miss, the full pipeline runs and the
// result is upserted under the (user_id, tender_id) uniqueness
// constraint.
func (s *TenderAnalysisService) AnalyzeTender(ctx context.Context, userID, tenderID string, force bool) (*entities.TenderAnalysis, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if tenderID == "" {
		return nil, apperrors.NewValidationError("tender ID is required")
	}

	logger := observability.LoggerFromContext(ctx)

	if !force {
		cached, err := s.analysisRepo.GetByUserAndTender(ctx, userID, tenderID)
		if err == nil && cached != nil {
			cached.FromCache = true
			return cached, nil
		}
		if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			// A broken cache read degrades to recomputation.
			logger.Warn().Str("tender_id", tenderID).Err(err).Msg("analysis cache read failed, recomputing")
		}
	}

	if s.generator == nil {
		return nil, apperrors.NewUnavailableError("generation backend is not configured", nil)
	}

	analysis, err := s.compute(ctx, userID, tenderID)
	if err != nil {
		return nil, err
	}

	if err := s.analysisRepo.Upsert(ctx, analysis); err != nil {
		// The freshly computed result is still returned; only its
		// durability is lost.
		logger.Error().Str("tender_id", tenderID).Err(err).Msg("failed to persist analysis")
	}

	return analysis, nil
}

// compute runs retrieval, context construction and the generation
// fan-out. Errors can only arise before dispatch.
func (s *TenderAnalysisService) compute(ctx context.Context, userID, tenderID string) (*entities.TenderAnalysis, error) {
	pc, err := s.buildContext(ctx, userID, tenderID)
	if err != nil {
		return nil, err
	}

	raws, failures := s.fanOut(ctx, pc)

	analysis := &entities.TenderAnalysis{
		ID:         uuid.New().String(),
		UserID:     userID,
		TenderID:   tenderID,
		FromCache:  false,
		ComputedAt: time.Now().UTC(),
	}

	// Merge in fixed slot order regardless of completion order.
	for slot, task := range analysisTasks {
		task.merge(raws[slot], failures[slot], analysis)
	}
	return analysis, nil
}

// buildContext assembles the immutable shared snapshot for the task
// fan-out: the tender, its merged capability matches and the resolved
// profiles behind those matches.
func (s *TenderAnalysisService) buildContext(ctx context.Context, userID, tenderID string) (*promptContext, error) {
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
		return nil, err
	}
	products, err := s.capabilityRepo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	return &promptContext{
		tender:    tender,
		matches:   matches,
		companies: companies,
		products:  products,
	}, nil
}

// fanOut dispatches every analysis task concurrently and awaits all of
// them. Each task gets its own timeout; a timeout counts as a plain
// task failure. Results land in fixed slots.
func (s *TenderAnalysisService) fanOut(ctx context.Context, pc *promptContext) (raws []string, failures []bool) {
	raws = make([]string, len(analysisTasks))
	failures = make([]bool, len(analysisTasks))
	userPrompt := buildUserPrompt(pc)

	var wg sync.WaitGroup
	for slot, task := range analysisTasks {
		wg.Add(1)
		go func(slot int, task analysisTask) {
			defer wg.Done()

			taskCtx, cancel := context.WithTimeout(ctx, s.taskTimeout)
			defer cancel()

			raw, err := s.generator.Complete(taskCtx, task.system, userPrompt)
			if err != nil {
				failures[slot] = true
				observability.LoggerFromContext(ctx).Warn().
					Str("task", task.name).
					Err(err).
					Msg("generation task failed, substituting fallback fragment")
				return
			}
			raws[slot] = raw
		}(slot, task)
	}
	wg.Wait()

	return raws, failures
}
