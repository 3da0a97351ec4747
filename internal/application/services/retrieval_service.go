package services

import (
	"context"
	"sort"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// capabilityPartitions is the declared partition order. It doubles as
// the tie-break order when merging.
var capabilityPartitions = []string{
	entities.PartitionCompanies,
	entities.PartitionProducts,
}

// CapabilityRetrievalService issues similarity queries across the
// capability partitions and merges results. A single failing partition
// degrades the result instead of failing the request; only a total
// outage across every partition is surfaced.
type CapabilityRetrievalService struct {
	searchRepo repositories.CapabilitySearchRepository
}

// NewCapabilityRetrievalService creates a new retrieval service
func NewCapabilityRetrievalService(searchRepo repositories.CapabilitySearchRepository) *CapabilityRetrievalService {
	return &CapabilityRetrievalService{searchRepo: searchRepo}
}

// Retrieve queries every partition for the user's own capability
// records and merges the hits, highest similarity first. Ties keep
// partition declaration order, then stable input order. Read-only.
func (s *CapabilityRetrievalService) Retrieve(ctx context.Context, userID, queryText string, limit int) ([]entities.CapabilityMatch, error) {
	if s.searchRepo == nil {
		return nil, apperrors.NewUnavailableError("capability search is not configured", nil)
	}
	if limit <= 0 {
		limit = 10
	}
	perPartition := (limit + len(capabilityPartitions) - 1) / len(capabilityPartitions)

	merged := []entities.CapabilityMatch{}
	failures := 0
	for _, partition := range capabilityPartitions {
		matches, err := s.searchRepo.Query(ctx, repositories.CapabilitySearchQuery{
			Partition: partition,
			Text:      queryText,
			UserID:    userID,
			Limit:     perPartition,
		})
		if err != nil {
			failures++
			observability.LoggerFromContext(ctx).Warn().
				Str("partition", partition).
				Err(err).
				Msg("capability partition unreachable, continuing without it")
			continue
		}
		merged = append(merged, matches...)
	}

	if failures == len(capabilityPartitions) {
		return nil, apperrors.NewUnavailableError("all capability partitions failed", nil)
	}

	// Partition iteration already appended in declaration order, so a
	// stable sort on score alone yields the full tie-break chain.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged, nil
}
