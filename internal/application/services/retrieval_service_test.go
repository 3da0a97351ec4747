package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderintel/backend/internal/domain/entities"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

func TestRetrieve_MergesPartitionsByScore(t *testing.T) {
	search := newFakeSearchRepo()
	search.matches[entities.PartitionCompanies] = []entities.CapabilityMatch{
		{ProfileID: "c1", Kind: entities.ProfileKindCompany, Score: 0.9, Partition: entities.PartitionCompanies},
		{ProfileID: "c2", Kind: entities.ProfileKindCompany, Score: 0.4, Partition: entities.PartitionCompanies},
	}
	search.matches[entities.PartitionProducts] = []entities.CapabilityMatch{
		{ProfileID: "p1", Kind: entities.ProfileKindProduct, Score: 0.7, Partition: entities.PartitionProducts},
	}

	svc := NewCapabilityRetrievalService(search)
	matches, err := svc.Retrieve(context.Background(), "user-1", "road maintenance", 10)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "c1", matches[0].ProfileID)
	assert.Equal(t, "p1", matches[1].ProfileID)
	assert.Equal(t, "c2", matches[2].ProfileID)
}

func TestRetrieve_TieKeepsPartitionOrder(t *testing.T) {
	search := newFakeSearchRepo()
	search.matches[entities.PartitionCompanies] = []entities.CapabilityMatch{
		{ProfileID: "c1", Kind: entities.ProfileKindCompany, Score: 0.5},
	}
	search.matches[entities.PartitionProducts] = []entities.CapabilityMatch{
		{ProfileID: "p1", Kind: entities.ProfileKindProduct, Score: 0.5},
	}

	svc := NewCapabilityRetrievalService(search)
	matches, err := svc.Retrieve(context.Background(), "user-1", "archive", 10)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Companies query first, so on equal scores companies stay ahead.
	assert.Equal(t, "c1", matches[0].ProfileID)
	assert.Equal(t, "p1", matches[1].ProfileID)
}

func TestRetrieve_SplitsLimitAcrossPartitions(t *testing.T) {
	search := newFakeSearchRepo()
	svc := NewCapabilityRetrievalService(search)

	_, err := svc.Retrieve(context.Background(), "user-1", "q", 5)
	require.NoError(t, err)

	require.Len(t, search.queries, 2)
	for _, q := range search.queries {
		// ceil(5 / 2)
		assert.Equal(t, 3, q.Limit)
		assert.Equal(t, "user-1", q.UserID)
		assert.Equal(t, "q", q.Text)
	}
	assert.Equal(t, entities.PartitionCompanies, search.queries[0].Partition)
	assert.Equal(t, entities.PartitionProducts, search.queries[1].Partition)
}

func TestRetrieve_PartialFailureDegrades(t *testing.T) {
	search := newFakeSearchRepo()
	search.errs[entities.PartitionProducts] = errors.New("collection unreachable")
	search.matches[entities.PartitionCompanies] = []entities.CapabilityMatch{
		{ProfileID: "c1", Kind: entities.ProfileKindCompany, Score: 0.8},
	}

	svc := NewCapabilityRetrievalService(search)
	matches, err := svc.Retrieve(context.Background(), "user-1", "q", 10)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].ProfileID)
}

func TestRetrieve_AllPartitionsFailing(t *testing.T) {
	search := newFakeSearchRepo()
	search.errs[entities.PartitionCompanies] = errors.New("down")
	search.errs[entities.PartitionProducts] = errors.New("down")

	svc := NewCapabilityRetrievalService(search)
	_, err := svc.Retrieve(context.Background(), "user-1", "q", 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestRetrieve_NoSearchBackend(t *testing.T) {
	svc := NewCapabilityRetrievalService(nil)
	_, err := svc.Retrieve(context.Background(), "user-1", "q", 10)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
}

func TestRetrieve_EmptyPartitionsYieldEmptyResult(t *testing.T) {
	search := newFakeSearchRepo()
	svc := NewCapabilityRetrievalService(search)

	matches, err := svc.Retrieve(context.Background(), "user-1", "nothing indexed", 10)

	require.NoError(t, err)
	assert.Empty(t, matches)
}
