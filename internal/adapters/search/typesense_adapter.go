package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	tsclient "github.com/tenderintel/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements capability similarity search over the
// per-partition Typesense collections.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.CapabilitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures both partition collections exist
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// IndexCompany upserts a company into the companies partition
func (a *TypesenseAdapter) IndexCompany(ctx context.Context, company *entities.Company) error {
	document := map[string]interface{}{
		"id":          company.ID,
		"user_id":     company.UserID,
		"name":        company.Name,
		"description": company.Description,
		"tags":        company.Capabilities,
		"created_at":  company.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(entities.PartitionCompanies).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index company: %w", err)
	}
	return nil
}

// IndexProduct upserts a product into the products partition
func (a *TypesenseAdapter) IndexProduct(ctx context.Context, product *entities.Product) error {
	document := map[string]interface{}{
		"id":          product.ID,
		"user_id":     product.UserID,
		"name":        product.Name,
		"description": product.Description,
		"tags":        product.Features,
		"created_at":  product.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(entities.PartitionProducts).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}
	return nil
}

// Query runs one similarity query against a single partition, scoped
// to the owner. Hits come back ordered by text match quality; the
// score is normalized into [0,1].
func (a *TypesenseAdapter) Query(ctx context.Context, q repositories.CapabilitySearchQuery) ([]entities.CapabilityMatch, error) {
	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(q.Text),
		QueryBy:  pointer.String("name,description,tags"),
		FilterBy: pointer.String(fmt.Sprintf("user_id:=%s", q.UserID)),
		PerPage:  pointer.Int(q.Limit),
	}

	result, err := a.client.Client().Collection(q.Partition).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to query partition %s: %w", q.Partition, err)
	}

	kind := entities.ProfileKindCompany
	if q.Partition == entities.PartitionProducts {
		kind = entities.ProfileKindProduct
	}

	matches := []entities.CapabilityMatch{}
	if result.Hits == nil {
		return matches, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		id, _ := doc["id"].(string)
		if id == "" {
			continue
		}
		name, _ := doc["name"].(string)

		matches = append(matches, entities.CapabilityMatch{
			ProfileID: id,
			Kind:      kind,
			Score:     normalizeScore(hit),
			Partition: q.Partition,
			Name:      name,
		})
	}
	return matches, nil
}

// normalizeScore maps a Typesense text match into [0,1]. TextMatch is
// an opaque rank value saturating near the top of int64, so it is
// scaled against that ceiling; a rank-free constant keeps ordering
// intact when the field is absent.
func normalizeScore(hit api.SearchResultHit) float64 {
	if hit.TextMatch == nil || *hit.TextMatch <= 0 {
		return 0.5
	}
	const maxTextMatch = float64(^uint64(0) >> 1)
	score := float64(*hit.TextMatch) / maxTextMatch
	if score > 1 {
		score = 1
	}
	return score
}
