package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
	"github.com/tenderintel/backend/pkg/config"
	"github.com/tenderintel/backend/pkg/retry"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.Do(context.Background(), retry.DefaultConfig(), *observability.GetLogger(), "Typesense", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := client.Health(ctx, 2*time.Second)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	observability.GetLogger().Info().Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures both capability partition collections exist
func (c *Client) InitSchema(ctx context.Context) error {
	existing := map[string]bool{}
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}
	for _, col := range collections {
		existing[col.Name] = true
	}

	for _, schema := range partitionSchemas() {
		if existing[schema.Name] {
			continue
		}
		if _, err := c.client.Collections().Create(ctx, schema); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", schema.Name, err)
		}
		observability.GetLogger().Info().Str("collection", schema.Name).Msg("created Typesense collection")
	}
	return nil
}

// partitionSchemas returns one schema per capability partition. Both
// partitions share the same searchable surface: name, descriptive text
// and a tag list, scoped by owner.
func partitionSchemas() []*api.CollectionSchema {
	fields := []api.Field{
		{Name: "id", Type: "string"},
		{Name: "user_id", Type: "string", Facet: pointer.True()},
		{Name: "name", Type: "string"},
		{Name: "description", Type: "string"},
		{Name: "tags", Type: "string[]", Optional: pointer.True()},
		{Name: "created_at", Type: "int64"},
	}

	schemas := make([]*api.CollectionSchema, 0, 2)
	for _, name := range []string{entities.PartitionCompanies, entities.PartitionProducts} {
		schemas = append(schemas, &api.CollectionSchema{
			Name:                name,
			Fields:              fields,
			DefaultSortingField: pointer.String("created_at"),
		})
	}
	return schemas
}
