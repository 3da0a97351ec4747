package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// CapabilityAdapter implements CapabilityRepository over the companies
// and products tables.
type CapabilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCapabilityAdapter creates a new capability adapter
func NewCapabilityAdapter(client *postgres.Client) repositories.CapabilityRepository {
	return &CapabilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateCompany stores a company profile
func (a *CapabilityAdapter) CreateCompany(ctx context.Context, company *entities.Company) error {
	if company == nil {
		return apperrors.NewValidationError("company is required")
	}
	if company.ID == "" {
		company.ID = uuid.New().String()
	}

	record := goqu.Record{
		"id":             company.ID,
		"user_id":        company.UserID,
		"name":           company.Name,
		"description":    sql.NullString{String: company.Description, Valid: company.Description != ""},
		"capabilities":   pq.Array(company.Capabilities),
		"specifications": company.Specifications,
		"created_at":     company.CreatedAt,
		"updated_at":     company.UpdatedAt,
	}

	query, args, err := a.db.Insert("companies").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build company insert", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create company", err)
	}
	return nil
}

// CreateProduct stores a product profile
func (a *CapabilityAdapter) CreateProduct(ctx context.Context, product *entities.Product) error {
	if product == nil {
		return apperrors.NewValidationError("product is required")
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	record := goqu.Record{
		"id":             product.ID,
		"user_id":        product.UserID,
		"company_id":     sql.NullString{String: product.CompanyID, Valid: product.CompanyID != ""},
		"name":           product.Name,
		"description":    sql.NullString{String: product.Description, Valid: product.Description != ""},
		"features":       pq.Array(product.Features),
		"specifications": product.Specifications,
		"created_at":     product.CreatedAt,
		"updated_at":     product.UpdatedAt,
	}

	query, args, err := a.db.Insert("products").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build product insert", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create product", err)
	}
	return nil
}

// GetCompaniesByIDs retrieves company profiles by their IDs
func (a *CapabilityAdapter) GetCompaniesByIDs(ctx context.Context, ids []string) ([]*entities.Company, error) {
	if len(ids) == 0 {
		return []*entities.Company{}, nil
	}

	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "capabilities",
		"specifications", "created_at", "updated_at",
	).From("companies").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build companies query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get companies by ids", err)
	}
	defer rows.Close()

	var companies []*entities.Company
	for rows.Next() {
		company := &entities.Company{}
		var description sql.NullString

		err := rows.Scan(
			&company.ID,
			&company.UserID,
			&company.Name,
			&description,
			pq.Array(&company.Capabilities),
			&company.Specifications,
			&company.CreatedAt,
			&company.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan company", err)
		}

		company.Description = description.String
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// GetProductsByIDs retrieves product profiles by their IDs
func (a *CapabilityAdapter) GetProductsByIDs(ctx context.Context, ids []string) ([]*entities.Product, error) {
	if len(ids) == 0 {
		return []*entities.Product{}, nil
	}

	query, args, err := a.db.Select(
		"id", "user_id", "company_id", "name", "description", "features",
		"specifications", "created_at", "updated_at",
	).From("products").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build products query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get products by ids", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product := &entities.Product{}
		var companyID, description sql.NullString

		err := rows.Scan(
			&product.ID,
			&product.UserID,
			&companyID,
			&product.Name,
			&description,
			pq.Array(&product.Features),
			&product.Specifications,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}

		product.CompanyID = companyID.String
		product.Description = description.String
		products = append(products, product)
	}
	return products, rows.Err()
}
