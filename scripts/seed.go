package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tenderintel/backend/internal/adapters/database"
	"github.com/tenderintel/backend/internal/adapters/search"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	"github.com/tenderintel/backend/internal/infrastructure/clients/typesense"
	"github.com/tenderintel/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init Typesense schema: %v", err)
		}
	} else {
		log.Printf("Typesense unavailable, seeding Postgres only: %v", err)
	}

	tenderRepo := database.NewTenderAdapter(pgClient)
	capabilityRepo := database.NewCapabilityAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				tender_questions,
				tender_analyses,
				products,
				companies,
				tenders
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	userID := os.Getenv("SEED_USER_ID")
	if userID == "" {
		userID = uuid.New().String()
	}
	log.Printf("Seeding data for user %s", userID)

	now := time.Now()

	// 1. Seed companies
	companies := []entities.Company{
		{
			ID:           uuid.New().String(),
			UserID:       userID,
			Name:         "Nordvik Infrastructure AS",
			Description:  "Civil engineering contractor specializing in road and bridge construction across the Nordics",
			Capabilities: []string{"road construction", "bridge engineering", "asphalt paving", "winter maintenance"},
			Specifications: entities.JSONMap{
				"employees":      240,
				"iso_certified":  true,
				"annual_revenue": "45M EUR",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:           uuid.New().String(),
			UserID:       userID,
			Name:         "Fjord Digital Systems",
			Description:  "Software house delivering case management and document archival platforms for the public sector",
			Capabilities: []string{"case management systems", "document archival", "GDPR compliance tooling", "systems integration"},
			Specifications: entities.JSONMap{
				"employees":     85,
				"iso_certified": true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for i := range companies {
		c := &companies[i]
		if err := capabilityRepo.CreateCompany(ctx, c); err != nil {
			log.Printf("Failed to create company %s: %v", c.Name, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.IndexCompany(ctx, c); err != nil {
				log.Printf("Failed to index company %s: %v", c.Name, err)
			}
		}
	}

	// 2. Seed products
	products := []entities.Product{
		{
			ID:          uuid.New().String(),
			UserID:      userID,
			CompanyID:   companies[1].ID,
			Name:        "ArchiveFlow",
			Description: "Records management platform with full-text search and Noark 5 compliant export",
			Features:    []string{"full-text search", "Noark 5 export", "role based access", "audit trail"},
			Specifications: entities.JSONMap{
				"deployment": "on-premise or cloud",
				"sla":        "99.9%",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          uuid.New().String(),
			UserID:      userID,
			CompanyID:   companies[0].ID,
			Name:        "ThermoPave X2",
			Description: "Low-temperature asphalt mix rated for heavy traffic and sub-zero application",
			Features:    []string{"sub-zero application", "heavy traffic rating", "reduced CO2 footprint"},
			Specifications: entities.JSONMap{
				"min_temp_c": -15,
				"en_standard": "EN 13108",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for i := range products {
		p := &products[i]
		if err := capabilityRepo.CreateProduct(ctx, p); err != nil {
			log.Printf("Failed to create product %s: %v", p.Name, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.IndexProduct(ctx, p); err != nil {
				log.Printf("Failed to index product %s: %v", p.Name, err)
			}
		}
	}

	// 3. Seed tenders
	tenders := []entities.Tender{
		{
			ID:            uuid.New().String(),
			UserID:        userID,
			Title:         "Framework agreement for municipal road maintenance 2027-2030",
			Description:   "Resurfacing, pothole repair and winter maintenance of approximately 320 km of municipal roads",
			Categories:    []string{"construction", "road maintenance"},
			Jurisdictions: []string{"NO"},
			Requirements: entities.JSONMap{
				"certifications": []interface{}{"ISO 9001", "ISO 14001"},
				"min_experience": "3 comparable contracts in the last 5 years",
			},
			Specifications: entities.JSONMap{
				"road_length_km": 320,
				"response_time":  "pothole repair within 48 hours",
			},
			EvaluationCriteria: entities.JSONMap{
				"price":       0.6,
				"quality":     0.3,
				"environment": 0.1,
			},
			Deadlines: entities.JSONMap{
				"questions":  "2027-01-15",
				"submission": "2027-02-01T12:00:00Z",
			},
			Budget: entities.JSONMap{
				"estimated_value": "12M EUR",
				"currency":        "EUR",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:            uuid.New().String(),
			UserID:        userID,
			Title:         "Procurement of digital archive solution for county administration",
			Description:   "Replacement of legacy records system with a Noark 5 compliant archive covering 1200 users",
			Categories:    []string{"IT", "software"},
			Jurisdictions: []string{"NO", "SE"},
			Requirements: entities.JSONMap{
				"compliance": []interface{}{"Noark 5", "GDPR"},
				"users":      1200,
			},
			Specifications: entities.JSONMap{
				"migration":    "full migration of 2.4M records",
				"availability": "99.5% measured monthly",
			},
			EvaluationCriteria: entities.JSONMap{
				"price":   0.4,
				"quality": 0.6,
			},
			Deadlines: entities.JSONMap{
				"submission": "2027-03-10T12:00:00Z",
			},
			Budget: entities.JSONMap{
				"estimated_value": "2.8M EUR",
				"currency":        "EUR",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for i := range tenders {
		t := &tenders[i]
		if err := tenderRepo.Create(ctx, t); err != nil {
			log.Printf("Failed to create tender %s: %v", t.Title, err)
		}
	}

	log.Printf("Seeding complete: %d companies, %d products, %d tenders", len(companies), len(products), len(tenders))
}
