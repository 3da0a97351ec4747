package routes

import (
	"net/http"

	"github.com/tenderintel/backend/internal/api/handlers"
	"github.com/tenderintel/backend/internal/api/middleware"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	tenderHandler     *handlers.TenderHandler
	capabilityHandler *handlers.CapabilityHandler
	analysisHandler   *handlers.AnalysisHandler
	questionHandler   *handlers.QuestionHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	tenderHandler *handlers.TenderHandler,
	capabilityHandler *handlers.CapabilityHandler,
	analysisHandler *handlers.AnalysisHandler,
	questionHandler *handlers.QuestionHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		tenderHandler:     tenderHandler,
		capabilityHandler: capabilityHandler,
		analysisHandler:   analysisHandler,
		questionHandler:   questionHandler,
		metrics:           metrics,
	}
}

// Setup registers all routes and wraps the mux in middleware
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.mux.HandleFunc("GET /api/tenders", r.tenderHandler.ListTenders)
	r.mux.HandleFunc("POST /api/tenders", r.tenderHandler.CreateTender)
	r.mux.HandleFunc("GET /api/tenders/{id}", r.tenderHandler.GetTender)

	r.mux.HandleFunc("POST /api/companies", r.capabilityHandler.CreateCompany)
	r.mux.HandleFunc("POST /api/products", r.capabilityHandler.CreateProduct)

	r.mux.HandleFunc("POST /api/tenders/{id}/analysis", r.analysisHandler.AnalyzeTender)
	r.mux.HandleFunc("POST /api/tenders/{id}/questions", r.questionHandler.GenerateQuestions)
	r.mux.HandleFunc("GET /api/tenders/{id}/questions", r.questionHandler.ListQuestions)

	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)
	return handler
}
