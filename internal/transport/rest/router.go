package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"cothink/internal/cache"
	"cothink/internal/service"
	"cothink/internal/transport/rest/handler"
	"cothink/internal/transport/rest/middleware"
	"cothink/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	Recorder       *service.RecorderService
	SurveyRecorder *service.SurveyRecorderService
	Analyzer       *service.AnalyzerService
	Exporter       *service.ExportService
	Simulator      *service.SimulationService
	Summaries      cache.SummaryCache
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	recordHandler := handler.NewRecordHandler(c.Recorder, c.SurveyRecorder, c.Summaries)
	reportHandler := handler.NewReportHandler(c.Recorder, c.SurveyRecorder, c.Analyzer, c.Summaries)
	exportHandler := handler.NewExportHandler(c.Recorder, c.SurveyRecorder, c.Analyzer, c.Exporter, c.WSHub)
	simulateHandler := handler.NewSimulateHandler(c.Simulator, c.WSHub)
	wsHandler := ws.NewHandler(c.WSHub)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/interactions", recordHandler.PostInteraction).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys", recordHandler.PostSurvey).Methods("POST", "OPTIONS")
	v1.HandleFunc("/summary", reportHandler.GetSummary).Methods("GET", "OPTIONS")
	v1.HandleFunc("/report", reportHandler.GetReport).Methods("GET", "OPTIONS")

	// WebSocket live monitor
	v1.HandleFunc("/ws/monitor", wsHandler.MonitorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Researcher routes (require researcher auth)
	researcherRoutes := v1.NewRoute().Subrouter()
	researcherRoutes.Use(authMW.RequireResearcher)

	researcherRoutes.HandleFunc("/export", exportHandler.PostExport).Methods("POST", "OPTIONS")
	researcherRoutes.HandleFunc("/simulate", simulateHandler.PostSimulate).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
