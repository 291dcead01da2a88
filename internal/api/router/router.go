package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voxlane/voxlane-platform/internal/calls"
	httpmiddleware "github.com/voxlane/voxlane-platform/internal/http/middleware"
	"github.com/voxlane/voxlane-platform/internal/notify"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CallsHandler       *calls.Handler
	NoticesHandler     *notify.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// SubmitRate limits call submissions per IP; zero disables rate limiting.
	SubmitRate  float64
	SubmitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/calls", func(r chi.Router) {
		if cfg.SubmitRate > 0 {
			r.With(httpmiddleware.RateLimit(cfg.SubmitRate, cfg.SubmitBurst)).Post("/", cfg.CallsHandler.CreateCall)
		} else {
			r.Post("/", cfg.CallsHandler.CreateCall)
		}
		r.Get("/", cfg.CallsHandler.ListCalls)
		r.Get("/logs", cfg.CallsHandler.ListCallLogs)
		r.Delete("/{id}", cfg.CallsHandler.DeleteCall)
		r.Post("/{id}/complete", cfg.CallsHandler.CompleteCall)
		r.Get("/{id}/calendar.ics", cfg.CallsHandler.DownloadCalendar)
	})

	if cfg.NoticesHandler != nil {
		r.Get("/notices", cfg.NoticesHandler.ListNotices)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
