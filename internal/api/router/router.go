package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/internal/classroom"
	"github.com/quickcare/quickcare-backend/internal/clinics"
	httpmiddleware "github.com/quickcare/quickcare-backend/internal/http/middleware"
	"github.com/quickcare/quickcare-backend/internal/negotiation"
	"github.com/quickcare/quickcare-backend/internal/realtime"
	"github.com/quickcare/quickcare-backend/internal/triage"
	"github.com/quickcare/quickcare-backend/internal/voice"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// aiEndpointRate limits requests hitting the metered completion providers.
const (
	aiEndpointRate  = 1.0
	aiEndpointBurst = 5
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AuthMiddleware     *auth.Middleware
	AuthHandler        *auth.Handler
	TriageHandler      *triage.Handler
	ClinicsHandler     *clinics.Handler
	NegotiationHandler *negotiation.Handler
	VoiceHandler       *voice.Handler
	BookingsHandler    *bookings.Handler
	RealtimeHandler    *realtime.Handler
	ClassroomHandler   *classroom.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
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

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AuthHandler != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			if cfg.AuthMiddleware != nil {
				r.With(cfg.AuthMiddleware.RequireUser).Get("/me", cfg.AuthHandler.Me)
			}
		})
	}

	// The booking flow works for guests; a token just attaches ownership.
	r.Group(func(flow chi.Router) {
		if cfg.AuthMiddleware != nil {
			flow.Use(cfg.AuthMiddleware.Optional)
		}

		if cfg.TriageHandler != nil {
			flow.With(httpmiddleware.RateLimit(aiEndpointRate, aiEndpointBurst)).
				Post("/api/triage", cfg.TriageHandler.Assess)
		}
		if cfg.ClinicsHandler != nil {
			flow.Route("/api/clinics", func(r chi.Router) {
				r.Get("/", cfg.ClinicsHandler.List)
				r.Get("/emergency", cfg.ClinicsHandler.ListEmergency)
				r.Post("/match", cfg.ClinicsHandler.Match)
			})
		}
		if cfg.NegotiationHandler != nil {
			flow.With(httpmiddleware.RateLimit(aiEndpointRate, aiEndpointBurst)).
				Post("/api/negotiations", cfg.NegotiationHandler.Start)
		}
		if cfg.VoiceHandler != nil {
			flow.With(httpmiddleware.RateLimit(aiEndpointRate, aiEndpointBurst)).
				Post("/api/calls", cfg.VoiceHandler.Start)
		}
		if cfg.BookingsHandler != nil {
			flow.Route("/api/bookings", func(r chi.Router) {
				r.Get("/", cfg.BookingsHandler.List)
				r.Get("/{id}", cfg.BookingsHandler.Get)
				r.Get("/{id}/log", cfg.BookingsHandler.GetLog)
				r.Patch("/{id}/queue", cfg.BookingsHandler.UpdateQueue)
			})
		}
		if cfg.RealtimeHandler != nil {
			flow.Get("/ws/bookings", cfg.RealtimeHandler.HandleWebSocket)
		}
	})

	if cfg.ClassroomHandler != nil {
		r.Route("/classroom", func(r chi.Router) {
			r.Get("/students", cfg.ClassroomHandler.ListStudents)
			r.Get("/students/{id}", cfg.ClassroomHandler.GetStudent)
			r.Get("/teachers", cfg.ClassroomHandler.ListTeachers)
			r.Get("/teachers/{id}", cfg.ClassroomHandler.GetTeacher)
			r.Get("/analytics/overview", cfg.ClassroomHandler.AnalyticsOverview)
		})
	}

	return r
}
