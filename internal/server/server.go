package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/omriShneor/quickcal/internal/extract"
	"github.com/omriShneor/quickcal/internal/gcal"
	"github.com/omriShneor/quickcal/internal/notify"
)

const defaultUpcomingDays = 7

// EventExtractor turns a description into a validated event.
type EventExtractor interface {
	Extract(ctx context.Context, description, timezone string) (*extract.Result, error)
}

// CalendarAuthorizer runs the consent flow and opens calendar sessions.
type CalendarAuthorizer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	Authorize(ctx context.Context) (*gcal.Session, error)
}

type Server struct {
	extractor     EventExtractor
	calendar      CalendarAuthorizer
	notifyService *notify.Service
	logger        *slog.Logger
	secretKey     []byte
	eventsFile    string
	upcomingDays  int
	secureCookies bool
	now           func() time.Time
	httpSrv       *http.Server
	port          int
}

// Config holds everything the server needs to handle requests
type Config struct {
	Extractor     EventExtractor
	Calendar      CalendarAuthorizer
	NotifyService *notify.Service
	Logger        *slog.Logger
	SecretKey     string
	// EventsFile receives a snapshot of every listing; empty disables it.
	EventsFile   string
	UpcomingDays int
	Port         int
	// SecureCookies marks cookies Secure, for deployments behind HTTPS.
	SecureCookies bool
	Now           func() time.Time
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	days := cfg.UpcomingDays
	if days <= 0 {
		days = defaultUpcomingDays
	}

	s := &Server{
		extractor:     cfg.Extractor,
		calendar:      cfg.Calendar,
		notifyService: cfg.NotifyService,
		logger:        logger,
		secretKey:     []byte(cfg.SecretKey),
		eventsFile:    cfg.EventsFile,
		upcomingDays:  days,
		secureCookies: cfg.SecureCookies,
		now:           now,
		port:          cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.logRequests(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Google consent flow
	mux.HandleFunc("GET /authorize", s.handleAuthorize)
	mux.HandleFunc("GET /oauth/callback", s.handleOAuthCallback)

	// Calendar-backed routes
	mux.HandleFunc("GET /events", s.requireCalendar(s.handleListEvents))
	mux.HandleFunc("GET /events.ics", s.requireCalendar(s.handleEventsICS))
	mux.HandleFunc("GET /create_event", s.requireCalendar(s.handleCreateEventForm))
	mux.HandleFunc("POST /create_event", s.requireCalendar(s.handleCreateEvent))
}

func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "url", fmt.Sprintf("http://localhost:%d", s.port))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs one line per request at debug level
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
