// Package web serves the tracker's JSON API and the websocket refresh
// feed. Rendering is left to the static frontend, which reads the same
// payloads from the render directory or from this API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prolifichq/prolific/internal/adapters/otel"
	"github.com/prolifichq/prolific/internal/config"
	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/importer"
)

// Exporter assembles day payloads and maintains the render directory.
type Exporter interface {
	BuildPayload(ctx context.Context, dayT0 int64) (domain.DayPayload, error)
	DayIndex(ctx context.Context) ([]domain.DayLog, error)
	WriteDay(ctx context.Context, dayT0 int64) error
	WriteAll(ctx context.Context) ([]domain.DayLog, error)
}

// NoteWriter records user notes.
type NoteWriter interface {
	InsertNote(ctx context.Context, t int64, text string) (string, error)
}

// CoffeeLogger records coffee cups, enforcing the daily cap.
type CoffeeLogger interface {
	Add(ctx context.Context, t int64, mg int) error
}

// BlogWriter stores the per-day post.
type BlogWriter interface {
	Upsert(ctx context.Context, dayT0 int64, post string) error
}

// SleepSettings reads and stores the target sleep time.
type SleepSettings interface {
	SleepClock(ctx context.Context) (string, error)
	SetSleepClock(ctx context.Context, clock string) error
}

// Refresher replays changed legacy log files into the database.
type Refresher interface {
	Run(ctx context.Context, force bool) (importer.Summary, error)
}

type Server struct {
	router    *http.ServeMux
	port      int
	exporter  Exporter
	notes     NoteWriter
	coffee    CoffeeLogger
	blog      BlogWriter
	settings  SleepSettings
	refresher Refresher
	rules     *config.Rules
	hub       *Hub
	metrics   otel.Recorder
	loc       *time.Location
	now       func() int64
}

func NewServer(
	port int,
	exporter Exporter,
	notes NoteWriter,
	coffee CoffeeLogger,
	blog BlogWriter,
	settings SleepSettings,
	refresher Refresher,
	rules *config.Rules,
	hub *Hub,
	metrics otel.Recorder,
	loc *time.Location,
) *Server {
	if loc == nil {
		loc = time.Local
	}
	if metrics == nil {
		metrics = otel.NewNoOpRecorder()
	}
	s := &Server{
		router:    http.NewServeMux(),
		port:      port,
		exporter:  exporter,
		notes:     notes,
		coffee:    coffee,
		blog:      blog,
		settings:  settings,
		refresher: refresher,
		rules:     rules,
		hub:       hub,
		metrics:   metrics,
		loc:       loc,
		now:       func() int64 { return time.Now().Unix() },
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.instrument("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	// Day index and payloads
	s.router.HandleFunc("GET /export_list.json", s.instrument("/export_list.json", s.handleDayIndex))
	s.router.HandleFunc("GET /api/days", s.instrument("/api/days", s.handleDayIndex))
	s.router.HandleFunc("GET /api/days/{t0}", s.instrument("/api/days/{t0}", s.handleDayPayload))
	s.router.HandleFunc("GET /api/days/{t0}/analytics", s.instrument("/api/days/{t0}/analytics", s.handleDayAnalytics))

	// Legacy write endpoints (frontend contract: plain-text replies)
	s.router.HandleFunc("POST /addnote", s.instrument("/addnote", s.handleAddNote))
	s.router.HandleFunc("POST /addcoffee", s.instrument("/addcoffee", s.handleAddCoffee))
	s.router.HandleFunc("POST /blog", s.instrument("/blog", s.handleBlog))
	s.router.HandleFunc("POST /refresh", s.instrument("/refresh", s.handleRefresh))

	s.router.HandleFunc("POST /api/settings/sleep", s.instrument("/api/settings/sleep", s.handleSetSleep))

	if s.hub != nil {
		s.router.Handle("GET /ws", s.hub)
	}
}

// statusWriter captures the response code for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		s.metrics.HTTPRequest(r.Context(), route, sw.status)
	}
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Serving Prolific at http://localhost:%d\n", s.port)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}
