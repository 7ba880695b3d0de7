// Package server hosts the almanac HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/louisbranch/almanac/internal/auth"
	"github.com/louisbranch/almanac/internal/platform/config"
	"github.com/louisbranch/almanac/internal/platform/id"
	"github.com/louisbranch/almanac/internal/storage"
)

// Config holds the HTTP server settings.
type Config struct {
	HTTPAddr string `env:"ALMANAC_HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"ALMANAC_DB_PATH" envDefault:"data/almanac.db"`

	// LegacyEventMutation restores the historical behavior where any
	// authenticated caller could update or delete any event by id. The
	// default enforces caller-is-owner, matching the calendar policy.
	LegacyEventMutation bool `env:"ALMANAC_LEGACY_EVENT_MUTATION" envDefault:"false"`
}

// LoadConfigFromEnv reads server configuration from the environment.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load server config: %w", err)
	}
	return cfg, nil
}

// Server hosts the almanac REST API over an injected persistence handle.
type Server struct {
	cfg       Config
	tokens    auth.TokenConfig
	users     storage.UserStore
	calendars storage.CalendarStore
	events    storage.EventStore
	clock     func() time.Time
	newID     func() (string, error)
}

// New builds a server bound to token config and backing stores.
func New(cfg Config, tokens auth.TokenConfig, users storage.UserStore, calendars storage.CalendarStore, events storage.EventStore) (*Server, error) {
	if users == nil || calendars == nil || events == nil {
		return nil, errors.New("all stores are required")
	}
	clock := tokens.Now
	if clock == nil {
		clock = time.Now
	}
	return &Server{
		cfg:       cfg,
		tokens:    tokens,
		users:     users,
		calendars: calendars,
		events:    events,
		clock:     clock,
		newID:     id.NewID,
	}, nil
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return mux
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodPost+" /auth/register", s.handleRegister)
	mux.HandleFunc(http.MethodPost+" /auth/login", s.handleLogin)
	mux.HandleFunc(http.MethodGet+" /auth/validateToken", s.handleValidateToken)

	mux.HandleFunc(http.MethodPost+" /calendars", s.requireAuth(s.handleCreateCalendar))
	mux.HandleFunc(http.MethodGet+" /calendars", s.requireAuth(s.handleListCalendars))
	mux.HandleFunc(http.MethodGet+" /calendars/{id}", s.requireAuth(s.handleGetCalendar))
	mux.HandleFunc(http.MethodPut+" /calendars/{id}", s.requireAuth(s.handleUpdateCalendar))
	mux.HandleFunc(http.MethodDelete+" /calendars/{id}", s.requireAuth(s.handleDeleteCalendar))
	mux.HandleFunc(http.MethodPost+" /calendars/{id}/share", s.requireAuth(s.handleShareCalendar))
	mux.HandleFunc(http.MethodPost+" /calendars/{id}/unshare", s.requireAuth(s.handleUnshareCalendar))
	mux.HandleFunc(http.MethodGet+" /calendars/{id}/export", s.requireAuth(s.handleExportCalendar))

	mux.HandleFunc(http.MethodPost+" /events", s.requireAuth(s.handleCreateEvent))
	mux.HandleFunc(http.MethodGet+" /events", s.requireAuth(s.handleListEvents))
	mux.HandleFunc(http.MethodGet+" /events/month/{year}/{month}", s.requireAuth(s.handleListEventsByMonth))
	mux.HandleFunc(http.MethodGet+" /events/{id}/occurrences", s.requireAuth(s.handleEventOccurrences))
	mux.HandleFunc(http.MethodPut+" /events/{id}", s.requireAuth(s.handleUpdateEvent))
	mux.HandleFunc(http.MethodDelete+" /events/{id}", s.requireAuth(s.handleDeleteEvent))

	mux.HandleFunc(http.MethodGet+" /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// Serve starts the HTTP server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	listener, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.HTTPAddr, err)
	}

	httpServer := &http.Server{Handler: s.Handler()}
	log.Printf("almanac server listening at %v", listener.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}
