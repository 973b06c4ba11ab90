// Package server exposes registry audits over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// DefaultMaxUploadBytes caps the size of an uploaded table.
const DefaultMaxUploadBytes = 64 << 20

// EventRulesReloaded is sent to /events subscribers after the catalog is reloaded.
const EventRulesReloaded = "rules-reloaded"

// Config holds server configuration.
type Config struct {
	Addr string
	// LoadCatalog builds the rule catalog. It is called again when a script
	// in WatchDir changes.
	LoadCatalog func() (*audit.Catalog, error)
	// RuleConfig is applied when binding rules to uploaded tables.
	RuleConfig *audit.Config
	// WatchDir is the rules directory to watch. Empty disables watching.
	WatchDir       string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server serves the audit API.
type Server struct {
	addr           string
	loadCatalog    func() (*audit.Catalog, error)
	ruleConfig     *audit.Config
	watchDir       string
	maxUploadBytes int64
	logger         *slog.Logger
	notifier       *notifier

	mu      sync.RWMutex
	catalog *audit.Catalog
}

// New creates a server and loads the catalog once.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.LoadCatalog == nil {
		return nil, errors.New("server: LoadCatalog is required")
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		addr:           cfg.Addr,
		loadCatalog:    cfg.LoadCatalog,
		ruleConfig:     cfg.RuleConfig,
		watchDir:       cfg.WatchDir,
		maxUploadBytes: maxBytes,
		logger:         logger,
		notifier:       newNotifier(),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Catalog returns the current catalog.
func (s *Server) Catalog() *audit.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *Server) reload() error {
	c, err := s.loadCatalog()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	s.logger.Debug("catalog loaded", "rules", c.Count())
	return nil
}

// Handler returns the router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/rules", s.handleRules)
	r.Get("/rules/{id}", s.handleRule)
	r.Post("/audit", s.handleAudit)
	r.Get("/events", s.handleEvents)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting audit server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watchDir != "" {
		eg.Go(func() error {
			return s.watchRules(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down audit server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchRules reloads the catalog when a script in the rules directory changes.
func (s *Server) watchRules(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.watchDir); err != nil {
		// Don't fail - continue without watching
		s.logger.Warn("failed to watch rules directory", "dir", s.watchDir, "error", err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".star" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("rule script changed, reloading", "file", event.Name)
				if err := s.reload(); err != nil {
					// keep serving the previous catalog
					s.logger.Error("reload failed", "error", err)
					return
				}
				s.notifier.Broadcast(EventRulesReloaded)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
