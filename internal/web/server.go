// Package web serves the dashboard pages and their JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/ports"
	pages "github.com/emiliopalmerini/crodash/internal/shared/middleware"
)

// Deps are the collaborators of a Server. Runs is optional.
type Deps struct {
	Catalog      *Catalog
	Runs         ports.SyncRunRepository
	MissingDates domain.MissingDatePolicy
	Now          func() time.Time
	Logger       *zap.Logger
}

type Server struct {
	catalog *Catalog
	runs    ports.SyncRunRepository
	missing domain.MissingDatePolicy
	now     func() time.Time
	log     *zap.Logger
	router  chi.Router
}

func NewServer(d Deps) *Server {
	s := &Server{
		catalog: d.Catalog,
		runs:    d.Runs,
		missing: d.MissingDates,
		now:     d.Now,
		log:     d.Logger,
		router:  chi.NewRouter(),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(pages.HTMX)
		r.Get("/", s.handleOverview)
		r.Get("/repository", s.handleRepository)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/experiments", s.handleAPIExperiments)
		r.Get("/options", s.handleAPIOptions)
		r.Get("/overview", s.handleAPIOverview)
		r.Get("/planning", s.handleAPIPlanning)
		r.Get("/markets", s.handleAPIMarkets)
		r.Get("/map", s.handleAPIMap)
		r.Get("/timeline", s.handleAPITimeline)
		r.Get("/quality", s.handleAPIQuality)
		r.Get("/sync/latest", s.handleAPISyncLatest)
		r.Post("/refresh", s.handleAPIRefresh)
	})
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info("starting server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errCh <- server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
