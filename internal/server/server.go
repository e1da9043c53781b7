// Package server wires handlers, middleware, and routes together. It is
// the composition root: every dependency chain (DB → service → handler)
// is assembled in New, and nothing below this layer knows about any
// concrete sibling.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bandhub/backstage/internal/auth"
	"github.com/bandhub/backstage/internal/config"
	"github.com/bandhub/backstage/internal/handler"
	"github.com/bandhub/backstage/internal/middleware"
	sqliteRepo "github.com/bandhub/backstage/internal/repository/sqlite"
	"github.com/bandhub/backstage/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph from the given config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	sessions, err := auth.NewSessions(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}

	provider := auth.NewProvider(
		s.config.OAuth.ClientID,
		s.config.OAuth.ClientSecret,
		s.config.OAuth.AuthURL,
		s.config.OAuth.TokenURL,
		s.config.OAuth.CallbackURL,
	)

	// Global middleware, in order: request id, real ip, panic recovery,
	// request logging, CORS. CORS runs on every response including
	// preflight OPTIONS and errors.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.CORSOrigin))

	s.router.NotFound(handler.NotFound)

	// Services.
	venueSvc := service.NewVenueService(s.db, s.logger)
	artistSvc := service.NewArtistService(s.db, s.db, s.logger)
	songSvc := service.NewSongService(s.db, s.logger)
	issueSvc := service.NewIssueService(s.db, s.logger)
	membershipSvc := service.NewMembershipService(s.db, s.db, s.logger)
	userSvc := service.NewUserService(s.db, s.logger)
	authSvc := service.NewAuthService(provider, sessions, s.db, s.db, s.logger)

	// Handlers.
	venueHandler := handler.NewVenueHandler(venueSvc, s.logger)
	artistHandler := handler.NewArtistHandler(artistSvc, s.logger)
	songHandler := handler.NewSongHandler(songSvc, s.logger)
	issueHandler := handler.NewIssueHandler(issueSvc, s.logger)
	membershipHandler := handler.NewMembershipHandler(membershipSvc, s.logger)
	userHandler := handler.NewUserHandler(userSvc, s.logger)
	authHandler := handler.NewAuthHandler(
		authSvc,
		s.config.AppURL,
		s.config.LoginURL,
		s.config.CookieDomain,
		s.config.SecureCookies,
		s.logger,
	)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Browser-facing login flow; no session required.
	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.HandleLogin)
		r.Get("/callback", authHandler.HandleCallback)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// Everything under /api requires a valid session.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))

		r.Get("/me", userHandler.HandleMe)
		r.Put("/me", userHandler.HandleUpdateMe)
		r.Get("/users/{id}", userHandler.HandleGetByID)

		r.Get("/venues", venueHandler.HandleList)
		r.Get("/venues/{id}", venueHandler.HandleGetByID)
		r.Post("/venues", venueHandler.HandleCreate)
		r.Put("/venues/{id}", venueHandler.HandleUpdate)
		r.Delete("/venues/{id}", venueHandler.HandleDelete)

		r.Get("/artists", artistHandler.HandleList)
		r.Get("/artists/{id}", artistHandler.HandleGetByID)
		r.Post("/artists", artistHandler.HandleCreate)
		r.Put("/artists/{id}", artistHandler.HandleUpdate)
		r.Delete("/artists/{id}", artistHandler.HandleDelete)

		r.Get("/songs", songHandler.HandleList)
		r.Get("/songs/{id}", songHandler.HandleGetByID)
		r.Post("/songs", songHandler.HandleCreate)
		r.Put("/songs/{id}", songHandler.HandleUpdate)
		r.Delete("/songs/{id}", songHandler.HandleDelete)

		r.Get("/issues", issueHandler.HandleList)
		r.Get("/issues/{id}", issueHandler.HandleGetByID)
		r.Post("/issues", issueHandler.HandleCreate)
		r.Post("/issues/batch", issueHandler.HandleBatchUpdate)
		r.Put("/issues/{id}", issueHandler.HandleUpdate)
		r.Delete("/issues/{id}", issueHandler.HandleDelete)

		r.Get("/memberships", membershipHandler.HandleList)
		r.Get("/memberships/{id}", membershipHandler.HandleGetByID)
		r.Post("/memberships", membershipHandler.HandleCreate)
		r.Put("/memberships/{id}", membershipHandler.HandleUpdate)
		r.Delete("/memberships/{id}", membershipHandler.HandleDelete)

		// Advertised but not built yet.
		r.Get("/search", handler.NotImplemented)
		r.Get("/activity", handler.NotImplemented)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, and
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
