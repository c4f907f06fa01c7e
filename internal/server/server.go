package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/salonatlas/salon-service/internal/config"
	"github.com/salonatlas/salon-service/internal/dataloader"
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/logger"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/internal/search/suggest"
	"github.com/salonatlas/salon-service/pkg/consistency"
	"github.com/salonatlas/salon-service/pkg/metrics"
)

const serviceName = "salon-service"

// SnapshotProvider hands out the current serving snapshot.
type SnapshotProvider interface {
	Snapshot() *dataloader.Snapshot
	Stats() dataloader.LoadStats
}

// Server is the public HTTP API. Reads are served from the in-memory
// snapshot; writes go to the store and become visible on the next reload.
type Server struct {
	cfg       config.ServerConfig
	log       logger.Logger
	store     db.Store
	snapshots SnapshotProvider
	searcher  *search.Engine
	suggester *suggest.Engine
	manager   *consistency.Manager
	validate  *validator.Validate
	adminTok  string

	server *http.Server
}

// New wires the API server. manager may be nil; the sync admin endpoints
// then report 503.
func New(
	cfg config.ServerConfig,
	log logger.Logger,
	store db.Store,
	snapshots SnapshotProvider,
	searcher *search.Engine,
	suggester *suggest.Engine,
	manager *consistency.Manager,
	adminToken string,
) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		store:     store,
		snapshots: snapshots,
		searcher:  searcher,
		suggester: suggester,
		manager:   manager,
		validate:  validator.New(),
		adminTok:  adminToken,
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware(serviceName))
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit, s.cfg.RatePeriod))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/salons", s.handleListSalons)
		r.Get("/salons/{id}", s.handleGetSalon)
		r.Get("/salons/{id}/reviews", s.handleListReviews)
		r.Post("/salons/{id}/reviews", s.handleCreateReview)

		r.Get("/categories", s.handleListCategories)
		r.Get("/cities", s.handleListCities)
		r.Get("/suggestions", s.handleSuggestions)

		r.Post("/appointments", s.handleCreateAppointment)
		r.Get("/appointments/{code}", s.handleGetAppointment)
		r.Post("/appointments/{code}/cancel", s.handleCancelAppointment)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminOnly)

			r.Get("/salons", s.handleAdminListSalons)
			r.Post("/salons", s.handleAdminCreateSalon)
			r.Put("/salons/{id}", s.handleAdminUpdateSalon)
			r.Delete("/salons/{id}", s.handleAdminDeleteSalon)
			r.Post("/salons/{id}/position", s.handleAdminSetPosition)
			r.Post("/salons/{id}/geocode", s.handleAdminGeocode)
			r.Get("/salons/{id}/appointments", s.handleAdminListAppointments)

			r.Post("/categories", s.handleAdminCreateCategory)
			r.Put("/categories/{id}", s.handleAdminUpdateCategory)
			r.Delete("/categories/{id}", s.handleAdminDeleteCategory)

			r.Get("/services", s.handleAdminListServices)
			r.Post("/services", s.handleAdminCreateService)
			r.Delete("/services/{id}", s.handleAdminDeleteService)
			r.Post("/salons/{id}/services/{serviceID}", s.handleAdminAssignService)
			r.Delete("/salons/{id}/services/{serviceID}", s.handleAdminUnassignService)

			r.Get("/sync/status", s.handleAdminSyncStatus)
			r.Post("/sync/repair", s.handleAdminSyncRepair)
		})
	})

	return r
}

// requestLogger logs one line per request at debug level with the request
// id, so traffic doesn't drown the info log.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug("request handled",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// Start runs the API server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("starting api server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server error: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}
