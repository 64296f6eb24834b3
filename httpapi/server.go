package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cyanbot/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

// Pinger reports whether storage is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// LeaderboardReader is the part of the ledger the status API reads
type LeaderboardReader interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server is the read-only status API
type Server struct {
	httpServer *http.Server
	db         Pinger
	ledger     LeaderboardReader
}

// NewServer builds the status API listening on addr
func NewServer(addr string, db Pinger, ledger LeaderboardReader) *Server {
	s := &Server{
		db:     db,
		ledger: ledger,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router returns the API routes
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(5 * time.Second))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response{Error: "Requested resource not found"})
	})

	router.Get("/health", s.health)
	router.Get("/leaderboard", s.leaderboard)

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		log.WithError(err).Warn("Health check failed")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response{Error: "database unavailable"})
		return
	}
	render.JSON(w, r, response{Success: true, Data: map[string]string{"status": "ok"}})
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response{Error: "limit must be an integer"})
			return
		}
		limit = parsed
	}

	entries, err := s.ledger.Leaderboard(r.Context(), limit)
	if err != nil {
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err,
		}).Error("Failed to load leaderboard")
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response{Error: "leaderboard unavailable"})
		return
	}

	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	render.JSON(w, r, response{Success: true, Data: entries})
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("Starting status API")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
