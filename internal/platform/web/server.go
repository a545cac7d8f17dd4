// Package web serves the spectator API: live game sessions, score tables
// and a WebSocket stream of each session's events.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-2048/internal/broadcast"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// Server bundles the router with the hub and score store it reads from.
type Server struct {
	r      *chi.Mux
	hub    *broadcast.Hub
	store  *storage.Store
	logger *log.Logger
}

// New constructs a Server and registers its routes. store may be nil, in
// which case score endpoints answer 503.
func New(hub *broadcast.Hub, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{r: chi.NewRouter(), hub: hub, store: store, logger: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.requestLogger)

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/games", s.handleGames)
		r.Get("/sessions", s.handleSessions)
		r.Get("/sessions/{session}", s.handleSession)
		r.Get("/scores/{gameID}", s.handleScores)
	})

	// No timeout here: the connection lives as long as the game.
	s.r.Get("/ws/{session}", s.handleWS)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Router exposes the router, for tests and embedding.
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request with charmbracelet/log.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, registry.List())
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Topics())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	info, ok := s.hub.Topic(chi.URLParam(r, "session"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_session")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type scoresResponse struct {
	GameID string               `json:"game_id"`
	Best   int                  `json:"best"`
	Scores []storage.ScoreEntry `json:"scores"`
	Stats  *storage.GameStats   `json:"stats,omitempty"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if !registry.Exists(gameID) {
		writeError(w, http.StatusNotFound, "unknown_game")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no_store")
		return
	}

	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	scores, err := s.store.TopScores(gameID, limit)
	if err != nil {
		s.logger.Error("top scores", "game", gameID, "err", err)
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	resp := scoresResponse{GameID: gameID, Scores: scores}
	if stats, err := s.store.GetGameStats(gameID); err == nil {
		resp.Stats = stats
		resp.Best = stats.HighScore
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
