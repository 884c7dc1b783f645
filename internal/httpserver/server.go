// internal/httpserver/server.go
//
// HTTP server wiring for the Codenames backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words", "/leaderboard".
//   - Channel endpoints under /channels/{channel}: snapshot, text board,
//     spymaster keycard, websocket feed, invite QR and the game commands.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Game commands require auth; the caller's user ID is their player ID.
//   - Finished games are written to the history store after the session lock
//     is released; failures are logged and never fail the move itself.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codenames/internal/events"
	"github.com/robalobadob/codenames/internal/history"
	"github.com/robalobadob/codenames/internal/store"
	"github.com/robalobadob/codenames/internal/words"
)

// Config holds the transport settings resolved at startup.
type Config struct {
	JWTSecret      string
	JWTExpiry      time.Duration
	ClientOrigin   string
	CookieName     string
	Production     bool
	RequestTimeout time.Duration
	RateRPS        int
	RateBurst      int
}

// DefaultConfig matches the values used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		JWTSecret:      "dev_secret_change_me",
		JWTExpiry:      14 * 24 * time.Hour,
		ClientOrigin:   "http://localhost:5173",
		CookieName:     "codenames_token",
		RequestTimeout: 10 * time.Second,
		RateRPS:        5,
		RateBurst:      10,
	}
}

// Server bundles router, session registry, word pool and DB-backed stores.
type Server struct {
	r       *chi.Mux
	cfg     Config
	store   store.Store
	db      *sql.DB
	pool    *words.Pool
	history *history.Store
	broker  *events.Broker
	limits  *limiter

	// lifecycle serializes session replacement (configure after game over, reset)
	// so two racing requests cannot both install a fresh session.
	lifecycle sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, st store.Store, db *sql.DB, pool *words.Pool) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		db:      db,
		pool:    pool,
		history: history.NewStore(db),
		limits:  newLimiter(cfg.RateRPS, cfg.RateBurst),
	}
	s.broker = events.NewBroker(s.allowOrigin)

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.corsFromConfig)

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"codenames-go","endpoints":["/health","/leaderboard","/channels/{channel}","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		// /debug/words?word=x also reports whether x can be dealt.
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			out := map[string]any{"words": s.pool.Len()}
			if q := r.URL.Query().Get("word"); q != "" {
				out["word"] = q
				out["known"] = s.pool.Contains(q)
			}
			_ = json.NewEncoder(w).Encode(out)
		})
		r.Get("/leaderboard", s.handleLeaderboard)

		// Auth + profile/stats (require auth)
		s.mountAuthRoutes(r)
	})

	s.mountChannels()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Reap drops sessions and rate-limit buckets idle for longer than idle,
// every idle/2 until ctx ends. Watchers of a reaped channel are disconnected.
func (s *Server) Reap(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(ctx, now.Add(-idle))
		}
	}
}

func (s *Server) sweep(ctx context.Context, cutoff time.Time) {
	for _, ch := range s.store.Sweep(ctx, cutoff) {
		s.broker.Close(ch)
		log.Info().Str("channel", ch).Msg("reaped idle session")
	}
	if n := s.limits.evict(cutoff); n > 0 {
		log.Debug().Int("clients", n).Msg("evicted idle rate limiters")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromConfig enables credentialed CORS for a single origin.
func (s *Server) corsFromConfig(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowOrigin gates websocket upgrades the same way CORS gates XHR.
// Requests without an Origin header (non-browser clients) are allowed.
func (s *Server) allowOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" || !s.cfg.Production {
		return true
	}
	return o == s.cfg.ClientOrigin
}
