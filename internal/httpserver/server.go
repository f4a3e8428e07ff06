// internal/httpserver/server.go
//
// HTTP server wiring for the musical guessing game.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, logging, CORS).
//   - Public endpoints: "/" (browser client), "/health", "/qr", "/debug/songs".
//   - Game endpoints: POST /game/new, then token-guarded /game/{id}/*.
//   - WebSocket transport for the same actions at /game/{id}/ws.
//   - Idle game reaping.
//
// Notes:
//   - Every game action goes through store.Update, so two requests for one
//     game never interleave.
//   - The session token binds a browser to the game it created; it carries no
//     account and is never persisted.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/musicwordle/assets"
	"github.com/robalobadob/musicwordle/internal/songs"
	"github.com/robalobadob/musicwordle/internal/store"
)

// Options configures a Server.
type Options struct {
	Store        store.Store
	Songs        *songs.Catalog
	Secret       []byte        // HS256 key for session tokens
	TokenTTL     time.Duration // session token lifetime
	DailySalt    string        // salt for the song of the day
	ClientOrigin string        // extra origin allowed for CORS and WebSocket
	Secure       bool          // mark cookies Secure / SameSite=None
	Now          func() time.Time
}

// Server bundles router, session store and song catalog.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // one zerolog line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- browser client ---
	s.r.Handle("/*", http.FileServer(http.FS(assets.Web())))
	s.r.Get("/qr", s.handleQR)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/songs", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"songs": s.opts.Songs.Len()})
		})

		r.Post("/game/new", s.handleNewGame)
		r.Route("/game/{id}", func(r chi.Router) {
			r.Use(s.requireGameToken)
			r.Get("/", s.handleGetGame)
			r.Post("/key", s.handleKey)
			r.Post("/submit", s.actionHandler(actionSubmit))
			r.Post("/listen", s.actionHandler(actionListen))
			r.Post("/replay/{row}", s.handleReplay)
			r.Post("/dismiss", s.actionHandler(actionDismiss))
		})
	})

	// The WebSocket route stays outside the timeout/JSON group: the
	// connection outlives any single handler deadline.
	s.r.With(s.requireGameToken).Get("/game/{id}/ws", s.handleWS)

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	const timeout = 10 * time.Second
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: timeout,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Reap prunes games idle for longer than idle, checking every idle/2, until
// ctx is cancelled.
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
		case <-ticker.C:
			n, err := s.opts.Store.Prune(ctx, s.opts.Now().Add(-idle))
			if err != nil {
				log.Warn().Err(err).Msg("prune games")
				continue
			}
			if n > 0 {
				log.Info().Int("games", n).Msg("pruned idle games")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on API responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
// Same-origin requests (the embedded client) need no headers at all.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == s.opts.ClientOrigin {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("remote", r.RemoteAddr).
			Str("reqId", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
