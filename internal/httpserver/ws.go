package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/musicwordle/internal/game"
	"github.com/robalobadob/musicwordle/internal/store"
)

const (
	wsReadLimit  = 4096
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsWriteWait  = 10 * time.Second
)

// wsUpdate is pushed after every accepted message.
type wsUpdate struct {
	Type    string        `json:"type"` // "update"
	View    game.View     `json:"view"`
	Effects []game.Effect `json:"effects"`
}

// wsError is sent to the client for malformed or rejected messages.
type wsError struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// checkOrigin allows same-host pages and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if origin == s.opts.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// handleWS upgrades the connection and serves one game on it. The first
// message pushed is the current view; after that every client message gets
// exactly one reply.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.opts.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// the read loop below owns all writes except pings, which go through
	// WriteControl and are safe to send concurrently
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	if err := s.wsSend(conn, wsUpdate{Type: "update", View: g.State.View(), Effects: []game.Effect{}}); err != nil {
		return
	}

	log.Debug().Str("gameId", id).Msg("websocket connected")
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("gameId", id).Msg("websocket closed")
			}
			return
		}

		var a action
		if err := json.Unmarshal(raw, &a); err != nil {
			if err := s.wsSend(conn, wsError{Type: "error", Message: "bad_json"}); err != nil {
				return
			}
			continue
		}

		res, err := s.apply(r.Context(), id, a)
		switch {
		case errors.Is(err, errUnknownAction):
			err = s.wsSend(conn, wsError{Type: "error", Message: "unknown_action"})
		case errors.Is(err, store.ErrNotFound):
			_ = s.wsSend(conn, wsError{Type: "error", Message: "not_found"})
			return
		case err != nil:
			log.Error().Err(err).Str("gameId", id).Msg("websocket action")
			_ = s.wsSend(conn, wsError{Type: "error", Message: "update_failed"})
			return
		default:
			err = s.wsSend(conn, wsUpdate{Type: "update", View: res.View, Effects: res.Effects})
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) wsSend(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(v)
}
