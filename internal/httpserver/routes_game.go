// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST /game/new               → pick an answer, create the game, issue a token
//   - GET  /game/{id}              → current view
//   - POST /game/{id}/key          → one keystroke
//   - POST /game/{id}/submit       → submit the current row
//   - POST /game/{id}/listen       → play the hidden tune
//   - POST /game/{id}/replay/{row} → play an entered row
//   - POST /game/{id}/dismiss      → dismiss the end-of-game notice
//
// Every action answers with the new view plus the effects the client should run.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/musicwordle/internal/daily"
	"github.com/robalobadob/musicwordle/internal/game"
	"github.com/robalobadob/musicwordle/internal/songs"
	"github.com/robalobadob/musicwordle/internal/store"
)

// actionType names a board transition a client can request.
type actionType string

const (
	actionKey     actionType = "key"
	actionSubmit  actionType = "submit"
	actionListen  actionType = "listen"
	actionReplay  actionType = "replay"
	actionDismiss actionType = "dismiss"
)

// action is the transport-neutral form of a client request; the WebSocket
// transport decodes straight into it.
type action struct {
	Type actionType `json:"type"`
	Key  string     `json:"key,omitempty"`
	Row  int        `json:"row,omitempty"`
}

// errUnknownAction is returned by run for unsupported action types.
var errUnknownAction = errors.New("unknown action")

// run applies a to g and returns the effects to hand to the client.
func (a action) run(g *game.Game) ([]game.Effect, error) {
	var (
		next    game.State
		effects []game.Effect
	)
	switch a.Type {
	case actionKey:
		next, effects = g.State.Press(a.Key)
	case actionSubmit:
		next, effects = g.State.Submit()
	case actionListen:
		next, effects = g.State.Listen()
	case actionReplay:
		next, effects = g.State.Replay(a.Row)
	case actionDismiss:
		next, effects = g.State.Dismiss()
	default:
		return nil, errUnknownAction
	}
	g.Apply(next)
	if effects == nil {
		effects = []game.Effect{}
	}
	return effects, nil
}

// ------------------------------ payloads -----------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
	Song string `json:"song"` // optional fixed song by name (testing, new tunes)
}
type newGameRes struct {
	GameID string    `json:"gameId"`
	Token  string    `json:"token"`
	Mode   string    `json:"mode"`
	View   game.View `json:"view"`
}

// keyReq is the body of POST /game/{id}/key.
type keyReq struct {
	Key string `json:"key"`
}

// actionRes is returned by every action endpoint.
type actionRes struct {
	View    game.View     `json:"view"`
	Effects []game.Effect `json:"effects"`
}

// ------------------------------ handlers -----------------------------------

// handleNewGame picks the answer according to the request and stores a new game.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body means "random"
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	answer, mode, err := s.pickAnswer(req)
	if err != nil {
		if errors.Is(err, songs.ErrUnknownSong) {
			writeError(w, http.StatusNotFound, "unknown_song")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := game.NewGame(mode, answer)
	if err := s.opts.Store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signToken(g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)

	log.Info().Str("gameId", g.ID).Str("mode", mode).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Token: tok, Mode: mode, View: g.State.View()})
}

// pickAnswer resolves the answer provider for a new game.
func (s *Server) pickAnswer(req newGameReq) (game.Answer, string, error) {
	if name := strings.TrimSpace(req.Song); name != "" {
		a, err := s.opts.Songs.ByName(name)
		return a, "fixed", err
	}
	switch req.Mode {
	case "", "random":
		return s.opts.Songs.Random(), "random", nil
	case "daily":
		idx := daily.SongIndex(s.opts.Now(), s.opts.DailySalt, s.opts.Songs.Len())
		return s.opts.Songs.At(idx), "daily", nil
	default:
		return game.Answer{}, "", errors.New("unknown_mode")
	}
}

// handleGetGame returns the current view.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionRes{View: g.State.View(), Effects: []game.Effect{}})
}

// handleKey decodes a keystroke and applies it.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.serveAction(w, r, action{Type: actionKey, Key: req.Key})
}

// handleReplay parses {row} and replays it.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_row")
		return
	}
	s.serveAction(w, r, action{Type: actionReplay, Row: row})
}

// actionHandler serves a body-less action.
func (s *Server) actionHandler(t actionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveAction(w, r, action{Type: t})
	}
}

// serveAction runs a under the store's per-game update.
func (s *Server) serveAction(w http.ResponseWriter, r *http.Request, a action) {
	res, err := s.apply(r.Context(), chi.URLParam(r, "id"), a)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// apply runs a against game id and builds the response.
func (s *Server) apply(ctx context.Context, id string, a action) (actionRes, error) {
	var effects []game.Effect
	g, err := s.opts.Store.Update(ctx, id, func(g *game.Game) error {
		var err error
		effects, err = a.run(g)
		return err
	})
	if err != nil {
		return actionRes{}, err
	}
	return actionRes{View: g.State.View(), Effects: effects}, nil
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeStoreError maps store and action errors to HTTP responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, errUnknownAction):
		writeError(w, http.StatusBadRequest, "unknown_action")
	default:
		log.Error().Err(err).Msg("game update")
		writeError(w, http.StatusInternalServerError, "update_failed")
	}
}
