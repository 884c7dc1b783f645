// internal/httpserver/routes_channels.go
//
// HTTP routes for game sessions. One session lives per channel.
//
//   - GET    /channels/{channel}            → public snapshot (unrevealed categories hidden)
//   - GET    /channels/{channel}/board.txt  → text grid + status line
//   - GET    /channels/{channel}/keycard    → full keycard (spymasters only)
//   - GET    /channels/{channel}/ws         → live event feed
//   - GET    /channels/{channel}/qr         → PNG invite code for the channel URL
//   - POST   /channels/{channel}/configure  → deal the board (fresh session after game over)
//   - POST   /channels/{channel}/join       → {team}
//   - POST   /channels/{channel}/spymaster  → claim; DELETE resigns
//   - POST   /channels/{channel}/start
//   - POST   /channels/{channel}/clue       → {word, count}
//   - POST   /channels/{channel}/guess      → {words}
//   - POST   /channels/{channel}/pass       → end the turn early
//   - POST   /channels/{channel}/reset      → replace the session with an empty lobby
//
// Commands require auth and are rate limited per client IP. Every accepted
// command publishes an event to the channel's watchers.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/robalobadob/codenames/internal/events"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/history"
	"github.com/robalobadob/codenames/internal/render"
	"github.com/robalobadob/codenames/internal/store"
)

var channelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// channelView is a snapshot plus what the client needs to label it.
type channelView struct {
	Channel string `json:"channel"`
	game.Snapshot
	Names map[string]string `json:"names"`
	You   *youView          `json:"you,omitempty"`
}

type youView struct {
	ID        string      `json:"id"`
	Team      game.TeamID `json:"team,omitempty"`
	Spymaster bool        `json:"spymaster"`
}

type joinReq struct {
	Team string `json:"team"`
}

type clueReq struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type guessReq struct {
	Words []string `json:"words"`
}

// mountChannels registers all /channels routes.
func (s *Server) mountChannels() {
	s.r.Route("/channels/{channel}", func(r chi.Router) {
		r.Use(validChannel)

		// Long-lived; kept outside the request timeout.
		r.Get("/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(s.cfg.RequestTimeout))
			r.Use(jsonContentType)

			r.With(s.withOptionalAuth()).Get("/", s.handleSnapshot)
			r.Get("/board.txt", s.handleBoardText)
			r.Get("/qr", s.handleQR)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth())
				r.Get("/keycard", s.handleKeycard)

				r.Group(func(r chi.Router) {
					r.Use(s.rateLimit)
					r.Post("/configure", s.handleConfigure)
					r.Post("/join", s.handleJoin)
					r.Post("/spymaster", s.handleClaimSpymaster)
					r.Delete("/spymaster", s.handleResignSpymaster)
					r.Post("/start", s.handleStart)
					r.Post("/clue", s.handleClue)
					r.Post("/guess", s.handleGuess)
					r.Post("/pass", s.handlePass)
					r.Post("/reset", s.handleReset)
				})
			})
		})
	})
}

// validChannel rejects channel keys that are empty, too long or not URL-safe.
func validChannel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !channelPattern.MatchString(chi.URLParam(r, "channel")) {
			writeJSONError(w, http.StatusBadRequest, "invalid_channel", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ reads --------------------------------------

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(s.view(r, channel, sess.Snapshot()))
}

func (s *Server) handleBoardText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "channel"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	snap := sess.Snapshot()
	if !snap.Configured() {
		writeJSONError(w, http.StatusConflict, string(game.ReasonNotConfigured), nil)
		return
	}
	pub := snap.Public()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.Board(pub) + "\n" + render.Status(pub) + "\n"))
}

func (s *Server) handleKeycard(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "channel"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	snap := sess.Snapshot()
	if !snap.IsSpymaster(currentUser(r).ID) {
		writeGameError(w, game.ErrNotSpymaster)
		return
	}
	if snap.Phase != game.PhaseStarted && snap.Phase != game.PhaseEnded {
		writeGameError(w, game.ErrNotStarted)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"keycard": snap.Keycard,
		"text":    render.Keycard(snap),
	})
}

// handleQR encodes the channel URL as a PNG QR code.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + "/channels/" + chi.URLParam(r, "channel")

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Msg("qr encode")
		writeJSONError(w, http.StatusInternalServerError, "qr_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// handleWS streams channel events. The first message is the current public state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	var hello *events.Event
	if sess, err := s.store.Get(r.Context(), channel); err == nil {
		hello = &events.Event{Type: "state", Channel: channel, Data: sess.Snapshot().Public()}
	} else {
		hello = &events.Event{Type: "empty", Channel: channel}
	}
	s.broker.ServeWS(w, r, channel, hello)
}

// ----------------------------- commands ------------------------------------

// handleConfigure deals the board. A missing or finished session is replaced
// by a fresh lobby first, so a channel can be reused after game over.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	sess, dealt, err := s.configure(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("configure")
		writeGameError(w, err)
		return
	}
	snap := sess.Snapshot()
	if dealt {
		log.Info().Str("channel", channel).Str("session", snap.ID).Msg("board configured")
		s.publish(channel, "configured", snap.Public())
	}
	s.respond(w, r, channel, snap, map[string]any{"dealt": dealt})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	team, err := game.ParseTeam(req.Team)
	if err != nil {
		writeGameError(w, err)
		return
	}
	channel := chi.URLParam(r, "channel")
	sess, err := s.lobby(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	me := currentUser(r)
	res, err := sess.Join(me.ID, team)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.publish(channel, "joined", map[string]any{"player": me.ID, "name": me.Username, "result": res})
	s.respond(w, r, channel, sess.Snapshot(), map[string]any{"result": res})
}

func (s *Server) handleClaimSpymaster(w http.ResponseWriter, r *http.Request) {
	s.spymasterCommand(w, r, "spymaster_claimed", (*game.Session).ClaimSpymaster)
}

func (s *Server) handleResignSpymaster(w http.ResponseWriter, r *http.Request) {
	s.spymasterCommand(w, r, "spymaster_resigned", (*game.Session).ResignSpymaster)
}

func (s *Server) spymasterCommand(w http.ResponseWriter, r *http.Request, event string,
	op func(*game.Session, string) (game.TeamID, error)) {
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	me := currentUser(r)
	team, err := op(sess, me.ID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.publish(channel, event, map[string]any{"player": me.ID, "name": me.Username, "team": team})
	s.respond(w, r, channel, sess.Snapshot(), map[string]any{"team": team})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	team, err := sess.Start(currentUser(r).ID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	snap := sess.Snapshot()
	log.Info().Str("channel", channel).Str("session", snap.ID).Str("starting", string(team)).Msg("game started")
	s.publish(channel, "started", snap.Public())
	s.respond(w, r, channel, snap, map[string]any{"starting": team})
}

func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	clue, err := sess.GiveClue(currentUser(r).ID, req.Word, req.Count)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.publish(channel, "clue", clue)
	s.respond(w, r, channel, sess.Snapshot(), map[string]any{"clue": clue})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	res, err := sess.Guess(currentUser(r).ID, req.Words)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.afterTurn(r, channel, sess, "guess", res)
	s.respond(w, r, channel, sess.Snapshot(), map[string]any{"result": res})
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	sess, err := s.store.Get(r.Context(), channel)
	if err != nil {
		writeGameError(w, err)
		return
	}
	res, err := sess.EndTurn(currentUser(r).ID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.afterTurn(r, channel, sess, "pass", res)
	s.respond(w, r, channel, sess.Snapshot(), map[string]any{"result": res})
}

// handleReset swaps the channel's session for an empty lobby.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	s.lifecycle.Lock()
	old, err := s.store.Get(r.Context(), channel)
	var fresh *game.Session
	if err == nil {
		fresh = old.Reset()
		err = s.store.Save(r.Context(), channel, fresh)
	}
	s.lifecycle.Unlock()
	if err != nil {
		writeGameError(w, err)
		return
	}

	snap := fresh.Snapshot()
	log.Info().Str("channel", channel).Str("old", old.ID()).Str("session", snap.ID).Msg("session reset")
	s.publish(channel, "reset", snap.Public())
	s.respond(w, r, channel, snap, nil)
}

// ------------------------------ helpers ------------------------------------

// configure deals the board of the channel's current session. The lifecycle
// lock is held until the deal is done, so a concurrent reset either happens
// first (and its lobby is dealt) or waits for the dealt session.
func (s *Server) configure(ctx context.Context, channel string) (*game.Session, bool, error) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	sess, err := s.store.Get(ctx, channel)
	if errors.Is(err, store.ErrNotFound) || (err == nil && sess.Ended()) {
		sess = game.NewSession(s.pool)
		err = s.store.Save(ctx, channel, sess)
	}
	if err != nil {
		return nil, false, err
	}
	dealt, err := sess.Configure()
	return sess, dealt, err
}

// lobby returns the channel's session, creating an empty one if needed.
func (s *Server) lobby(ctx context.Context, channel string) (*game.Session, error) {
	if sess, err := s.store.Get(ctx, channel); !errors.Is(err, store.ErrNotFound) {
		return sess, err
	}
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if sess, err := s.store.Get(ctx, channel); err == nil {
		return sess, nil
	}
	sess := game.NewSession(s.pool)
	return sess, s.store.Save(ctx, channel, sess)
}

// afterTurn publishes the turn outcome and, if the game just ended, records it.
func (s *Server) afterTurn(r *http.Request, channel string, sess *game.Session, event string, res game.TurnResult) {
	s.publish(channel, event, res)
	if !res.Ended {
		return
	}
	snap := sess.Snapshot()
	log.Info().Str("channel", channel).Str("session", snap.ID).
		Str("winner", string(snap.Winner)).Str("reason", string(snap.Reason)).Msg("game over")
	s.publish(channel, "game_over", snap)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()
	if err := s.history.Record(ctx, history.FromSnapshot(channel, snap, time.Now())); err != nil {
		log.Warn().Err(err).Str("channel", channel).Str("session", snap.ID).Msg("record game")
	}
}

func (s *Server) publish(channel, typ string, data any) {
	s.broker.Publish(channel, events.Event{Type: typ, Data: data})
}

// view builds the public channel view for the caller.
func (s *Server) view(r *http.Request, channel string, snap game.Snapshot) channelView {
	v := channelView{Channel: channel, Snapshot: snap.Public()}
	var ids []string
	for _, id := range game.Teams {
		ids = append(ids, snap.Teams[id].Members...)
	}
	v.Names = s.usernames(r.Context(), ids)
	if me := currentUser(r); me != nil {
		yv := &youView{ID: me.ID, Spymaster: snap.IsSpymaster(me.ID)}
		if t, ok := snap.TeamOf(me.ID); ok {
			yv.Team = t
		}
		v.You = yv
	}
	return v
}

// respond writes extra fields alongside the caller's view of the channel.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, channel string, snap game.Snapshot, extra map[string]any) {
	out := map[string]any{"state": s.view(r, channel, snap)}
	for k, v := range extra {
		out[k] = v
	}
	_ = json.NewEncoder(w).Encode(out)
}
