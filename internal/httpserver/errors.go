package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/store"
	"github.com/robalobadob/codenames/internal/words"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string        `json:"error"`
	Reasons []game.Reason `json:"reasons,omitempty"`
}

// errorCodes maps engine sentinels to stable client-facing codes and statuses.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{game.ErrPreconditionFailed, "preconditions_not_met", http.StatusConflict},
	{game.ErrNotYourTurn, "not_your_turn", http.StatusForbidden},
	{game.ErrNotAPlayer, "not_a_player", http.StatusForbidden},
	{game.ErrWrongTeam, "wrong_team", http.StatusForbidden},
	{game.ErrSpymasterCannotGuess, "spymaster_cannot_guess", http.StatusForbidden},
	{game.ErrNotSpymaster, "not_spymaster", http.StatusForbidden},
	{game.ErrTooManyGuesses, "too_many_guesses", http.StatusBadRequest},
	{game.ErrInvalidTeam, "invalid_team", http.StatusBadRequest},
	{game.ErrInvalidGuessCount, "invalid_guess_count", http.StatusBadRequest},
	{game.ErrNoGuesses, "no_guesses", http.StatusBadRequest},
	{game.ErrAlreadyHasSpymaster, "team_has_spymaster", http.StatusConflict},
	{game.ErrAlreadyStarted, "already_started", http.StatusConflict},
	{game.ErrNotStarted, "not_started", http.StatusConflict},
	{game.ErrGameOver, "game_over", http.StatusConflict},
	{store.ErrNotFound, "no_session", http.StatusNotFound},
	{words.ErrInsufficientCorpus, "insufficient_corpus", http.StatusInternalServerError},
	{game.ErrBoardSize, "bad_board", http.StatusInternalServerError},
}

// writeGameError translates an engine error into a JSON response.
func writeGameError(w http.ResponseWriter, err error) {
	var pe *game.PreconditionError
	if errors.As(err, &pe) {
		writeJSONError(w, http.StatusConflict, "preconditions_not_met", pe.Reasons)
		return
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			writeJSONError(w, e.status, e.code, nil)
			return
		}
	}
	writeJSONError(w, http.StatusInternalServerError, "internal_error", nil)
}

func writeJSONError(w http.ResponseWriter, status int, code string, reasons []game.Reason) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Reasons: reasons})
}
