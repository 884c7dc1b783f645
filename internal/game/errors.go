package game

import (
	"errors"
	"strings"
)

// Rejections returned by Session and Roster. A rejected call never mutates state.
var (
	ErrPreconditionFailed   = errors.New("preconditions not met")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrNotAPlayer           = errors.New("not a player")
	ErrWrongTeam            = errors.New("wrong team")
	ErrSpymasterCannotGuess = errors.New("spymaster cannot guess")
	ErrTooManyGuesses       = errors.New("too many guesses")
	ErrAlreadyHasSpymaster  = errors.New("team already has a spymaster")
	ErrNotSpymaster         = errors.New("not a spymaster")
	ErrAlreadyStarted       = errors.New("game already started")
	ErrNotStarted           = errors.New("game not started")
	ErrGameOver             = errors.New("game is over")
	ErrInvalidTeam          = errors.New("invalid team")
	ErrInvalidGuessCount    = errors.New("guess count must be positive")
	ErrNoGuesses            = errors.New("no guesses given")
	ErrBoardSize            = errors.New("board needs exactly 25 distinct words")
)

// Reason is one unmet start condition.
type Reason string

const (
	ReasonNotAPlayer    Reason = "not_a_player"
	ReasonNotConfigured Reason = "board_not_configured"
	ReasonRedSpymaster  Reason = "red_needs_spymaster"
	ReasonBlueSpymaster Reason = "blue_needs_spymaster"
	ReasonRedPlayers    Reason = "red_needs_players"
	ReasonBluePlayers   Reason = "blue_needs_players"
)

func spymasterReason(t TeamID) Reason {
	if t == Red {
		return ReasonRedSpymaster
	}
	return ReasonBlueSpymaster
}

func playersReason(t TeamID) Reason {
	if t == Red {
		return ReasonRedPlayers
	}
	return ReasonBluePlayers
}

// PreconditionError lists every start condition that failed, not just the first.
type PreconditionError struct {
	Reasons []Reason
}

func (e *PreconditionError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return ErrPreconditionFailed.Error() + ": " + strings.Join(parts, ", ")
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPreconditionFailed }
