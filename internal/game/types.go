// internal/game/types.go
//
// Core type definitions for the Codenames game engine.
// Defines:
//   - TeamID / Category: team identity and the hidden per-cell affiliation.
//   - Outcome: per-guess result reported back to the transport.
//   - Phase / EndReason: coarse session lifecycle markers.

package game

// Board geometry and keycard composition.
const (
	Rows = 5
	Cols = 5
	Size = Rows * Cols

	StartingAgents = 9 // agents owned by the team that guesses first
	OtherAgents    = 8
	Bystanders     = 7
	Assassins      = 1

	// MinTeamSize is the smallest roster allowed to start: a spymaster plus one operative.
	MinTeamSize = 2
)

// TeamID identifies one of the two teams.
type TeamID string

const (
	Red  TeamID = "red"
	Blue TeamID = "blue"
)

// Teams lists both teams in a stable order.
var Teams = [2]TeamID{Red, Blue}

// ParseTeam maps a user-supplied selector ("Red", " blue ") onto a TeamID.
func ParseTeam(s string) (TeamID, error) {
	switch TeamID(normalize(s)) {
	case Red:
		return Red, nil
	case Blue:
		return Blue, nil
	}
	return "", ErrInvalidTeam
}

// Other returns the opposing team.
func (t TeamID) Other() TeamID {
	if t == Red {
		return Blue
	}
	return Red
}

// Category is what a cell really is; only spymasters see it before reveal.
type Category string

const (
	CategoryNone      Category = "" // keycard not generated yet
	CategoryRed       Category = "red"
	CategoryBlue      Category = "blue"
	CategoryBystander Category = "bystander"
	CategoryAssassin  Category = "assassin"
)

// Category returns the agent category owned by the team.
func (t TeamID) Category() Category {
	if t == Red {
		return CategoryRed
	}
	return CategoryBlue
}

// Owner reports which team a category belongs to, if any.
func (c Category) Owner() (TeamID, bool) {
	switch c {
	case CategoryRed:
		return Red, true
	case CategoryBlue:
		return Blue, true
	}
	return "", false
}

// Outcome is the evaluation of a single guessed word.
type Outcome string

const (
	OutcomeCorrect         Outcome = "correct"
	OutcomeOpponentAgent   Outcome = "opponent_agent"
	OutcomeBystander       Outcome = "bystander"
	OutcomeAssassin        Outcome = "assassin"
	OutcomeInvalidWord     Outcome = "invalid_word"
	OutcomeAlreadyRevealed Outcome = "already_revealed"
)

// EndsTurn reports whether the outcome stops the guessing team's batch.
func (o Outcome) EndsTurn() bool {
	switch o {
	case OutcomeOpponentAgent, OutcomeBystander, OutcomeAssassin:
		return true
	}
	return false
}

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseConfigured Phase = "configured"
	PhaseStarted    Phase = "started"
	PhaseEnded      Phase = "ended"
)

// EndReason explains how a finished game was decided.
type EndReason string

const (
	EndNone          EndReason = ""
	EndAllAgents     EndReason = "all_agents_found"
	EndAssassinFound EndReason = "assassin"
)
