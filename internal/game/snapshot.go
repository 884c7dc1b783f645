package game

import "time"

// TeamView is a read-only copy of a team's state.
type TeamView struct {
	ID               TeamID   `json:"id"`
	Emoji            string   `json:"emoji"`
	Members          []string `json:"members"`
	Spymaster        string   `json:"spymaster,omitempty"`
	Agents           int      `json:"agents"`
	RemainingGuesses int      `json:"remainingGuesses"`
}

// Snapshot is an immutable copy of a session, safe to render or encode
// without holding any lock.
type Snapshot struct {
	ID         string              `json:"id"`
	Phase      Phase               `json:"phase"`
	Board      [Rows][Cols]Cell    `json:"board"`
	Keycard    Keycard             `json:"keycard"`
	Teams      map[TeamID]TeamView `json:"teams"`
	Bystanders int                 `json:"bystanders"`
	Active     TeamID              `json:"active,omitempty"`
	Starting   TeamID              `json:"starting,omitempty"`
	Clue       *Clue               `json:"clue,omitempty"`
	LastGuess  []GuessResult       `json:"lastGuess,omitempty"`
	Turns      int                 `json:"turns"`
	Winner     TeamID              `json:"winner,omitempty"`
	Reason     EndReason           `json:"reason,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	StartedAt  time.Time           `json:"startedAt,omitzero"`
}

// Snapshot captures the last fully applied state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:         s.id,
		Phase:      s.phase(),
		Keycard:    s.keycard,
		Teams:      make(map[TeamID]TeamView, len(Teams)),
		Bystanders: s.tally.Bystanders,
		Active:     s.active,
		Starting:   s.starting,
		LastGuess:  append([]GuessResult(nil), s.last...),
		Turns:      s.turns,
		Winner:     s.winner,
		Reason:     s.reason,
		CreatedAt:  s.createdAt,
		StartedAt:  s.startedAt,
	}
	if s.board != nil {
		snap.Board = s.board.Cells()
	}
	if s.clue != nil {
		c := *s.clue
		snap.Clue = &c
	}
	for _, id := range Teams {
		t := s.roster.Team(id)
		snap.Teams[id] = TeamView{
			ID:               id,
			Emoji:            t.Emoji,
			Members:          s.roster.Members(id),
			Spymaster:        t.Spymaster,
			Agents:           s.tally.Agents[id],
			RemainingGuesses: t.RemainingGuesses,
		}
	}
	return snap
}

// Public hides the categories of cells nobody has revealed yet, unless the game is over.
func (snap Snapshot) Public() Snapshot {
	if snap.Phase == PhaseEnded {
		return snap
	}
	var k Keycard
	for r := range snap.Board {
		for c := range snap.Board[r] {
			if snap.Board[r][c].Revealed {
				k[r][c] = snap.Keycard[r][c]
			}
		}
	}
	snap.Keycard = k
	return snap
}

// Configured reports whether the board has words.
func (snap Snapshot) Configured() bool { return snap.Phase != PhaseLobby }

// IsSpymaster reports whether player is a spymaster of either team.
func (snap Snapshot) IsSpymaster(player string) bool {
	for _, t := range snap.Teams {
		if t.Spymaster != "" && t.Spymaster == player {
			return true
		}
	}
	return false
}

// TeamOf finds the team a player is listed on.
func (snap Snapshot) TeamOf(player string) (TeamID, bool) {
	for _, id := range Teams {
		for _, m := range snap.Teams[id].Members {
			if m == player {
				return id, true
			}
		}
	}
	return "", false
}

// Loser is the team that did not win, empty while the game is running.
func (snap Snapshot) Loser() TeamID {
	if snap.Winner == "" {
		return ""
	}
	return snap.Winner.Other()
}
