// internal/game/resolver.go
//
// Guess resolution for a single batch of words.
//
// Rules, applied word by word in the order given:
//   - Unknown word            → invalid_word, free, keep going.
//   - Already revealed word   → already_revealed, free, keep going.
//   - Otherwise the cell is revealed and one guess is spent, then:
//       own agent      → correct, own count −1, keep going
//       assassin       → assassin, stop (game over)
//       bystander      → bystander, stop
//       opponent agent → opponent_agent, opponent count −1, stop
//
// Any early stop forces the team's remaining guesses to zero so the caller's
// "guesses left → keep the turn" check hands the turn over. Finding the last
// own agent does not stop the batch; the win is decided by the caller.

package game

// Tally holds the counters that guesses move.
type Tally struct {
	Agents     map[TeamID]int
	Bystanders int
}

func newTally(starting TeamID) Tally {
	return Tally{
		Agents: map[TeamID]int{
			starting:         StartingAgents,
			starting.Other(): OtherAgents,
		},
		Bystanders: Bystanders,
	}
}

// GuessResult describes what happened to one submitted word.
type GuessResult struct {
	Word     string    `json:"word"`
	Outcome  Outcome   `json:"outcome"`
	Position *Position `json:"position,omitempty"` // nil for invalid words
	Category Category  `json:"category,omitempty"` // set once the cell is revealed
}

// Resolution is the result of a whole batch.
type Resolution struct {
	Results  []GuessResult
	TurnOver bool // processing stopped before the batch was exhausted
	Assassin bool
}

// Resolve applies words for team against the board, mutating board, tally and team.
// Validation of who may guess and how many is the caller's job.
func Resolve(b *Board, k Keycard, tally *Tally, team *Team, words []string) Resolution {
	var res Resolution
	for _, w := range words {
		p, ok := b.Lookup(w)
		if !ok {
			res.Results = append(res.Results, GuessResult{Word: w, Outcome: OutcomeInvalidWord})
			continue
		}
		pos := p
		if b.Cell(p).Revealed {
			res.Results = append(res.Results, GuessResult{
				Word: w, Outcome: OutcomeAlreadyRevealed, Position: &pos, Category: k.At(p),
			})
			continue
		}

		b.reveal(p)
		team.RemainingGuesses--

		cat := k.At(p)
		gr := GuessResult{Word: b.Cell(p).Word, Position: &pos, Category: cat}

		switch owner, isAgent := cat.Owner(); {
		case cat == CategoryAssassin:
			gr.Outcome = OutcomeAssassin
			res.Assassin = true
		case cat == CategoryBystander:
			gr.Outcome = OutcomeBystander
			tally.Bystanders--
		case isAgent && owner == team.ID:
			gr.Outcome = OutcomeCorrect
			tally.Agents[team.ID]--
		default:
			gr.Outcome = OutcomeOpponentAgent
			tally.Agents[owner]--
		}
		res.Results = append(res.Results, gr)

		if gr.Outcome.EndsTurn() {
			res.TurnOver = true
			break
		}
	}

	if res.TurnOver {
		team.RemainingGuesses = 0
	}
	return res
}
