package game

import (
	"reflect"
	"testing"
)

// fixedKeycard: Word00–Word08 red, Word09–Word16 blue, Word17–Word23 bystanders, Word24 assassin.
func fixedKeycard() Keycard {
	var k Keycard
	for i := 0; i < Size; i++ {
		c := CategoryBystander
		switch {
		case i < 9:
			c = CategoryRed
		case i < 17:
			c = CategoryBlue
		case i == 24:
			c = CategoryAssassin
		}
		k[i/Cols][i%Cols] = c
	}
	return k
}

func resolveSetup(t *testing.T, guesses int) (*Board, Keycard, *Tally, *Team) {
	t.Helper()
	b, err := NewBoard(testWords())
	if err != nil {
		t.Fatal(err)
	}
	tally := newTally(Red)
	return b, fixedKeycard(), &tally, &Team{ID: Red, RemainingGuesses: guesses}
}

func outcomes(res Resolution) []Outcome {
	out := make([]Outcome, len(res.Results))
	for i, r := range res.Results {
		out[i] = r.Outcome
	}
	return out
}

func TestResolveCorrectGuessesKeepGoing(t *testing.T) {
	b, k, tally, team := resolveSetup(t, 2)
	res := Resolve(b, k, tally, team, []string{"word00", "WORD01"})

	if want := []Outcome{OutcomeCorrect, OutcomeCorrect}; !reflect.DeepEqual(outcomes(res), want) {
		t.Fatalf("outcomes = %v, want %v", outcomes(res), want)
	}
	if res.TurnOver || res.Assassin {
		t.Errorf("turnOver=%v assassin=%v", res.TurnOver, res.Assassin)
	}
	if tally.Agents[Red] != StartingAgents-2 {
		t.Errorf("red agents = %d", tally.Agents[Red])
	}
	if team.RemainingGuesses != 0 {
		t.Errorf("remaining = %d", team.RemainingGuesses)
	}
	if res.Results[1].Word != "Word01" {
		t.Errorf("result word = %q, want display case", res.Results[1].Word)
	}
}

func TestResolveStopsAtFirstTurnEndingOutcome(t *testing.T) {
	cases := []struct {
		name      string
		words     []string
		want      []Outcome
		revealed  int
		red, blue int
		bystander int
		assassin  bool
	}{
		{
			name:     "bystander",
			words:    []string{"Word17", "Word00"},
			want:     []Outcome{OutcomeBystander},
			revealed: 1, red: 9, blue: 8, bystander: 6,
		},
		{
			name:     "opponent agent",
			words:    []string{"Word00", "Word09", "Word01"},
			want:     []Outcome{OutcomeCorrect, OutcomeOpponentAgent},
			revealed: 2, red: 8, blue: 7, bystander: 7,
		},
		{
			name:     "assassin",
			words:    []string{"Word24", "Word00"},
			want:     []Outcome{OutcomeAssassin},
			revealed: 1, red: 9, blue: 8, bystander: 7, assassin: true,
		},
		{
			name:     "invalid and repeated words are free",
			words:    []string{"nope", "Word00", "word00", "Word01"},
			want:     []Outcome{OutcomeInvalidWord, OutcomeCorrect, OutcomeAlreadyRevealed, OutcomeCorrect},
			revealed: 2, red: 7, blue: 8, bystander: 7,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, k, tally, team := resolveSetup(t, 5)
			res := Resolve(b, k, tally, team, tc.words)

			if !reflect.DeepEqual(outcomes(res), tc.want) {
				t.Fatalf("outcomes = %v, want %v", outcomes(res), tc.want)
			}
			if b.Revealed() != tc.revealed {
				t.Errorf("revealed = %d, want %d", b.Revealed(), tc.revealed)
			}
			if tally.Agents[Red] != tc.red || tally.Agents[Blue] != tc.blue || tally.Bystanders != tc.bystander {
				t.Errorf("tally = %+v", *tally)
			}
			if res.Assassin != tc.assassin {
				t.Errorf("assassin = %v", res.Assassin)
			}
			ended := tc.want[len(tc.want)-1].EndsTurn()
			if res.TurnOver != ended {
				t.Errorf("turnOver = %v, want %v", res.TurnOver, ended)
			}
			if ended && team.RemainingGuesses != 0 {
				t.Errorf("remaining = %d after early stop", team.RemainingGuesses)
			}
			if !ended && team.RemainingGuesses != 5-tc.revealed {
				t.Errorf("remaining = %d, want %d", team.RemainingGuesses, 5-tc.revealed)
			}
		})
	}
}

func TestResolveContinuesPastLastOwnAgent(t *testing.T) {
	cases := []struct {
		name      string
		words     []string
		want      []Outcome
		bystander int
		assassin  bool
	}{
		{
			name:      "then bystander",
			words:     []string{"Word00", "Word17"},
			want:      []Outcome{OutcomeCorrect, OutcomeBystander},
			bystander: 6,
		},
		{
			name:      "then assassin",
			words:     []string{"Word00", "Word24"},
			want:      []Outcome{OutcomeCorrect, OutcomeAssassin},
			bystander: 7,
			assassin:  true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, k, tally, team := resolveSetup(t, 3)
			tally.Agents[Red] = 1
			res := Resolve(b, k, tally, team, tc.words)

			if !reflect.DeepEqual(outcomes(res), tc.want) {
				t.Fatalf("outcomes = %v, want %v", outcomes(res), tc.want)
			}
			if b.Revealed() != 2 {
				t.Errorf("revealed = %d, want 2", b.Revealed())
			}
			if tally.Agents[Red] != 0 || tally.Bystanders != tc.bystander {
				t.Errorf("tally = %+v", *tally)
			}
			if !res.TurnOver || res.Assassin != tc.assassin {
				t.Errorf("turnOver = %v, assassin = %v", res.TurnOver, res.Assassin)
			}
		})
	}
}
