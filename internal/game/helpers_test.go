package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// fixedWords deals its words in order, ignoring the random source.
type fixedWords []string

func (f fixedWords) Sample(_ *rand.Rand, n int) ([]string, error) {
	if len(f) < n {
		return nil, fmt.Errorf("have %d words, need %d", len(f), n)
	}
	return append([]string(nil), f[:n]...), nil
}

func testWords() fixedWords {
	out := make(fixedWords, Size)
	for i := range out {
		out[i] = fmt.Sprintf("Word%02d", i)
	}
	return out
}

func seeded(a, b uint64) *rand.Rand { return rand.New(rand.NewPCG(a, b)) }

// readySession returns a configured lobby with two full teams:
// red = r-spy (spymaster), r-op; blue = b-spy (spymaster), b-op.
func readySession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(testWords(), WithRand(seeded(1, 2)))
	if _, err := s.Configure(); err != nil {
		t.Fatalf("configure: %v", err)
	}
	for _, j := range []struct {
		player string
		team   TeamID
	}{{"r-spy", Red}, {"r-op", Red}, {"b-spy", Blue}, {"b-op", Blue}} {
		if _, err := s.Join(j.player, j.team); err != nil {
			t.Fatalf("join %s: %v", j.player, err)
		}
	}
	for _, p := range []string{"r-spy", "b-spy"} {
		if _, err := s.ClaimSpymaster(p); err != nil {
			t.Fatalf("spymaster %s: %v", p, err)
		}
	}
	return s
}

// startedSession starts readySession with red guessing first.
func startedSession(t *testing.T) *Session {
	t.Helper()
	s := readySession(t)
	if _, err := s.Start("r-op"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

// wordsWith returns the board words whose hidden category is c, in board order.
func wordsWith(snap Snapshot, c Category) []string {
	var out []string
	for r := range snap.Board {
		for col := range snap.Board[r] {
			if snap.Keycard[r][col] == c {
				out = append(out, snap.Board[r][col].Word)
			}
		}
	}
	return out
}

func mustClue(t *testing.T, s *Session, spy string, n int) {
	t.Helper()
	if _, err := s.GiveClue(spy, "hint", n); err != nil {
		t.Fatalf("clue: %v", err)
	}
}
