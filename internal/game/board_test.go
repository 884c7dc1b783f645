package game

import (
	"errors"
	"testing"
)

func TestNewBoardIndexIsBijection(t *testing.T) {
	b, err := NewBoard(testWords())
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	seen := make(map[Position]bool)
	for i, w := range testWords() {
		p, ok := b.Lookup(w)
		if !ok {
			t.Fatalf("word %q not indexed", w)
		}
		if p.Index() != i {
			t.Errorf("word %q at %v, want index %d", w, p, i)
		}
		if b.Cell(p).Word != w {
			t.Errorf("cell at %v holds %q, want %q", p, b.Cell(p).Word, w)
		}
		seen[p] = true
	}
	if len(seen) != Size {
		t.Errorf("positions covered = %d, want %d", len(seen), Size)
	}
}

func TestBoardLookupIgnoresCase(t *testing.T) {
	b, _ := NewBoard(testWords())
	if _, ok := b.Lookup("  WORD07 "); !ok {
		t.Error("expected case-insensitive lookup to succeed")
	}
	if _, ok := b.Lookup("nope"); ok {
		t.Error("unexpected hit for unknown word")
	}
}

func TestNewBoardRejectsBadInput(t *testing.T) {
	dup := testWords()
	dup[3] = "word00"
	short := testWords()[:24]
	blank := testWords()
	blank[10] = "   "

	for name, words := range map[string][]string{"duplicate": dup, "short": short, "blank": blank} {
		if _, err := NewBoard(words); !errors.Is(err, ErrBoardSize) {
			t.Errorf("%s: err = %v, want ErrBoardSize", name, err)
		}
	}
}

func TestBoardRevealIsSticky(t *testing.T) {
	b, _ := NewBoard(testWords())
	p := Position{Row: 2, Col: 3}
	b.reveal(p)
	b.reveal(p)
	if !b.Cell(p).Revealed || b.Revealed() != 1 {
		t.Errorf("revealed = %v, count = %d", b.Cell(p).Revealed, b.Revealed())
	}
}
