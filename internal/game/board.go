// internal/game/board.go
//
// The 5x5 word grid and its hidden keycard.
//
// Notes:
//   - Words keep their display case; lookups go through a lowercase index
//     built once when the board is populated.
//   - A cell's Revealed flag only ever flips false → true.

package game

import "strings"

// Position addresses a cell in row-major order.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index returns the row-major offset of p.
func (p Position) Index() int { return p.Row*Cols + p.Col }

// Cell is one word card on the board.
type Cell struct {
	Word     string `json:"word"`
	Revealed bool   `json:"revealed"`
}

// Board holds the words in play and which of them have been revealed.
type Board struct {
	cells [Rows][Cols]Cell
	index map[string]Position // lowercase word → position
}

// NewBoard lays out 25 words row by row.
// Returns ErrBoardSize unless the words are exactly 25 and distinct ignoring case.
func NewBoard(words []string) (*Board, error) {
	if len(words) != Size {
		return nil, ErrBoardSize
	}
	b := &Board{index: make(map[string]Position, Size)}
	for i, w := range words {
		key := normalize(w)
		if key == "" {
			return nil, ErrBoardSize
		}
		if _, dup := b.index[key]; dup {
			return nil, ErrBoardSize
		}
		p := Position{Row: i / Cols, Col: i % Cols}
		b.cells[p.Row][p.Col] = Cell{Word: strings.TrimSpace(w)}
		b.index[key] = p
	}
	return b, nil
}

// Lookup finds a word on the board regardless of case.
func (b *Board) Lookup(word string) (Position, bool) {
	p, ok := b.index[normalize(word)]
	return p, ok
}

// Cell returns a copy of the cell at p.
func (b *Board) Cell(p Position) Cell { return b.cells[p.Row][p.Col] }

// Cells returns a copy of the full grid.
func (b *Board) Cells() [Rows][Cols]Cell { return b.cells }

// Revealed counts revealed cells.
func (b *Board) Revealed() int {
	n := 0
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c].Revealed {
				n++
			}
		}
	}
	return n
}

func (b *Board) reveal(p Position) { b.cells[p.Row][p.Col].Revealed = true }

// Keycard is the spymaster's view: the true category of every cell.
type Keycard [Rows][Cols]Category

// At returns the category at p.
func (k Keycard) At(p Position) Category { return k[p.Row][p.Col] }

// Counts tallies how many cells carry each category.
func (k Keycard) Counts() map[Category]int {
	out := make(map[Category]int, 4)
	for r := range k {
		for c := range k[r] {
			out[k[r][c]]++
		}
	}
	return out
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
