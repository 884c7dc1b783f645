package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/codenames/internal/game"
)

// Markers for each revealed category.
var markers = map[game.Category]string{
	game.CategoryRed:       "🟥",
	game.CategoryBlue:      "🟦",
	game.CategoryBystander: "⬜",
	game.CategoryAssassin:  "⬛",
}

const hidden = "▫️"

// Board renders the public grid. Unrevealed cells show only their word.
func Board(snap game.Snapshot) string {
	return grid(snap, func(r, c int) string {
		if snap.Board[r][c].Revealed {
			return marker(snap.Keycard[r][c])
		}
		return hidden
	})
}

// Keycard renders the spymaster grid: every category, with revealed words upper-cased.
func Keycard(snap game.Snapshot) string {
	return grid(snap, func(r, c int) string { return marker(snap.Keycard[r][c]) })
}

// Status is a one-line summary of the score and whose turn it is.
func Status(snap game.Snapshot) string {
	var b strings.Builder
	for i, id := range game.Teams {
		if i > 0 {
			b.WriteString(" | ")
		}
		t := snap.Teams[id]
		b.WriteString(t.Emoji)
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(t.Agents))
	}
	b.WriteString(" | bystanders ")
	b.WriteString(strconv.Itoa(snap.Bystanders))

	switch snap.Phase {
	case game.PhaseEnded:
		b.WriteString(" | ")
		b.WriteString(string(snap.Winner))
		b.WriteString(" wins (")
		b.WriteString(string(snap.Reason))
		b.WriteString(")")
	case game.PhaseStarted:
		b.WriteString(" | turn: ")
		b.WriteString(string(snap.Active))
		if snap.Clue != nil {
			b.WriteString(" | clue: ")
			b.WriteString(snap.Clue.Word)
			b.WriteString(" (")
			b.WriteString(strconv.Itoa(snap.Clue.Count))
			b.WriteString(")")
		}
	default:
		b.WriteString(" | ")
		b.WriteString(string(snap.Phase))
	}
	return b.String()
}

func marker(c game.Category) string {
	if m, ok := markers[c]; ok {
		return m
	}
	return hidden
}

func grid(snap game.Snapshot, mark func(r, c int) string) string {
	width := 0
	for r := range snap.Board {
		for c := range snap.Board[r] {
			width = max(width, utf8.RuneCountInString(snap.Board[r][c].Word))
		}
	}

	var b strings.Builder
	for r := range snap.Board {
		for c := range snap.Board[r] {
			cell := snap.Board[r][c]
			word := cell.Word
			if cell.Revealed {
				word = strings.ToUpper(word)
			}
			b.WriteString(mark(r, c))
			b.WriteString(" ")
			b.WriteString(word)
			if c < game.Cols-1 {
				b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(word)+2))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
