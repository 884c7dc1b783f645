// internal/words/words.go
//
// Candidate word corpus for new boards.
//
// Responsibilities:
//   - Load the corpus from a configured file, or fall back to the embedded default list.
//   - Normalize entries: trim, skip blanks and "#" comments, de-duplicate ignoring case.
//   - Deal n distinct words uniformly at random (Sample).
//
// Word Lists:
//   - One word or phrase per line. Display case is kept ("Ice Cream"); lookups on the
//     board are case-insensitive, so "ice cream" and "ICE CREAM" count as the same word.
//
// Constraints:
//   • A Pool is read-only after construction and safe to share between sessions.
//   • Randomness comes from the caller's *rand.Rand, so sessions stay independent.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/robalobadob/codenames/assets"
)

// ErrInsufficientCorpus means the corpus cannot fill a board.
var ErrInsufficientCorpus = errors.New("words: insufficient corpus")

// Pool is an immutable, de-duplicated list of candidate words.
type Pool struct {
	words []string
}

// NewPool normalizes corpus and checks it holds at least min words.
func NewPool(corpus []string, min int) (*Pool, error) {
	seen := make(map[string]struct{}, len(corpus))
	out := make([]string, 0, len(corpus))
	for _, line := range corpus {
		w := strings.TrimSpace(line)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	if len(out) < min {
		return nil, fmt.Errorf("%w: have %d words, need %d", ErrInsufficientCorpus, len(out), min)
	}
	return &Pool{words: out}, nil
}

// Load builds a Pool from path, or from the embedded list when path is empty.
func Load(path string, min int) (*Pool, error) {
	if path == "" {
		list, err := assets.WordList()
		if err != nil {
			return nil, fmt.Errorf("read embedded word list: %w", err)
		}
		return NewPool(list, min)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := readLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewPool(list, min)
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// Sample returns n distinct words chosen uniformly at random without replacement.
func (p *Pool) Sample(r *rand.Rand, n int) ([]string, error) {
	if n > len(p.words) {
		return nil, fmt.Errorf("%w: have %d words, need %d", ErrInsufficientCorpus, len(p.words), n)
	}
	picked := make([]string, n)
	for i, idx := range r.Perm(len(p.words))[:n] {
		picked[i] = p.words[idx]
	}
	return picked, nil
}

// Len reports how many distinct words the pool holds.
func (p *Pool) Len() int { return len(p.words) }

// Contains reports whether w is in the pool, ignoring case.
func (p *Pool) Contains(w string) bool {
	w = strings.TrimSpace(w)
	for _, x := range p.words {
		if strings.EqualFold(x, w) {
			return true
		}
	}
	return false
}
