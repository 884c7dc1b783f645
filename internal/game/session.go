// internal/game/session.go
//
// Session is the state machine for one game of Codenames.
//
// Lifecycle:
//   lobby → configured (board dealt) → started (keycard dealt, first team fixed) → ended
//
// Players may join and claim spymaster any time before start, including
// before the board is configured. Every mutating method takes the session
// lock for its whole duration, and every rejection leaves state untouched.
// Snapshot takes the read lock and returns a deep copy, so callers can render
// or broadcast after the lock is released.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WordSource deals the words for a new board.
type WordSource interface {
	Sample(r *rand.Rand, n int) ([]string, error)
}

// Clue is the last hint given by a spymaster. The word is never checked
// against the board; clue legality is left to the players.
type Clue struct {
	Team  TeamID `json:"team"`
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TurnResult is what Guess and EndTurn report back.
type TurnResult struct {
	Team             TeamID        `json:"team"`
	Results          []GuessResult `json:"results"`
	RemainingGuesses int           `json:"remainingGuesses"`
	TurnPassed       bool          `json:"turnPassed"`
	Active           TeamID        `json:"active"`
	Ended            bool          `json:"ended"`
	Winner           TeamID        `json:"winner,omitempty"`
	Reason           EndReason     `json:"reason,omitempty"`
}

// Session owns one board, one keycard and both teams.
type Session struct {
	mu sync.RWMutex

	id    string
	words WordSource
	rng   *rand.Rand

	board   *Board
	keycard Keycard
	roster  *Roster
	tally   Tally

	configured bool
	started    bool
	ended      bool

	active   TeamID
	starting TeamID
	clue     *Clue
	last     []GuessResult
	turns    int
	winner   TeamID
	reason   EndReason

	createdAt  time.Time
	startedAt  time.Time
	lastActive time.Time
}

// Option customizes a new Session.
type Option func(*Session)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// WithID overrides the generated session ID.
func WithID(id string) Option { return func(s *Session) { s.id = id } }

// NewSession creates an empty lobby that will deal its board from words.
func NewSession(words WordSource, opts ...Option) *Session {
	now := time.Now()
	s := &Session{
		id:         uuid.NewString(),
		words:      words,
		roster:     NewRoster(),
		tally:      Tally{Agents: map[TeamID]int{Red: OtherAgents, Blue: OtherAgents}, Bystanders: Bystanders},
		createdAt:  now,
		lastActive: now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(seed(), seed()))
	}
	return s
}

// seed draws a PRNG seed from crypto/rand.
func seed() uint64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// LastActive reports when the session last accepted a change.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Ended reports whether the game is over.
func (s *Session) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

// Configure deals the 25 board words. Returns false without error when the
// board is already dealt.
func (s *Session) Configure() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configured {
		return false, nil
	}
	picked, err := s.words.Sample(s.rng, Size)
	if err != nil {
		return false, err
	}
	b, err := NewBoard(picked)
	if err != nil {
		return false, err
	}
	s.board = b
	s.configured = true
	s.touch()
	return true, nil
}

// JoinResult reports the side effects of a join.
type JoinResult struct {
	Team TeamID `json:"team"`
	// VacatedSpymaster is set when the player gave up the spymaster role of their old team.
	VacatedSpymaster TeamID `json:"vacatedSpymaster,omitempty"`
}

// Join moves player onto team.
func (s *Session) Join(player string, team TeamID) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLobby(); err != nil {
		return JoinResult{}, err
	}
	if team != Red && team != Blue {
		return JoinResult{}, ErrInvalidTeam
	}
	res := JoinResult{Team: team}
	if prev, vacated := s.roster.Add(team, player); vacated {
		res.VacatedSpymaster = prev
	}
	s.touch()
	return res, nil
}

// ClaimSpymaster makes player the spymaster of their own team.
func (s *Session) ClaimSpymaster(player string) (TeamID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLobby(); err != nil {
		return "", err
	}
	team, ok := s.roster.TeamOf(player)
	if !ok {
		return "", ErrNotAPlayer
	}
	if err := s.roster.SetSpymaster(team, player); err != nil {
		return "", err
	}
	s.touch()
	return team, nil
}

// ResignSpymaster gives up the role if player holds it.
func (s *Session) ResignSpymaster(player string) (TeamID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLobby(); err != nil {
		return "", err
	}
	team, ok := s.roster.TeamOf(player)
	if !ok {
		return "", ErrNotAPlayer
	}
	if !s.roster.IsSpymaster(player) {
		return "", ErrNotSpymaster
	}
	s.roster.ClearSpymaster(team)
	s.touch()
	return team, nil
}

// Start begins the game with the requester's team guessing first.
// Every unmet condition is reported in a single *PreconditionError.
func (s *Session) Start(player string) (TeamID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLobby(); err != nil {
		return "", err
	}

	var reasons []Reason
	team, isPlayer := s.roster.TeamOf(player)
	if !isPlayer {
		reasons = append(reasons, ReasonNotAPlayer)
	}
	if !s.configured {
		reasons = append(reasons, ReasonNotConfigured)
	}
	for _, t := range Teams {
		if s.roster.Team(t).Spymaster == "" {
			reasons = append(reasons, spymasterReason(t))
		}
	}
	for _, t := range Teams {
		if s.roster.MemberCount(t) < MinTeamSize {
			reasons = append(reasons, playersReason(t))
		}
	}
	if len(reasons) > 0 {
		return "", &PreconditionError{Reasons: reasons}
	}

	s.starting = team
	s.active = team
	s.tally = newTally(team)
	s.keycard = AssignCategories(s.rng, team)
	s.started = true
	s.touch()
	s.startedAt = s.lastActive
	return team, nil
}

// GiveClue records the active spymaster's hint and opens count guesses.
func (s *Session) GiveClue(player, word string, count int) (Clue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlaying(); err != nil {
		return Clue{}, err
	}
	team := s.roster.Team(s.active)
	if team.Spymaster != player {
		return Clue{}, ErrNotYourTurn
	}
	if count <= 0 {
		return Clue{}, ErrInvalidGuessCount
	}
	team.RemainingGuesses = count
	c := Clue{Team: s.active, Word: word, Count: count}
	s.clue = &c
	s.touch()
	return c, nil
}

// Guess resolves an ordered batch of words for the active team.
// The batch is rejected as a whole when it exceeds the remaining guesses.
func (s *Session) Guess(player string, words []string) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, err := s.checkOperative(player)
	if err != nil {
		return TurnResult{}, err
	}
	if len(words) == 0 {
		return TurnResult{}, ErrNoGuesses
	}
	if len(words) > team.RemainingGuesses {
		return TurnResult{}, ErrTooManyGuesses
	}

	res := Resolve(s.board, s.keycard, &s.tally, team, words)
	s.last = res.Results

	out := TurnResult{Team: team.ID, Results: res.Results}
	s.settle(team, res.Assassin, &out)
	s.touch()
	return out, nil
}

// EndTurn lets an operative stop guessing before the guesses run out.
func (s *Session) EndTurn(player string) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, err := s.checkOperative(player)
	if err != nil {
		return TurnResult{}, err
	}
	team.RemainingGuesses = 0
	s.last = nil
	out := TurnResult{Team: team.ID}
	s.settle(team, false, &out)
	s.touch()
	return out, nil
}

// Reset returns a brand-new session dealing from the same word source.
// The receiver is left as it was.
func (s *Session) Reset() *Session { return NewSession(s.words) }

// settle runs the terminal check, then hands the turn over if needed.
// A team that has found all its agents has won, even if the same batch
// went on to reveal the assassin.
func (s *Session) settle(team *Team, assassin bool, out *TurnResult) {
	switch {
	case s.tally.Agents[team.ID] == 0:
		s.finish(team.ID, EndAllAgents)
	case assassin:
		s.finish(team.ID.Other(), EndAssassinFound)
	case s.tally.Agents[team.ID.Other()] == 0:
		s.finish(team.ID.Other(), EndAllAgents)
	}

	if !s.ended && team.RemainingGuesses <= 0 {
		team.RemainingGuesses = 0
		s.active = team.ID.Other()
		s.clue = nil
		s.turns++
		out.TurnPassed = true
	}

	out.RemainingGuesses = team.RemainingGuesses
	out.Active = s.active
	out.Ended = s.ended
	out.Winner = s.winner
	out.Reason = s.reason
}

func (s *Session) finish(winner TeamID, reason EndReason) {
	s.ended = true
	s.winner = winner
	s.reason = reason
	s.turns++
}

// checkOperative validates that player may guess right now.
func (s *Session) checkOperative(player string) (*Team, error) {
	if err := s.checkPlaying(); err != nil {
		return nil, err
	}
	t, ok := s.roster.TeamOf(player)
	if !ok {
		return nil, ErrNotAPlayer
	}
	if t != s.active {
		return nil, ErrWrongTeam
	}
	team := s.roster.Team(t)
	if team.Spymaster == player {
		return nil, ErrSpymasterCannotGuess
	}
	return team, nil
}

func (s *Session) checkLobby() error {
	if s.ended {
		return ErrGameOver
	}
	if s.started {
		return ErrAlreadyStarted
	}
	return nil
}

func (s *Session) checkPlaying() error {
	if s.ended {
		return ErrGameOver
	}
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Session) touch() { s.lastActive = time.Now() }

func (s *Session) phase() Phase {
	switch {
	case s.ended:
		return PhaseEnded
	case s.started:
		return PhaseStarted
	case s.configured:
		return PhaseConfigured
	}
	return PhaseLobby
}
