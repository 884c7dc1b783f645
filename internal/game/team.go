// internal/game/team.go
//
// Team membership and spymaster bookkeeping.
//
// A Roster owns both teams. Teams never point back at the session; members
// are enumerated through the roster by TeamID. The roster does not know the
// session phase, so Session gates every mutation after start.

package game

import "github.com/samber/lo"

// Team is one side of the table.
type Team struct {
	ID               TeamID
	Emoji            string // display label for the transport, e.g. ":red_circle:"
	Spymaster        string // player ID, empty when vacant
	RemainingGuesses int    // meaningful only while the team is active
}

// Category returns the agent category the team is looking for.
func (t *Team) Category() Category { return t.ID.Category() }

// Roster tracks which team each player belongs to.
type Roster struct {
	teams   map[TeamID]*Team
	players map[string]TeamID // player ID → team
	order   []string          // player IDs in join order
}

// NewRoster returns two empty teams.
func NewRoster() *Roster {
	return &Roster{
		teams: map[TeamID]*Team{
			Red:  {ID: Red, Emoji: ":red_circle:"},
			Blue: {ID: Blue, Emoji: ":blue_circle:"},
		},
		players: make(map[string]TeamID),
	}
}

// Team returns the live team record.
func (r *Roster) Team(id TeamID) *Team { return r.teams[id] }

// TeamOf reports which team a player is on.
func (r *Roster) TeamOf(player string) (TeamID, bool) {
	t, ok := r.players[player]
	return t, ok
}

// Add puts player on team, leaving any previous team first.
// Returns the previous team's ID if the player was its spymaster and vacated the role.
func (r *Roster) Add(team TeamID, player string) (vacated TeamID, ok bool) {
	if prev, found := r.players[player]; found {
		if r.teams[prev].Spymaster == player {
			r.ClearSpymaster(prev)
			vacated, ok = prev, true
		}
		r.order = lo.Without(r.order, player)
	}
	r.players[player] = team
	r.order = append(r.order, player)
	return vacated, ok
}

// SetSpymaster designates player as the team's spymaster.
func (r *Roster) SetSpymaster(team TeamID, player string) error {
	t := r.teams[team]
	if t.Spymaster != "" {
		return ErrAlreadyHasSpymaster
	}
	t.Spymaster = player
	return nil
}

// ClearSpymaster vacates the role. Safe to call when already vacant.
func (r *Roster) ClearSpymaster(team TeamID) { r.teams[team].Spymaster = "" }

// Members lists a team's players in join order.
func (r *Roster) Members(team TeamID) []string {
	return lo.Filter(r.order, func(p string, _ int) bool { return r.players[p] == team })
}

// MemberCount returns how many players are on team.
func (r *Roster) MemberCount(team TeamID) int {
	return lo.CountBy(r.order, func(p string) bool { return r.players[p] == team })
}

// Players lists everyone on either team in join order.
func (r *Roster) Players() []string { return append([]string(nil), r.order...) }

// IsSpymaster reports whether player is the spymaster of their own team.
func (r *Roster) IsSpymaster(player string) bool {
	t, ok := r.players[player]
	return ok && r.teams[t].Spymaster == player
}
