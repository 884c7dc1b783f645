// internal/history/store.go
//
// Persistent record of finished games.
//
// Responsibilities:
//   - Record a finished session (games + game_players rows) and bump per-user
//     stats in the same transaction.
//   - Leaderboard across all users, and the recent games of one player.
//
// Notes:
//   - Game IDs are session IDs, so recording a game twice is a no-op.
//   - Players without a users row (guests) are stored but have no stats.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

// Player is one participant of a finished game.
type Player struct {
	ID        string      `json:"id"`
	Team      game.TeamID `json:"team"`
	Spymaster bool        `json:"spymaster"`
}

// Result is one finished game.
type Result struct {
	GameID     string         `json:"gameId"`
	Channel    string         `json:"channel"`
	Starting   game.TeamID    `json:"starting"`
	Winner     game.TeamID    `json:"winner"`
	Reason     game.EndReason `json:"reason"`
	Turns      int            `json:"turns"`
	RedLeft    int            `json:"redLeft"`
	BlueLeft   int            `json:"blueLeft"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Players    []Player       `json:"players,omitempty"`
}

// FromSnapshot builds a Result from the final state of an ended session.
func FromSnapshot(channel string, snap game.Snapshot, finished time.Time) Result {
	r := Result{
		GameID:     snap.ID,
		Channel:    channel,
		Starting:   snap.Starting,
		Winner:     snap.Winner,
		Reason:     snap.Reason,
		Turns:      snap.Turns,
		RedLeft:    snap.Teams[game.Red].Agents,
		BlueLeft:   snap.Teams[game.Blue].Agents,
		StartedAt:  snap.StartedAt,
		FinishedAt: finished,
	}
	for _, id := range game.Teams {
		tv := snap.Teams[id]
		for _, m := range tv.Members {
			r.Players = append(r.Players, Player{ID: m, Team: id, Spymaster: m == tv.Spymaster})
		}
	}
	return r
}

// Store reads and writes game history through db.
type Store struct{ db *sql.DB }

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record stores a finished game and bumps every participant's stats in one transaction.
// Players without a user row are recorded but have no stats to bump.
// Recording the same game twice is a no-op.
func (s *Store) Record(ctx context.Context, r Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO games(id, channel, starting, winner, reason, turns, red_left, blue_left, started_at, finished_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		r.GameID, r.Channel, r.Starting, r.Winner, r.Reason, r.Turns, r.RedLeft, r.BlueLeft,
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	for _, p := range r.Players {
		won := p.Team == r.Winner
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players(game_id, player_id, team, spymaster, won) VALUES(?,?,?,?,?)`,
			r.GameID, p.ID, p.Team, p.Spymaster, won,
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
		if err := bumpStats(ctx, tx, p.ID, won); err != nil {
			return fmt.Errorf("bump stats %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak based on result.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET
			games_played = games_played + 1,
			wins   = wins + CASE WHEN ? THEN 1 ELSE 0 END,
			streak = CASE WHEN ? THEN streak + 1 ELSE 0 END
		WHERE id=?`, won, won, userID,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Streak      int    `json:"streak"`
}

// Leaderboard ranks users by wins, then by fewest games needed.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, games_played, wins, streak
		FROM users
		WHERE games_played > 0
		ORDER BY wins DESC, games_played ASC, username ASC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.GamesPlayed, &r.Wins, &r.Streak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerGame is one game seen from a single player's side.
type PlayerGame struct {
	GameID     string         `json:"gameId"`
	Channel    string         `json:"channel"`
	Team       game.TeamID    `json:"team"`
	Spymaster  bool           `json:"spymaster"`
	Won        bool           `json:"won"`
	Reason     game.EndReason `json:"reason"`
	FinishedAt string         `json:"finishedAt"`
}

// ForPlayer lists a player's most recent games.
func (s *Store) ForPlayer(ctx context.Context, playerID string, limit int) ([]PlayerGame, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.channel, p.team, p.spymaster, p.won, g.reason, g.finished_at
		FROM game_players p JOIN games g ON g.id = p.game_id
		WHERE p.player_id=?
		ORDER BY g.finished_at DESC
		LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PlayerGame{}
	for rows.Next() {
		var pg PlayerGame
		if err := rows.Scan(&pg.GameID, &pg.Channel, &pg.Team, &pg.Spymaster, &pg.Won, &pg.Reason, &pg.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, pg)
	}
	return out, rows.Err()
}
