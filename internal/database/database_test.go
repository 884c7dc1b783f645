package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/codenames/assets"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db, assets.Migrations()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("recorded migrations = %d, want 2", n)
	}
	for _, table := range []string{"users", "games", "game_players"} {
		if _, err := db.Exec(`SELECT COUNT(*) FROM ` + table); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateRollsBackBrokenScript(t *testing.T) {
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"002_broken.sql": {Data: []byte(`CREATE TABLE broken (id INTEGER); NOT SQL;`)},
	}
	if err := Migrate(db, fsys); err == nil {
		t.Fatal("expected error")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 1 {
		t.Errorf("recorded = %d, want 1", n)
	}
}

func TestMigrateAppliesOnlyNewScripts(t *testing.T) {
	db, err := Open(MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"notes.txt": {Data: []byte(`ignored`)},
	}
	if err := Migrate(db, fsys); err != nil {
		t.Fatal(err)
	}
	// Re-running 001 would fail on the existing table.
	fsys["002_b.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE b (id INTEGER);`)}
	if err := Migrate(db, fsys); err != nil {
		t.Fatal(err)
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 2 {
		t.Errorf("recorded = %d, want 2", n)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "codenames.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}
}
