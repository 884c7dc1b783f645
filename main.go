// main.go
//
// Entrypoint for the Codenames server.
// Startup order:
//   1. .env (optional) → flags/env via cobra + viper.
//   2. Word pool (fails fast if it cannot fill a board).
//   3. SQLite open + embedded migrations.
//   4. Session registry, idle reaper, HTTP server.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/codenames/assets"
	"github.com/robalobadob/codenames/internal/database"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/httpserver"
	"github.com/robalobadob/codenames/internal/store"
	"github.com/robalobadob/codenames/internal/words"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(ctx))
}

func serve(ctx context.Context, cfg *Config) error {
	lvl, _ := zerolog.ParseLevel(cfg.logLevel)
	zerolog.SetGlobalLevel(lvl)

	pool, err := words.Load(cfg.wordsFile, game.Size)
	if err != nil {
		return err
	}
	log.Info().Int("words", pool.Len()).Str("file", cfg.wordsFile).Msg("word pool loaded")

	db, err := database.Open(cfg.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		return err
	}

	srv := httpserver.New(cfg.server(), store.NewMemoryStore(), db, pool)
	go srv.Reap(ctx, cfg.sessionTimeout)

	log.Info().Str("addr", cfg.addr()).Str("version", releaseVersion).Msg("starting codenames server")
	return srv.Start(ctx, cfg.addr())
}
