package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robalobadob/codenames/internal/httpserver"
)

const releaseVersion = "0.1.0"

type Config struct {
	bind           string
	port           int
	dbPath         string
	wordsFile      string
	jwtSecret      string
	jwtExpiry      time.Duration
	clientOrigin   string
	cookieName     string
	production     bool
	logLevel       string
	sessionTimeout time.Duration
	requestTimeout time.Duration
	rateRPS        int
	rateBurst      int
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.logLevel)
	}
	if c.production && c.jwtSecret == defaultSecret {
		return errors.New("--jwt-secret must be set in production")
	}
	if c.jwtExpiry <= 0 {
		return errors.New("--jwt-expiry must be positive")
	}
	if c.rateRPS > 0 && c.rateBurst < 1 {
		return errors.New("--rate-burst must be at least 1 when rate limiting is on")
	}
	return nil
}

func (c *Config) addr() string { return fmt.Sprintf("%s:%d", c.bind, c.port) }

// server maps the CLI settings onto the transport config.
func (c *Config) server() httpserver.Config {
	return httpserver.Config{
		JWTSecret:      c.jwtSecret,
		JWTExpiry:      c.jwtExpiry,
		ClientOrigin:   c.clientOrigin,
		CookieName:     c.cookieName,
		Production:     c.production,
		RequestTimeout: c.requestTimeout,
		RateRPS:        c.rateRPS,
		RateBurst:      c.rateBurst,
	}
}

var defaultSecret = httpserver.DefaultConfig().JWTSecret

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CODENAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "codenames",
		Short:         "Codenames game server: one shared board per channel, played over HTTP and websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	def := httpserver.DefaultConfig()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CODENAMES_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: CODENAMES_PORT)")
	fs.StringVar(&cfg.dbPath, "db-path", "data/codenames.db", "sqlite database file (env: CODENAMES_DB_PATH)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "word list, one per line; empty uses the built-in list (env: CODENAMES_WORDS_FILE)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", def.JWTSecret, "HS256 signing secret (env: CODENAMES_JWT_SECRET)")
	fs.DurationVar(&cfg.jwtExpiry, "jwt-expiry", def.JWTExpiry, "auth token lifetime (env: CODENAMES_JWT_EXPIRY)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", def.ClientOrigin, "browser origin allowed by CORS (env: CODENAMES_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.cookieName, "cookie-name", def.CookieName, "auth cookie name (env: CODENAMES_COOKIE_NAME)")
	fs.BoolVar(&cfg.production, "production", false, "secure cookies and strict websocket origins (env: CODENAMES_PRODUCTION)")
	fs.StringVarP(&cfg.logLevel, "log-level", "l", "info", "zerolog level (env: CODENAMES_LOG_LEVEL)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are dropped, 0 disables (env: CODENAMES_SESSION_TIMEOUT)")
	fs.DurationVar(&cfg.requestTimeout, "request-timeout", def.RequestTimeout, "per-request handler timeout (env: CODENAMES_REQUEST_TIMEOUT)")
	fs.IntVar(&cfg.rateRPS, "rate-rps", def.RateRPS, "game commands per second per client, 0 disables (env: CODENAMES_RATE_RPS)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", def.RateBurst, "burst allowance for game commands (env: CODENAMES_RATE_BURST)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("codenames v{{.Version}}\n")

	cmd.SilenceUsage = true

	return cmd
}
