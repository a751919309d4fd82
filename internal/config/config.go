package config

import (
	"errors"
	"holdem-server/internal/util"
	"holdem-server/pkg/holdem"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Store constants
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Rules are the table limits in the configuration file
type Rules struct {
	MinPlayers int `yaml:"minPlayers" envconfig:"min_players"`
	MaxPlayers int `yaml:"maxPlayers" envconfig:"max_players"`
	MinBuyin   int `yaml:"minBuyin" envconfig:"min_buyin"`
	MaxBuyin   int `yaml:"maxBuyin" envconfig:"max_buyin"`
	SmallBlind int `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind   int `yaml:"bigBlind" envconfig:"big_blind"`
}

// Config provides configuration for the hold'em server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Store          string `yaml:"store" envconfig:"store"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	StartingBank  int   `yaml:"startingBank" envconfig:"starting_bank"`
	UserCacheSize int   `yaml:"userCacheSize" envconfig:"user_cache_size"`
	Rules         Rules `yaml:"rules"`
	// ActionTimeout is in seconds
	ActionTimeout int `yaml:"actionTimeout" envconfig:"action_timeout"`
	// NextHandDelay is in milliseconds
	NextHandDelay int `yaml:"nextHandDelay" envconfig:"next_hand_delay"`
	// TickInterval is in milliseconds
	TickInterval int `yaml:"tickInterval" envconfig:"tick_interval"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	r := holdem.DefaultRules()

	c := Config{
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Store:          StorePostgres,
		StartingBank:   1000000,
		UserCacheSize:  1024,
		Rules: Rules{
			MinPlayers: r.MinPlayers,
			MaxPlayers: r.MaxPlayers,
			MinBuyin:   r.MinBuyin,
			MaxBuyin:   r.MaxBuyin,
			SmallBlind: r.SmallBlind,
			BigBlind:   r.BigBlind,
		},
		ActionTimeout: int(r.ActionTimeout / time.Second),
		NextHandDelay: int(r.NextHandDelay / time.Millisecond),
		TickInterval:  500,
	}

	c.JWT.PublicKey = "public.pem"
	c.JWT.PrivateKey = "private.key"
	c.Log.Level = "info"

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The config file is optional. Environment variables prefixed with HOLDEM_ take precedence
func Load() error {
	c := DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&c); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &c); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return err
	}

	c.loaded = true
	config = c
	return nil
}

func (c Config) validate() error {
	if c.Store != StorePostgres && c.Store != StoreMemory {
		return errors.New("store must be postgres or memory")
	}

	r := c.Rules
	if r.MinPlayers < 2 || r.MaxPlayers < r.MinPlayers {
		return errors.New("rules must allow at least two players")
	}

	if r.MinBuyin <= 0 || r.MaxBuyin < r.MinBuyin {
		return errors.New("invalid buy-in limits")
	}

	if r.SmallBlind <= 0 || r.BigBlind < r.SmallBlind {
		return errors.New("invalid blinds")
	}

	if c.ActionTimeout <= 0 || c.NextHandDelay <= 0 || c.TickInterval <= 0 {
		return errors.New("timings must be positive")
	}

	return nil
}

// TableRules returns the ruleset for new tables
func (c Config) TableRules() holdem.Rules {
	return holdem.Rules{
		MinPlayers:    c.Rules.MinPlayers,
		MaxPlayers:    c.Rules.MaxPlayers,
		MinBuyin:      c.Rules.MinBuyin,
		MaxBuyin:      c.Rules.MaxBuyin,
		SmallBlind:    c.Rules.SmallBlind,
		BigBlind:      c.Rules.BigBlind,
		ActionTimeout: time.Duration(c.ActionTimeout) * time.Second,
		NextHandDelay: time.Duration(c.NextHandDelay) * time.Millisecond,
	}
}

// TickDuration returns how often tables check their deadlines
func (c Config) TickDuration() time.Duration {
	return time.Duration(c.TickInterval) * time.Millisecond
}
