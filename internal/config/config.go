// Package config loads the tuning file. Every section is optional; values
// present in the file overlay the built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"devpet/internal/pet"
	"devpet/internal/sim"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Actions holds the base costs and gains of the player actions.
type Actions struct {
	FeedHunger    float64 `yaml:"feed_hunger"`
	FeedHappiness float64 `yaml:"feed_happiness"`
	FeedHealth    float64 `yaml:"feed_health"`
	FeedMaxHunger float64 `yaml:"feed_max_hunger"` // feeding is refused at or above this

	PlayEnergy    float64 `yaml:"play_energy"`
	PlayHappiness float64 `yaml:"play_happiness"`
	PlayHunger    float64 `yaml:"play_hunger"`
	PlayXP        int     `yaml:"play_xp"`

	WorkEnergy    float64 `yaml:"work_energy"`
	WorkHunger    float64 `yaml:"work_hunger"`
	WorkHappiness float64 `yaml:"work_happiness"`
	WorkPay       int     `yaml:"work_pay"` // per level
	WorkXP        int     `yaml:"work_xp"`

	MiniGameEnergy    float64 `yaml:"mini_game_energy"`
	MiniGameHappiness float64 `yaml:"mini_game_happiness"`

	ReviveHealth float64 `yaml:"revive_health"`
	ReviveStats  float64 `yaml:"revive_stats"`

	DailyBonusBase      int `yaml:"daily_bonus_base"`
	DailyBonusPerStreak int `yaml:"daily_bonus_per_streak"`

	// EventChance scales every random event's own chance. Zero disables
	// random events.
	EventChance float64 `yaml:"event_chance"`
}

// DefaultActions returns the stock balance.
func DefaultActions() Actions {
	return Actions{
		FeedHunger:    30,
		FeedHappiness: 5,
		FeedHealth:    2,
		FeedMaxHunger: 90,

		PlayEnergy:    15,
		PlayHappiness: 20,
		PlayHunger:    5,
		PlayXP:        10,

		WorkEnergy:    20,
		WorkHunger:    10,
		WorkHappiness: 5,
		WorkPay:       20,
		WorkXP:        15,

		MiniGameEnergy:    10,
		MiniGameHappiness: 10,

		ReviveHealth: 50,
		ReviveStats:  50,

		DailyBonusBase:      50,
		DailyBonusPerStreak: 10,

		EventChance: 0.05,
	}
}

// Effects tunes how upgrade bonuses are applied to action costs. The
// reduction cap lives in Rates since passive decay uses it too.
type Effects struct {
	EnergyCostFloor float64 `yaml:"energy_cost_floor"`
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend  string        `yaml:"backend"`
	Dir      string        `yaml:"dir"`
	DSN      string        `yaml:"dsn"`
	Debounce time.Duration `yaml:"debounce"`
}

// Config is the full tuning file.
// All top-level sections must be listed to satisfy KnownFields(true).
type Config struct {
	Rates    pet.Rates  `yaml:"rates"`
	Schedule sim.Policy `yaml:"schedule"`
	Actions  Actions    `yaml:"actions"`
	Effects  Effects    `yaml:"effects"`
	Store    Store      `yaml:"store"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Rates:    pet.DefaultRates(),
		Schedule: sim.DefaultPolicy(),
		Actions:  DefaultActions(),
		Effects:  Effects{EnergyCostFloor: 1},
		Store: Store{
			Backend:  BackendFile,
			Debounce: 2 * time.Second,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Debug("No config file, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	logrus.WithField("path", path).Info("Loaded config")
	return cfg, nil
}

// Parse decodes YAML over the defaults with strict field checking, so a
// typo in a key is an error rather than a silently ignored setting.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendPostgres && c.Store.DSN == "" {
		return errors.New("postgres backend needs store.dsn")
	}
	if c.Schedule.TickInterval <= 0 || c.Schedule.FastForwardInterval <= 0 {
		return errors.New("schedule intervals must be positive")
	}
	if c.Schedule.FastForwardStep <= 0 {
		return errors.New("schedule.fast_forward_step must be positive")
	}
	if c.Rates.EfficiencyCap < 0 || c.Rates.EfficiencyCap > 1 {
		return fmt.Errorf("rates.efficiency_cap %v out of [0,1]", c.Rates.EfficiencyCap)
	}
	if c.Effects.EnergyCostFloor < 0 {
		return errors.New("effects.energy_cost_floor must not be negative")
	}
	if c.Store.Debounce < 0 {
		return errors.New("store.debounce must not be negative")
	}
	return nil
}
