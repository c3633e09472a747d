// Package config loads tournament settings from flags, the environment
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/dilemma/payoff"
)

const (
	ConfigFile             = "config"
	ConfigSimulations      = "simulations"
	ConfigRounds           = "rounds"
	ConfigThreads          = "threads"
	ConfigSeed             = "seed"
	ConfigOutputDir        = "output-dir"
	ConfigDBPath           = "db-path"
	ConfigDebug            = "debug"
	ConfigHistogramBins    = "histogram-bins"
	ConfigPayoffReward     = "payoff.reward"
	ConfigPayoffTemptation = "payoff.temptation"
	ConfigPayoffSucker     = "payoff.sucker"
	ConfigPayoffPunishment = "payoff.punishment"
)

const (
	DefaultSimulations = 100
	DefaultRounds      = 400
)

var ErrNonPositive = errors.New("value must be positive")

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set and nothing read
// from the environment.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigSimulations, DefaultSimulations)
	c.SetDefault(ConfigRounds, DefaultRounds)
	c.SetDefault(ConfigThreads, 0)
	c.SetDefault(ConfigSeed, uint64(0))
	c.SetDefault(ConfigOutputDir, ".")
	c.SetDefault(ConfigDBPath, "")
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigHistogramBins, 15)
	c.SetDefault(ConfigPayoffReward, payoff.Canonical.Reward)
	c.SetDefault(ConfigPayoffTemptation, payoff.Canonical.Temptation)
	c.SetDefault(ConfigPayoffSucker, payoff.Canonical.Sucker)
	c.SetDefault(ConfigPayoffPunishment, payoff.Canonical.Punishment)
}

// Load parses args, then layers DILEMMA_* environment variables and, if
// --config was given, a config file underneath the flags.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("dilemma", pflag.ContinueOnError)
	fs.String(ConfigFile, "", "path to a yaml/toml/json config file")
	fs.Int(ConfigSimulations, DefaultSimulations, "matches played per strategy pair")
	fs.Int(ConfigRounds, DefaultRounds, "rounds per match")
	fs.Int(ConfigThreads, 0, "worker goroutines; 0 uses every CPU")
	fs.Uint64(ConfigSeed, 0, "run seed; 0 picks a random one")
	fs.String(ConfigOutputDir, ".", "directory for the csv and yaml reports")
	fs.String(ConfigDBPath, "", "sqlite file to store the run in; empty to skip")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.Int(ConfigHistogramBins, 15, "bins in the score histogram")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("dilemma")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) Simulations() int  { return c.GetInt(ConfigSimulations) }
func (c *Config) Rounds() int       { return c.GetInt(ConfigRounds) }
func (c *Config) Seed() uint64      { return c.GetUint64(ConfigSeed) }
func (c *Config) OutputDir() string { return c.GetString(ConfigOutputDir) }
func (c *Config) DBPath() string    { return c.GetString(ConfigDBPath) }
func (c *Config) Debug() bool       { return c.GetBool(ConfigDebug) }

// Threads returns the configured worker count, or the number of CPUs if
// none was set.
func (c *Config) Threads() int {
	if n := c.GetInt(ConfigThreads); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func (c *Config) HistogramBins() int {
	if n := c.GetInt(ConfigHistogramBins); n > 0 {
		return n
	}
	return 15
}

func (c *Config) Payoff() payoff.Matrix {
	return payoff.Matrix{
		Reward:     c.GetInt(ConfigPayoffReward),
		Temptation: c.GetInt(ConfigPayoffTemptation),
		Sucker:     c.GetInt(ConfigPayoffSucker),
		Punishment: c.GetInt(ConfigPayoffPunishment),
	}
}

// Validate rejects settings a tournament cannot run with. Nothing is
// clamped to a default.
func (c *Config) Validate() error {
	if n := c.Simulations(); n <= 0 {
		return fmt.Errorf("%s=%d: %w", ConfigSimulations, n, ErrNonPositive)
	}
	if n := c.Rounds(); n <= 0 {
		return fmt.Errorf("%s=%d: %w", ConfigRounds, n, ErrNonPositive)
	}
	if n := c.GetInt(ConfigThreads); n < 0 {
		return fmt.Errorf("%s=%d: %w", ConfigThreads, n, ErrNonPositive)
	}
	return c.Payoff().Validate()
}
