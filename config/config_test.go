package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dilemma/payoff"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.Simulations(), 100)
	is.Equal(c.Rounds(), 400)
	is.Equal(c.Threads(), runtime.NumCPU())
	is.Equal(c.Seed(), uint64(0))
	is.Equal(c.Payoff(), payoff.Canonical)
	is.NoErr(c.Validate())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"--simulations", "5", "--rounds=20", "--threads", "3", "--seed", "77", "--debug"})
	is.NoErr(err)
	is.Equal(c.Simulations(), 5)
	is.Equal(c.Rounds(), 20)
	is.Equal(c.Threads(), 3)
	is.Equal(c.Seed(), uint64(77))
	is.True(c.Debug())
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("DILEMMA_ROUNDS", "12")
	t.Setenv("DILEMMA_OUTPUT_DIR", "/tmp/out")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.Rounds(), 12)
	is.Equal(c.OutputDir(), "/tmp/out")

	// flags win over the environment
	is.NoErr(c.Load([]string{"--rounds", "3"}))
	is.Equal(c.Rounds(), 3)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "dilemma.yaml")
	err := os.WriteFile(path, []byte("simulations: 7\npayoff:\n  temptation: 6\n"), 0o644)
	is.NoErr(err)

	c := &Config{}
	is.NoErr(c.Load([]string{"--config", path}))
	is.Equal(c.Simulations(), 7)
	is.Equal(c.Payoff().Temptation, 6)
	is.Equal(c.Payoff().Reward, 3)
	is.NoErr(c.Validate())

	is.True(c.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}) != nil)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	for _, kv := range []struct {
		key string
		val int
	}{
		{ConfigSimulations, 0},
		{ConfigRounds, -4},
		{ConfigThreads, -1},
	} {
		c := DefaultConfig()
		c.Set(kv.key, kv.val)
		is.True(errors.Is(c.Validate(), ErrNonPositive))
	}

	c := DefaultConfig()
	c.Set(ConfigPayoffSucker, 4)
	is.True(errors.Is(c.Validate(), payoff.ErrNotDilemma))
}

func TestUnknownFlag(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--bogus"}) != nil)
}
