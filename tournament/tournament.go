// Package tournament schedules a round robin of iterated Prisoner's
// Dilemma matches: every unordered pair of strategies plays a number of
// independent simulations, spread over a pool of worker goroutines.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"
	"lukechampine.com/frand"

	"github.com/domino14/dilemma/game"
	"github.com/domino14/dilemma/payoff"
	"github.com/domino14/dilemma/strategy"
)

var (
	ErrInvalidSimulations = errors.New("number of simulations must be positive")
	ErrInvalidRounds      = errors.New("rounds per simulation must be positive")
	ErrDuplicateStrategy  = errors.New("strategy entered more than once")
)

// Options control a tournament run.
type Options struct {
	Simulations int
	Rounds      int
	// Threads is the number of worker goroutines; 0 means one per CPU.
	Threads int
	// Seed fixes every random source in the run. 0 picks a random seed.
	Seed   uint64
	Payoff payoff.Matrix
}

// Tournament is a validated, ready to run schedule.
type Tournament struct {
	names  []string
	pairs  [][]int
	opts   Options
	seed   uint64
	played atomic.Uint64
}

// New validates the entrants and options. No match is played until Run.
func New(names []string, opts Options) (*Tournament, error) {
	if opts.Simulations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSimulations, opts.Simulations)
	}
	if opts.Rounds <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRounds, opts.Rounds)
	}
	if opts.Payoff == (payoff.Matrix{}) {
		opts.Payoff = payoff.Canonical
	}
	if err := opts.Payoff.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !strategy.Exists(n) {
			return nil, fmt.Errorf("%w: %q", strategy.ErrUnknownStrategy, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStrategy, n)
		}
		seen[n] = true
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}

	t := &Tournament{
		names: append([]string(nil), names...),
		opts:  opts,
		seed:  opts.Seed,
	}
	if t.seed == 0 {
		t.seed = frand.Uint64n(math.MaxUint64)
	}
	if len(names) >= 2 {
		t.pairs = combin.Combinations(len(names), 2)
	}
	return t, nil
}

// Seed returns the seed the run actually uses. Passing it back in Options
// replays the tournament exactly.
func (t *Tournament) Seed() uint64 {
	return t.seed
}

// Pairs returns every pairing, each listed once, in schedule order.
func (t *Tournament) Pairs() [][2]string {
	out := make([][2]string, len(t.pairs))
	for i, p := range t.pairs {
		out[i] = [2]string{t.names[p[0]], t.names[p[1]]}
	}
	return out
}

// MatchCount is simulations × C(n, 2).
func (t *Tournament) MatchCount() int {
	return len(t.pairs) * t.opts.Simulations
}

// Played returns how many matches have finished so far.
func (t *Tournament) Played() uint64 {
	return t.played.Load()
}

// MatchSeed derives the seed for one side of one match from the run seed.
// It depends only on who plays whom and in which simulation, so results do
// not change with the number of workers or the order they pick up jobs.
func MatchSeed(runSeed uint64, a, b string, sim, side int) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%d|%s|%s|%d|%d", runSeed, a, b, sim, side))
}

func (t *Tournament) playJob(idx int, logger *zerolog.Logger) (game.MatchResult, error) {
	pair := t.pairs[idx/t.opts.Simulations]
	sim := idx % t.opts.Simulations
	nameA, nameB := t.names[pair[0]], t.names[pair[1]]

	a, err := strategy.New(nameA, strategy.NewRand(MatchSeed(t.seed, nameA, nameB, sim, game.PlayerA)))
	if err != nil {
		return game.MatchResult{}, err
	}
	b, err := strategy.New(nameB, strategy.NewRand(MatchSeed(t.seed, nameA, nameB, sim, game.PlayerB)))
	if err != nil {
		return game.MatchResult{}, err
	}
	m := game.NewMatch(a, b, t.opts.Rounds)
	m.Payoff = t.opts.Payoff
	m.Simulation = sim
	m.Logger = logger
	res, _ := m.Play()
	return res, nil
}

// Run plays every match and returns the results ordered by pair, then by
// simulation. Each job writes only its own slot of the result slice, so
// workers never contend for a lock. Running the same tournament again
// starts the Played count over.
func (t *Tournament) Run(ctx context.Context) ([]game.MatchResult, error) {
	logger := zerolog.Ctx(ctx)
	t.played.Store(0)
	total := t.MatchCount()
	results := make([]game.MatchResult, total)
	if total == 0 {
		return results, nil
	}
	threads := min(t.opts.Threads, total)
	logEvery := uint64(max(total/10, 1))

	logger.Info().Int("strategies", len(t.names)).Int("pairs", len(t.pairs)).
		Int("simulations", t.opts.Simulations).Int("rounds", t.opts.Rounds).
		Int("threads", threads).Uint64("seed", t.seed).Msg("tournament-starting")
	tstart := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int, threads*4)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < threads; w++ {
		g.Go(func() error {
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := t.playJob(idx, logger)
				if err != nil {
					return err
				}
				results[idx] = res
				if n := t.played.Add(1); n%logEvery == 0 {
					logger.Debug().Uint64("played", n).Int("total", total).Msg("tournament-progress")
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Err(err).Uint64("played", t.played.Load()).Msg("tournament-aborted")
		return nil, err
	}
	logger.Info().Int("matches", total).Dur("elapsed", time.Since(tstart)).Msg("tournament-finished")
	return results, nil
}

// Run builds and plays a tournament in one call.
func Run(ctx context.Context, names []string, opts Options) ([]game.MatchResult, error) {
	t, err := New(names, opts)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx)
}
