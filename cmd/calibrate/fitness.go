package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/game"
)

// FitnessEvaluator runs headless drags and scores how far the torn
// fraction lands from the target.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	script     game.DragScript
	settle     int32
	target     float64

	mu       sync.Mutex
	lastTorn float64 // mean torn fraction from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Each run lasts until the
// scripted release plus settle ticks.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, target float64, settle int32) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		script:     game.DefaultDragScript(),
		settle:     settle,
		target:     target,
	}
}

// LastTorn returns the mean torn fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastTorn() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTorn
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel; a failed run scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	torn := make([]float64, len(fe.seeds))
	var g errgroup.Group
	for i, seed := range fe.seeds {
		i, seed := i, seed
		g.Go(func() error {
			t, err := fe.runSeed(cfg, seed)
			torn[i] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return math.Inf(1)
	}

	var sum float64
	for _, t := range torn {
		sum += t
	}
	mean := sum / float64(len(torn))

	fe.mu.Lock()
	fe.lastTorn = mean
	fe.mu.Unlock()

	return fe.computeFitness(mean)
}

// runSeed performs one scripted drag and returns the final torn fraction.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed int64) (float64, error) {
	sim, err := game.New(cfg, game.Options{Seed: seed})
	if err != nil {
		return 0, err
	}
	defer sim.Close()
	sim.Init(float64(cfg.Screen.Width), float64(cfg.Screen.Height))

	script := fe.script
	err = game.RunHeadless(context.Background(), sim, game.HeadlessOptions{
		MaxTicks: script.End() + fe.settle,
		Script:   &script,
	})
	if err != nil {
		return 0, err
	}
	return sim.Status().TornFraction, nil
}

// copyConfig returns a copy of the base config that runs can modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness is the squared distance from the target torn fraction.
func (fe *FitnessEvaluator) computeFitness(torn float64) float64 {
	d := torn - fe.target
	return d * d
}
