package lattice

import (
	"fmt"
	"math/rand"
)

// InitMode selects the starting spin configuration.
type InitMode string

const (
	// InitRandom draws every spin independently (hot start).
	InitRandom InitMode = "random"
	// InitUp aligns every spin up (cold start).
	InitUp InitMode = "up"
	// InitDown aligns every spin down (cold start).
	InitDown InitMode = "down"
)

func ParseInitMode(s string) (InitMode, error) {
	switch m := InitMode(s); m {
	case InitRandom, InitUp, InitDown:
		return m, nil
	case "":
		return InitRandom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInit, s)
	}
}

type options struct {
	rng       *rand.Rand
	init      InitMode
	history   HistoryPolicy
	observers []Observer
}

// Option configures a Lattice at construction.
type Option func(*options)

// WithRand makes the lattice draw from r. The lattice takes ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

func WithInit(mode InitMode) Option {
	return func(o *options) { o.init = mode }
}

func WithHistory(p HistoryPolicy) Option {
	return func(o *options) { o.history = p }
}

// WithObserver registers obs before the first step.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}
