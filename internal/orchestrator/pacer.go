package orchestrator

import (
	"context"
	"time"
)

// Pacer enforces a minimum wall-clock duration for a phase. It exists only
// to smooth externally observed progress; it carries no correctness weight
// and the default is a no-op so headless runs never wait.
type Pacer interface {
	// Pace blocks until the phase's minimum duration has elapsed or the
	// context is cancelled, returning the context error in the latter case.
	Pace(ctx context.Context, phase Phase) error
}

// NopPacer never waits.
type NopPacer struct{}

func (NopPacer) Pace(context.Context, Phase) error { return nil }

// FixedPacer holds a minimum duration per phase name. Phases without an
// entry do not wait.
type FixedPacer struct {
	Minimums map[string]time.Duration
}

// NewFixedPacer applies the same minimum to the alignment and synthesis
// phases, the two phases that historically completed too fast to observe.
func NewFixedPacer(minimum time.Duration) *FixedPacer {
	return &FixedPacer{Minimums: map[string]time.Duration{
		PhaseAlignment.Name: minimum,
		PhaseSynthesis.Name: minimum,
	}}
}

func (p *FixedPacer) Pace(ctx context.Context, phase Phase) error {
	minimum := p.Minimums[phase.Name]
	if minimum <= 0 {
		return nil
	}
	timer := time.NewTimer(minimum)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
