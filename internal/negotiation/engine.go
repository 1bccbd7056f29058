package negotiation

import (
	"context"
	"time"

	"github.com/quickcare/quickcare-backend/internal/llm"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

const (
	defaultTurnDelay    = 1500 * time.Millisecond
	defaultConfirmDelay = time.Second
)

// Engine produces paced negotiation dialogues. Each Run yields a lazy,
// finite, non-restartable sequence of turns: a delay elapses before every
// turn is emitted, and cancellation is honored at every suspension point.
type Engine struct {
	client       llm.Client
	turnDelay    time.Duration
	confirmDelay time.Duration
	logger       *logging.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithDelays overrides the pacing delays (tests use near-zero values).
func WithDelays(turn, confirm time.Duration) EngineOption {
	return func(e *Engine) {
		if turn >= 0 {
			e.turnDelay = turn
		}
		if confirm >= 0 {
			e.confirmDelay = confirm
		}
	}
}

// NewEngine creates a negotiation engine backed by the given completion
// client.
func NewEngine(client llm.Client, logger *logging.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		client:       client,
		turnDelay:    defaultTurnDelay,
		confirmDelay: defaultConfirmDelay,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run generates (or falls back to) a script for the target and emits its
// turns on the returned channel with delay-then-yield pacing: the regular
// inter-turn delay before each dialogue turn and the shorter confirm delay
// before the terminal turn. The channel is closed when the script is
// exhausted or ctx is canceled; after cancellation no further turns are
// emitted.
func (e *Engine) Run(ctx context.Context, target Target, profile patients.Profile) <-chan Turn {
	out := make(chan Turn)
	go func() {
		defer close(out)

		script := e.generateScript(ctx, target, profile)
		if ctx.Err() != nil {
			return
		}

		for _, turn := range script {
			delay := e.turnDelay
			if turn.IsTerminal() {
				delay = e.confirmDelay
			}
			if !sleepOrDone(ctx, delay) {
				return
			}
			select {
			case out <- turn:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// sleepOrDone waits for d unless ctx is canceled first. Returns false when
// the wait was interrupted.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
