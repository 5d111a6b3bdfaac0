package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// TickCommand advances the scheduler to the clock's current time
type TickCommand struct{}

// TickResponse lists the upgrades resolved by this tick
type TickResponse struct {
	Completions []village.Completion
}

// TickHandler handles scheduler ticks
type TickHandler struct {
	state *village.State
	store village.StateStore
	sched *village.Scheduler
	clock shared.Clock
}

// NewTickHandler creates a new tick handler
func NewTickHandler(state *village.State, store village.StateStore, sched *village.Scheduler, clock shared.Clock) *TickHandler {
	return &TickHandler{state: state, store: store, sched: sched, clock: clock}
}

// Handle executes the tick command. State is only persisted when the tick
// actually resolved something.
func (h *TickHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*TickCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	tierFor := func(accountID string) (int, bool) {
		acc, ok := h.state.Roster.Account(accountID)
		if !ok {
			return 0, false
		}
		return acc.Tier(), true
	}

	completions := h.sched.Tick(h.clock.Now(), tierFor)
	if len(completions) > 0 {
		if err := h.store.Save(ctx, h.state); err != nil {
			return nil, fmt.Errorf("failed to persist state: %w", err)
		}
	}
	return &TickResponse{Completions: completions}, nil
}
