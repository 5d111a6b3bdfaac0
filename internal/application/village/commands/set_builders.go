package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// SetBuildersCommand adjusts an account's builder pool
type SetBuildersCommand struct {
	AccountID string
	Count     int
}

// SetSixthBuilderCommand toggles the sixth-builder unlock. Revoking it
// clamps the configured count to five without cancelling running work.
type SetSixthBuilderCommand struct {
	AccountID string
	Unlocked  bool
}

// SetBuildersResponse carries the resulting pool
type SetBuildersResponse struct {
	Builders village.BuilderPool
}

// SetBuildersHandler handles builder pool mutations
type SetBuildersHandler struct {
	state *village.State
	store village.StateStore
}

// NewSetBuildersHandler creates a new builder pool handler
func NewSetBuildersHandler(state *village.State, store village.StateStore) *SetBuildersHandler {
	return &SetBuildersHandler{state: state, store: store}
}

// Handle executes one of the builder pool commands
func (h *SetBuildersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var accountID string
	apply := func(acc *village.Account) error { return nil }

	switch cmd := request.(type) {
	case *SetBuildersCommand:
		accountID = cmd.AccountID
		apply = func(acc *village.Account) error { return acc.SetBuilders(cmd.Count) }
	case *SetSixthBuilderCommand:
		accountID = cmd.AccountID
		apply = func(acc *village.Account) error {
			acc.SetSixthBuilderUnlocked(cmd.Unlocked)
			return nil
		}
	default:
		return nil, fmt.Errorf("invalid request type")
	}

	acc, ok := h.state.Roster.Account(accountID)
	if !ok {
		return nil, fmt.Errorf("account %s not found", accountID)
	}
	if err := apply(acc); err != nil {
		return nil, err
	}

	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	return &SetBuildersResponse{Builders: acc.Builders()}, nil
}
