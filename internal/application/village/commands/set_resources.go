package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// SetResourceCommand records an account's stockpile of one resource. The
// value is clamped into [0, capacity] rather than rejected.
type SetResourceCommand struct {
	AccountID string
	Resource  catalog.Resource
	Value     int64
}

// SetResourceResponse carries the stored (possibly clamped) value and the
// capacity it was clamped against
type SetResourceResponse struct {
	Stored   int64
	Capacity int64
}

// SetResourceHandler handles resource stockpile updates
type SetResourceHandler struct {
	state   *village.State
	store   village.StateStore
	catalog *catalog.Snapshot
}

// NewSetResourceHandler creates a new resource update handler
func NewSetResourceHandler(state *village.State, store village.StateStore, cat *catalog.Snapshot) *SetResourceHandler {
	return &SetResourceHandler{state: state, store: store, catalog: cat}
}

// Handle executes the set resource command
func (h *SetResourceHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetResourceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	acc, ok := h.state.Roster.Account(cmd.AccountID)
	if !ok {
		return nil, fmt.Errorf("account %s not found", cmd.AccountID)
	}

	caps := h.catalog.CapsForTier(acc.Tier(), h.state.Structures.StorageLevels(acc.ID()))
	acc.SetResource(cmd.Resource, cmd.Value, caps)

	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}

	return &SetResourceResponse{
		Stored:   acc.Ledger().Amount(cmd.Resource),
		Capacity: caps.Cap(cmd.Resource),
	}, nil
}
