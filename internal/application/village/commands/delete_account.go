package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// DeleteAccountCommand removes an account and all of its structures
type DeleteAccountCommand struct {
	AccountID string
}

// DeleteAccountResponse reports the cascade size
type DeleteAccountResponse struct {
	StructuresRemoved int
}

// DeleteAccountHandler handles account deletion
type DeleteAccountHandler struct {
	state *village.State
	store village.StateStore
}

// NewDeleteAccountHandler creates a new account deletion handler
func NewDeleteAccountHandler(state *village.State, store village.StateStore) *DeleteAccountHandler {
	return &DeleteAccountHandler{state: state, store: store}
}

// Handle executes the delete account command
func (h *DeleteAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteAccountCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	removed := len(h.state.Structures.ForAccount(cmd.AccountID))
	if err := h.state.Roster.Remove(cmd.AccountID); err != nil {
		return nil, err
	}
	h.state.Structures.RemoveAllForAccount(cmd.AccountID)

	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}

	return &DeleteAccountResponse{StructuresRemoved: removed}, nil
}
