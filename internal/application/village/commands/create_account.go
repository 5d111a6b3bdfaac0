// Package commands holds the write side of the application layer: every
// mutation of the tracked world goes through one of these handlers, which
// run the domain operation and then persist the whole state snapshot.
package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// CreateAccountCommand registers a new tracked account
type CreateAccountCommand struct {
	ID    string
	Label string
	Tier  int
	Notes string
}

// CreateAccountResponse carries the created account
type CreateAccountResponse struct {
	Account *village.Account
}

// CreateAccountHandler handles account creation
type CreateAccountHandler struct {
	state *village.State
	store village.StateStore
}

// NewCreateAccountHandler creates a new account creation handler
func NewCreateAccountHandler(state *village.State, store village.StateStore) *CreateAccountHandler {
	return &CreateAccountHandler{state: state, store: store}
}

// Handle executes the create account command
func (h *CreateAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateAccountCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if _, exists := h.state.Roster.AccountByLabel(cmd.Label); exists {
		return nil, fmt.Errorf("an account labelled %q already exists", cmd.Label)
	}

	acc, err := village.NewAccount(cmd.ID, cmd.Label, cmd.Tier)
	if err != nil {
		return nil, err
	}
	acc.SetNotes(cmd.Notes)

	if err := h.state.Roster.Add(acc); err != nil {
		return nil, err
	}
	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}

	return &CreateAccountResponse{Account: acc}, nil
}
