package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// RenameAccountCommand changes an account's label
type RenameAccountCommand struct {
	AccountID string
	Label     string
}

// SetAccountNotesCommand replaces an account's free-form notes
type SetAccountNotesCommand struct {
	AccountID string
	Notes     string
}

// SetAccountTierCommand raises an account's town hall tier. Tiers never go
// back down; a lower value is rejected by the domain.
type SetAccountTierCommand struct {
	AccountID string
	Tier      int
}

// AccountResponse carries the updated account
type AccountResponse struct {
	Account *village.Account
}

// UpdateAccountHandler handles the small account metadata mutations
type UpdateAccountHandler struct {
	state   *village.State
	store   village.StateStore
	catalog *catalog.Snapshot
}

// NewUpdateAccountHandler creates a new account update handler
func NewUpdateAccountHandler(state *village.State, store village.StateStore, cat *catalog.Snapshot) *UpdateAccountHandler {
	return &UpdateAccountHandler{state: state, store: store, catalog: cat}
}

// Handle executes one of the account update commands
func (h *UpdateAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *RenameAccountCommand:
		return h.rename(ctx, cmd)
	case *SetAccountNotesCommand:
		return h.setNotes(ctx, cmd)
	case *SetAccountTierCommand:
		return h.setTier(ctx, cmd)
	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *UpdateAccountHandler) rename(ctx context.Context, cmd *RenameAccountCommand) (common.Response, error) {
	acc, err := h.account(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if other, exists := h.state.Roster.AccountByLabel(cmd.Label); exists && other.ID() != acc.ID() {
		return nil, fmt.Errorf("an account labelled %q already exists", cmd.Label)
	}
	if err := acc.Rename(cmd.Label); err != nil {
		return nil, err
	}
	return h.commit(ctx, acc)
}

func (h *UpdateAccountHandler) setNotes(ctx context.Context, cmd *SetAccountNotesCommand) (common.Response, error) {
	acc, err := h.account(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	acc.SetNotes(cmd.Notes)
	return h.commit(ctx, acc)
}

func (h *UpdateAccountHandler) setTier(ctx context.Context, cmd *SetAccountTierCommand) (common.Response, error) {
	acc, err := h.account(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if err := acc.SetTier(cmd.Tier); err != nil {
		return nil, err
	}

	// Capacity can only grow on a tier raise, but reclamping keeps the
	// ledger consistent regardless of how the caps moved.
	caps := h.catalog.CapsForTier(acc.Tier(), h.state.Structures.StorageLevels(acc.ID()))
	acc.ReclampResources(caps)
	return h.commit(ctx, acc)
}

func (h *UpdateAccountHandler) account(id string) (*village.Account, error) {
	acc, ok := h.state.Roster.Account(id)
	if !ok {
		return nil, fmt.Errorf("account %s not found", id)
	}
	return acc, nil
}

func (h *UpdateAccountHandler) commit(ctx context.Context, acc *village.Account) (common.Response, error) {
	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	return &AccountResponse{Account: acc}, nil
}
