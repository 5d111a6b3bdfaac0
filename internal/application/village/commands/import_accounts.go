package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// ImportAccountsCommand merges an exported JSON array into the roster
type ImportAccountsCommand struct {
	Payload []byte
}

// ImportAccountsResponse carries the merge summary
type ImportAccountsResponse struct {
	Summary village.ImportSummary
}

// ImportAccountsHandler handles account imports
type ImportAccountsHandler struct {
	state *village.State
	store village.StateStore
}

// NewImportAccountsHandler creates a new import handler
func NewImportAccountsHandler(state *village.State, store village.StateStore) *ImportAccountsHandler {
	return &ImportAccountsHandler{state: state, store: store}
}

// Handle executes the import command. A payload that is not a JSON array
// fails before any record is applied; malformed rows inside a valid array
// are skipped and counted.
func (h *ImportAccountsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ImportAccountsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	summary, err := village.ImportAccounts(h.state.Roster, cmd.Payload)
	if err != nil {
		return nil, err
	}

	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	return &ImportAccountsResponse{Summary: summary}, nil
}
