package queries

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// ExportAccountsQuery serializes the whole roster to its JSON export shape
type ExportAccountsQuery struct{}

// ExportAccountsResponse carries the serialized payload
type ExportAccountsResponse struct {
	Payload []byte
}

// ExportAccountsHandler handles account exports
type ExportAccountsHandler struct {
	state *village.State
}

// NewExportAccountsHandler creates a new export handler
func NewExportAccountsHandler(state *village.State) *ExportAccountsHandler {
	return &ExportAccountsHandler{state: state}
}

// Handle executes the export query
func (h *ExportAccountsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ExportAccountsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	payload, err := village.ExportAccounts(h.state.Roster)
	if err != nil {
		return nil, err
	}
	return &ExportAccountsResponse{Payload: payload}, nil
}
