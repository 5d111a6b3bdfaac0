// Package queries holds the read side of the application layer. Query
// handlers never mutate state and never touch the store.
package queries

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// GetAvailabilityQuery resolves the structure catalog for one account's
// current town hall tier
type GetAvailabilityQuery struct {
	AccountID string
}

// GetAvailabilityResponse carries the per-category availability listing
type GetAvailabilityResponse struct {
	Tier         int
	Availability catalog.TierAvailability
}

// GetAvailabilityHandler handles availability queries
type GetAvailabilityHandler struct {
	state   *village.State
	catalog *catalog.Snapshot
}

// NewGetAvailabilityHandler creates a new availability query handler
func NewGetAvailabilityHandler(state *village.State, cat *catalog.Snapshot) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{state: state, catalog: cat}
}

// Handle executes the availability query
func (h *GetAvailabilityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetAvailabilityQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	acc, ok := h.state.Roster.Account(query.AccountID)
	if !ok {
		return nil, fmt.Errorf("account %s not found", query.AccountID)
	}

	return &GetAvailabilityResponse{
		Tier:         acc.Tier(),
		Availability: h.catalog.AvailabilityForTier(acc.Tier()),
	}, nil
}
