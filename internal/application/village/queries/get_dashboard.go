package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/progression"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// GetDashboardQuery aggregates the whole tracked world into one view
type GetDashboardQuery struct {
	// DueHorizon bounds the due-soon listing; zero selects 24 hours.
	DueHorizon time.Duration
}

// GetDashboardResponse carries the aggregate views
type GetDashboardResponse struct {
	TotalAccounts  int
	ActiveAccounts int
	Builders       []progression.BuildersBucket
	NextCompletion *progression.UpgradeEvent
	DueSoon        []progression.UpgradeEvent
}

// GetDashboardHandler handles dashboard queries
type GetDashboardHandler struct {
	state *village.State
	clock shared.Clock
}

// NewGetDashboardHandler creates a new dashboard query handler
func NewGetDashboardHandler(state *village.State, clock shared.Clock) *GetDashboardHandler {
	return &GetDashboardHandler{state: state, clock: clock}
}

// Handle executes the dashboard query
func (h *GetDashboardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetDashboardQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	horizon := query.DueHorizon
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}

	now := h.clock.Now()
	active, total := progression.ActiveAccounts(h.state.Roster, h.state.Structures, now)

	return &GetDashboardResponse{
		TotalAccounts:  total,
		ActiveAccounts: active,
		Builders:       progression.BuildersDistribution(h.state.Roster.Accounts()),
		NextCompletion: progression.NextCompletion(h.state.Roster, h.state.Structures, now),
		DueSoon:        progression.DueWithin(h.state.Roster, h.state.Structures, now, horizon),
	}, nil
}
