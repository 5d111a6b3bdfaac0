package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// ListStructuresQuery lists one account's structures with their work state
type ListStructuresQuery struct {
	AccountID string
}

// StructureView is one instance flattened for display
type StructureView struct {
	InstanceID string
	FamilyID   string
	Label      string
	Slot       int
	Level      int
	MaxLevel   int
	InProgress bool
	EndsAt     time.Time
	Remaining  time.Duration
	Note       string
}

// ListStructuresResponse carries the flattened listing plus the account's
// resource caps under its current storages
type ListStructuresResponse struct {
	Structures []StructureView
	Caps       catalog.ResourceCaps
}

// ListStructuresHandler handles structure listing queries
type ListStructuresHandler struct {
	state   *village.State
	catalog *catalog.Snapshot
	clock   shared.Clock
}

// NewListStructuresHandler creates a new structure listing handler
func NewListStructuresHandler(state *village.State, cat *catalog.Snapshot, clock shared.Clock) *ListStructuresHandler {
	return &ListStructuresHandler{state: state, catalog: cat, clock: clock}
}

// Handle executes the structure listing query
func (h *ListStructuresHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListStructuresQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	acc, ok := h.state.Roster.Account(query.AccountID)
	if !ok {
		return nil, fmt.Errorf("account %s not found", query.AccountID)
	}

	now := h.clock.Now()
	instances := h.state.Structures.ForAccount(acc.ID())
	views := make([]StructureView, 0, len(instances))
	for _, inst := range instances {
		view := StructureView{
			InstanceID: inst.ID(),
			FamilyID:   inst.FamilyID(),
			Label:      inst.FamilyID(),
			Slot:       inst.Slot(),
			Level:      inst.Level(),
			Note:       inst.Note(),
		}
		if f, ok := h.catalog.Family(inst.FamilyID()); ok {
			view.Label = f.Label()
		}
		if maxLevel, ok := h.catalog.MaxLevelForTier(inst.FamilyID(), acc.Tier()); ok {
			view.MaxLevel = maxLevel
		}
		if endsAt, ok := inst.Work().EndsAt(); ok {
			view.InProgress = true
			view.EndsAt = endsAt
			if remaining := endsAt.Sub(now); remaining > 0 {
				view.Remaining = remaining
			}
		}
		views = append(views, view)
	}

	caps := h.catalog.CapsForTier(acc.Tier(), h.state.Structures.StorageLevels(acc.ID()))
	return &ListStructuresResponse{Structures: views, Caps: caps}, nil
}
