package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// StartUpgradeCommand assigns a builder to an idle instance
type StartUpgradeCommand struct {
	AccountID  string
	InstanceID string
}

// StartBuildCommand places a new instance and starts its construction
type StartBuildCommand struct {
	AccountID string
	FamilyID  string
}

// CancelWorkCommand releases the builder without credit
type CancelWorkCommand struct {
	InstanceID string
}

// ScheduleWorkResponse carries the affected instance and when its running
// work ends
type ScheduleWorkResponse struct {
	Instance *village.StructureInstance
	EndsAt   time.Time
}

// ScheduleWorkHandler handles builder scheduling commands
type ScheduleWorkHandler struct {
	state *village.State
	store village.StateStore
	sched *village.Scheduler
	clock shared.Clock
}

// NewScheduleWorkHandler creates a new scheduling handler
func NewScheduleWorkHandler(state *village.State, store village.StateStore, sched *village.Scheduler, clock shared.Clock) *ScheduleWorkHandler {
	return &ScheduleWorkHandler{state: state, store: store, sched: sched, clock: clock}
}

// Handle executes one of the scheduling commands
func (h *ScheduleWorkHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	now := h.clock.Now()

	switch cmd := request.(type) {
	case *StartUpgradeCommand:
		acc, ok := h.state.Roster.Account(cmd.AccountID)
		if !ok {
			return nil, fmt.Errorf("account %s not found", cmd.AccountID)
		}
		if err := h.sched.StartUpgrade(acc, cmd.InstanceID, now); err != nil {
			return nil, err
		}
		inst, _ := h.state.Structures.Get(cmd.InstanceID)
		return h.commit(ctx, inst)

	case *StartBuildCommand:
		acc, ok := h.state.Roster.Account(cmd.AccountID)
		if !ok {
			return nil, fmt.Errorf("account %s not found", cmd.AccountID)
		}
		inst, err := h.sched.StartBuild(acc, cmd.FamilyID, now)
		if err != nil {
			return nil, err
		}
		return h.commit(ctx, inst)

	case *CancelWorkCommand:
		if err := h.sched.Cancel(cmd.InstanceID); err != nil {
			return nil, err
		}
		inst, _ := h.state.Structures.Get(cmd.InstanceID)
		return h.commit(ctx, inst)

	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *ScheduleWorkHandler) commit(ctx context.Context, inst *village.StructureInstance) (common.Response, error) {
	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	resp := &ScheduleWorkResponse{Instance: inst}
	if inst != nil {
		if endsAt, ok := inst.Work().EndsAt(); ok {
			resp.EndsAt = endsAt
		}
	}
	return resp, nil
}
