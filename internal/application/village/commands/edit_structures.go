package commands

import (
	"context"
	"fmt"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// BuildStructureCommand places a structure instantly at level 1, idle. For
// construction that takes time and a builder, see StartBuildCommand.
type BuildStructureCommand struct {
	AccountID string
	FamilyID  string
}

// RemoveStructureCommand deletes one instance; its slot is never reused
type RemoveStructureCommand struct {
	InstanceID string
}

// SetStructureLevelCommand is the administrative level override; the value
// is clamped into the legal range for the account's tier
type SetStructureLevelCommand struct {
	AccountID  string
	InstanceID string
	Level      int
}

// SetStructureNoteCommand attaches a note to one instance
type SetStructureNoteCommand struct {
	InstanceID string
	Note       string
}

// StructureResponse carries the affected instance (nil after a removal)
type StructureResponse struct {
	Instance *village.StructureInstance
}

// EditStructuresHandler handles direct structure edits
type EditStructuresHandler struct {
	state   *village.State
	store   village.StateStore
	catalog *catalog.Snapshot
}

// NewEditStructuresHandler creates a new structure edit handler
func NewEditStructuresHandler(state *village.State, store village.StateStore, cat *catalog.Snapshot) *EditStructuresHandler {
	return &EditStructuresHandler{state: state, store: store, catalog: cat}
}

// Handle executes one of the structure edit commands
func (h *EditStructuresHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch cmd := request.(type) {
	case *BuildStructureCommand:
		acc, ok := h.state.Roster.Account(cmd.AccountID)
		if !ok {
			return nil, fmt.Errorf("account %s not found", cmd.AccountID)
		}
		inst, err := h.state.Structures.Build(h.catalog, acc, cmd.FamilyID)
		if err != nil {
			return nil, err
		}
		return h.commit(ctx, inst)

	case *RemoveStructureCommand:
		inst, _ := h.state.Structures.Get(cmd.InstanceID)
		if err := h.state.Structures.Remove(cmd.InstanceID); err != nil {
			return nil, err
		}

		// Removing a storage shrinks the caps, so the ledger reclamps.
		if acc, ok := h.state.Roster.Account(inst.AccountID()); ok {
			caps := h.catalog.CapsForTier(acc.Tier(), h.state.Structures.StorageLevels(acc.ID()))
			acc.ReclampResources(caps)
		}
		return h.commit(ctx, nil)

	case *SetStructureLevelCommand:
		acc, ok := h.state.Roster.Account(cmd.AccountID)
		if !ok {
			return nil, fmt.Errorf("account %s not found", cmd.AccountID)
		}
		if err := h.state.Structures.SetLevel(h.catalog, acc, cmd.InstanceID, cmd.Level); err != nil {
			return nil, err
		}

		// Storage edits move the capacity caps, so the ledger reclamps.
		caps := h.catalog.CapsForTier(acc.Tier(), h.state.Structures.StorageLevels(acc.ID()))
		acc.ReclampResources(caps)

		inst, _ := h.state.Structures.Get(cmd.InstanceID)
		return h.commit(ctx, inst)

	case *SetStructureNoteCommand:
		if err := h.state.Structures.SetNote(cmd.InstanceID, cmd.Note); err != nil {
			return nil, err
		}
		inst, _ := h.state.Structures.Get(cmd.InstanceID)
		return h.commit(ctx, inst)

	default:
		return nil, fmt.Errorf("invalid request type")
	}
}

func (h *EditStructuresHandler) commit(ctx context.Context, inst *village.StructureInstance) (common.Response, error) {
	if err := h.store.Save(ctx, h.state); err != nil {
		return nil, fmt.Errorf("failed to persist state: %w", err)
	}
	return &StructureResponse{Instance: inst}, nil
}
