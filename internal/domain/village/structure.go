package village

import (
	"fmt"
	"time"
)

// WorkStatus tags the per-instance work state machine.
type WorkStatus string

const (
	// WorkStatusIdle indicates no builder is assigned to the instance
	WorkStatusIdle WorkStatus = "IDLE"

	// WorkStatusInProgress indicates a builder is working until EndsAt
	WorkStatusInProgress WorkStatus = "IN_PROGRESS"
)

// WorkState is an explicit tagged variant: Idle, or InProgress with an end
// time. The end time only exists while in progress, so an end time without
// active work is unrepresentable.
type WorkState struct {
	status WorkStatus
	endsAt time.Time
}

// IdleWork returns the idle state.
func IdleWork() WorkState {
	return WorkState{status: WorkStatusIdle}
}

// InProgressWork returns a state working until endsAt.
func InProgressWork(endsAt time.Time) WorkState {
	return WorkState{status: WorkStatusInProgress, endsAt: endsAt}
}

func (w WorkState) Status() WorkStatus { return w.status }

// InProgress reports whether a builder is assigned.
func (w WorkState) InProgress() bool {
	return w.status == WorkStatusInProgress
}

// EndsAt returns the completion time; the second return is false when idle.
func (w WorkState) EndsAt() (time.Time, bool) {
	if w.status != WorkStatusInProgress {
		return time.Time{}, false
	}
	return w.endsAt, true
}

// StructureID derives the deterministic instance id from its parts.
func StructureID(accountID, familyID string, slot int) string {
	return fmt.Sprintf("%s:%s:%d", accountID, familyID, slot)
}

// StructureInstance is one concrete, ownable occurrence of a family on an
// account. Level 0 is the transient under-construction state of a freshly
// placed instance; completion lands it at level 1.
type StructureInstance struct {
	id            string
	accountID     string
	familyID      string
	slot          int
	level         int
	tierAtCapture int
	work          WorkState
	note          string
}

func newStructureInstance(accountID, familyID string, slot, level, tierAtCapture int) *StructureInstance {
	return &StructureInstance{
		id:            StructureID(accountID, familyID, slot),
		accountID:     accountID,
		familyID:      familyID,
		slot:          slot,
		level:         level,
		tierAtCapture: tierAtCapture,
		work:          IdleWork(),
	}
}

func (s *StructureInstance) ID() string         { return s.id }
func (s *StructureInstance) AccountID() string  { return s.accountID }
func (s *StructureInstance) FamilyID() string   { return s.familyID }
func (s *StructureInstance) Slot() int          { return s.slot }
func (s *StructureInstance) Level() int         { return s.level }
func (s *StructureInstance) TierAtCapture() int { return s.tierAtCapture }
func (s *StructureInstance) Work() WorkState    { return s.work }
func (s *StructureInstance) Note() string       { return s.note }

// SetNote attaches a free-form note to the instance.
func (s *StructureInstance) SetNote(note string) {
	s.note = note
}

// RestoreStructureInstance rebuilds an instance from persisted state. Only
// repositories and the snapshot store should call this.
func RestoreStructureInstance(accountID, familyID string, slot, level, tierAtCapture int, work WorkState, note string) *StructureInstance {
	inst := newStructureInstance(accountID, familyID, slot, level, tierAtCapture)
	inst.work = work
	inst.note = note
	return inst
}
