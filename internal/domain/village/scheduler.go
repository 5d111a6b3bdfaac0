package village

import (
	"sort"
	"time"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
)

// DefaultUpgradeDuration is the fallback work duration when neither the
// catalog row nor the family carries a build time.
const DefaultUpgradeDuration = time.Hour

// Scheduler manages the per-instance work state machine and enforces the
// builder concurrency invariant: an account's in-progress instances never
// exceed its builder pool count.
//
// Time is the only external input; state advances when the caller invokes
// Tick with the current time, at whatever cadence it likes.
type Scheduler struct {
	catalog  *catalog.Snapshot
	store    *Collection
	fallback time.Duration
}

// NewScheduler wires the scheduler to a catalog snapshot and the instance
// store. A non-positive fallback duration selects DefaultUpgradeDuration.
func NewScheduler(cat *catalog.Snapshot, store *Collection, fallback time.Duration) *Scheduler {
	if fallback <= 0 {
		fallback = DefaultUpgradeDuration
	}
	return &Scheduler{catalog: cat, store: store, fallback: fallback}
}

// Completion describes one upgrade resolved by Tick.
type Completion struct {
	InstanceID string
	AccountID  string
	FamilyID   string
	Slot       int
	Level      int
	EndedAt    time.Time
}

// StartUpgrade assigns a builder to an idle instance. Fails with
// AlreadyInProgress, MaxLevelReached or NoFreeBuilder; a failure changes
// nothing.
func (s *Scheduler) StartUpgrade(acc *Account, instanceID string, now time.Time) error {
	inst, ok := s.store.Get(instanceID)
	if !ok || inst.AccountID() != acc.ID() {
		return shared.NewNotFoundError("structure instance", instanceID)
	}

	if inst.Work().InProgress() {
		return shared.NewAlreadyInProgressError(instanceID)
	}

	maxLevel, ok := s.catalog.MaxLevelForTier(inst.FamilyID(), acc.Tier())
	if !ok {
		return shared.NewNotAvailableError(inst.FamilyID(), acc.Tier())
	}
	if inst.Level() >= maxLevel {
		return shared.NewMaxLevelReachedError(instanceID, inst.Level())
	}

	busy := s.store.InProgressCount(acc.ID())
	if busy >= acc.Builders().Count() {
		return shared.NewNoFreeBuilderError(acc.ID(), busy, acc.Builders().Count())
	}

	duration := s.upgradeDuration(inst.FamilyID(), inst.Level())
	s.store.markWork(inst, InProgressWork(now.Add(duration)))
	return nil
}

// StartBuild places a new instance and immediately starts its construction,
// modeled as an upgrade from an implicit level 0 that completes at level 1.
// The builder check runs before anything is created so a NoFreeBuilder
// failure leaves no orphan instance.
func (s *Scheduler) StartBuild(acc *Account, familyID string, now time.Time) (*StructureInstance, error) {
	busy := s.store.InProgressCount(acc.ID())
	if busy >= acc.Builders().Count() {
		return nil, shared.NewNoFreeBuilderError(acc.ID(), busy, acc.Builders().Count())
	}

	inst, err := s.store.Build(s.catalog, acc, familyID)
	if err != nil {
		return nil, err
	}

	inst.level = 0
	duration := s.upgradeDuration(familyID, 0)
	s.store.markWork(inst, InProgressWork(now.Add(duration)))
	return inst, nil
}

// Cancel releases the builder without credit: the level is unchanged and
// elapsed time is discarded. Cancelling an idle instance is a no-op. A
// cancelled construction (still at the implicit level 0) removes the
// instance, since a level-0 idle instance would be illegal.
func (s *Scheduler) Cancel(instanceID string) error {
	inst, ok := s.store.Get(instanceID)
	if !ok {
		return shared.NewNotFoundError("structure instance", instanceID)
	}
	if !inst.Work().InProgress() {
		return nil
	}

	s.store.markWork(inst, IdleWork())
	if inst.Level() < 1 {
		return s.store.Remove(instanceID)
	}
	return nil
}

// Tick resolves every upgrade whose end time has been reached, in ascending
// end-time order so a builder freed by an earlier completion is observable
// by any same-tick follow-up scheduling. Idempotent once an instance is
// resolved; runs in time proportional to the number of running upgrades.
//
// The tierFor lookup caps the completed level; an unknown account falls
// back to the instance's captured tier.
func (s *Scheduler) Tick(now time.Time, tierFor func(accountID string) (int, bool)) []Completion {
	var due []*StructureInstance
	for _, inst := range s.store.InProgressAll() {
		if endsAt, ok := inst.Work().EndsAt(); ok && !endsAt.After(now) {
			due = append(due, inst)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		ei, _ := due[i].Work().EndsAt()
		ej, _ := due[j].Work().EndsAt()
		if !ei.Equal(ej) {
			return ei.Before(ej)
		}
		return due[i].ID() < due[j].ID()
	})

	completions := make([]Completion, 0, len(due))
	for _, inst := range due {
		endedAt, _ := inst.Work().EndsAt()

		tier := inst.TierAtCapture()
		if tierFor != nil {
			if t, ok := tierFor(inst.AccountID()); ok {
				tier = t
			}
		}

		level := inst.Level() + 1
		if maxLevel, ok := s.catalog.MaxLevelForTier(inst.FamilyID(), tier); ok && level > maxLevel {
			level = maxLevel
		}
		if level < 1 {
			level = 1
		}

		inst.level = level
		s.store.markWork(inst, IdleWork())

		completions = append(completions, Completion{
			InstanceID: inst.ID(),
			AccountID:  inst.AccountID(),
			FamilyID:   inst.FamilyID(),
			Slot:       inst.Slot(),
			Level:      level,
			EndedAt:    endedAt,
		})
	}
	return completions
}

// Remaining reports the time left on an instance's upgrade: zero when idle,
// already due, or unknown.
func (s *Scheduler) Remaining(instanceID string, now time.Time) time.Duration {
	inst, ok := s.store.Get(instanceID)
	if !ok {
		return 0
	}
	endsAt, ok := inst.Work().EndsAt()
	if !ok {
		return 0
	}
	if remaining := endsAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// upgradeDuration resolves the work duration for the upgrade from
// fromLevel: the catalog row of the target level, else the family default,
// else the configured fallback.
func (s *Scheduler) upgradeDuration(familyID string, fromLevel int) time.Duration {
	if f, ok := s.catalog.Family(familyID); ok {
		if d, ok := f.BuildTimeToLevel(fromLevel + 1); ok {
			return d
		}
	}
	return s.fallback
}
