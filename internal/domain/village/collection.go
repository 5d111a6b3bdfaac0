package village

import (
	"sort"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
)

// Collection is the authoritative store of structure instances across all
// tracked accounts. Every mutation goes through its methods so the slot,
// level and work-state invariants hold; a failed operation leaves the
// collection untouched.
//
// An index of in-progress instances is maintained so the scheduler's tick
// scan runs in time proportional to the number of running upgrades, not to
// the whole collection.
type Collection struct {
	byID       map[string]*StructureInstance
	order      []string
	inProgress map[string]*StructureInstance
}

// NewCollection creates an empty instance store.
func NewCollection() *Collection {
	return &Collection{
		byID:       make(map[string]*StructureInstance),
		inProgress: make(map[string]*StructureInstance),
	}
}

// Get looks up one instance by id.
func (c *Collection) Get(id string) (*StructureInstance, bool) {
	inst, ok := c.byID[id]
	return inst, ok
}

// All returns every instance in insertion order.
func (c *Collection) All() []*StructureInstance {
	out := make([]*StructureInstance, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ForAccount returns an account's instances sorted by family then slot.
func (c *Collection) ForAccount(accountID string) []*StructureInstance {
	var out []*StructureInstance
	for _, id := range c.order {
		if inst := c.byID[id]; inst.accountID == accountID {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].familyID != out[j].familyID {
			return out[i].familyID < out[j].familyID
		}
		return out[i].slot < out[j].slot
	})
	return out
}

// CountForFamily counts an account's instances of one family.
func (c *Collection) CountForFamily(accountID, familyID string) int {
	n := 0
	for _, inst := range c.byID {
		if inst.accountID == accountID && inst.familyID == familyID {
			n++
		}
	}
	return n
}

// InProgressCount counts an account's running upgrades.
func (c *Collection) InProgressCount(accountID string) int {
	n := 0
	for _, inst := range c.inProgress {
		if inst.accountID == accountID {
			n++
		}
	}
	return n
}

// InProgressAll returns every running upgrade across all accounts.
func (c *Collection) InProgressAll() []*StructureInstance {
	out := make([]*StructureInstance, 0, len(c.inProgress))
	for _, inst := range c.inProgress {
		out = append(out, inst)
	}
	return out
}

// StorageLevels collects the built storage levels feeding the capacity
// calculator: all gold/elixir storage instance levels plus the single dark
// elixir storage level (0 when none is built).
func (c *Collection) StorageLevels(accountID string) catalog.StorageLevels {
	var levels catalog.StorageLevels
	for _, id := range c.order {
		inst := c.byID[id]
		if inst.accountID != accountID {
			continue
		}
		switch inst.familyID {
		case catalog.FamilyGoldStorage:
			levels.Gold = append(levels.Gold, inst.level)
		case catalog.FamilyElixirStorage:
			levels.Elixir = append(levels.Elixir, inst.level)
		case catalog.FamilyDarkElixirStorage:
			if inst.level > levels.DarkElixir {
				levels.DarkElixir = inst.level
			}
		}
	}
	return levels
}

// Build appends a new instance of a family for the account: next free slot,
// level 1, idle. Fails with NotAvailable when the family is unusable at the
// account's tier and CapacityExceeded when the instance cap is reached.
func (c *Collection) Build(cat *catalog.Snapshot, acc *Account, familyID string) (*StructureInstance, error) {
	maxCount, ok := cat.MaxCountForTier(familyID, acc.Tier())
	if !ok {
		return nil, shared.NewNotAvailableError(familyID, acc.Tier())
	}
	if c.CountForFamily(acc.ID(), familyID) >= maxCount {
		return nil, shared.NewCapacityExceededError(familyID, maxCount)
	}

	inst := newStructureInstance(acc.ID(), familyID, c.nextSlot(acc.ID(), familyID), 1, acc.Tier())
	c.insert(inst)
	return inst, nil
}

// nextSlot allocates one past the highest slot ever used for the family.
// Removed instances retire their slot permanently so ids stay stable.
func (c *Collection) nextSlot(accountID, familyID string) int {
	next := 0
	for _, inst := range c.byID {
		if inst.accountID == accountID && inst.familyID == familyID && inst.slot >= next {
			next = inst.slot + 1
		}
	}
	return next
}

// SetLevel is the administrative override used by imports: the level is
// clamped into [1, maxLevelAtTier] rather than rejected.
func (c *Collection) SetLevel(cat *catalog.Snapshot, acc *Account, id string, level int) error {
	inst, ok := c.byID[id]
	if !ok {
		return shared.NewNotFoundError("structure instance", id)
	}

	if level < 1 {
		level = 1
	}
	if maxLevel, ok := cat.MaxLevelForTier(inst.familyID, acc.Tier()); ok && level > maxLevel {
		level = maxLevel
	}
	inst.level = level
	return nil
}

// SetNote attaches a note to an instance.
func (c *Collection) SetNote(id, note string) error {
	inst, ok := c.byID[id]
	if !ok {
		return shared.NewNotFoundError("structure instance", id)
	}
	inst.SetNote(note)
	return nil
}

// Remove deletes one instance. Other slots are not renumbered.
func (c *Collection) Remove(id string) error {
	if _, ok := c.byID[id]; !ok {
		return shared.NewNotFoundError("structure instance", id)
	}
	c.delete(id)
	return nil
}

// RemoveAllForAccount cascade-deletes an account's instances.
func (c *Collection) RemoveAllForAccount(accountID string) {
	for _, id := range append([]string(nil), c.order...) {
		if c.byID[id].accountID == accountID {
			c.delete(id)
		}
	}
}

// Restore inserts a persisted instance, replacing any instance with the
// same id.
func (c *Collection) Restore(inst *StructureInstance) {
	if _, exists := c.byID[inst.id]; exists {
		c.delete(inst.id)
	}
	c.insert(inst)
}

func (c *Collection) insert(inst *StructureInstance) {
	c.byID[inst.id] = inst
	c.order = append(c.order, inst.id)
	if inst.work.InProgress() {
		c.inProgress[inst.id] = inst
	}
}

func (c *Collection) delete(id string) {
	delete(c.byID, id)
	delete(c.inProgress, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// markWork swaps an instance's work state, keeping the in-progress index
// consistent. Scheduler-internal.
func (c *Collection) markWork(inst *StructureInstance, work WorkState) {
	inst.work = work
	if work.InProgress() {
		c.inProgress[inst.id] = inst
	} else {
		delete(c.inProgress, inst.id)
	}
}
