package catalog

import (
	"fmt"
	"time"
)

// Category groups structure families the way the availability view
// presents them.
type Category string

const (
	CategoryArmy      Category = "army"
	CategoryResources Category = "resources"
	CategoryDefenses  Category = "defenses"
	CategoryTraps     Category = "traps"
)

// Well-known family ids the capacity calculator depends on.
const (
	FamilyGoldStorage       = "gold_storage"
	FamilyElixirStorage     = "elixir_storage"
	FamilyDarkElixirStorage = "dark_elixir_storage"
)

// LevelRow is one per-level entry of a family definition. Capacity is only
// meaningful for storage families; BuildTime is zero when the source
// document omits it.
type LevelRow struct {
	Level           int
	TierRequired    int
	StorageCapacity int64
	BuildTime       time.Duration
}

// CountRow caps how many instances of a family an account may own at a tier.
type CountRow struct {
	Tier  int
	Count int
}

// FamilyDef is the immutable catalog definition of one structure family.
//
// Invariants (checked at construction):
//   - levels strictly increasing in Level
//   - TierRequired non-decreasing with Level
//
// A FamilyDef with no level rows represents a family whose source document
// was absent or unreadable; it is always unavailable but still listed.
type FamilyDef struct {
	id               string
	label            string
	category         Category
	levels           []LevelRow
	counts           []CountRow
	defaultBuildTime time.Duration
}

// NewFamilyDef validates the row invariants and constructs a definition.
func NewFamilyDef(id, label string, category Category, levels []LevelRow, counts []CountRow, defaultBuildTime time.Duration) (*FamilyDef, error) {
	if id == "" {
		return nil, fmt.Errorf("family id cannot be empty")
	}
	if label == "" {
		return nil, fmt.Errorf("family %s: label cannot be empty", id)
	}
	switch category {
	case CategoryArmy, CategoryResources, CategoryDefenses, CategoryTraps:
	default:
		return nil, fmt.Errorf("family %s: unknown category %q", id, category)
	}

	for i := 1; i < len(levels); i++ {
		if levels[i].Level <= levels[i-1].Level {
			return nil, fmt.Errorf("family %s: levels must be strictly increasing (row %d)", id, i)
		}
		if levels[i].TierRequired < levels[i-1].TierRequired {
			return nil, fmt.Errorf("family %s: tier requirements must be non-decreasing (row %d)", id, i)
		}
	}

	def := &FamilyDef{
		id:               id,
		label:            label,
		category:         category,
		levels:           make([]LevelRow, len(levels)),
		counts:           make([]CountRow, len(counts)),
		defaultBuildTime: defaultBuildTime,
	}
	copy(def.levels, levels)
	copy(def.counts, counts)
	return def, nil
}

// NewUnavailableFamily constructs a placeholder definition for a family
// whose catalog document could not be loaded. It reports as unavailable at
// every tier instead of failing the aggregation.
func NewUnavailableFamily(id, label string, category Category) *FamilyDef {
	return &FamilyDef{id: id, label: label, category: category}
}

func (f *FamilyDef) ID() string         { return f.id }
func (f *FamilyDef) Label() string      { return f.label }
func (f *FamilyDef) Category() Category { return f.category }

// Levels returns a copy of the per-level rows.
func (f *FamilyDef) Levels() []LevelRow {
	out := make([]LevelRow, len(f.levels))
	copy(out, f.levels)
	return out
}

// MaxLevelForTier reports the highest level reachable at the tier.
func (f *FamilyDef) MaxLevelForTier(tier int) (int, bool) {
	return MaxLevelForTier(f.levels, tier)
}

// CountForTier reports the explicit instance cap for the tier, if the
// family carries a count table row for it.
func (f *FamilyDef) CountForTier(tier int) (int, bool) {
	return CountForTier(f.counts, tier)
}

// StorageCapacityAtLevel reads the per-level storage capacity. A level with
// no matching row contributes 0, never an error.
func (f *FamilyDef) StorageCapacityAtLevel(level int) int64 {
	for _, row := range f.levels {
		if row.Level == level {
			return row.StorageCapacity
		}
	}
	return 0
}

// BuildTimeToLevel returns the work duration for reaching targetLevel from
// the level below it. Falls back to the family default when the row omits
// a build time; reports false when neither is known.
func (f *FamilyDef) BuildTimeToLevel(targetLevel int) (time.Duration, bool) {
	for _, row := range f.levels {
		if row.Level == targetLevel {
			if row.BuildTime > 0 {
				return row.BuildTime, true
			}
			break
		}
	}
	if f.defaultBuildTime > 0 {
		return f.defaultBuildTime, true
	}
	return 0, false
}
