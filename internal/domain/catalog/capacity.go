package catalog

// Resource identifies one of the three clamped resource kinds.
type Resource string

const (
	ResourceGold       Resource = "gold"
	ResourceElixir     Resource = "elixir"
	ResourceDarkElixir Resource = "dark_elixir"
)

// ResourceCaps holds the computed storage ceilings for one account.
type ResourceCaps struct {
	Gold       int64
	Elixir     int64
	DarkElixir int64
}

// Cap returns the ceiling for one resource.
func (c ResourceCaps) Cap(r Resource) int64 {
	switch r {
	case ResourceGold:
		return c.Gold
	case ResourceElixir:
		return c.Elixir
	case ResourceDarkElixir:
		return c.DarkElixir
	}
	return 0
}

// tierBase is the fixed per-tier base capacity contributed by the town hall
// itself. Gold and elixir share one table; dark elixir has its own and is
// zero below tier 7, where dark elixir unlocks.
var tierBase = map[int]struct{ regular, dark int64 }{
	1:  {1_000, 0},
	2:  {2_500, 0},
	3:  {10_000, 0},
	4:  {50_000, 0},
	5:  {100_000, 0},
	6:  {300_000, 0},
	7:  {500_000, 2_500},
	8:  {750_000, 5_000},
	9:  {1_000_000, 10_000},
	10: {1_500_000, 20_000},
	11: {2_000_000, 20_000},
	12: {2_000_000, 20_000},
	13: {2_000_000, 20_000},
	14: {3_000_000, 30_000},
	15: {3_000_000, 30_000},
	16: {4_000_000, 40_000},
	17: {4_000_000, 40_000},
}

// StorageLevels carries the built storage instance levels feeding the
// capacity computation: one entry per gold/elixir storage instance, and a
// single dark elixir storage level (0 when none is built).
type StorageLevels struct {
	Gold       []int
	Elixir     []int
	DarkElixir int
}

// CapsForTier computes the resource ceilings for a tier plus built storages:
// the tier base value plus the sum of each storage instance's per-level
// capacity from the storage family's catalog rows. Levels with no matching
// row contribute 0.
func (s *Snapshot) CapsForTier(tier int, storages StorageLevels) ResourceCaps {
	base, ok := tierBase[tier]
	if !ok {
		base = struct{ regular, dark int64 }{0, 0}
	}

	caps := ResourceCaps{
		Gold:       base.regular + s.sumStorageCaps(FamilyGoldStorage, storages.Gold),
		Elixir:     base.regular + s.sumStorageCaps(FamilyElixirStorage, storages.Elixir),
		DarkElixir: base.dark,
	}
	if storages.DarkElixir > 0 {
		caps.DarkElixir += s.sumStorageCaps(FamilyDarkElixirStorage, []int{storages.DarkElixir})
	}
	return caps
}

func (s *Snapshot) sumStorageCaps(familyID string, levels []int) int64 {
	f, ok := s.families[familyID]
	if !ok {
		return 0
	}
	var sum int64
	for _, level := range levels {
		sum += f.StorageCapacityAtLevel(level)
	}
	return sum
}

// Clamp bounds a resource value into [0, cap]. Idempotent:
// Clamp(Clamp(v)) == Clamp(v).
func Clamp(value int64, r Resource, caps ResourceCaps) int64 {
	if value < 0 {
		return 0
	}
	if max := caps.Cap(r); value > max {
		return max
	}
	return value
}
