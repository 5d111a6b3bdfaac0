package helpers

import (
	"testing"
	"time"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
)

// NewTestCatalog builds the catalog snapshot shared by most tests: a small
// but representative slice of the real data set, with one family per
// category, explicit count tables, storage capacities and build times.
func NewTestCatalog(t *testing.T) *catalog.Snapshot {
	t.Helper()

	mustFamily := func(id, label string, cat catalog.Category, levels []catalog.LevelRow, counts []catalog.CountRow, fallback time.Duration) *catalog.FamilyDef {
		f, err := catalog.NewFamilyDef(id, label, cat, levels, counts, fallback)
		if err != nil {
			t.Fatalf("fixture family %s: %v", id, err)
		}
		return f
	}

	laboratory := mustFamily("laboratory", "Laboratory", catalog.CategoryArmy,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 5, BuildTime: 30 * time.Minute},
			{Level: 2, TierRequired: 6, BuildTime: 4 * time.Hour},
			{Level: 3, TierRequired: 7, BuildTime: 12 * time.Hour},
			{Level: 4, TierRequired: 8, BuildTime: 24 * time.Hour},
			{Level: 5, TierRequired: 9, BuildTime: 36 * time.Hour},
			{Level: 6, TierRequired: 9, BuildTime: 48 * time.Hour},
		}, nil, 0)

	barracks := mustFamily("barracks", "Barracks", catalog.CategoryArmy,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1, BuildTime: 10 * time.Second},
			{Level: 2, TierRequired: 1, BuildTime: 5 * time.Minute},
			{Level: 3, TierRequired: 2, BuildTime: 30 * time.Minute},
			{Level: 4, TierRequired: 3, BuildTime: 2 * time.Hour},
		}, nil, 0)

	armyCamp := mustFamily("army_camp", "Army Camp", catalog.CategoryArmy,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1, BuildTime: time.Minute},
			{Level: 2, TierRequired: 2, BuildTime: 15 * time.Minute},
			{Level: 3, TierRequired: 3, BuildTime: 2 * time.Hour},
			{Level: 4, TierRequired: 5, BuildTime: 12 * time.Hour},
		},
		[]catalog.CountRow{
			{Tier: 1, Count: 1},
			{Tier: 2, Count: 1},
			{Tier: 3, Count: 2},
			{Tier: 4, Count: 2},
			{Tier: 5, Count: 3},
			{Tier: 9, Count: 4},
		}, 0)

	cannon := mustFamily("cannon", "Cannon", catalog.CategoryDefenses,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1},
			{Level: 2, TierRequired: 1},
			{Level: 3, TierRequired: 2},
			{Level: 4, TierRequired: 3},
			{Level: 5, TierRequired: 4},
		},
		[]catalog.CountRow{
			{Tier: 1, Count: 2},
			{Tier: 2, Count: 2},
			{Tier: 3, Count: 2},
			{Tier: 4, Count: 3},
			{Tier: 9, Count: 5},
		}, 6*time.Hour)

	goldStorage := mustFamily(catalog.FamilyGoldStorage, "Gold Storage", catalog.CategoryResources,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1, StorageCapacity: 1_500, BuildTime: time.Minute},
			{Level: 9, TierRequired: 5, StorageCapacity: 100_000, BuildTime: 8 * time.Hour},
			{Level: 10, TierRequired: 6, StorageCapacity: 250_000, BuildTime: 16 * time.Hour},
			{Level: 11, TierRequired: 9, StorageCapacity: 500_000, BuildTime: 24 * time.Hour},
		},
		[]catalog.CountRow{
			{Tier: 6, Count: 2},
			{Tier: 9, Count: 4},
		}, 0)

	elixirStorage := mustFamily(catalog.FamilyElixirStorage, "Elixir Storage", catalog.CategoryResources,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1, StorageCapacity: 1_500, BuildTime: time.Minute},
			{Level: 9, TierRequired: 5, StorageCapacity: 100_000, BuildTime: 8 * time.Hour},
			{Level: 10, TierRequired: 6, StorageCapacity: 250_000, BuildTime: 16 * time.Hour},
			{Level: 11, TierRequired: 9, StorageCapacity: 500_000, BuildTime: 24 * time.Hour},
		},
		[]catalog.CountRow{
			{Tier: 6, Count: 2},
			{Tier: 9, Count: 4},
		}, 0)

	darkStorage := mustFamily(catalog.FamilyDarkElixirStorage, "Dark Elixir Storage", catalog.CategoryResources,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 7, StorageCapacity: 10_000, BuildTime: 6 * time.Hour},
			{Level: 2, TierRequired: 7, StorageCapacity: 20_000, BuildTime: 12 * time.Hour},
			{Level: 3, TierRequired: 8, StorageCapacity: 40_000, BuildTime: 24 * time.Hour},
		}, nil, 0)

	bomb := mustFamily("bomb", "Bomb", catalog.CategoryTraps,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 3},
			{Level: 2, TierRequired: 3},
			{Level: 3, TierRequired: 5},
		},
		[]catalog.CountRow{
			{Tier: 3, Count: 2},
			{Tier: 5, Count: 4},
		}, time.Hour)

	// A family whose document failed to load: present but never available.
	spellTower := catalog.NewUnavailableFamily("spell_tower", "Spell Tower", catalog.CategoryDefenses)

	snapshot, err := catalog.NewSnapshot(
		[]*catalog.FamilyDef{laboratory, barracks, armyCamp, cannon, goldStorage, elixirStorage, darkStorage, bomb, spellTower},
		[]string{"defenses/spell_tower.json: document missing"},
	)
	if err != nil {
		t.Fatalf("fixture snapshot: %v", err)
	}
	return snapshot
}
