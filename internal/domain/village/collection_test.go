package village_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/test/helpers"
)

func TestCollection_BuildAssignsSequentialSlots(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	first, err := store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)
	second, err := store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Slot())
	assert.Equal(t, 1, second.Slot())
	assert.Equal(t, "acc-1:cannon:0", first.ID())
	assert.Equal(t, 1, first.Level())
	assert.False(t, first.Work().InProgress())
}

func TestCollection_BuildFailsWhenUnavailable(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 4)
	require.NoError(t, err)

	// Laboratory requires tier 5.
	_, err = store.Build(snapshot, acc, "laboratory")

	var notAvailable *shared.NotAvailableError
	require.ErrorAs(t, err, &notAvailable)
	assert.Empty(t, store.All())
}

func TestCollection_BuildFailsAtInstanceCap(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	// Laboratory is a singleton.
	_, err = store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	_, err = store.Build(snapshot, acc, "laboratory")

	var capacity *shared.CapacityExceededError
	require.ErrorAs(t, err, &capacity)
	assert.Equal(t, 1, capacity.MaxCount)
	assert.Len(t, store.All(), 1)
}

func TestCollection_RemovedSlotsAreNeverReused(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	first, err := store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)
	_, err = store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)

	require.NoError(t, store.Remove(first.ID()))
	third, err := store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)

	// Slot 0 stays retired so ids remain stable across edits.
	assert.Equal(t, 2, third.Slot())
}

func TestCollection_SetLevelClampsIntoRange(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	inst, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)

	require.NoError(t, store.SetLevel(snapshot, acc, inst.ID(), 99))
	assert.Equal(t, 6, inst.Level(), "clamped to max level at tier 9")

	require.NoError(t, store.SetLevel(snapshot, acc, inst.ID(), -3))
	assert.Equal(t, 1, inst.Level())
}

func TestCollection_SetLevelUnknownInstance(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	err = store.SetLevel(snapshot, acc, "acc-1:laboratory:0", 3)

	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCollection_RemoveAllForAccount(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	first, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	second, err := village.NewAccount("acc-2", "Alt", 9)
	require.NoError(t, err)

	_, err = store.Build(snapshot, first, "cannon")
	require.NoError(t, err)
	_, err = store.Build(snapshot, first, "laboratory")
	require.NoError(t, err)
	kept, err := store.Build(snapshot, second, "cannon")
	require.NoError(t, err)

	store.RemoveAllForAccount("acc-1")

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID(), all[0].ID())
}

func TestCollection_StorageLevels(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	gold, err := store.Build(snapshot, acc, "gold_storage")
	require.NoError(t, err)
	require.NoError(t, store.SetLevel(snapshot, acc, gold.ID(), 10))
	dark, err := store.Build(snapshot, acc, "dark_elixir_storage")
	require.NoError(t, err)
	require.NoError(t, store.SetLevel(snapshot, acc, dark.ID(), 2))

	levels := store.StorageLevels("acc-1")

	assert.Equal(t, []int{10}, levels.Gold)
	assert.Empty(t, levels.Elixir)
	assert.Equal(t, 2, levels.DarkElixir)
}
