package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/internal/adapters/persistence"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/test/helpers"
)

func TestGormStateStore_EmptyDatabaseYieldsEmptyState(t *testing.T) {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStateStore(db)

	state, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, state.Roster.Len())
	assert.Empty(t, state.Structures.All())
}

func TestGormStateStore_SaveAndLoadRoundTrip(t *testing.T) {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStateStore(db)
	snapshot := helpers.NewTestCatalog(t)
	ctx := context.Background()

	state := village.NewState()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	require.NoError(t, acc.SetBuilders(3))
	acc.SetNotes("war base")
	acc.SetActiveUpgrade(&village.AccountUpgrade{ID: "up-1", Name: "Town Hall", EndsAtISO: "2026-03-02T12:00:00Z"})
	require.NoError(t, state.Roster.Add(acc))

	caps := snapshot.CapsForTier(acc.Tier(), catalog.StorageLevels{})
	acc.SetResource(catalog.ResourceGold, 120_000, caps)

	lab, err := state.Structures.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	endsAt := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	sched := village.NewScheduler(snapshot, state.Structures, 0)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), endsAt.Add(-4*time.Hour)))
	cannon, err := state.Structures.Build(snapshot, acc, "cannon")
	require.NoError(t, err)
	require.NoError(t, state.Structures.SetNote(cannon.ID(), "upgrade next"))

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	restored, ok := loaded.Roster.Account("acc-1")
	require.True(t, ok)
	assert.Equal(t, "Main", restored.Label())
	assert.Equal(t, 9, restored.Tier())
	assert.Equal(t, "war base", restored.Notes())
	assert.Equal(t, 3, restored.Builders().Count())
	assert.Equal(t, int64(120_000), restored.Ledger().Gold())
	require.NotNil(t, restored.ActiveUpgrade())
	assert.Equal(t, "Town Hall", restored.ActiveUpgrade().Name)

	require.Len(t, loaded.Structures.All(), 2)
	loadedLab, ok := loaded.Structures.Get(lab.ID())
	require.True(t, ok)
	assert.Equal(t, 1, loadedLab.Level())
	assert.True(t, loadedLab.Work().InProgress())
	got, _ := loadedLab.Work().EndsAt()
	assert.True(t, got.Equal(endsAt))
	assert.Equal(t, 1, loaded.Structures.InProgressCount("acc-1"))

	loadedCannon, ok := loaded.Structures.Get(cannon.ID())
	require.True(t, ok)
	assert.Equal(t, "upgrade next", loadedCannon.Note())
	assert.False(t, loadedCannon.Work().InProgress())
}

func TestGormStateStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	db := helpers.NewTestDB(t)
	store := persistence.NewGormStateStore(db)
	ctx := context.Background()

	state := village.NewState()
	acc, err := village.NewAccount("acc-1", "Main", 5)
	require.NoError(t, err)
	require.NoError(t, state.Roster.Add(acc))
	require.NoError(t, store.Save(ctx, state))

	require.NoError(t, state.Roster.Remove("acc-1"))
	other, err := village.NewAccount("acc-2", "Alt", 3)
	require.NoError(t, err)
	require.NoError(t, state.Roster.Add(other))
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Roster.Len())
	_, ok := loaded.Roster.Account("acc-2")
	assert.True(t, ok)
}
