package snapshot_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/internal/adapters/snapshot"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/test/helpers"
)

func TestSnapshotStore_WriteReadRoundTrip(t *testing.T) {
	cat := helpers.NewTestCatalog(t)
	store := snapshot.NewStore(t.TempDir(), 5)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	state := village.NewState()
	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	acc.SetNotes("push account")
	require.NoError(t, state.Roster.Add(acc))

	lab, err := state.Structures.Build(cat, acc, "laboratory")
	require.NoError(t, err)
	sched := village.NewScheduler(cat, state.Structures, 0)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))

	path, err := store.Write(state, now)
	require.NoError(t, err)
	assert.Equal(t, path, store.Latest())

	restored, err := store.Read(path)
	require.NoError(t, err)

	back, ok := restored.Roster.Account("acc-1")
	require.True(t, ok)
	assert.Equal(t, "Main", back.Label())
	assert.Equal(t, "push account", back.Notes())

	inst, ok := restored.Structures.Get(lab.ID())
	require.True(t, ok)
	assert.True(t, inst.Work().InProgress())
	endsAt, _ := inst.Work().EndsAt()
	assert.True(t, endsAt.Equal(now.Add(4*time.Hour)))
	assert.Equal(t, 1, restored.Structures.InProgressCount("acc-1"))
}

func TestSnapshotStore_PrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	store := snapshot.NewStore(dir, 2)
	state := village.NewState()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var last string
	for i := 0; i < 4; i++ {
		path, err := store.Write(state, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		last = path
	}

	assert.Equal(t, last, store.Latest())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSnapshotStore_LatestEmptyDir(t *testing.T) {
	store := snapshot.NewStore(t.TempDir(), 3)
	assert.Empty(t, store.Latest())
}
