package village_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/test/helpers"
)

func tierLookup(accounts ...*village.Account) func(string) (int, bool) {
	return func(id string) (int, bool) {
		for _, acc := range accounts {
			if acc.ID() == id {
				return acc.Tier(), true
			}
		}
		return 0, false
	}
}

func TestScheduler_ThirdStartFailsWithTwoBuilders(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	require.NoError(t, acc.SetBuilders(2))

	var instances []*village.StructureInstance
	for i := 0; i < 3; i++ {
		inst, err := store.Build(snapshot, acc, "cannon")
		require.NoError(t, err)
		instances = append(instances, inst)
	}

	require.NoError(t, sched.StartUpgrade(acc, instances[0].ID(), now))
	require.NoError(t, sched.StartUpgrade(acc, instances[1].ID(), now))

	err = sched.StartUpgrade(acc, instances[2].ID(), now)
	var noBuilder *shared.NoFreeBuilderError
	require.ErrorAs(t, err, &noBuilder)
	assert.Equal(t, 2, noBuilder.Busy)

	// The rejected instance is untouched.
	assert.False(t, instances[2].Work().InProgress())
	assert.Equal(t, 1, instances[2].Level())
	assert.Equal(t, 2, store.InProgressCount("acc-1"))
}

func TestScheduler_StartUpgradeGuards(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 5)
	require.NoError(t, err)

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)

	// Level 1 is already the tier-5 max for the laboratory.
	err = sched.StartUpgrade(acc, lab.ID(), now)
	var maxed *shared.MaxLevelReachedError
	require.ErrorAs(t, err, &maxed)
	assert.Equal(t, 1, maxed.Level)

	err = sched.StartUpgrade(acc, "acc-1:laboratory:99", now)
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestScheduler_StartUpgradeRejectsRunningInstance(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	require.NoError(t, acc.SetBuilders(2))

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))

	err = sched.StartUpgrade(acc, lab.ID(), now)
	var running *shared.AlreadyInProgressError
	assert.ErrorAs(t, err, &running)
}

func TestScheduler_TickCompletesExactlyAtEndTime(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))

	// Level 1 to 2 takes 4 hours.
	endsAt := now.Add(4 * time.Hour)

	completions := sched.Tick(endsAt.Add(-time.Second), tierLookup(acc))
	assert.Empty(t, completions)
	assert.True(t, lab.Work().InProgress())

	completions = sched.Tick(endsAt, tierLookup(acc))
	require.Len(t, completions, 1)
	assert.Equal(t, lab.ID(), completions[0].InstanceID)
	assert.Equal(t, 2, completions[0].Level)
	assert.Equal(t, endsAt, completions[0].EndedAt)
	assert.Equal(t, 2, lab.Level())
	assert.False(t, lab.Work().InProgress())

	// Ticking again resolves nothing.
	assert.Empty(t, sched.Tick(endsAt.Add(time.Hour), tierLookup(acc)))
}

func TestScheduler_TickProcessesDueUpgradesInEndOrder(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)
	require.NoError(t, acc.SetBuilders(3))

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	barracks, err := store.Build(snapshot, acc, "barracks")
	require.NoError(t, err)
	camp, err := store.Build(snapshot, acc, "army_camp")
	require.NoError(t, err)

	// barracks 5m, camp 15m, lab 4h.
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))
	require.NoError(t, sched.StartUpgrade(acc, barracks.ID(), now))
	require.NoError(t, sched.StartUpgrade(acc, camp.ID(), now))

	completions := sched.Tick(now.Add(5*time.Hour), tierLookup(acc))
	require.Len(t, completions, 3)
	assert.Equal(t, barracks.ID(), completions[0].InstanceID)
	assert.Equal(t, camp.ID(), completions[1].InstanceID)
	assert.Equal(t, lab.ID(), completions[2].InstanceID)
}

func TestScheduler_TickCapsLevelAtCurrentTier(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 6)
	require.NoError(t, err)

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))
	require.NoError(t, store.SetLevel(snapshot, acc, lab.ID(), 2))

	// The level would land at 3, past the tier-6 max of 2.
	completions := sched.Tick(now.Add(4*time.Hour), tierLookup(acc))
	require.Len(t, completions, 1)
	assert.Equal(t, 2, completions[0].Level)
	assert.Equal(t, 2, lab.Level())
}

func TestScheduler_StartBuildConstructsToLevelOne(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	inst, err := sched.StartBuild(acc, "laboratory", now)
	require.NoError(t, err)
	assert.Equal(t, 0, inst.Level())
	assert.True(t, inst.Work().InProgress())

	// Construction uses the level-1 build time of 30 minutes.
	completions := sched.Tick(now.Add(30*time.Minute), tierLookup(acc))
	require.Len(t, completions, 1)
	assert.Equal(t, 1, inst.Level())
	assert.False(t, inst.Work().InProgress())
}

func TestScheduler_StartBuildLeavesNoOrphanOnBusyBuilders(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	_, err = sched.StartBuild(acc, "cannon", now)
	require.NoError(t, err)

	_, err = sched.StartBuild(acc, "cannon", now)
	var noBuilder *shared.NoFreeBuilderError
	require.ErrorAs(t, err, &noBuilder)
	assert.Len(t, store.All(), 1)
}

func TestScheduler_CancelDiscardsElapsedTime(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))

	require.NoError(t, sched.Cancel(lab.ID()))
	assert.False(t, lab.Work().InProgress())
	assert.Equal(t, 1, lab.Level())
	assert.Equal(t, 0, store.InProgressCount("acc-1"))

	// Cancelling an idle instance is a no-op.
	require.NoError(t, sched.Cancel(lab.ID()))
}

func TestScheduler_CancelledConstructionRemovesInstance(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	inst, err := sched.StartBuild(acc, "laboratory", now)
	require.NoError(t, err)

	require.NoError(t, sched.Cancel(inst.ID()))
	_, ok := store.Get(inst.ID())
	assert.False(t, ok)
}

func TestScheduler_Remaining(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	lab, err := store.Build(snapshot, acc, "laboratory")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, lab.ID(), now))

	assert.Equal(t, 4*time.Hour, sched.Remaining(lab.ID(), now))
	assert.Equal(t, time.Hour, sched.Remaining(lab.ID(), now.Add(3*time.Hour)))
	assert.Equal(t, time.Duration(0), sched.Remaining(lab.ID(), now.Add(5*time.Hour)))
	assert.Equal(t, time.Duration(0), sched.Remaining("missing", now))
}

func TestScheduler_FallbackDurationWhenCatalogSilent(t *testing.T) {
	snapshot := helpers.NewTestCatalog(t)
	store := village.NewCollection()
	sched := village.NewScheduler(snapshot, store, 0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	acc, err := village.NewAccount("acc-1", "Main", 9)
	require.NoError(t, err)

	// The cannon rows carry no build times; the family default is 6 hours.
	cannon, err := store.Build(snapshot, acc, "cannon")
	require.NoError(t, err)
	require.NoError(t, sched.StartUpgrade(acc, cannon.ID(), now))
	assert.Equal(t, 6*time.Hour, sched.Remaining(cannon.ID(), now))

	// The bomb family default is an hour; a family with neither would fall
	// back to DefaultUpgradeDuration.
	bomb, err := store.Build(snapshot, acc, "bomb")
	require.NoError(t, err)
	require.NoError(t, acc.SetBuilders(2))
	require.NoError(t, sched.StartUpgrade(acc, bomb.ID(), now))
	assert.Equal(t, time.Hour, sched.Remaining(bomb.ID(), now))
}
