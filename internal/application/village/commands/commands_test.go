package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/application/village/commands"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/test/helpers"
)

// memoryStore counts saves; the command layer persists after every
// committed mutation.
type memoryStore struct {
	saves int
}

func (s *memoryStore) Load(ctx context.Context) (*village.State, error) {
	return village.NewState(), nil
}

func (s *memoryStore) Save(ctx context.Context, state *village.State) error {
	s.saves++
	return nil
}

func newEnv(t *testing.T) (common.Mediator, *village.State, *memoryStore, *shared.MockClock) {
	t.Helper()
	cat := helpers.NewTestCatalog(t)
	state := village.NewState()
	store := &memoryStore{}
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	sched := village.NewScheduler(cat, state.Structures, 0)

	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*commands.CreateAccountCommand](m, commands.NewCreateAccountHandler(state, store)))
	require.NoError(t, common.RegisterHandler[*commands.DeleteAccountCommand](m, commands.NewDeleteAccountHandler(state, store)))
	require.NoError(t, common.RegisterHandler[*commands.SetAccountTierCommand](m, commands.NewUpdateAccountHandler(state, store, cat)))
	require.NoError(t, common.RegisterHandler[*commands.SetBuildersCommand](m, commands.NewSetBuildersHandler(state, store)))
	require.NoError(t, common.RegisterHandler[*commands.SetResourceCommand](m, commands.NewSetResourceHandler(state, store, cat)))
	editHandler := commands.NewEditStructuresHandler(state, store, cat)
	require.NoError(t, common.RegisterHandler[*commands.BuildStructureCommand](m, editHandler))
	require.NoError(t, common.RegisterHandler[*commands.SetStructureLevelCommand](m, editHandler))
	require.NoError(t, common.RegisterHandler[*commands.StartUpgradeCommand](m, commands.NewScheduleWorkHandler(state, store, sched, clock)))
	require.NoError(t, common.RegisterHandler[*commands.TickCommand](m, commands.NewTickHandler(state, store, sched, clock)))
	require.NoError(t, common.RegisterHandler[*commands.ImportAccountsCommand](m, commands.NewImportAccountsHandler(state, store)))
	return m, state, store, clock
}

func TestCreateAccount_PersistsAndRejectsDuplicateLabel(t *testing.T) {
	m, state, store, _ := newEnv(t)
	ctx := context.Background()

	resp, err := m.Send(ctx, &commands.CreateAccountCommand{Label: "Main", Tier: 9})
	require.NoError(t, err)
	created := resp.(*commands.CreateAccountResponse).Account
	assert.NotEmpty(t, created.ID())
	assert.Equal(t, 1, state.Roster.Len())
	assert.Equal(t, 1, store.saves)

	_, err = m.Send(ctx, &commands.CreateAccountCommand{Label: "main", Tier: 3})
	require.Error(t, err)
	assert.Equal(t, 1, store.saves, "failed command must not persist")
}

func TestDeleteAccount_CascadesStructures(t *testing.T) {
	m, state, _, _ := newEnv(t)
	ctx := context.Background()

	_, err := m.Send(ctx, &commands.CreateAccountCommand{ID: "acc-1", Label: "Main", Tier: 9})
	require.NoError(t, err)
	_, err = m.Send(ctx, &commands.BuildStructureCommand{AccountID: "acc-1", FamilyID: "cannon"})
	require.NoError(t, err)

	resp, err := m.Send(ctx, &commands.DeleteAccountCommand{AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.(*commands.DeleteAccountResponse).StructuresRemoved)
	assert.Equal(t, 0, state.Roster.Len())
	assert.Empty(t, state.Structures.All())
}

func TestSetResource_ClampsAgainstComputedCaps(t *testing.T) {
	m, _, _, _ := newEnv(t)
	ctx := context.Background()

	_, err := m.Send(ctx, &commands.CreateAccountCommand{ID: "acc-1", Label: "Main", Tier: 6})
	require.NoError(t, err)
	build, err := m.Send(ctx, &commands.BuildStructureCommand{AccountID: "acc-1", FamilyID: catalog.FamilyGoldStorage})
	require.NoError(t, err)
	inst := build.(*commands.StructureResponse).Instance
	_, err = m.Send(ctx, &commands.SetStructureLevelCommand{AccountID: "acc-1", InstanceID: inst.ID(), Level: 10})
	require.NoError(t, err)

	// Tier-6 base 300k plus the level-10 storage's 250k.
	resp, err := m.Send(ctx, &commands.SetResourceCommand{AccountID: "acc-1", Resource: catalog.ResourceGold, Value: 900_000})
	require.NoError(t, err)
	result := resp.(*commands.SetResourceResponse)
	assert.Equal(t, int64(550_000), result.Capacity)
	assert.Equal(t, int64(550_000), result.Stored)
}

func TestStartUpgradeAndTick_ThroughMediator(t *testing.T) {
	m, _, store, clock := newEnv(t)
	ctx := context.Background()

	_, err := m.Send(ctx, &commands.CreateAccountCommand{ID: "acc-1", Label: "Main", Tier: 9})
	require.NoError(t, err)
	build, err := m.Send(ctx, &commands.BuildStructureCommand{AccountID: "acc-1", FamilyID: "laboratory"})
	require.NoError(t, err)
	inst := build.(*commands.StructureResponse).Instance

	resp, err := m.Send(ctx, &commands.StartUpgradeCommand{AccountID: "acc-1", InstanceID: inst.ID()})
	require.NoError(t, err)
	endsAt := resp.(*commands.ScheduleWorkResponse).EndsAt
	assert.Equal(t, clock.Now().Add(4*time.Hour), endsAt)

	// A tick before the end time resolves nothing and saves nothing.
	savesBefore := store.saves
	tick, err := m.Send(ctx, &commands.TickCommand{})
	require.NoError(t, err)
	assert.Empty(t, tick.(*commands.TickResponse).Completions)
	assert.Equal(t, savesBefore, store.saves)

	clock.Advance(4 * time.Hour)
	tick, err = m.Send(ctx, &commands.TickCommand{})
	require.NoError(t, err)
	completions := tick.(*commands.TickResponse).Completions
	require.Len(t, completions, 1)
	assert.Equal(t, 2, completions[0].Level)
	assert.Equal(t, savesBefore+1, store.saves)
	assert.Equal(t, 2, inst.Level())
}

func TestImportAccounts_ThroughMediator(t *testing.T) {
	m, state, _, _ := newEnv(t)
	ctx := context.Background()

	_, err := m.Send(ctx, &commands.CreateAccountCommand{ID: "acc-1", Label: "Main", Tier: 9})
	require.NoError(t, err)

	resp, err := m.Send(ctx, &commands.ImportAccountsCommand{Payload: []byte(`[
		{"id": "acc-1", "label": "Main Prime", "level": 10},
		{"label": "Second", "level": 2}
	]`)})
	require.NoError(t, err)
	summary := resp.(*commands.ImportAccountsResponse).Summary
	assert.Equal(t, 1, summary.Replaced)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 2, state.Roster.Len())
}
