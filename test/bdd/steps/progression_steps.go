package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/pkg/duration"
)

type progressionContext struct {
	catalog *catalog.Snapshot
	state   *village.State
	sched   *village.Scheduler
	clock   *shared.MockClock

	account     *village.Account
	lastErr     error
	completions []village.Completion
	summary     village.ImportSummary
	stored      int64
}

func (pc *progressionContext) reset() error {
	snapshot, err := fixtureCatalog()
	if err != nil {
		return err
	}
	pc.catalog = snapshot
	pc.state = village.NewState()
	pc.sched = village.NewScheduler(snapshot, pc.state.Structures, 0)
	pc.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	pc.account = nil
	pc.lastErr = nil
	pc.completions = nil
	pc.summary = village.ImportSummary{}
	pc.stored = 0
	return nil
}

// fixtureCatalog builds the catalog slice the scenarios exercise
func fixtureCatalog() (*catalog.Snapshot, error) {
	laboratory, err := catalog.NewFamilyDef("laboratory", "Laboratory", catalog.CategoryArmy,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 5, BuildTime: 30 * time.Minute},
			{Level: 2, TierRequired: 6, BuildTime: 4 * time.Hour},
			{Level: 3, TierRequired: 7, BuildTime: 12 * time.Hour},
			{Level: 4, TierRequired: 8, BuildTime: 24 * time.Hour},
			{Level: 5, TierRequired: 9, BuildTime: 36 * time.Hour},
			{Level: 6, TierRequired: 9, BuildTime: 48 * time.Hour},
		}, nil, 0)
	if err != nil {
		return nil, err
	}

	cannon, err := catalog.NewFamilyDef("cannon", "Cannon", catalog.CategoryDefenses,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1},
			{Level: 2, TierRequired: 1},
			{Level: 3, TierRequired: 2},
		},
		[]catalog.CountRow{
			{Tier: 1, Count: 2},
			{Tier: 9, Count: 5},
		}, 6*time.Hour)
	if err != nil {
		return nil, err
	}

	goldStorage, err := catalog.NewFamilyDef(catalog.FamilyGoldStorage, "Gold Storage", catalog.CategoryResources,
		[]catalog.LevelRow{
			{Level: 1, TierRequired: 1, StorageCapacity: 1_500},
			{Level: 10, TierRequired: 6, StorageCapacity: 250_000},
		},
		[]catalog.CountRow{
			{Tier: 6, Count: 2},
		}, 0)
	if err != nil {
		return nil, err
	}

	return catalog.NewSnapshot([]*catalog.FamilyDef{laboratory, cannon, goldStorage}, nil)
}

// Account setup

func (pc *progressionContext) anAccountAtTier(tier int) error {
	acc, err := village.NewAccount("acc-1", "Scenario Account", tier)
	if err != nil {
		return err
	}
	pc.account = acc
	return pc.state.Roster.Add(acc)
}

func (pc *progressionContext) theAccountHasBuilders(count int) error {
	return pc.account.SetBuilders(count)
}

func (pc *progressionContext) theSixthBuilderIsUnlocked() error {
	pc.account.SetSixthBuilderUnlocked(true)
	return nil
}

func (pc *progressionContext) theAccountHasStorageAtLevel(familyLabel string, level int) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	inst, err := pc.state.Structures.Build(pc.catalog, pc.account, familyID)
	if err != nil {
		return err
	}
	return pc.state.Structures.SetLevel(pc.catalog, pc.account, inst.ID(), level)
}

func (pc *progressionContext) theAccountHasIdleInstancesOf(count int, familyLabel string) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if _, err := pc.state.Structures.Build(pc.catalog, pc.account, familyID); err != nil {
			return err
		}
	}
	return nil
}

// Actions

func (pc *progressionContext) iStartUpgradesOnInstancesOf(count int, familyLabel string) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	started := 0
	for _, inst := range pc.state.Structures.ForAccount(pc.account.ID()) {
		if started == count {
			break
		}
		if inst.FamilyID() != familyID || inst.Work().InProgress() {
			continue
		}
		if err := pc.sched.StartUpgrade(pc.account, inst.ID(), pc.clock.Now()); err != nil {
			return err
		}
		started++
	}
	if started != count {
		return fmt.Errorf("only started %d of %d upgrades", started, count)
	}
	return nil
}

func (pc *progressionContext) iAttemptToStartAnotherUpgradeOf(familyLabel string) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	for _, inst := range pc.state.Structures.ForAccount(pc.account.ID()) {
		if inst.FamilyID() == familyID && !inst.Work().InProgress() {
			pc.lastErr = pc.sched.StartUpgrade(pc.account, inst.ID(), pc.clock.Now())
			return nil
		}
	}
	return fmt.Errorf("no idle %s instance to start", familyLabel)
}

func (pc *progressionContext) timeAdvancesBy(spec string) error {
	d, err := duration.Parse(spec)
	if err != nil {
		return err
	}
	pc.clock.Advance(d)
	tierFor := func(accountID string) (int, bool) {
		acc, ok := pc.state.Roster.Account(accountID)
		if !ok {
			return 0, false
		}
		return acc.Tier(), true
	}
	pc.completions = pc.sched.Tick(pc.clock.Now(), tierFor)
	return nil
}

func (pc *progressionContext) theSixthBuilderUnlockIsRevoked() error {
	pc.account.SetSixthBuilderUnlocked(false)
	return nil
}

func (pc *progressionContext) iRecordGoldOf(value int) error {
	caps := pc.catalog.CapsForTier(pc.account.Tier(), pc.state.Structures.StorageLevels(pc.account.ID()))
	pc.account.SetResource(catalog.ResourceGold, int64(value), caps)
	pc.stored = pc.account.Ledger().Gold()
	return nil
}

func (pc *progressionContext) iImportThePayload(payload *godog.DocString) error {
	summary, err := village.ImportAccounts(pc.state.Roster, []byte(payload.Content))
	pc.summary = summary
	pc.lastErr = err
	return nil
}

// Assertions

func (pc *progressionContext) theMaxLevelOfShouldBe(familyLabel string, expected int) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	maxLevel, ok := pc.catalog.MaxLevelForTier(familyID, pc.account.Tier())
	if !ok {
		return fmt.Errorf("%s is not available at tier %d", familyLabel, pc.account.Tier())
	}
	if maxLevel != expected {
		return fmt.Errorf("expected max level %d, got %d", expected, maxLevel)
	}
	return nil
}

func (pc *progressionContext) shouldNotBeAvailable(familyLabel string) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	if _, ok := pc.catalog.MaxLevelForTier(familyID, pc.account.Tier()); ok {
		return fmt.Errorf("%s should not be available at tier %d", familyLabel, pc.account.Tier())
	}
	return nil
}

func (pc *progressionContext) theMaxInstanceCountOfShouldBe(familyLabel string, expected int) error {
	familyID, err := pc.familyIDForLabel(familyLabel)
	if err != nil {
		return err
	}
	count, ok := pc.catalog.MaxCountForTier(familyID, pc.account.Tier())
	if !ok {
		return fmt.Errorf("%s is not available at tier %d", familyLabel, pc.account.Tier())
	}
	if count != expected {
		return fmt.Errorf("expected max count %d, got %d", expected, count)
	}
	return nil
}

func (pc *progressionContext) theOperationShouldFailWithNoFreeBuilder() error {
	if pc.lastErr == nil {
		return fmt.Errorf("expected an error, got none")
	}
	var noBuilder *shared.NoFreeBuilderError
	if !errors.As(pc.lastErr, &noBuilder) {
		return fmt.Errorf("expected a no-free-builder failure, got: %v", pc.lastErr)
	}
	return nil
}

func (pc *progressionContext) upgradesShouldBeRunning(expected int) error {
	running := pc.state.Structures.InProgressCount(pc.account.ID())
	if running != expected {
		return fmt.Errorf("expected %d running upgrades, got %d", expected, running)
	}
	return nil
}

func (pc *progressionContext) upgradesShouldHaveCompleted(expected int) error {
	if len(pc.completions) != expected {
		return fmt.Errorf("expected %d completions, got %d", expected, len(pc.completions))
	}
	return nil
}

func (pc *progressionContext) theBuilderCountShouldBe(expected int) error {
	if got := pc.account.Builders().Count(); got != expected {
		return fmt.Errorf("expected %d builders, got %d", expected, got)
	}
	return nil
}

func (pc *progressionContext) theStoredGoldShouldBe(expected int) error {
	if pc.stored != int64(expected) {
		return fmt.Errorf("expected stored gold %d, got %d", expected, pc.stored)
	}
	return nil
}

func (pc *progressionContext) theImportSummaryShouldBe(table *godog.Table) error {
	if pc.lastErr != nil {
		return fmt.Errorf("import failed: %v", pc.lastErr)
	}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		var expected int
		fmt.Sscanf(row.Cells[1].Value, "%d", &expected)
		var got int
		switch row.Cells[0].Value {
		case "inserted":
			got = pc.summary.Inserted
		case "replaced":
			got = pc.summary.Replaced
		case "skipped":
			got = pc.summary.Skipped
		case "malformed":
			got = pc.summary.Malformed
		default:
			return fmt.Errorf("unknown summary field %q", row.Cells[0].Value)
		}
		if got != expected {
			return fmt.Errorf("expected %s=%d, got %d", row.Cells[0].Value, expected, got)
		}
	}
	return nil
}

func (pc *progressionContext) theRosterShouldHaveAccounts(expected int) error {
	if got := pc.state.Roster.Len(); got != expected {
		return fmt.Errorf("expected %d accounts, got %d", expected, got)
	}
	return nil
}

func (pc *progressionContext) theRosterAlreadyContains(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		var tier int
		fmt.Sscanf(row.Cells[2].Value, "%d", &tier)
		acc, err := village.NewAccount(row.Cells[0].Value, row.Cells[1].Value, tier)
		if err != nil {
			return err
		}
		if err := pc.state.Roster.Add(acc); err != nil {
			return err
		}
	}
	return nil
}

func (pc *progressionContext) familyIDForLabel(label string) (string, error) {
	for _, f := range pc.catalog.Families() {
		if f.Label() == label {
			return f.ID(), nil
		}
	}
	return "", fmt.Errorf("unknown family label %q", label)
}

// RegisterProgressionSteps wires the progression step definitions
func RegisterProgressionSteps(sc *godog.ScenarioContext) {
	pc := &progressionContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	sc.Step(`^an account at town hall tier (\d+)$`, pc.anAccountAtTier)
	sc.Step(`^the account has (\d+) builders$`, pc.theAccountHasBuilders)
	sc.Step(`^the sixth builder is unlocked$`, pc.theSixthBuilderIsUnlocked)
	sc.Step(`^the account has a "([^"]*)" at level (\d+)$`, pc.theAccountHasStorageAtLevel)
	sc.Step(`^the account has (\d+) idle "([^"]*)" instances$`, pc.theAccountHasIdleInstancesOf)
	sc.Step(`^the roster already contains:$`, pc.theRosterAlreadyContains)

	sc.Step(`^I start upgrades on (\d+) "([^"]*)" instances$`, pc.iStartUpgradesOnInstancesOf)
	sc.Step(`^I attempt to start another "([^"]*)" upgrade$`, pc.iAttemptToStartAnotherUpgradeOf)
	sc.Step(`^time advances by "([^"]*)"$`, pc.timeAdvancesBy)
	sc.Step(`^the sixth builder unlock is revoked$`, pc.theSixthBuilderUnlockIsRevoked)
	sc.Step(`^I record (\d+) gold$`, pc.iRecordGoldOf)
	sc.Step(`^I import the payload:$`, pc.iImportThePayload)

	sc.Step(`^the max level of "([^"]*)" should be (\d+)$`, pc.theMaxLevelOfShouldBe)
	sc.Step(`^"([^"]*)" should not be available$`, pc.shouldNotBeAvailable)
	sc.Step(`^the max instance count of "([^"]*)" should be (\d+)$`, pc.theMaxInstanceCountOfShouldBe)
	sc.Step(`^the operation should fail with no free builder$`, pc.theOperationShouldFailWithNoFreeBuilder)
	sc.Step(`^(\d+) upgrades should be running$`, pc.upgradesShouldBeRunning)
	sc.Step(`^(\d+) upgrades should have completed$`, pc.upgradesShouldHaveCompleted)
	sc.Step(`^the builder count should be (\d+)$`, pc.theBuilderCountShouldBe)
	sc.Step(`^the stored gold should be (\d+)$`, pc.theStoredGoldShouldBe)
	sc.Step(`^the import summary should be:$`, pc.theImportSummaryShouldBe)
	sc.Step(`^the roster should have (\d+) accounts$`, pc.theRosterShouldHaveAccounts)
}
