package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mateuspires/basetracker-go/internal/domain/village"
)

// GormStateStore implements village.StateStore using GORM. The persistence
// boundary is snapshot-shaped: Load reads the whole world, Save rewrites it
// in one transaction.
type GormStateStore struct {
	db *gorm.DB
}

// NewGormStateStore creates a new GORM state store
func NewGormStateStore(db *gorm.DB) *GormStateStore {
	return &GormStateStore{db: db}
}

// Load reads every account and structure instance. An empty database yields
// an empty state.
func (s *GormStateStore) Load(ctx context.Context) (*village.State, error) {
	state := village.NewState()

	var accounts []AccountModel
	if result := s.db.WithContext(ctx).Order("label").Find(&accounts); result.Error != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", result.Error)
	}
	for _, model := range accounts {
		acc, err := s.modelToAccount(&model)
		if err != nil {
			return nil, err
		}
		if err := state.Roster.Add(acc); err != nil {
			return nil, fmt.Errorf("failed to restore account %s: %w", model.ID, err)
		}
	}

	var instances []StructureInstanceModel
	if result := s.db.WithContext(ctx).Order("id").Find(&instances); result.Error != nil {
		return nil, fmt.Errorf("failed to load structure instances: %w", result.Error)
	}
	for _, model := range instances {
		work := village.IdleWork()
		if model.WorkStatus == string(village.WorkStatusInProgress) && model.WorkEndsAt != nil {
			work = village.InProgressWork(model.WorkEndsAt.UTC())
		}
		inst := village.RestoreStructureInstance(
			model.AccountID, model.FamilyID, model.Slot, model.Level,
			model.TierAtCapture, work, model.Note,
		)
		state.Structures.Restore(inst)
	}

	return state, nil
}

// Save rewrites the whole snapshot transactionally
func (s *GormStateStore) Save(ctx context.Context, state *village.State) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("1 = 1").Delete(&StructureInstanceModel{}); result.Error != nil {
			return fmt.Errorf("failed to clear structure instances: %w", result.Error)
		}
		if result := tx.Where("1 = 1").Delete(&AccountModel{}); result.Error != nil {
			return fmt.Errorf("failed to clear accounts: %w", result.Error)
		}

		for _, acc := range state.Roster.Accounts() {
			model, err := s.accountToModel(acc)
			if err != nil {
				return err
			}
			if result := tx.Create(model); result.Error != nil {
				return fmt.Errorf("failed to save account %s: %w", acc.ID(), result.Error)
			}
		}

		for _, inst := range state.Structures.All() {
			model := s.instanceToModel(inst)
			if result := tx.Create(model); result.Error != nil {
				return fmt.Errorf("failed to save structure instance %s: %w", inst.ID(), result.Error)
			}
		}
		return nil
	})
}

func (s *GormStateStore) modelToAccount(model *AccountModel) (*village.Account, error) {
	builders := village.RestoreBuilderPool(model.Builders, model.SixthUnlocked != 0)
	ledger := village.RestoreResourceLedger(model.Gold, model.Elixir, model.DarkElixir)
	acc := village.RestoreAccount(model.ID, model.Label, model.Tier, model.Notes, builders, ledger)

	if model.ActiveUpgrade != "" {
		var upgrade village.AccountUpgrade
		if err := json.Unmarshal([]byte(model.ActiveUpgrade), &upgrade); err != nil {
			return nil, fmt.Errorf("invalid active upgrade for account %s: %w", model.ID, err)
		}
		acc.SetActiveUpgrade(&upgrade)
	}
	return acc, nil
}

func (s *GormStateStore) accountToModel(acc *village.Account) (*AccountModel, error) {
	model := &AccountModel{
		ID:         acc.ID(),
		Label:      acc.Label(),
		Tier:       acc.Tier(),
		Notes:      acc.Notes(),
		Builders:   acc.Builders().Count(),
		Gold:       acc.Ledger().Gold(),
		Elixir:     acc.Ledger().Elixir(),
		DarkElixir: acc.Ledger().DarkElixir(),
	}
	if acc.Builders().SixthUnlocked() {
		model.SixthUnlocked = 1
	}
	if upgrade := acc.ActiveUpgrade(); upgrade != nil {
		raw, err := json.Marshal(upgrade)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize active upgrade for account %s: %w", acc.ID(), err)
		}
		model.ActiveUpgrade = string(raw)
	}
	return model, nil
}

func (s *GormStateStore) instanceToModel(inst *village.StructureInstance) *StructureInstanceModel {
	model := &StructureInstanceModel{
		ID:            inst.ID(),
		AccountID:     inst.AccountID(),
		FamilyID:      inst.FamilyID(),
		Slot:          inst.Slot(),
		Level:         inst.Level(),
		TierAtCapture: inst.TierAtCapture(),
		WorkStatus:    string(inst.Work().Status()),
		Note:          inst.Note(),
	}
	if endsAt, ok := inst.Work().EndsAt(); ok {
		utc := endsAt.UTC()
		model.WorkEndsAt = &utc
	}
	return model
}
