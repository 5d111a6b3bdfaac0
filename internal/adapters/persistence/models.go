package persistence

import (
	"time"
)

// AccountModel represents the accounts table
type AccountModel struct {
	ID            string `gorm:"column:id;primaryKey;not null"`
	Label         string `gorm:"column:label;unique;not null"`
	Tier          int    `gorm:"column:tier;not null"`
	Notes         string `gorm:"column:notes;type:text"`
	Builders      int    `gorm:"column:builders;not null;default:1"`
	SixthUnlocked int    `gorm:"column:sixth_unlocked;not null;default:0"` // 0 or 1 (SQLite compatible)
	Gold          int64  `gorm:"column:gold;not null;default:0"`
	Elixir        int64  `gorm:"column:elixir;not null;default:0"`
	DarkElixir    int64  `gorm:"column:dark_elixir;not null;default:0"`
	ActiveUpgrade string `gorm:"column:active_upgrade;type:text"` // JSON as text, empty when none
}

func (AccountModel) TableName() string {
	return "accounts"
}

// StructureInstanceModel represents the structure_instances table
type StructureInstanceModel struct {
	ID            string        `gorm:"column:id;primaryKey;not null"`
	AccountID     string        `gorm:"column:account_id;not null;index"`
	Account       *AccountModel `gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FamilyID      string        `gorm:"column:family_id;not null"`
	Slot          int           `gorm:"column:slot;not null"`
	Level         int           `gorm:"column:level;not null"`
	TierAtCapture int           `gorm:"column:tier_at_capture;not null"`
	WorkStatus    string        `gorm:"column:work_status;not null;default:'IDLE'"`
	WorkEndsAt    *time.Time    `gorm:"column:work_ends_at"`
	Note          string        `gorm:"column:note;type:text"`
}

func (StructureInstanceModel) TableName() string {
	return "structure_instances"
}
