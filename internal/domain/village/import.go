package village

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mateuspires/basetracker-go/internal/domain/shared"
)

// AccountUpgrade is the account-level upgrade marker carried by older
// exports. It is imported and exported verbatim; structure-level work is
// tracked separately by the scheduler.
type AccountUpgrade struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EndsAtISO string `json:"endsAtIso,omitempty"`
}

// ActiveUpgrade returns the imported account-level upgrade marker, if any.
func (a *Account) ActiveUpgrade() *AccountUpgrade {
	return a.activeUpgrade
}

// SetActiveUpgrade replaces the account-level upgrade marker.
func (a *Account) SetActiveUpgrade(u *AccountUpgrade) {
	a.activeUpgrade = u
}

// AccountRecord is the externally-facing import/export shape of one account.
type AccountRecord struct {
	ID            string          `json:"id,omitempty"`
	Label         string          `json:"label" validate:"required"`
	Level         int             `json:"level,omitempty" validate:"omitempty,min=1,max=17"`
	Notes         string          `json:"notes,omitempty"`
	ActiveUpgrade *AccountUpgrade `json:"activeUpgrade,omitempty"`
}

var recordValidator = validator.New()

// ParseAccountRecord validates one raw import row. Missing or invalid
// required fields yield a MalformedImportRecord error; omitted level
// defaults to tier 1.
func ParseAccountRecord(raw json.RawMessage) (*AccountRecord, error) {
	var rec AccountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, shared.NewMalformedImportRecordError(err.Error())
	}
	if err := recordValidator.Struct(&rec); err != nil {
		return nil, shared.NewMalformedImportRecordError(err.Error())
	}
	if rec.Level == 0 {
		rec.Level = 1
	}
	if rec.ActiveUpgrade != nil {
		if rec.ActiveUpgrade.Name == "" {
			rec.ActiveUpgrade.Name = "Unnamed Upgrade"
		}
		if rec.ActiveUpgrade.ID == "" {
			rec.ActiveUpgrade.ID = uuid.NewString()
		}
	}
	return &rec, nil
}

// ImportSummary reports what an import batch did.
type ImportSummary struct {
	Inserted  int
	Replaced  int
	Skipped   int
	Malformed int
}

// ImportAccounts merges a JSON array of account records into the roster:
//   - a record whose id matches an existing account replaces it
//   - otherwise a record whose label matches case-insensitively is skipped
//   - otherwise the record is inserted with a freshly generated id
//
// Malformed records are skipped and counted; the batch continues. A payload
// that is not a JSON array fails atomically before any record is applied.
func ImportAccounts(roster *Roster, payload []byte) (ImportSummary, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(payload, &rows); err != nil {
		return ImportSummary{}, fmt.Errorf("import payload must be a JSON array of account records: %w", err)
	}

	var summary ImportSummary
	for _, raw := range rows {
		rec, err := ParseAccountRecord(raw)
		if err != nil {
			summary.Malformed++
			continue
		}

		if rec.ID != "" {
			if _, exists := roster.Account(rec.ID); exists {
				acc, err := accountFromRecord(rec, rec.ID)
				if err != nil {
					summary.Malformed++
					continue
				}
				roster.replace(acc)
				summary.Replaced++
				continue
			}
		}

		if _, exists := roster.AccountByLabel(rec.Label); exists {
			summary.Skipped++
			continue
		}

		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		acc, err := accountFromRecord(rec, id)
		if err != nil {
			summary.Malformed++
			continue
		}
		if err := roster.Add(acc); err != nil {
			summary.Malformed++
			continue
		}
		summary.Inserted++
	}
	return summary, nil
}

// Record converts an account back into its export shape.
func (a *Account) Record() AccountRecord {
	return AccountRecord{
		ID:            a.id,
		Label:         a.label,
		Level:         a.tier,
		Notes:         a.notes,
		ActiveUpgrade: a.activeUpgrade,
	}
}

// ExportAccounts serializes the roster verbatim as the externally-facing
// JSON array.
func ExportAccounts(roster *Roster) ([]byte, error) {
	records := make([]AccountRecord, 0, roster.Len())
	for _, acc := range roster.Accounts() {
		records = append(records, acc.Record())
	}
	return json.MarshalIndent(records, "", "  ")
}

func accountFromRecord(rec *AccountRecord, id string) (*Account, error) {
	acc, err := NewAccount(id, rec.Label, rec.Level)
	if err != nil {
		return nil, err
	}
	acc.SetNotes(rec.Notes)
	acc.SetActiveUpgrade(rec.ActiveUpgrade)
	return acc, nil
}
