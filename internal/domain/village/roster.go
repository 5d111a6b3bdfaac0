package village

import (
	"strings"

	"github.com/mateuspires/basetracker-go/internal/domain/shared"
)

// Roster is the in-memory list of tracked accounts. Order is preserved
// (most recently added first, matching how accounts are entered) and label
// lookups are case-insensitive to support import de-duplication.
type Roster struct {
	accounts []*Account
	byID     map[string]*Account
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]*Account)}
}

// Add prepends an account. Fails when the id is already present.
func (r *Roster) Add(acc *Account) error {
	if _, exists := r.byID[acc.ID()]; exists {
		return shared.NewValidationError("id", "account id already exists: "+acc.ID())
	}
	r.accounts = append([]*Account{acc}, r.accounts...)
	r.byID[acc.ID()] = acc
	return nil
}

// Account looks up by id.
func (r *Roster) Account(id string) (*Account, bool) {
	acc, ok := r.byID[id]
	return acc, ok
}

// AccountByLabel looks up by case-insensitive label.
func (r *Roster) AccountByLabel(label string) (*Account, bool) {
	needle := strings.ToLower(label)
	for _, acc := range r.accounts {
		if strings.ToLower(acc.Label()) == needle {
			return acc, true
		}
	}
	return nil, false
}

// Accounts returns the roster in order.
func (r *Roster) Accounts() []*Account {
	out := make([]*Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Len reports the number of accounts.
func (r *Roster) Len() int {
	return len(r.accounts)
}

// Remove deletes an account by id. The caller cascades the structure
// deletion through the Collection.
func (r *Roster) Remove(id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.NewNotFoundError("account", id)
	}
	delete(r.byID, id)
	for i, acc := range r.accounts {
		if acc.ID() == id {
			r.accounts = append(r.accounts[:i], r.accounts[i+1:]...)
			break
		}
	}
	return nil
}

// replace swaps an account in place, keeping roster order.
func (r *Roster) replace(acc *Account) {
	for i, existing := range r.accounts {
		if existing.ID() == acc.ID() {
			r.accounts[i] = acc
			r.byID[acc.ID()] = acc
			return
		}
	}
}
