package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Progression errors

// NotAvailableError indicates a structure family cannot be used at the
// account's current tier.
type NotAvailableError struct {
	*DomainError
	FamilyID string
	Tier     int
}

func NewNotAvailableError(familyID string, tier int) *NotAvailableError {
	return &NotAvailableError{
		DomainError: &DomainError{Message: fmt.Sprintf("structure %s is not available at town hall %d", familyID, tier)},
		FamilyID:    familyID,
		Tier:        tier,
	}
}

// CapacityExceededError indicates the per-tier instance-count cap for a
// family is already reached.
type CapacityExceededError struct {
	*DomainError
	FamilyID string
	MaxCount int
}

func NewCapacityExceededError(familyID string, maxCount int) *CapacityExceededError {
	return &CapacityExceededError{
		DomainError: &DomainError{Message: fmt.Sprintf("structure %s already has the maximum of %d instances", familyID, maxCount)},
		FamilyID:    familyID,
		MaxCount:    maxCount,
	}
}

// NotFoundError indicates an unknown instance or account id.
type NotFoundError struct {
	*DomainError
	ID string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", kind, id)},
		ID:          id,
	}
}

// Scheduling errors

type AlreadyInProgressError struct {
	*DomainError
	InstanceID string
}

func NewAlreadyInProgressError(instanceID string) *AlreadyInProgressError {
	return &AlreadyInProgressError{
		DomainError: &DomainError{Message: fmt.Sprintf("instance %s is already upgrading", instanceID)},
		InstanceID:  instanceID,
	}
}

type MaxLevelReachedError struct {
	*DomainError
	InstanceID string
	Level      int
}

func NewMaxLevelReachedError(instanceID string, level int) *MaxLevelReachedError {
	return &MaxLevelReachedError{
		DomainError: &DomainError{Message: fmt.Sprintf("instance %s is already at max level %d", instanceID, level)},
		InstanceID:  instanceID,
		Level:       level,
	}
}

type NoFreeBuilderError struct {
	*DomainError
	AccountID string
	Busy      int
	Builders  int
}

func NewNoFreeBuilderError(accountID string, busy, builders int) *NoFreeBuilderError {
	return &NoFreeBuilderError{
		DomainError: &DomainError{Message: fmt.Sprintf("account %s has no free builder: %d of %d busy", accountID, busy, builders)},
		AccountID:   accountID,
		Busy:        busy,
		Builders:    builders,
	}
}

// Import errors

// MalformedImportRecordError indicates an import row is missing required
// fields. The batch continues; the record is skipped and counted.
type MalformedImportRecordError struct {
	*DomainError
	Reason string
}

func NewMalformedImportRecordError(reason string) *MalformedImportRecordError {
	return &MalformedImportRecordError{
		DomainError: &DomainError{Message: fmt.Sprintf("malformed import record: %s", reason)},
		Reason:      reason,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
