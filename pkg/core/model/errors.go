package model

import "fmt"

// ConfigurationError reports a mandated slot kind that cannot be staffed from
// its eligible pool. It aborts a run before any weight is persisted.
type ConfigurationError struct {
	Kind   SlotKind
	Role   Role
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("slot %s (%s) role %s: %s", e.Kind.Code(), e.Kind, e.Role, e.Reason)
	}
	return fmt.Sprintf("slot %s (%s): %s", e.Kind.Code(), e.Kind, e.Reason)
}

// InputError reports an invalid year or month
type InputError struct {
	Field string
	Value int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.Value)
}
