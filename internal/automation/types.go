package automation

import (
	"errors"
	"fmt"
	"time"
)

// EntityType identifies the category of business record a rule applies to.
type EntityType string

// Entity types known to the engine.
const (
	EntityLead        EntityType = "LEAD"
	EntityClient      EntityType = "CLIENT"
	EntityFollowUp    EntityType = "FOLLOW_UP"
	EntityApplication EntityType = "APPLICATION"
	EntityRevenue     EntityType = "REVENUE"
	EntityPayment     EntityType = "PAYMENT"
)

// EntityTypes lists all entity types in sweep order.
var EntityTypes = []EntityType{
	EntityLead,
	EntityClient,
	EntityFollowUp,
	EntityApplication,
	EntityRevenue,
	EntityPayment,
}

// Valid reports whether the entity type is a known member.
func (e EntityType) Valid() bool {
	switch e {
	case EntityLead, EntityClient, EntityFollowUp, EntityApplication, EntityRevenue, EntityPayment:
		return true
	default:
		return false
	}
}

// Operator identifies a condition comparison.
type Operator string

// Condition operators.
const (
	OpEquals             Operator = "EQUALS"
	OpNotEquals          Operator = "NOT_EQUALS"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpLessThan           Operator = "LESS_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpContains           Operator = "CONTAINS"
	OpNotContains        Operator = "NOT_CONTAINS"
	OpIsNull             Operator = "IS_NULL"
	OpIsNotNull          Operator = "IS_NOT_NULL"

	// OpDaysSince and OpDaysUntil exist in persisted rule blobs but carry no
	// behavior of their own: temporal semantics are keyed off the condition's
	// field-name prefix (daysSince*/daysUntil*), not the operator.
	OpDaysSince Operator = "DAYS_SINCE"
	OpDaysUntil Operator = "DAYS_UNTIL"
)

// Valid reports whether the operator is a known member.
func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpContains, OpNotContains, OpIsNull, OpIsNotNull,
		OpDaysSince, OpDaysUntil:
		return true
	default:
		return false
	}
}

// RequiresValue reports whether conditions with this operator must carry a
// comparison value.
func (o Operator) RequiresValue() bool {
	return o != OpIsNull && o != OpIsNotNull
}

// ActionType identifies a side-effecting operation fired by a matched rule.
type ActionType string

// Action types.
const (
	ActionNotifyEmployee ActionType = "NOTIFY_EMPLOYEE"
	ActionNotifyManager  ActionType = "NOTIFY_MANAGER"
	ActionNotifyAdmin    ActionType = "NOTIFY_ADMIN"
	ActionEscalate       ActionType = "ESCALATE"
	ActionCreateActivity ActionType = "CREATE_ACTIVITY"
	ActionUpdateStatus   ActionType = "UPDATE_STATUS"
	ActionCreateFollowUp ActionType = "CREATE_FOLLOW_UP"
)

// Valid reports whether the action type is a known member.
func (a ActionType) Valid() bool {
	switch a {
	case ActionNotifyEmployee, ActionNotifyManager, ActionNotifyAdmin,
		ActionEscalate, ActionCreateActivity, ActionUpdateStatus, ActionCreateFollowUp:
		return true
	default:
		return false
	}
}

// Condition is a single field/operator/value predicate.
type Condition struct {
	Field    string   `json:"field"`           // Dotted path or daysSince*/daysUntil* temporal field.
	Operator Operator `json:"operator"`        // Comparison operator.
	Value    any      `json:"value,omitempty"` // Comparison literal; required except for null operators.
}

// Action is a single side effect fired when a rule matches.
type Action struct {
	Type     ActionType     `json:"type"`               // Action category.
	Target   string         `json:"target,omitempty"`   // Target user ID (NOTIFY_EMPLOYEE only).
	Message  string         `json:"message,omitempty"`  // Notification message override.
	Metadata map[string]any `json:"metadata,omitempty"` // Action-specific parameters.
}

// Rule is the decoded, in-memory view of a persisted automation rule.
type Rule struct {
	ID         uint64
	Name       string
	Entity     EntityType
	Priority   int
	Conditions []Condition
	Actions    []Action
	CreatedAt  time.Time
}

// Record is one business record presented to the engine: an opaque ID plus a
// generic key/value view of its fields.
type Record struct {
	ID     uint64
	Fields map[string]any
}

// Validation errors.
var (
	ErrNoConditions = errors.New("automation: rule requires at least one condition")
	ErrNoActions    = errors.New("automation: rule requires at least one action")
)

// ValidateConditions checks that every condition has a resolvable shape.
func ValidateConditions(conditions []Condition) error {
	if len(conditions) == 0 {
		return ErrNoConditions
	}
	for i, c := range conditions {
		if c.Field == "" {
			return fmt.Errorf("automation: condition %d: field is required", i)
		}
		if !c.Operator.Valid() {
			return fmt.Errorf("automation: condition %d: unknown operator %q", i, c.Operator)
		}
		if c.Operator.RequiresValue() && c.Value == nil {
			return fmt.Errorf("automation: condition %d: operator %s requires a value", i, c.Operator)
		}
	}
	return nil
}

// ValidateActions checks that every action has a known type.
func ValidateActions(actions []Action) error {
	if len(actions) == 0 {
		return ErrNoActions
	}
	for i, a := range actions {
		if !a.Type.Valid() {
			return fmt.Errorf("automation: action %d: unknown action type %q", i, a.Type)
		}
	}
	return nil
}
