package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RuleStore loads persisted automation rules for the engine and records run
// statistics. It owns the (de)serialization of condition and action blobs;
// everything downstream works on decoded structures only.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore constructs a rule store backed by GORM.
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ListEnabled returns decoded enabled rules for an entity type, ordered by
// priority descending then recency descending. A rule whose persisted blobs
// fail to decode is skipped with a loud log instead of failing the load.
func (s *RuleStore) ListEnabled(ctx context.Context, entity automation.EntityType) ([]automation.Rule, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: rule store not initialized")
	}

	var rows []models.AutomationRule
	if errFind := s.db.WithContext(ctx).
		Where("entity = ? AND enabled = ?", string(entity), true).
		Order("priority DESC, created_at DESC, id DESC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list enabled rules: %w", errFind)
	}

	rules := make([]automation.Rule, 0, len(rows))
	for _, row := range rows {
		rule, errDecode := DecodeRule(row)
		if errDecode != nil {
			log.WithError(errDecode).Errorf("store: skipping corrupt automation rule %d (%s)", row.ID, row.Name)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// MarkRun records a matching evaluation for a rule.
func (s *RuleStore) MarkRun(ctx context.Context, ruleID uint64, at time.Time) error {
	if s == nil || s.db == nil {
		return errors.New("store: rule store not initialized")
	}
	return s.db.WithContext(ctx).
		Model(&models.AutomationRule{}).
		Where("id = ?", ruleID).
		Updates(map[string]any{
			"run_count":   gorm.Expr("run_count + 1"),
			"last_run_at": at.UTC(),
		}).Error
}

// DecodeRule converts a persisted rule row into the engine's decoded view,
// validating the blobs along the way.
func DecodeRule(row models.AutomationRule) (automation.Rule, error) {
	entity := automation.EntityType(row.Entity)
	if !entity.Valid() {
		return automation.Rule{}, fmt.Errorf("store: rule %d: unknown entity type %q", row.ID, row.Entity)
	}

	var conditions []automation.Condition
	if errUnmarshal := json.Unmarshal(row.Conditions, &conditions); errUnmarshal != nil {
		return automation.Rule{}, fmt.Errorf("store: rule %d: decode conditions: %w", row.ID, errUnmarshal)
	}
	if errValidate := automation.ValidateConditions(conditions); errValidate != nil {
		return automation.Rule{}, fmt.Errorf("store: rule %d: %w", row.ID, errValidate)
	}

	var actions []automation.Action
	if errUnmarshal := json.Unmarshal(row.Actions, &actions); errUnmarshal != nil {
		return automation.Rule{}, fmt.Errorf("store: rule %d: decode actions: %w", row.ID, errUnmarshal)
	}
	if errValidate := automation.ValidateActions(actions); errValidate != nil {
		return automation.Rule{}, fmt.Errorf("store: rule %d: %w", row.ID, errValidate)
	}

	return automation.Rule{
		ID:         row.ID,
		Name:       row.Name,
		Entity:     entity,
		Priority:   row.Priority,
		Conditions: conditions,
		Actions:    actions,
		CreatedAt:  row.CreatedAt,
	}, nil
}

// EncodeRuleBlobs validates and serializes condition and action lists for
// persistence.
func EncodeRuleBlobs(conditions []automation.Condition, actions []automation.Action) (datatypes.JSON, datatypes.JSON, error) {
	if errValidate := automation.ValidateConditions(conditions); errValidate != nil {
		return nil, nil, errValidate
	}
	if errValidate := automation.ValidateActions(actions); errValidate != nil {
		return nil, nil, errValidate
	}

	condBlob, errConditions := json.Marshal(conditions)
	if errConditions != nil {
		return nil, nil, fmt.Errorf("store: encode conditions: %w", errConditions)
	}
	actionBlob, errActions := json.Marshal(actions)
	if errActions != nil {
		return nil, nil, fmt.Errorf("store: encode actions: %w", errActions)
	}
	return datatypes.JSON(condBlob), datatypes.JSON(actionBlob), nil
}
