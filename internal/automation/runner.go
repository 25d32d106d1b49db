package automation

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// RuleSource loads enabled rules and persists run statistics. The engine
// itself never owns rule storage.
type RuleSource interface {
	// ListEnabled returns decoded enabled rules for an entity type, ordered
	// by priority descending then recency descending.
	ListEnabled(ctx context.Context, entity EntityType) ([]Rule, error)

	// MarkRun records a matching evaluation: run count +1, last run stamped.
	MarkRun(ctx context.Context, ruleID uint64, at time.Time) error
}

// RecordSource lists open records of an entity type for sweeps.
type RecordSource interface {
	OpenRecords(ctx context.Context, entity EntityType) ([]Record, error)
}

// Guard suppresses repeat firing of a rule against the same record within a
// cooldown window. A nil guard preserves the historical behavior: a record
// that still satisfies a rule's conditions fires its actions on every sweep.
type Guard interface {
	Allow(ctx context.Context, ruleID uint64, entity EntityType, recordID uint64) bool
}

// Runner orchestrates rule evaluation: it loads applicable rules in priority
// order, evaluates their conditions, and fans out actions for matches. Rule
// failures are isolated per rule so one broken rule never blocks the rest.
type Runner struct {
	rules     RuleSource
	records   RecordSource
	evaluator *Evaluator
	executor  *Executor
	guard     Guard
	now       func() time.Time
}

// NewRunner constructs a runner. The guard may be nil.
func NewRunner(rules RuleSource, records RecordSource, evaluator *Evaluator, executor *Executor, guard Guard) *Runner {
	return &Runner{
		rules:     rules,
		records:   records,
		evaluator: evaluator,
		executor:  executor,
		guard:     guard,
		now:       time.Now,
	}
}

// EvaluateForRecord runs every enabled rule for the entity type against one
// record and returns how many rules matched.
func (r *Runner) EvaluateForRecord(ctx context.Context, entityID uint64, entity EntityType, fields map[string]any) (int, error) {
	rules, errList := r.rules.ListEnabled(ctx, entity)
	if errList != nil {
		return 0, errList
	}
	return r.runRules(ctx, rules, Record{ID: entityID, Fields: fields}, entity), nil
}

// EvaluateAllForEntityType sweeps all open records of an entity type through
// the per-record path sequentially and returns the total match count. Rules
// are loaded once per sweep; each record's rule pass stays sequential so
// priority order holds per record.
func (r *Runner) EvaluateAllForEntityType(ctx context.Context, entity EntityType) (int, error) {
	rules, errList := r.rules.ListEnabled(ctx, entity)
	if errList != nil {
		return 0, errList
	}
	if len(rules) == 0 {
		return 0, nil
	}

	records, errRecords := r.records.OpenRecords(ctx, entity)
	if errRecords != nil {
		return 0, errRecords
	}

	total := 0
	for _, record := range records {
		total += r.runRules(ctx, rules, record, entity)
	}
	return total, nil
}

// runRules evaluates rules in order against one record. Action or bookkeeping
// failures are logged with the rule ID and never stop later rules.
func (r *Runner) runRules(ctx context.Context, rules []Rule, record Record, entity EntityType) int {
	orderRules(rules)

	matched := 0
	for _, rule := range rules {
		if !r.evaluator.EvaluateAll(rule.Conditions, record.Fields) {
			continue
		}
		if r.guard != nil && !r.guard.Allow(ctx, rule.ID, entity, record.ID) {
			log.Debugf("automation: rule %d cooling down (%s %d)", rule.ID, entity, record.ID)
			continue
		}

		matched++

		if errExec := r.executor.ExecuteAll(ctx, rule.Actions, record.ID, entity, record.Fields); errExec != nil {
			log.WithError(errExec).Warnf("automation: rule %d action execution failed (%s %d)", rule.ID, entity, record.ID)
		}
		if errMark := r.rules.MarkRun(ctx, rule.ID, r.now()); errMark != nil {
			log.WithError(errMark).Warnf("automation: rule %d run bookkeeping failed", rule.ID)
		}
	}
	return matched
}

// orderRules enforces priority descending, then creation recency descending,
// then ID descending. Rule sources already return this order; sorting again
// keeps the per-record ordering guarantee independent of the source.
func orderRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		if !rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].CreatedAt.After(rules[j].CreatedAt)
		}
		return rules[i].ID > rules[j].ID
	})
}
