package automation

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	temporalSincePrefix = "daysSince"
	temporalUntilPrefix = "daysUntil"
)

// Evaluator decides whether conditions hold for a record. It performs no I/O;
// the clock is injectable so temporal predicates are deterministic in tests.
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator constructs an evaluator using the wall clock.
func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// NewEvaluatorAt constructs an evaluator with a fixed clock.
func NewEvaluatorAt(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// EvaluateAll reports whether every condition holds for the record fields.
func (e *Evaluator) EvaluateAll(conditions []Condition, fields map[string]any) bool {
	for _, c := range conditions {
		if !e.Evaluate(c, fields) {
			return false
		}
	}
	return true
}

// Evaluate reports whether a single condition holds for the record fields.
// Malformed conditions (unknown paths, non-numeric operands, unparseable
// dates) evaluate to false rather than erroring, so a bad rule under-triggers
// instead of crashing a sweep.
func (e *Evaluator) Evaluate(c Condition, fields map[string]any) bool {
	if base, until, ok := temporalBaseField(c.Field); ok {
		return e.evaluateTemporal(c, base, until, fields)
	}

	value, present := ResolveField(fields, c.Field)
	if value == nil {
		present = false
	}

	switch c.Operator {
	case OpIsNull:
		return !present
	case OpIsNotNull:
		return present
	case OpEquals:
		return present && looseEqual(value, c.Value)
	case OpNotEquals:
		return !present || !looseEqual(value, c.Value)
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		left, okLeft := toFloat(value)
		right, okRight := toFloat(c.Value)
		if !present || !okLeft || !okRight {
			return false
		}
		return compareFloats(c.Operator, left, right)
	case OpContains:
		return containsFold(stringify(value), stringify(c.Value))
	case OpNotContains:
		return !containsFold(stringify(value), stringify(c.Value))
	default:
		return false
	}
}

// evaluateTemporal compares the whole-day distance between now and a date
// field against the condition value. A missing or unparseable date never
// matches, whatever the operator.
func (e *Evaluator) evaluateTemporal(c Condition, base string, until bool, fields map[string]any) bool {
	raw, present := ResolveField(fields, base)
	if !present && base == "creation" {
		// Host conditions say daysSinceCreation; records expose createdAt.
		raw, present = ResolveField(fields, "createdAt")
	}
	if !present {
		return false
	}
	at, ok := toTime(raw)
	if !ok {
		return false
	}

	days := math.Floor(e.now().Sub(at).Hours() / 24)
	if until {
		days = -days
	}

	want, okWant := toFloat(c.Value)
	if !okWant {
		return false
	}

	switch c.Operator {
	case OpEquals, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return compareFloats(c.Operator, days, want)
	default:
		// Containment and null operators are meaningless on day counts.
		return false
	}
}

// temporalBaseField recognizes daysSince*/daysUntil* fields and returns the
// underlying date field name with its first letter lowered.
func temporalBaseField(field string) (base string, until bool, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(field, temporalSincePrefix):
		rest = field[len(temporalSincePrefix):]
	case strings.HasPrefix(field, temporalUntilPrefix):
		rest = field[len(temporalUntilPrefix):]
		until = true
	default:
		return "", false, false
	}
	if rest == "" || !unicode.IsUpper(rune(rest[0])) {
		return "", false, false
	}
	return strings.ToLower(rest[:1]) + rest[1:], until, true
}

func compareFloats(op Operator, left, right float64) bool {
	switch op {
	case OpEquals:
		return left == right
	case OpGreaterThan:
		return left > right
	case OpLessThan:
		return left < right
	case OpGreaterThanOrEqual:
		return left >= right
	case OpLessThanOrEqual:
		return left <= right
	default:
		return false
	}
}

// looseEqual compares a resolved field value against a condition literal.
// Values of the same kind compare directly; numeric values compare as
// numbers regardless of their Go representation; everything else is unequal.
func looseEqual(value, literal any) bool {
	if literal == nil {
		return value == nil
	}
	if left, okLeft := toFloat(value); okLeft {
		if right, okRight := toFloat(literal); okRight {
			return left == right
		}
		return false
	}
	switch typed := value.(type) {
	case bool:
		lit, ok := literal.(bool)
		return ok && typed == lit
	case string:
		lit, ok := literal.(string)
		return ok && typed == lit
	case time.Time:
		return stringify(value) == stringify(literal)
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// toFloat coerces numeric representations to float64.
func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return typed, true
	case float32:
		return toFloat(float64(typed))
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		parsed, errParse := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if errParse != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// stringify renders a field value for containment checks; absent values are
// treated as the empty string.
func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case time.Time:
		return typed.UTC().Format(time.RFC3339)
	case *time.Time:
		if typed == nil {
			return ""
		}
		return typed.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// toTime coerces date representations used in record projections.
func toTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, !typed.IsZero()
	case *time.Time:
		if typed == nil || typed.IsZero() {
			return time.Time{}, false
		}
		return *typed, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, errParse := time.Parse(layout, trimmed); errParse == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
