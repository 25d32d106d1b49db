package automation

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedEvaluator() *Evaluator {
	return NewEvaluatorAt(func() time.Time { return testNow })
}

func TestEvaluateEquals(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "status", Operator: OpEquals, Value: "NEW"}

	if !e.Evaluate(cond, map[string]any{"status": "NEW"}) {
		t.Fatal("expected status=NEW to match")
	}
	if e.Evaluate(cond, map[string]any{"status": "CONTACTED"}) {
		t.Fatal("expected status=CONTACTED not to match")
	}
	if e.Evaluate(cond, map[string]any{}) {
		t.Fatal("expected absent status not to match EQUALS")
	}
}

func TestEvaluateEqualsNumericCoercion(t *testing.T) {
	e := fixedEvaluator()

	cond := Condition{Field: "amount", Operator: OpEquals, Value: float64(1500)}
	if !e.Evaluate(cond, map[string]any{"amount": float64(1500)}) {
		t.Fatal("expected float comparison to match")
	}
	if !e.Evaluate(cond, map[string]any{"amount": uint64(1500)}) {
		t.Fatal("expected uint64 field to compare numerically against JSON float literal")
	}
}

func TestEvaluateNotEqualsOnAbsentFieldMatches(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "source", Operator: OpNotEquals, Value: "REFERRAL"}

	if !e.Evaluate(cond, map[string]any{}) {
		t.Fatal("expected absent field to be not-equal to any literal")
	}
	if e.Evaluate(cond, map[string]any{"source": "REFERRAL"}) {
		t.Fatal("expected equal value not to match NOT_EQUALS")
	}
}

func TestEvaluateOrderingOperators(t *testing.T) {
	e := fixedEvaluator()
	fields := map[string]any{"amount": float64(10)}

	cases := []struct {
		op    Operator
		value any
		want  bool
	}{
		{OpGreaterThan, float64(5), true},
		{OpGreaterThan, float64(10), false},
		{OpGreaterThanOrEqual, float64(10), true},
		{OpLessThan, float64(20), true},
		{OpLessThanOrEqual, float64(9), false},
	}
	for _, tc := range cases {
		got := e.Evaluate(Condition{Field: "amount", Operator: tc.op, Value: tc.value}, fields)
		if got != tc.want {
			t.Fatalf("amount %s %v: expected %v, got %v", tc.op, tc.value, tc.want, got)
		}
	}
}

func TestEvaluateOrderingRejectsNonNumeric(t *testing.T) {
	e := fixedEvaluator()

	cond := Condition{Field: "status", Operator: OpGreaterThan, Value: float64(5)}
	if e.Evaluate(cond, map[string]any{"status": "NEW"}) {
		t.Fatal("expected non-numeric field to evaluate false for GREATER_THAN")
	}

	cond = Condition{Field: "amount", Operator: OpGreaterThan, Value: "many"}
	if e.Evaluate(cond, map[string]any{"amount": float64(10)}) {
		t.Fatal("expected non-numeric literal to evaluate false for GREATER_THAN")
	}
}

func TestEvaluateContainsIsCaseInsensitive(t *testing.T) {
	e := fixedEvaluator()
	fields := map[string]any{"email": "Agent@Example.COM"}

	if !e.Evaluate(Condition{Field: "email", Operator: OpContains, Value: "example"}, fields) {
		t.Fatal("expected case-insensitive containment to match")
	}
	if e.Evaluate(Condition{Field: "email", Operator: OpNotContains, Value: "example"}, fields) {
		t.Fatal("expected NOT_CONTAINS to be the negation")
	}
	// Absent fields read as empty string.
	if e.Evaluate(Condition{Field: "missing", Operator: OpContains, Value: "x"}, fields) {
		t.Fatal("expected containment over absent field to be false")
	}
	if !e.Evaluate(Condition{Field: "missing", Operator: OpNotContains, Value: "x"}, fields) {
		t.Fatal("expected NOT_CONTAINS over absent field to be true")
	}
}

func TestEvaluateNullOperatorsDependOnPresenceOnly(t *testing.T) {
	e := fixedEvaluator()

	for _, fields := range []map[string]any{
		{"value": "text"},
		{"value": float64(0)},
		{"value": false},
		{"value": time.Now()},
	} {
		if e.Evaluate(Condition{Field: "value", Operator: OpIsNull}, fields) {
			t.Fatalf("expected IS_NULL false for present value %v", fields["value"])
		}
		if !e.Evaluate(Condition{Field: "value", Operator: OpIsNotNull}, fields) {
			t.Fatalf("expected IS_NOT_NULL true for present value %v", fields["value"])
		}
	}

	empty := map[string]any{"value": nil}
	if !e.Evaluate(Condition{Field: "value", Operator: OpIsNull}, empty) {
		t.Fatal("expected IS_NULL true for explicit nil")
	}
	if !e.Evaluate(Condition{Field: "other", Operator: OpIsNull}, empty) {
		t.Fatal("expected IS_NULL true for absent field")
	}
}

func TestEvaluateDaysSince(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "daysSinceLastActivity", Operator: OpGreaterThan, Value: float64(7)}

	tenDaysAgo := map[string]any{"lastActivity": testNow.AddDate(0, 0, -10)}
	if !e.Evaluate(cond, tenDaysAgo) {
		t.Fatal("expected activity 10 days ago to be > 7 days since")
	}

	threeDaysAgo := map[string]any{"lastActivity": testNow.AddDate(0, 0, -3)}
	if e.Evaluate(cond, threeDaysAgo) {
		t.Fatal("expected activity 3 days ago not to be > 7 days since")
	}

	// No history at all: conservative non-match, never "older than anything".
	if e.Evaluate(cond, map[string]any{}) {
		t.Fatal("expected record with no activity history not to match")
	}
}

func TestEvaluateDaysSinceAbsentDateFalseForEveryOperator(t *testing.T) {
	e := fixedEvaluator()
	operators := []Operator{
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpGreaterThanOrEqual, OpLessThanOrEqual,
		OpContains, OpNotContains, OpIsNull, OpIsNotNull,
	}
	for _, op := range operators {
		cond := Condition{Field: "daysSinceCreatedAt", Operator: op, Value: float64(1)}
		if e.Evaluate(cond, map[string]any{}) {
			t.Fatalf("expected absent temporal base to be false for %s", op)
		}
	}
}

func TestEvaluateDaysSinceUnparseableDateIsFalse(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "daysSinceCreatedAt", Operator: OpGreaterThan, Value: float64(1)}

	if e.Evaluate(cond, map[string]any{"createdAt": "not a date"}) {
		t.Fatal("expected unparseable date to evaluate false, not panic")
	}
}

func TestEvaluateDaysSinceCreationAlias(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "daysSinceCreation", Operator: OpGreaterThanOrEqual, Value: float64(30)}

	fields := map[string]any{"createdAt": testNow.AddDate(0, 0, -45)}
	if !e.Evaluate(cond, fields) {
		t.Fatal("expected daysSinceCreation to fall back to createdAt")
	}
}

func TestEvaluateDaysSinceParsesStringDates(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "daysSinceSubmittedAt", Operator: OpEquals, Value: float64(5)}

	fields := map[string]any{"submittedAt": testNow.AddDate(0, 0, -5).Format(time.RFC3339)}
	if !e.Evaluate(cond, fields) {
		t.Fatal("expected RFC3339 string date to parse")
	}
}

func TestEvaluateDaysUntil(t *testing.T) {
	e := fixedEvaluator()
	cond := Condition{Field: "daysUntilDueDate", Operator: OpLessThanOrEqual, Value: float64(3)}

	soon := map[string]any{"dueDate": testNow.AddDate(0, 0, 2)}
	if !e.Evaluate(cond, soon) {
		t.Fatal("expected due date 2 days out to be <= 3 days until")
	}

	far := map[string]any{"dueDate": testNow.AddDate(0, 0, 30)}
	if e.Evaluate(cond, far) {
		t.Fatal("expected due date 30 days out not to match")
	}
}

func TestEvaluateTemporalRejectsContainmentOperators(t *testing.T) {
	e := fixedEvaluator()
	fields := map[string]any{"createdAt": testNow.AddDate(0, 0, -10)}

	for _, op := range []Operator{OpContains, OpNotContains, OpIsNull, OpIsNotNull, OpNotEquals} {
		cond := Condition{Field: "daysSinceCreatedAt", Operator: op, Value: float64(10)}
		if e.Evaluate(cond, fields) {
			t.Fatalf("expected %s on a temporal field to be false", op)
		}
	}
}

func TestEvaluateAllIsANDReduction(t *testing.T) {
	e := fixedEvaluator()
	fields := map[string]any{"status": "NEW", "amount": float64(10)}

	both := []Condition{
		{Field: "status", Operator: OpEquals, Value: "NEW"},
		{Field: "amount", Operator: OpGreaterThan, Value: float64(5)},
	}
	if !e.EvaluateAll(both, fields) {
		t.Fatal("expected all-true conditions to match")
	}

	oneFalse := []Condition{
		{Field: "status", Operator: OpEquals, Value: "NEW"},
		{Field: "amount", Operator: OpGreaterThan, Value: float64(50)},
	}
	if e.EvaluateAll(oneFalse, fields) {
		t.Fatal("expected one false condition to fail the set")
	}
}

func TestEvaluateUnknownOperatorIsFalse(t *testing.T) {
	e := fixedEvaluator()
	fields := map[string]any{"status": "NEW"}

	if e.Evaluate(Condition{Field: "status", Operator: Operator("BOGUS"), Value: "NEW"}, fields) {
		t.Fatal("expected unknown operator to evaluate false")
	}
	// The vestigial temporal operators carry no behavior of their own.
	if e.Evaluate(Condition{Field: "status", Operator: OpDaysSince, Value: float64(1)}, fields) {
		t.Fatal("expected DAYS_SINCE operator on a plain field to evaluate false")
	}
}
