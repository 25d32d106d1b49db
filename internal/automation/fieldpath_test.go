package automation

import "testing"

func TestResolveFieldWalksNestedMaps(t *testing.T) {
	fields := map[string]any{
		"status": "NEW",
		"assignedUser": map[string]any{
			"id":    uint64(7),
			"email": "agent@example.com",
		},
	}

	value, ok := ResolveField(fields, "assignedUser.email")
	if !ok {
		t.Fatal("expected assignedUser.email to resolve")
	}
	if value != "agent@example.com" {
		t.Fatalf("expected agent@example.com, got %v", value)
	}
}

func TestResolveFieldMissingSegmentIsAbsent(t *testing.T) {
	fields := map[string]any{"status": "NEW"}

	if _, ok := ResolveField(fields, "assignedUser.email"); ok {
		t.Fatal("expected missing intermediate to resolve as absent")
	}
	if _, ok := ResolveField(fields, "missing"); ok {
		t.Fatal("expected missing leaf to resolve as absent")
	}
}

func TestResolveFieldNonMapIntermediateIsAbsent(t *testing.T) {
	fields := map[string]any{"status": "NEW"}

	if _, ok := ResolveField(fields, "status.nested"); ok {
		t.Fatal("expected scalar intermediate to resolve as absent, not panic")
	}
}

func TestResolveFieldEmptyPathIsAbsent(t *testing.T) {
	if _, ok := ResolveField(map[string]any{"": "x"}, ""); ok {
		t.Fatal("expected empty path to resolve as absent")
	}
}
