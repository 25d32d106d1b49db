package store

import (
	"context"
	"testing"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/db"
	"github.com/nextinvision/recruitment-os-sub001/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := db.Open(":memory:")
	if errOpen != nil {
		t.Fatalf("open sqlite memory db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedRule(t *testing.T, conn *gorm.DB, name string, entity automation.EntityType, priority int, enabled bool) models.AutomationRule {
	t.Helper()
	conditions, actions, errEncode := EncodeRuleBlobs(
		[]automation.Condition{{Field: "status", Operator: automation.OpEquals, Value: "NEW"}},
		[]automation.Action{{Type: automation.ActionNotifyEmployee}},
	)
	if errEncode != nil {
		t.Fatalf("encode rule blobs: %v", errEncode)
	}
	row := models.AutomationRule{
		Name:       name,
		Entity:     string(entity),
		Enabled:    enabled,
		Priority:   priority,
		Conditions: conditions,
		Actions:    actions,
	}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed rule %s: %v", name, errCreate)
	}
	return row
}

func TestRuleStoreListEnabledFiltersAndOrders(t *testing.T) {
	conn := openTestDB(t)
	s := NewRuleStore(conn)

	seedRule(t, conn, "low", automation.EntityLead, 1, true)
	seedRule(t, conn, "high", automation.EntityLead, 9, true)
	seedRule(t, conn, "disabled", automation.EntityLead, 99, false)
	seedRule(t, conn, "other entity", automation.EntityClient, 50, true)

	rules, errList := s.ListEnabled(context.Background(), automation.EntityLead)
	if errList != nil {
		t.Fatalf("list enabled: %v", errList)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 lead rules, got %d", len(rules))
	}
	if rules[0].Name != "high" || rules[1].Name != "low" {
		t.Fatalf("expected priority order high,low, got %s,%s", rules[0].Name, rules[1].Name)
	}
}

func TestRuleStoreListEnabledSkipsCorruptRules(t *testing.T) {
	conn := openTestDB(t)
	s := NewRuleStore(conn)

	seedRule(t, conn, "good", automation.EntityLead, 1, true)
	corrupt := models.AutomationRule{
		Name:       "corrupt",
		Entity:     string(automation.EntityLead),
		Enabled:    true,
		Priority:   9,
		Conditions: datatypes.JSON([]byte(`{"not":"a list"}`)),
		Actions:    datatypes.JSON([]byte(`[]`)),
	}
	if errCreate := conn.Create(&corrupt).Error; errCreate != nil {
		t.Fatalf("seed corrupt rule: %v", errCreate)
	}

	rules, errList := s.ListEnabled(context.Background(), automation.EntityLead)
	if errList != nil {
		t.Fatalf("list enabled: %v", errList)
	}
	if len(rules) != 1 || rules[0].Name != "good" {
		t.Fatalf("expected only the good rule, got %+v", rules)
	}
}

func TestRuleStoreMarkRun(t *testing.T) {
	conn := openTestDB(t)
	s := NewRuleStore(conn)
	seeded := seedRule(t, conn, "counted", automation.EntityLead, 1, true)

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	if errMark := s.MarkRun(context.Background(), seeded.ID, at); errMark != nil {
		t.Fatalf("mark run: %v", errMark)
	}
	if errMark := s.MarkRun(context.Background(), seeded.ID, at.Add(time.Hour)); errMark != nil {
		t.Fatalf("mark run again: %v", errMark)
	}

	var row models.AutomationRule
	if errFind := conn.First(&row, seeded.ID).Error; errFind != nil {
		t.Fatalf("reload rule: %v", errFind)
	}
	if row.RunCount != 2 {
		t.Fatalf("expected run count 2, got %d", row.RunCount)
	}
	if row.LastRunAt == nil || !row.LastRunAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("expected last run at %s, got %v", at.Add(time.Hour), row.LastRunAt)
	}
}

func TestDecodeRuleRejectsInvalidRows(t *testing.T) {
	cases := []struct {
		name string
		row  models.AutomationRule
	}{
		{"unknown entity", models.AutomationRule{
			Entity:     "WIDGET",
			Conditions: datatypes.JSON([]byte(`[]`)),
			Actions:    datatypes.JSON([]byte(`[]`)),
		}},
		{"empty conditions", models.AutomationRule{
			Entity:     string(automation.EntityLead),
			Conditions: datatypes.JSON([]byte(`[]`)),
			Actions:    datatypes.JSON([]byte(`[{"type":"NOTIFY_EMPLOYEE"}]`)),
		}},
		{"empty actions", models.AutomationRule{
			Entity:     string(automation.EntityLead),
			Conditions: datatypes.JSON([]byte(`[{"field":"status","operator":"EQUALS","value":"NEW"}]`)),
			Actions:    datatypes.JSON([]byte(`[]`)),
		}},
		{"malformed blob", models.AutomationRule{
			Entity:     string(automation.EntityLead),
			Conditions: datatypes.JSON([]byte(`{{`)),
			Actions:    datatypes.JSON([]byte(`[]`)),
		}},
	}
	for _, tc := range cases {
		if _, errDecode := DecodeRule(tc.row); errDecode == nil {
			t.Fatalf("%s: expected decode error", tc.name)
		}
	}
}

func TestEncodeRuleBlobsRoundTrip(t *testing.T) {
	conditions := []automation.Condition{
		{Field: "daysSinceLastActivity", Operator: automation.OpGreaterThan, Value: float64(7)},
	}
	actions := []automation.Action{
		{Type: automation.ActionEscalate, Message: "stale lead"},
	}

	condBlob, actionBlob, errEncode := EncodeRuleBlobs(conditions, actions)
	if errEncode != nil {
		t.Fatalf("encode: %v", errEncode)
	}

	decoded, errDecode := DecodeRule(models.AutomationRule{
		ID:         1,
		Entity:     string(automation.EntityLead),
		Conditions: condBlob,
		Actions:    actionBlob,
	})
	if errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if len(decoded.Conditions) != 1 || decoded.Conditions[0].Field != "daysSinceLastActivity" {
		t.Fatalf("unexpected conditions: %+v", decoded.Conditions)
	}
	if len(decoded.Actions) != 1 || decoded.Actions[0].Message != "stale lead" {
		t.Fatalf("unexpected actions: %+v", decoded.Actions)
	}
}
