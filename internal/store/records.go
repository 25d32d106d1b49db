package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/models"

	"gorm.io/gorm"
)

// RecordSource lists open business records per entity type and projects each
// row into the generic field map the evaluator reads. Openness filters keep
// sweeps off terminal-state records: lost leads, inactive clients, completed
// follow-ups, closed applications, settled revenues and payments.
type RecordSource struct {
	db *gorm.DB
}

// NewRecordSource constructs a record source backed by GORM.
func NewRecordSource(db *gorm.DB) *RecordSource {
	return &RecordSource{db: db}
}

// OpenRecords returns the open records of one entity type as generic records.
func (s *RecordSource) OpenRecords(ctx context.Context, entity automation.EntityType) ([]automation.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: record source not initialized")
	}

	switch entity {
	case automation.EntityLead:
		return s.openLeads(ctx)
	case automation.EntityClient:
		return s.openClients(ctx)
	case automation.EntityFollowUp:
		return s.openFollowUps(ctx)
	case automation.EntityApplication:
		return s.openApplications(ctx)
	case automation.EntityRevenue:
		return s.openRevenues(ctx)
	case automation.EntityPayment:
		return s.openPayments(ctx)
	default:
		return nil, fmt.Errorf("store: unknown entity type %q", entity)
	}
}

func (s *RecordSource) openLeads(ctx context.Context) ([]automation.Record, error) {
	var rows []models.Lead
	if errFind := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("status <> ?", models.LeadStatusLost).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list open leads: %w", errFind)
	}

	lastActivity, errActivity := s.latestActivityByLead(ctx)
	if errActivity != nil {
		return nil, errActivity
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":        row.ID,
			"name":      row.Name,
			"email":     row.Email,
			"phone":     row.Phone,
			"source":    row.Source,
			"status":    row.Status,
			"createdAt": row.CreatedAt,
		}
		attachUser(fields, row.AssignedUserID, row.AssignedUser)
		attachTime(fields, "lastContactedAt", row.LastContactedAt)
		if at, ok := lastActivity[row.ID]; ok {
			fields["lastActivity"] = at
		}
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *RecordSource) openClients(ctx context.Context) ([]automation.Record, error) {
	var rows []models.Client
	if errFind := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("status = ?", models.ClientStatusActive).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list active clients: %w", errFind)
	}

	lastActivity, errActivity := s.latestActivityByClient(ctx)
	if errActivity != nil {
		return nil, errActivity
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":        row.ID,
			"name":      row.Name,
			"company":   row.Company,
			"email":     row.Email,
			"phone":     row.Phone,
			"status":    row.Status,
			"createdAt": row.CreatedAt,
		}
		attachUser(fields, row.AssignedUserID, row.AssignedUser)
		if at, ok := lastActivity[row.ID]; ok {
			fields["lastActivity"] = at
		}
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *RecordSource) openFollowUps(ctx context.Context) ([]automation.Record, error) {
	var rows []models.FollowUp
	if errFind := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("completed = ?", false).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list pending follow-ups: %w", errFind)
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":            row.ID,
			"title":         row.Title,
			"scheduledDate": row.ScheduledDate,
			"completed":     row.Completed,
			"notes":         row.Notes,
			"createdAt":     row.CreatedAt,
		}
		userID := row.AssignedUserID
		attachUser(fields, &userID, row.AssignedUser)
		attachID(fields, "leadId", row.LeadID)
		attachID(fields, "clientId", row.ClientID)
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *RecordSource) openApplications(ctx context.Context) ([]automation.Record, error) {
	var rows []models.Application
	if errFind := s.db.WithContext(ctx).
		Preload("AssignedUser").
		Where("stage <> ?", models.ApplicationStageClosed).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list open applications: %w", errFind)
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":            row.ID,
			"candidateName": row.CandidateName,
			"position":      row.Position,
			"stage":         row.Stage,
			"createdAt":     row.CreatedAt,
		}
		attachUser(fields, row.AssignedUserID, row.AssignedUser)
		attachID(fields, "clientId", row.ClientID)
		attachTime(fields, "submittedAt", row.SubmittedAt)
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *RecordSource) openRevenues(ctx context.Context) ([]automation.Record, error) {
	var rows []models.Revenue
	if errFind := s.db.WithContext(ctx).
		Where("status <> ?", models.RevenueStatusPaid).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list unpaid revenues: %w", errFind)
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":        row.ID,
			"amount":    row.Amount,
			"status":    row.Status,
			"createdAt": row.CreatedAt,
		}
		attachID(fields, "clientId", row.ClientID)
		attachTime(fields, "dueDate", row.DueDate)
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

func (s *RecordSource) openPayments(ctx context.Context) ([]automation.Record, error) {
	var rows []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("status <> ?", models.PaymentStatusPaid).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list unsettled payments: %w", errFind)
	}

	records := make([]automation.Record, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{
			"id":        row.ID,
			"amount":    row.Amount,
			"status":    row.Status,
			"createdAt": row.CreatedAt,
		}
		attachID(fields, "clientId", row.ClientID)
		attachTime(fields, "dueDate", row.DueDate)
		attachTime(fields, "paidAt", row.PaidAt)
		records = append(records, automation.Record{ID: row.ID, Fields: fields})
	}
	return records, nil
}

// latestActivityByLead maps lead IDs to their most recent activity timestamp.
// Leads with no history are absent from the map, so temporal conditions over
// lastActivity never spuriously match them.
func (s *RecordSource) latestActivityByLead(ctx context.Context) (map[uint64]time.Time, error) {
	return s.latestActivity(ctx, "lead_id")
}

func (s *RecordSource) latestActivityByClient(ctx context.Context) (map[uint64]time.Time, error) {
	return s.latestActivity(ctx, "client_id")
}

func (s *RecordSource) latestActivity(ctx context.Context, column string) (map[uint64]time.Time, error) {
	var rows []struct {
		RefID  uint64    `gorm:"column:ref_id"`
		LastAt time.Time `gorm:"column:last_at"`
	}
	if errFind := s.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select(column+" AS ref_id, MAX(created_at) AS last_at").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: load latest activities: %w", errFind)
	}

	out := make(map[uint64]time.Time, len(rows))
	for _, row := range rows {
		out[row.RefID] = row.LastAt
	}
	return out, nil
}

func attachUser(fields map[string]any, userID *uint64, user *models.User) {
	if userID == nil || *userID == 0 {
		return
	}
	fields["assignedUserId"] = *userID
	if user != nil {
		fields["assignedUser"] = map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		}
	}
}

func attachID(fields map[string]any, key string, id *uint64) {
	if id == nil || *id == 0 {
		return
	}
	fields[key] = *id
}

func attachTime(fields map[string]any, key string, at *time.Time) {
	if at == nil || at.IsZero() {
		return
	}
	fields[key] = *at
}
