package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier persists in-app notifications. Delivery to external channels
// (email, SMS) happens outside this subsystem.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier constructs a notification collaborator backed by GORM.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// SendNotification inserts one in-app notification row.
func (n *Notifier) SendNotification(ctx context.Context, req automation.NotificationRequest) error {
	if n == nil || n.db == nil {
		return errors.New("store: notifier not initialized")
	}
	row := models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Channel: req.Channel,
		Title:   req.Title,
		Message: req.Message,
	}
	if errCreate := n.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		return fmt.Errorf("store: send notification: %w", errCreate)
	}
	return nil
}

// UserDirectory resolves active users by role.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory constructs a user directory backed by GORM.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// ListUsersByRole returns all active users holding a role.
func (d *UserDirectory) ListUsersByRole(ctx context.Context, role string) ([]automation.UserRef, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("store: user directory not initialized")
	}

	var rows []models.User
	if errFind := d.db.WithContext(ctx).
		Where("role = ? AND active = ?", role, true).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list users by role: %w", errFind)
	}

	refs := make([]automation.UserRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, automation.UserRef{ID: row.ID, Name: row.Name, Email: row.Email})
	}
	return refs, nil
}

// ActivityLog persists activity notes.
type ActivityLog struct {
	db *gorm.DB
}

// NewActivityLog constructs an activity collaborator backed by GORM.
func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// CreateActivity inserts one activity row.
func (l *ActivityLog) CreateActivity(ctx context.Context, req automation.ActivityRequest) error {
	if l == nil || l.db == nil {
		return errors.New("store: activity log not initialized")
	}
	row := models.Activity{
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		AssignedUserID: req.AssignedUserID,
		LeadID:         req.LeadID,
		ClientID:       req.ClientID,
	}
	if errCreate := l.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		return fmt.Errorf("store: create activity: %w", errCreate)
	}
	return nil
}

// FollowUpScheduler persists follow-up tasks.
type FollowUpScheduler struct {
	db *gorm.DB
}

// NewFollowUpScheduler constructs a follow-up collaborator backed by GORM.
func NewFollowUpScheduler(db *gorm.DB) *FollowUpScheduler {
	return &FollowUpScheduler{db: db}
}

// CreateFollowUp inserts one follow-up row.
func (s *FollowUpScheduler) CreateFollowUp(ctx context.Context, req automation.FollowUpRequest) error {
	if s == nil || s.db == nil {
		return errors.New("store: follow-up scheduler not initialized")
	}
	row := models.FollowUp{
		Title:          req.Title,
		ScheduledDate:  req.ScheduledDate,
		Notes:          req.Notes,
		AssignedUserID: req.AssignedUserID,
		LeadID:         req.LeadID,
		ClientID:       req.ClientID,
	}
	if errCreate := s.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		return fmt.Errorf("store: create follow-up: %w", errCreate)
	}
	return nil
}

// StatusUpdater performs the entity-specific single-field status mutation.
type StatusUpdater struct {
	db *gorm.DB
}

// NewStatusUpdater constructs a status updater backed by GORM.
func NewStatusUpdater(db *gorm.DB) *StatusUpdater {
	return &StatusUpdater{db: db}
}

// Accepted status values per entity type. Entity types absent from this map
// have no wired status mutation and are silently ignored.
var statusTargets = map[automation.EntityType]struct {
	model    any
	column   string
	accepted map[string]struct{}
}{
	automation.EntityLead: {
		model:  &models.Lead{},
		column: "status",
		accepted: map[string]struct{}{
			models.LeadStatusNew:       {},
			models.LeadStatusContacted: {},
			models.LeadStatusQualified: {},
			models.LeadStatusConverted: {},
			models.LeadStatusLost:      {},
		},
	},
	automation.EntityClient: {
		model:  &models.Client{},
		column: "status",
		accepted: map[string]struct{}{
			models.ClientStatusActive:   {},
			models.ClientStatusInactive: {},
		},
	},
	automation.EntityApplication: {
		model:  &models.Application{},
		column: "stage",
		accepted: map[string]struct{}{
			models.ApplicationStageSubmitted: {},
			models.ApplicationStageInReview:  {},
			models.ApplicationStageInterview: {},
			models.ApplicationStageOffer:     {},
			models.ApplicationStageClosed:    {},
		},
	},
}

// UpdateStatus mutates the status field wired for the entity type. Unwired
// entity types and unaccepted values are no-ops.
func (u *StatusUpdater) UpdateStatus(ctx context.Context, entity automation.EntityType, entityID uint64, status string) error {
	if u == nil || u.db == nil {
		return errors.New("store: status updater not initialized")
	}

	target, ok := statusTargets[entity]
	if !ok {
		log.Debugf("store: no status field wired for %s, ignoring update", entity)
		return nil
	}
	if _, accepted := target.accepted[status]; !accepted {
		log.Warnf("store: rejected status %q for %s %d", status, entity, entityID)
		return nil
	}

	if errUpdate := u.db.WithContext(ctx).
		Model(target.model).
		Where("id = ?", entityID).
		Update(target.column, status).Error; errUpdate != nil {
		return fmt.Errorf("store: update %s status: %w", entity, errUpdate)
	}
	return nil
}
