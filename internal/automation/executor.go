package automation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Notification categories and channels used for automation side effects.
const (
	NotificationTypeAutomation = "AUTOMATION"
	NotificationChannelInApp   = "IN_APP"

	activityTypeAutomation = "AUTOMATION"
)

// Roles the executor escalates to.
const (
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// NotificationRequest is the payload handed to the notification collaborator.
type NotificationRequest struct {
	UserID  uint64
	Type    string
	Channel string
	Title   string
	Message string
}

// ActivityRequest is the payload handed to the activity-log collaborator.
type ActivityRequest struct {
	AssignedUserID uint64
	Type           string
	Title          string
	Description    string
	LeadID         *uint64
	ClientID       *uint64
}

// FollowUpRequest is the payload handed to the follow-up collaborator.
type FollowUpRequest struct {
	AssignedUserID uint64
	Title          string
	ScheduledDate  time.Time
	Notes          string
	LeadID         *uint64
	ClientID       *uint64
}

// UserRef is a minimal view of a CRM user returned by the directory.
type UserRef struct {
	ID    uint64
	Name  string
	Email string
}

// Notifier sends an in-app notification. Fire-and-forget: the engine never
// retries a failed send.
type Notifier interface {
	SendNotification(ctx context.Context, n NotificationRequest) error
}

// UserDirectory lists active users holding a role.
type UserDirectory interface {
	ListUsersByRole(ctx context.Context, role string) ([]UserRef, error)
}

// ActivityLogger records an activity note against a lead or client.
type ActivityLogger interface {
	CreateActivity(ctx context.Context, a ActivityRequest) error
}

// FollowUpScheduler schedules a follow-up task.
type FollowUpScheduler interface {
	CreateFollowUp(ctx context.Context, f FollowUpRequest) error
}

// StatusUpdater performs the entity-specific single-field status mutation.
// Entity types without a wired status field ignore the call.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, entity EntityType, entityID uint64, status string) error
}

// Executor performs one categorized side effect per action through the
// collaborator interfaces. It holds no rule-selection logic.
type Executor struct {
	notifier   Notifier
	users      UserDirectory
	activities ActivityLogger
	followUps  FollowUpScheduler
	statuses   StatusUpdater
}

// NewExecutor wires an executor to its collaborators.
func NewExecutor(notifier Notifier, users UserDirectory, activities ActivityLogger, followUps FollowUpScheduler, statuses StatusUpdater) *Executor {
	return &Executor{
		notifier:   notifier,
		users:      users,
		activities: activities,
		followUps:  followUps,
		statuses:   statuses,
	}
}

// ExecuteAll fans out every action of a matched rule concurrently. Actions
// are independent, so no ordering is guaranteed within one rule and one
// failing action never suppresses the others. The returned error joins all
// per-action failures.
func (ex *Executor) ExecuteAll(ctx context.Context, actions []Action, entityID uint64, entity EntityType, fields map[string]any) error {
	if len(actions) == 0 {
		return nil
	}

	errs := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(idx int, a Action) {
			defer wg.Done()
			if errExec := ex.Execute(ctx, a, entityID, entity, fields); errExec != nil {
				errs[idx] = fmt.Errorf("automation: action %s: %w", a.Type, errExec)
			}
		}(i, action)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Execute performs a single action. Actions missing required metadata are
// silent no-ops per the engine's under-trigger-over-crash policy.
func (ex *Executor) Execute(ctx context.Context, action Action, entityID uint64, entity EntityType, fields map[string]any) error {
	switch action.Type {
	case ActionNotifyEmployee:
		return ex.notifyEmployee(ctx, action, entity, fields)
	case ActionNotifyManager:
		return ex.notifyRole(ctx, RoleManager, action, entity)
	case ActionNotifyAdmin:
		return ex.notifyRole(ctx, RoleAdmin, action, entity)
	case ActionEscalate:
		return ex.escalate(ctx, action, entity)
	case ActionCreateActivity:
		return ex.createActivity(ctx, action, entityID, entity)
	case ActionUpdateStatus:
		return ex.updateStatus(ctx, action, entityID, entity)
	case ActionCreateFollowUp:
		return ex.createFollowUp(ctx, action, entityID, entity)
	default:
		log.Warnf("automation: ignoring unknown action type %q", action.Type)
		return nil
	}
}

func (ex *Executor) notifyEmployee(ctx context.Context, action Action, entity EntityType, fields map[string]any) error {
	userID := parseUserID(action.Target)
	if userID == 0 {
		userID = assignedUserID(fields)
	}
	if userID == 0 {
		log.Debugf("automation: notify_employee has no resolvable target (%s)", entity)
		return nil
	}
	return ex.notifier.SendNotification(ctx, NotificationRequest{
		UserID:  userID,
		Type:    NotificationTypeAutomation,
		Channel: NotificationChannelInApp,
		Title:   "Automation alert",
		Message: messageOrDefault(action.Message, entity),
	})
}

func (ex *Executor) notifyRole(ctx context.Context, role string, action Action, entity EntityType) error {
	users, errList := ex.users.ListUsersByRole(ctx, role)
	if errList != nil {
		return errList
	}

	var errs []error
	for _, user := range users {
		errSend := ex.notifier.SendNotification(ctx, NotificationRequest{
			UserID:  user.ID,
			Type:    NotificationTypeAutomation,
			Channel: NotificationChannelInApp,
			Title:   "Automation alert",
			Message: messageOrDefault(action.Message, entity),
		})
		if errSend != nil {
			errs = append(errs, errSend)
		}
	}
	return errors.Join(errs...)
}

// escalate notifies managers and admins concurrently.
func (ex *Executor) escalate(ctx context.Context, action Action, entity EntityType) error {
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, role := range []string{RoleManager, RoleAdmin} {
		wg.Add(1)
		go func(idx int, r string) {
			defer wg.Done()
			errs[idx] = ex.notifyRole(ctx, r, action, entity)
		}(i, role)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (ex *Executor) createActivity(ctx context.Context, action Action, entityID uint64, entity EntityType) error {
	userID := metadataUserID(action.Metadata, "assignedUserId")
	if userID == 0 {
		log.Debugf("automation: create_activity missing assignedUserId (%s %d)", entity, entityID)
		return nil
	}

	leadID, clientID := entityReference(entity, entityID)
	return ex.activities.CreateActivity(ctx, ActivityRequest{
		AssignedUserID: userID,
		Type:           activityTypeAutomation,
		Title:          "Automation activity",
		Description:    messageOrDefault(action.Message, entity),
		LeadID:         leadID,
		ClientID:       clientID,
	})
}

func (ex *Executor) updateStatus(ctx context.Context, action Action, entityID uint64, entity EntityType) error {
	status := strings.TrimSpace(stringify(metadataValue(action.Metadata, "status")))
	if status == "" {
		log.Debugf("automation: update_status missing status (%s %d)", entity, entityID)
		return nil
	}
	return ex.statuses.UpdateStatus(ctx, entity, entityID, status)
}

func (ex *Executor) createFollowUp(ctx context.Context, action Action, entityID uint64, entity EntityType) error {
	userID := metadataUserID(action.Metadata, "assignedUserId")
	dueDate, okDue := toTime(metadataValue(action.Metadata, "dueDate"))
	if userID == 0 || !okDue {
		log.Debugf("automation: create_follow_up missing assignedUserId or dueDate (%s %d)", entity, entityID)
		return nil
	}

	notes := strings.TrimSpace(stringify(metadataValue(action.Metadata, "notes")))
	if notes == "" {
		notes = "Scheduled by automation rule"
	}

	leadID, clientID := entityReference(entity, entityID)
	return ex.followUps.CreateFollowUp(ctx, FollowUpRequest{
		AssignedUserID: userID,
		Title:          "Automation follow-up",
		ScheduledDate:  dueDate,
		Notes:          notes,
		LeadID:         leadID,
		ClientID:       clientID,
	})
}

// entityReference links an automation side effect back to its record as a
// lead or client reference; other entity types stay unlinked.
func entityReference(entity EntityType, entityID uint64) (leadID, clientID *uint64) {
	switch entity {
	case EntityLead:
		return &entityID, nil
	case EntityClient:
		return nil, &entityID
	default:
		return nil, nil
	}
}

func messageOrDefault(message string, entity EntityType) string {
	if trimmed := strings.TrimSpace(message); trimmed != "" {
		return trimmed
	}
	name := strings.ToLower(strings.ReplaceAll(string(entity), "_", " "))
	return fmt.Sprintf("Action required for %s", name)
}

// assignedUserID resolves the record's owning user from assignedUserId or
// the nested assignedUser.id.
func assignedUserID(fields map[string]any) uint64 {
	if value, ok := ResolveField(fields, "assignedUserId"); ok {
		if id := coerceUserID(value); id != 0 {
			return id
		}
	}
	if value, ok := ResolveField(fields, "assignedUser.id"); ok {
		return coerceUserID(value)
	}
	return 0
}

func metadataValue(metadata map[string]any, key string) any {
	if metadata == nil {
		return nil
	}
	return metadata[key]
}

func metadataUserID(metadata map[string]any, key string) uint64 {
	return coerceUserID(metadataValue(metadata, key))
}

func parseUserID(target string) uint64 {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return 0
	}
	parsed, errParse := strconv.ParseUint(trimmed, 10, 64)
	if errParse != nil {
		return 0
	}
	return parsed
}

func coerceUserID(value any) uint64 {
	switch typed := value.(type) {
	case uint64:
		return typed
	case int:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case int64:
		if typed < 0 {
			return 0
		}
		return uint64(typed)
	case float64:
		if typed < 0 || typed != float64(uint64(typed)) {
			return 0
		}
		return uint64(typed)
	case string:
		return parseUserID(typed)
	default:
		return 0
	}
}
