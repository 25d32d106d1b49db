package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/models"
	"github.com/nextinvision/recruitment-os-sub001/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AutomationRuleHandler manages admin CRUD endpoints for automation rules.
type AutomationRuleHandler struct {
	db *gorm.DB // Database handle for automation rules.
}

// NewAutomationRuleHandler constructs an automation rule handler.
func NewAutomationRuleHandler(db *gorm.DB) *AutomationRuleHandler {
	return &AutomationRuleHandler{db: db}
}

// ruleRequest captures the payload for creating or updating a rule.
type ruleRequest struct {
	Name        string                 `json:"name"`        // Rule name.
	Description string                 `json:"description"` // Operator-facing description.
	Entity      string                 `json:"entity"`      // Target entity type.
	Enabled     *bool                  `json:"enabled"`     // Enabled flag; defaults to true on create.
	Priority    int                    `json:"priority"`    // Higher runs first.
	Conditions  []automation.Condition `json:"conditions"`  // Condition list.
	Actions     []automation.Action    `json:"actions"`     // Action list.
	CreatedBy   *uint64                `json:"created_by"`  // Operator user ID.
}

// ruleResponse is the JSON shape returned for a rule.
type ruleResponse struct {
	ID          uint64                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Entity      string                 `json:"entity"`
	Enabled     bool                   `json:"enabled"`
	Priority    int                    `json:"priority"`
	Conditions  []automation.Condition `json:"conditions"`
	Actions     []automation.Action    `json:"actions"`
	LastRunAt   *time.Time             `json:"last_run_at,omitempty"`
	RunCount    int64                  `json:"run_count"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Create validates input and inserts an automation rule.
func (h *AutomationRuleHandler) Create(c *gin.Context) {
	var body ruleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	entity := automation.EntityType(strings.TrimSpace(body.Entity))
	if !entity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
		return
	}

	condBlob, actionBlob, errEncode := store.EncodeRuleBlobs(body.Conditions, body.Actions)
	if errEncode != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEncode.Error()})
		return
	}

	enabled := true
	if body.Enabled != nil {
		enabled = *body.Enabled
	}

	rule := models.AutomationRule{
		Name:        name,
		Description: strings.TrimSpace(body.Description),
		Entity:      string(entity),
		Enabled:     enabled,
		Priority:    body.Priority,
		Conditions:  condBlob,
		Actions:     actionBlob,
		CreatedBy:   body.CreatedBy,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&rule).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create rule failed"})
		return
	}
	c.JSON(http.StatusCreated, formatRule(&rule))
}

// List returns rules filtered by query parameters.
func (h *AutomationRuleHandler) List(c *gin.Context) {
	var (
		entityQ  = strings.TrimSpace(c.Query("entity"))
		enabledQ = strings.TrimSpace(c.Query("enabled"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.AutomationRule{})
	if entityQ != "" {
		entity := automation.EntityType(entityQ)
		if !entity.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
			return
		}
		q = q.Where("entity = ?", string(entity))
	}
	if enabledQ == "true" || enabledQ == "1" {
		q = q.Where("enabled = ?", true)
	} else if enabledQ == "false" || enabledQ == "0" {
		q = q.Where("enabled = ?", false)
	}

	var rows []models.AutomationRule
	if errFind := q.Order("priority DESC, created_at DESC, id DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list rules failed"})
		return
	}

	out := make([]ruleResponse, 0, len(rows))
	for i := range rows {
		out = append(out, formatRule(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"rules": out})
}

// Get returns one rule by ID.
func (h *AutomationRuleHandler) Get(c *gin.Context) {
	rule, ok := h.loadRule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, formatRule(rule))
}

// Update validates input and replaces a rule's definition.
func (h *AutomationRuleHandler) Update(c *gin.Context) {
	rule, ok := h.loadRule(c)
	if !ok {
		return
	}

	var body ruleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	entity := automation.EntityType(strings.TrimSpace(body.Entity))
	if !entity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
		return
	}

	condBlob, actionBlob, errEncode := store.EncodeRuleBlobs(body.Conditions, body.Actions)
	if errEncode != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEncode.Error()})
		return
	}

	updates := map[string]any{
		"name":        name,
		"description": strings.TrimSpace(body.Description),
		"entity":      string(entity),
		"priority":    body.Priority,
		"conditions":  condBlob,
		"actions":     actionBlob,
	}
	if body.Enabled != nil {
		updates["enabled"] = *body.Enabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&models.AutomationRule{}).
		Where("id = ?", rule.ID).
		Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update rule failed"})
		return
	}

	refreshed, okReload := h.loadRule(c)
	if !okReload {
		return
	}
	c.JSON(http.StatusOK, formatRule(refreshed))
}

// SetEnabled toggles a rule's enabled flag.
func (h *AutomationRuleHandler) SetEnabled(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule, ok := h.loadRule(c)
		if !ok {
			return
		}
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.AutomationRule{}).
			Where("id = ?", rule.ID).
			Update("enabled", enabled).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update rule failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": rule.ID, "enabled": enabled})
	}
}

// Delete removes a rule.
func (h *AutomationRuleHandler) Delete(c *gin.Context) {
	rule, ok := h.loadRule(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).
		Delete(&models.AutomationRule{}, rule.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete rule failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AutomationRuleHandler) loadRule(c *gin.Context) (*models.AutomationRule, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return nil, false
	}

	var rule models.AutomationRule
	errFind := h.db.WithContext(c.Request.Context()).First(&rule, id).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return nil, false
	}
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load rule failed"})
		return nil, false
	}
	return &rule, true
}

func formatRule(rule *models.AutomationRule) ruleResponse {
	out := ruleResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Entity:      rule.Entity,
		Enabled:     rule.Enabled,
		Priority:    rule.Priority,
		LastRunAt:   rule.LastRunAt,
		RunCount:    rule.RunCount,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
	if decoded, errDecode := store.DecodeRule(*rule); errDecode == nil {
		out.Conditions = decoded.Conditions
		out.Actions = decoded.Actions
	}
	return out
}
