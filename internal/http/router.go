package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SweepRunner triggers a full-population rule sweep for one entity type.
type SweepRunner interface {
	EvaluateAllForEntityType(ctx context.Context, entity automation.EntityType) (int, error)
}

// NewRouter builds the admin API router.
func NewRouter(db *gorm.DB, runner SweepRunner) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), logging.RequestID(), logging.AccessLog())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rules := NewAutomationRuleHandler(db)
	sweeps := NewSweepHandler(runner)

	api := engine.Group("/api/automation")
	{
		api.GET("/rules", rules.List)
		api.POST("/rules", rules.Create)
		api.GET("/rules/:id", rules.Get)
		api.PUT("/rules/:id", rules.Update)
		api.DELETE("/rules/:id", rules.Delete)
		api.POST("/rules/:id/enable", rules.SetEnabled(true))
		api.POST("/rules/:id/disable", rules.SetEnabled(false))
		api.POST("/sweep/:entity", sweeps.Run)
	}

	return engine
}

// SweepHandler triggers manual sweeps.
type SweepHandler struct {
	runner SweepRunner
}

// NewSweepHandler constructs a sweep handler.
func NewSweepHandler(runner SweepRunner) *SweepHandler {
	return &SweepHandler{runner: runner}
}

// Run executes a sweep for the entity type in the path and reports how many
// rules matched across all open records.
func (h *SweepHandler) Run(c *gin.Context) {
	entity := automation.EntityType(strings.ToUpper(strings.TrimSpace(c.Param("entity"))))
	if !entity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
		return
	}

	matched, errSweep := h.runner.EvaluateAllForEntityType(c.Request.Context(), entity)
	if errSweep != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entity": string(entity), "matched": matched})
}
