package handlers

import (
	"context"
	"errors"
	"net/http"

	"labclimate/internal/simulation"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusStarted   = "started"
	statusStopped   = "stopped"
	statusToggled   = "toggled"
	statusUpdated   = "updated"
	statusCleared   = "cleared"
	statusExported  = "exported"
	statusExportErr = "export_failed"

	errGetState        = "failed to load state"
	errCommand         = "command failed"
	errInvalidBodyPref = "invalid body: "
)

// NumberSetting is the body of the numeric settings endpoints.
type NumberSetting struct {
	Value *float64 `json:"value" binding:"required" example:"25"`
}

// SwitchSetting is the body of the on/off settings endpoints.
type SwitchSetting struct {
	Value *bool `json:"value" binding:"required" example:"true"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// commandStatus maps engine errors onto HTTP codes.
func commandStatus(err error) int {
	switch {
	case errors.Is(err, simulation.ErrTargetOutOfRange),
		errors.Is(err, simulation.ErrThresholdOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, simulation.ErrSystemStopped),
		errors.Is(err, simulation.ErrAlreadyRunning),
		errors.Is(err, simulation.ErrAlreadyStopped):
		return http.StatusConflict
	case errors.Is(err, simulation.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// runCommand executes cmd and answers with status plus the fresh state.
func (h *Handler) runCommand(c *gin.Context, name, status string, cmd func(ctx context.Context) error) {
	if err := cmd(c.Request.Context()); err != nil {
		code := commandStatus(err)
		if code >= http.StatusInternalServerError {
			h.logAndJSONError(c, code, errCommand, "command_failed", err, "command", name)
			return
		}
		if h.log != nil {
			h.log.Infow("command_rejected", "command", name, "err", err)
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, status, gin.H{"command": name})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start the system
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/system/start [post]
// @Security     BearerAuth
func (h *Handler) startSystem(c *gin.Context) {
	h.runCommand(c, "start", statusStarted, h.services.Dashboard.Start)
}

// @Summary      Stop the system
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/system/stop [post]
// @Security     BearerAuth
func (h *Handler) stopSystem(c *gin.Context) {
	h.runCommand(c, "stop", statusStopped, h.services.Dashboard.Stop)
}

// @Summary      Toggle cooling
// @Tags         hvac
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string  "system stopped"
// @Router       /api/v1/hvac/cooling [post]
// @Security     BearerAuth
func (h *Handler) toggleCooling(c *gin.Context) {
	h.runCommand(c, "cooling", statusToggled, h.services.Dashboard.ToggleCooling)
}

// @Summary      Toggle heating
// @Tags         hvac
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string  "system stopped"
// @Router       /api/v1/hvac/heating [post]
// @Security     BearerAuth
func (h *Handler) toggleHeating(c *gin.Context) {
	h.runCommand(c, "heating", statusToggled, h.services.Dashboard.ToggleHeating)
}

// @Summary      Toggle fans
// @Tags         hvac
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string  "system stopped"
// @Router       /api/v1/hvac/fans [post]
// @Security     BearerAuth
func (h *Handler) toggleFans(c *gin.Context) {
	h.runCommand(c, "fans", statusToggled, h.services.Dashboard.ToggleFans)
}

// @Summary      Set target temperature
// @Description  Whole degrees between 18 and 30
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      NumberSetting  true  "Target °C"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/target [put]
// @Security     BearerAuth
func (h *Handler) setTarget(c *gin.Context) {
	var req NumberSetting
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	h.runCommand(c, "target", statusUpdated, func(ctx context.Context) error {
		return h.services.Dashboard.SetTarget(ctx, *req.Value)
	})
}

// @Summary      Set temperature threshold
// @Description  Between 1 and 5 °C
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      NumberSetting  true  "Threshold °C"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/threshold [put]
// @Security     BearerAuth
func (h *Handler) setThreshold(c *gin.Context) {
	var req NumberSetting
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	h.runCommand(c, "threshold", statusUpdated, func(ctx context.Context) error {
		return h.services.Dashboard.SetThreshold(ctx, *req.Value)
	})
}

// @Summary      Enable or disable automation
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      SwitchSetting  true  "On/off"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/automation [put]
// @Security     BearerAuth
func (h *Handler) setAutomation(c *gin.Context) {
	var req SwitchSetting
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	h.runCommand(c, "automation", statusUpdated, func(ctx context.Context) error {
		return h.services.Dashboard.SetAutomation(ctx, *req.Value)
	})
}

// @Summary      Enable or disable notifications
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      SwitchSetting  true  "On/off"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings/notifications [put]
// @Security     BearerAuth
func (h *Handler) setNotifications(c *gin.Context) {
	var req SwitchSetting
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	h.runCommand(c, "notifications", statusUpdated, func(ctx context.Context) error {
		return h.services.Dashboard.SetNotifications(ctx, *req.Value)
	})
}

// @Summary      Get dashboard state
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
