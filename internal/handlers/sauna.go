package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"sauna_automation/internal/heater"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"
	statusToggled = "light_toggled"

	errStartHeater  = "failed to start heater: "
	errStopHeater   = "failed to stop heater: "
	errToggleLight  = "failed to toggle light: "
	errHeaterStatus = "heater status unavailable"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// StartRequest is an exported model for Swagger docs of the start payload.
// The same field is accepted as a form value.
type StartRequest struct {
	// Target temperature in Celsius, 40..110. Omitted or unparsable uses the configured default.
	Temperature int `json:"temperature" example:"92"`
}

type startRequest struct {
	Temperature json.RawMessage `json:"temperature"`
}

// requestedTemperature returns the temperature from the form or JSON body, or
// 0 when none was given or it does not parse.
func requestedTemperature(c *gin.Context) int {
	raw := c.PostForm("temperature")
	if raw == "" && c.ContentType() == gin.MIMEJSON {
		var req startRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = strings.Trim(string(req.Temperature), `"`)
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
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

// @Summary      Heater status
// @Description  Live heater status merged with the automation marker. When the heater cannot be reached the body keeps the same shape with null live fields.
// @Tags         sauna
// @Produce      json
// @Success      200  {object}  models.StatusReport
// @Failure      503  {object}  models.StatusReport
// @Router       /status [get]
func (h *Handler) getStatus(c *gin.Context) {
	report, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Warnw("status_unavailable", "err", err)
		}
		if report.Error == "" {
			report.Error = errHeaterStatus
		}
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Start heater
// @Description  Manual start. The automation marker is not touched.
// @Tags         sauna
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body  body      StartRequest  false  "Target temperature"
// @Success      200   {object}  map[string]interface{}  "status, target, heater"
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /start [post]
func (h *Handler) startHeater(c *gin.Context) {
	target := requestedTemperature(c)
	if target == 0 {
		target = h.services.Control.DefaultTarget()
	}
	st, err := h.services.Control.Start(c.Request.Context(), target)
	if err != nil {
		if errors.Is(err, heater.ErrInvalidTemperature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusServiceUnavailable, errStartHeater+err.Error(), "heater_manual_start_failed", err, "target", target)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusStarted,
		"target": target,
		"heater": st,
	})
}

// @Summary      Stop heater
// @Tags         sauna
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, heater"
// @Failure      503  {object}  map[string]string
// @Router       /stop [post]
func (h *Handler) stopHeater(c *gin.Context) {
	st, err := h.services.Control.Stop(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errStopHeater+err.Error(), "heater_manual_stop_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusStopped,
		"heater": st,
	})
}

// @Summary      Toggle light
// @Tags         sauna
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, heater"
// @Failure      503  {object}  map[string]string
// @Router       /light [post]
func (h *Handler) toggleLight(c *gin.Context) {
	st, err := h.services.Control.ToggleLight(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errToggleLight+err.Error(), "heater_light_toggle_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusToggled,
		"heater": st,
	})
}
