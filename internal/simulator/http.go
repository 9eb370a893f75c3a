package simulator

import (
	"errors"
	"net/http"
	"strconv"

	"sauna_automation/internal/heater"
	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"

	"github.com/gin-gonic/gin"
)

// BasePath is where the real service mounts its home actions.
const BasePath = "/action/home"

// statusBody mirrors the real service: numbers are sent as strings.
type statusBody struct {
	StatusCode        int    `json:"statusCode"`
	Door              bool   `json:"door"`
	Temperature       string `json:"temperature"`
	TargetTemperature string `json:"targetTemperature,omitempty"`
	Light             int    `json:"light"`
}

type startRequest struct {
	TargetTemperature int `json:"targetTemperature" binding:"required"`
}

func toBody(st models.HeaterStatus) statusBody {
	b := statusBody{
		StatusCode:  st.StatusCode,
		Door:        st.DoorClosed,
		Temperature: strconv.FormatFloat(st.Temperature, 'f', 0, 64),
	}
	if st.TargetTemperature > 0 {
		b.TargetTemperature = strconv.FormatFloat(st.TargetTemperature, 'f', 0, 64)
	}
	if st.Light {
		b.Light = 1
	}
	return b
}

// Router exposes the sauna over HTTP with basic authentication. Empty
// credentials disable authentication.
func Router(s *Sauna, username, password string, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	home := r.Group(BasePath)
	if username != "" || password != "" {
		home.Use(gin.BasicAuth(gin.Accounts{username: password}))
	}

	home.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, toBody(s.Status()))
	})
	home.POST("/start", func(c *gin.Context) {
		var req startRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
			return
		}
		st, err := s.Start(req.TargetTemperature)
		if errors.Is(err, heater.ErrInvalidTemperature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if log != nil {
			log.Infow("Simulated sauna started", "target", req.TargetTemperature)
		}
		c.JSON(http.StatusOK, toBody(st))
	})
	home.POST("/stop", func(c *gin.Context) {
		st := s.Stop()
		if log != nil {
			log.Infow("Simulated sauna stopped", "temperature", st.Temperature)
		}
		c.JSON(http.StatusOK, toBody(st))
	})
	home.GET("/light", func(c *gin.Context) {
		c.JSON(http.StatusOK, toBody(s.ToggleLight()))
	})
	return r
}
