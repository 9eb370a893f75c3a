package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"sauna_automation/internal/calendar"

	"github.com/gin-gonic/gin"
)

const errCalendar = "calendar unavailable"

// @Summary      Run automation
// @Description  Runs one automation check now. A run overlapping one in progress is skipped and reported as such.
// @Tags         automation
// @Produce      json
// @Success      200  {object}  models.Decision
// @Router       /api/v1/run [post]
func (h *Handler) runAutomation(c *gin.Context) {
	d := h.services.Automation.Check(c.Request.Context())
	c.JSON(http.StatusOK, d)
}

// @Summary      Upcoming reservations
// @Description  Reservations starting within the next 7 days, sorted by start.
// @Tags         automation
// @Produce      json
// @Success      200  {array}   models.Reservation
// @Failure      502  {object}  map[string]string
// @Router       /reservations [get]
func (h *Handler) listReservations(c *gin.Context) {
	res, err := h.services.Reservations.Upcoming(c.Request.Context())
	if err != nil {
		msg := errCalendar
		var fe *calendar.FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			msg = fmt.Sprintf("calendar HTTP %d", fe.StatusCode)
		}
		h.logAndJSONError(c, http.StatusBadGateway, msg, "reservations_fetch_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
