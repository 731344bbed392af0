package handlers

import (
	"net/http"
	"strconv"
	"time"

	"agendamento/models"
	"agendamento/services/holidays"

	"github.com/gin-gonic/gin"
)

// MonthCalendar serves GET /calendar/:state/:year/:month with a 1-based month.
func (h *BookingHandler) MonthCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ano inválido"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mês inválido, use 1 a 12"})
		return
	}
	c.JSON(http.StatusOK, holidays.MonthCalendar(year, time.Month(month), c.Param("state")))
}

// Hours lists the slots of a date. With ?city_id= only open slots are returned.
func (h *BookingHandler) Hours(c *gin.Context) {
	date := c.Param("date")
	day, err := models.ParseDate(date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if raw := c.Query("city_id"); raw != "" {
		cityID, err := strconv.Atoi(raw)
		if err != nil || cityID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro inválido: city_id"})
			return
		}
		resolved, err := h.Service.Availability(c.Request.Context(), cityID, date)
		if err != nil {
			respondError(c, err)
			return
		}
		open := make([]string, 0, len(resolved.Slots))
		for _, s := range resolved.Slots {
			if s.Selectable {
				open = append(open, s.Time)
			}
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "available": len(open) > 0, "hours": open, "slots": resolved.Slots})
		return
	}

	state := c.Query("state")
	available := holidays.IsAvailableDay(day, state)
	resp := gin.H{"date": date, "available": available, "hours": []string{}}
	if name, ok := holidays.HolidayName(day, state); ok {
		resp["holiday"] = name
	}
	if available {
		resp["hours"] = models.Hours
	}
	c.JSON(http.StatusOK, resp)
}
