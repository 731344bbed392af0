package handlers

import (
	"errors"
	"io"
	"net/http"

	"agendamento/models"
	"agendamento/services/booking"
	"agendamento/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves cities and bookings.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) ListCities(c *gin.Context) {
	cities, err := h.Service.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Service.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ListBookingsByCity(c *gin.Context) {
	cityID, ok := intParam(c, "cityId")
	if !ok {
		return
	}
	bookings, err := h.Service.ListBookingsByCity(c.Request.Context(), cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "JSON inválido", err.Error())
		return
	}
	b, err := h.Service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Debug("Booking stored", zap.Int("id", b.ID))
	c.JSON(http.StatusCreated, gin.H{
		"id":       b.ID,
		"status":   b.Status,
		"protocol": b.Protocol,
		"message":  "Agendamento realizado com sucesso",
		"booking":  b,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var patch models.BookingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "JSON inválido", err.Error())
		return
	}
	b, err := h.Service.UpdateBooking(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "JSON inválido", err.Error())
		return
	}
	b, err := h.Service.CancelBooking(c.Request.Context(), id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Agendamento cancelado com sucesso",
		"id":      b.ID,
		"status":  b.Status,
	})
}

// Availability returns the resolved slots of one city on one date.
func (h *BookingHandler) Availability(c *gin.Context) {
	cityID, ok := intParam(c, "cityId")
	if !ok {
		return
	}
	day, err := h.Service.Availability(c.Request.Context(), cityID, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
