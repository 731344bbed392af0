package handlers

import (
	"net/http"

	"agendamento/models"
	"agendamento/utils"

	"github.com/gin-gonic/gin"
)

// CreateUnavailability registers a PIN-guarded block.
func (h *BookingHandler) CreateUnavailability(c *gin.Context) {
	var input models.UnavailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "JSON inválido", err.Error())
		return
	}
	u, err := h.Service.CreateUnavailability(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             u.ID,
		"message":        "Indisponibilidade registrada com sucesso",
		"unavailability": u,
	})
}

func (h *BookingHandler) ListUnavailabilities(c *gin.Context) {
	cityID, ok := intParam(c, "cityId")
	if !ok {
		return
	}
	list, err := h.Service.ListUnavailabilities(c.Request.Context(), cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
