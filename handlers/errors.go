package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"agendamento/services/booking"
	"agendamento/services/sheets"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation *booking.ValidationError
		auth       *booking.AuthError
		notFound   *booking.NotFoundError
		conflict   *booking.ConflictError
		mirror     *sheets.MirrorError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &auth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "state": conflict.State})
	case errors.As(err, &mirror):
		getLogger(c).Error("Spreadsheet operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao acessar a planilha", "message": err.Error()})
	default:
		getLogger(c).Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
	}
}

// intParam parses a positive integer path parameter, answering 400 otherwise.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro inválido: " + name})
		return 0, false
	}
	return v, true
}
