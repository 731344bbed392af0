package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"agendamento/services/booking"
	"agendamento/services/sheets"
	"agendamento/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the key-guarded maintenance operations.
type AdminHandler struct {
	Service booking.BookingService
	Mirror  *sheets.Mirror
	Probes  map[string]utils.Probe
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc booking.BookingService, mirror *sheets.Mirror, probes map[string]utils.Probe) *AdminHandler {
	return &AdminHandler{Service: svc, Mirror: mirror, Probes: probes}
}

// HealthDetailed runs every probe now instead of reading the cached snapshot.
func (ah *AdminHandler) HealthDetailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	c.JSON(http.StatusOK, utils.RunHealthChecks(ctx, ah.Probes))
}

// SyncSheets forces a restore from the spreadsheet.
func (ah *AdminHandler) SyncSheets(c *gin.Context) {
	if !ah.Mirror.Enabled() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google Sheets não configurado"})
		return
	}
	report, err := ah.Mirror.RestoreAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, sheets.ErrDisabled) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Google Sheets não configurado"})
			return
		}
		getLogger(c).Error("Forced spreadsheet sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha na sincronização", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sincronização concluída",
		"report":    report,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Backup reports record counts and whether the mirror is active.
func (ah *AdminHandler) Backup(c *gin.Context) {
	counts, err := ah.Service.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	status := "disabled"
	if ah.Mirror.Enabled() {
		status = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":              "Backup verificado",
		"counts":               counts,
		"google_sheets_status": status,
		"timestamp":            time.Now().UTC().Format(time.RFC3339),
	})
}

// Health is the public liveness probe backed by the monitor snapshot.
func Health(c *gin.Context) {
	snap := utils.GetHealthStatus()
	status := snap.Status
	if status == "" {
		status = "ok"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"message":   "Sistema de agendamento em funcionamento",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
