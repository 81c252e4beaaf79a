package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

type HistoryHandler struct {
	history *ucAppointment.GetHistory
	purge   *ucAppointment.PurgeAppointment
}

func NewHistoryHandler(history *ucAppointment.GetHistory, purge *ucAppointment.PurgeAppointment) *HistoryHandler {
	return &HistoryHandler{history: history, purge: purge}
}

// List returns the modification history newest first. limit=0 returns
// everything; a missing or invalid limit uses the default.
func (h *HistoryHandler) List(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	limit := audit.DefaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			limit = n
		}
	}

	records, err := h.history.Execute(c.Request.Context(), id, limit, actorOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, records)
}

// Purge archives and deletes an appointment. Routed behind the admin key.
func (h *HistoryHandler) Purge(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	location, err := h.purge.Execute(c.Request.Context(), id, actorOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purged":  id,
		"archive": location,
	})
}
