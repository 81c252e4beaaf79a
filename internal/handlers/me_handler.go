package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/catalog"
)

type MeHandler struct {
	providers *catalog.Providers
}

func NewMeHandler(providers *catalog.Providers) *MeHandler {
	return &MeHandler{providers: providers}
}

// GetMe echoes the session actor and, for staff, the provider record
// linked to their user id.
func (h *MeHandler) GetMe(c *gin.Context) {
	actor := actorOf(c)

	list, err := h.providers.List(c.Request.Context(), false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var provider *models.Provider
	for i := range list {
		if actor.ID != "" && list[i].UserID == actor.ID {
			provider = &list[i]
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"actor":    actor,
		"provider": provider,
	})
}
