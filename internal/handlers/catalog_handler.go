package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/catalog"
)

type CatalogHandler struct {
	providers *catalog.Providers
	services  *catalog.Services
}

func NewCatalogHandler(providers *catalog.Providers, services *catalog.Services) *CatalogHandler {
	return &CatalogHandler{providers: providers, services: services}
}

// --------- Requests ---------

type ProviderRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	UserID         *string `json:"user_id,omitempty"`
	Classification *string `json:"classification,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

type ServiceRequest struct {
	Name                    *string  `json:"name,omitempty"`
	Description             *string  `json:"description,omitempty"`
	Category                *string  `json:"category,omitempty"`
	DurationMin             *int     `json:"duration_min,omitempty"`
	Price                   *float64 `json:"price,omitempty"`
	Active                  *bool    `json:"active,omitempty"`
	OffersConsultation      *bool    `json:"offers_consultation,omitempty"`
	ConsultationDurationMin *int     `json:"consultation_duration_min,omitempty"`
}

func (r ProviderRequest) input(c *gin.Context) catalog.ProviderInput {
	return catalog.ProviderInput{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		UserID:         r.UserID,
		Classification: r.Classification,
		Active:         r.Active,
		Actor:          actorOf(c),
	}
}

func (r ServiceRequest) input(c *gin.Context) catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:                    r.Name,
		Description:             r.Description,
		Category:                r.Category,
		DurationMin:             r.DurationMin,
		Price:                   r.Price,
		Active:                  r.Active,
		OffersConsultation:      r.OffersConsultation,
		ConsultationDurationMin: r.ConsultationDurationMin,
		Actor:                   actorOf(c),
	}
}

// --------- Providers ---------

func (h *CatalogHandler) ListProviders(c *gin.Context) {
	list, err := h.providers.List(c.Request.Context(), queryBool(c, "active"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CatalogHandler) CreateProvider(c *gin.Context) {
	var req ProviderRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.providers.Create(c.Request.Context(), req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProvider(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req ProviderRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.providers.Update(c.Request.Context(), id, req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, p)
}

// --------- Services ---------

func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.services.List(c.Request.Context(), queryBool(c, "active"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Create(c.Request.Context(), req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Update(c.Request.Context(), id, req.input(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}
