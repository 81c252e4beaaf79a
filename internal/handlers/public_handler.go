package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	slots   *ucAppointment.ListCandidateSlots
	reserve *ucAppointment.ReserveSlot
	loc     *time.Location
}

func NewPublicHandler(
	slots *ucAppointment.ListCandidateSlots,
	reserve *ucAppointment.ReserveSlot,
	loc *time.Location,
) *PublicHandler {
	return &PublicHandler{slots: slots, reserve: reserve, loc: loc}
}

// ======================================================
// REQUESTS
// ======================================================

type ReserveRequest struct {
	ProviderID     uuid.UUID `json:"provider_id" binding:"required"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	Date           string    `json:"date" binding:"required"`
	Time           string    `json:"time" binding:"required"`
	IsConsultation bool      `json:"consultation"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes"`

	PaymentRef string `json:"payment_ref"`
}

// ======================================================
// SLOTS
// ======================================================

func (h *PublicHandler) ListSlots(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}

	dateStr := strings.TrimSpace(c.Query("date"))
	serviceStr := strings.TrimSpace(c.Query("service_id"))
	if dateStr == "" || serviceStr == "" {
		httperr.BadRequest(c, "missing_params", "date and service_id are required.")
		return
	}

	serviceID, err := uuid.Parse(serviceStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	date, err := timezone.ParseDate(dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProviderID:     providerID,
		ServiceID:      serviceID,
		Date:           date,
		IsConsultation: queryBool(c, "consultation"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": dto.ToSlots(slots, h.loc),
	})
}

// ======================================================
// RESERVE
// ======================================================

func (h *PublicHandler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if !bindJSON(c, &req) {
		return
	}

	actor, ok := middleware.ActorFrom(c)
	if !ok {
		actor = domain.AnonymousClient(strings.TrimSpace(req.ClientName))
	}

	ap, err := h.reserve.Execute(c.Request.Context(), ucAppointment.ReserveInput{
		ProviderID:     req.ProviderID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		IsConsultation: req.IsConsultation,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		Notes:          req.Notes,
		PaymentRef:     req.PaymentRef,
		Actor:          actor,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAppointmentDTO(ap, nil, h.loc))
}
