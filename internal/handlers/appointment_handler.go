package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	get        *ucAppointment.GetAppointment
	listByDate *ucAppointment.ListProviderAppointments
	reschedule *ucAppointment.Reschedule
	status     *ucAppointment.ChangeStatus
	settle     *ucAppointment.RecordSettlement
	addItem    *ucAppointment.AddLineItem
	removeItem *ucAppointment.RemoveLineItem
	loc        *time.Location
}

type AppointmentUseCases struct {
	Get        *ucAppointment.GetAppointment
	ListByDate *ucAppointment.ListProviderAppointments
	Reschedule *ucAppointment.Reschedule
	Status     *ucAppointment.ChangeStatus
	Settle     *ucAppointment.RecordSettlement
	AddItem    *ucAppointment.AddLineItem
	RemoveItem *ucAppointment.RemoveLineItem
}

func NewAppointmentHandler(uc AppointmentUseCases, loc *time.Location) *AppointmentHandler {
	return &AppointmentHandler{
		get:        uc.Get,
		listByDate: uc.ListByDate,
		reschedule: uc.Reschedule,
		status:     uc.Status,
		settle:     uc.Settle,
		addItem:    uc.AddItem,
		removeItem: uc.RemoveItem,
		loc:        loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type SettlementRequest struct {
	Method   string  `json:"method" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Complete bool    `json:"complete"`
}

type AddLineItemRequest struct {
	ServiceID *string  `json:"service_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	details, err := h.get.Execute(c.Request.Context(), id, actorOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentDTO(details.Appointment, details.Provider, h.loc))
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if _, err := timezone.ParseDate(dateStr, h.loc); err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	apps, _, err := h.listByDate.Execute(c.Request.Context(), providerID, dateStr, actorOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"appointments": dto.ToAppointmentList(apps, h.loc),
	})
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		Actor:         actorOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentDTO(ap, nil, h.loc))
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: id,
		Status:        req.Status,
		Reason:        req.Reason,
		Actor:         actorOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentDTO(ap, nil, h.loc))
}

// ======================================================
// PAYMENT / LINE ITEMS
// ======================================================

func (h *AppointmentHandler) Settle(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req SettlementRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.settle.Execute(c.Request.Context(), ucAppointment.SettlementInput{
		AppointmentID: id,
		Method:        req.Method,
		Amount:        req.Amount,
		Complete:      req.Complete,
		Actor:         actorOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentDTO(ap, nil, h.loc))
}

func (h *AppointmentHandler) AddItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req AddLineItemRequest
	if !bindJSON(c, &req) {
		return
	}

	serviceID, err := optionalUUID(req.ServiceID)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	ap, err := h.addItem.Execute(c.Request.Context(), ucAppointment.AddLineItemInput{
		AppointmentID: id,
		ServiceID:     serviceID,
		Name:          req.Name,
		Price:         req.Price,
		Actor:         actorOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAppointmentDTO(ap, nil, h.loc))
}

func (h *AppointmentHandler) RemoveItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	ap, err := h.removeItem.Execute(c.Request.Context(), ucAppointment.RemoveLineItemInput{
		AppointmentID: id,
		ItemID:        itemID,
		Actor:         actorOf(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAppointmentDTO(ap, nil, h.loc))
}
