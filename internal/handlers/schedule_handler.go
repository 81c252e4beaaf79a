package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
)

type ScheduleHandler struct {
	blocks *schedule.Blocks
	rules  *schedule.Rules
}

func NewScheduleHandler(blocks *schedule.Blocks, rules *schedule.Rules) *ScheduleHandler {
	return &ScheduleHandler{blocks: blocks, rules: rules}
}

// --------- Requests ---------

type BlockRequest struct {
	ServiceID *string `json:"service_id"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   *string `json:"end_time"`
	Reason    string  `json:"reason"`
}

type BlockUpdateRequest struct {
	BlockRequest
	ProviderID uuid.UUID `json:"provider_id" binding:"required"`
}

type RuleRequest struct {
	ID          *string `json:"id"`
	ServiceID   *string `json:"service_id"`
	DayOfWeek   *int    `json:"day_of_week" binding:"required"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
	IsAvailable *bool   `json:"is_available"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func (r BlockRequest) toInput(c *gin.Context, providerID uuid.UUID) (schedule.BlockInput, bool) {
	serviceID, err := optionalUUID(r.ServiceID)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return schedule.BlockInput{}, false
	}
	return schedule.BlockInput{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Reason:     r.Reason,
		Actor:      actorOf(c),
	}, true
}

// --------- Blocks ---------

func (h *ScheduleHandler) CreateBlock(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}

	var req BlockRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.toInput(c, providerID)
	if !ok {
		return
	}

	block, err := h.blocks.Create(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *ScheduleHandler) UpdateBlock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req BlockUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	in, ok := req.toInput(c, req.ProviderID)
	if !ok {
		return
	}

	block, err := h.blocks.Update(c.Request.Context(), id, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *ScheduleHandler) DeleteBlock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.blocks.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------- Rules ---------

func (h *ScheduleHandler) ListRules(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}

	rules, err := h.rules.List(c.Request.Context(), providerID, actorOf(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rules)
}

func (h *ScheduleHandler) UpsertRule(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}

	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}

	serviceID, err := optionalUUID(req.ServiceID)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}
	ruleID, err := optionalUUID(req.ID)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
		return
	}

	in := schedule.RuleInput{
		ProviderID:  providerID,
		ServiceID:   serviceID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Actor:       actorOf(c),
	}
	if ruleID != nil {
		in.ID = *ruleID
	}

	rule, err := h.rules.Upsert(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rule)
}

func (h *ScheduleHandler) DeleteRule(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.rules.Delete(c.Request.Context(), id, actorOf(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
