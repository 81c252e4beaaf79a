package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AddLineItemInput struct {
	AppointmentID uuid.UUID
	// ServiceID, when set, defaults Name and Price from the catalog.
	ServiceID *uuid.UUID
	Name      string
	Price     *float64
	Actor     domain.Actor
}

type AddLineItem struct {
	deps Dependencies
}

func NewAddLineItem(deps Dependencies) *AddLineItem {
	return &AddLineItem{deps: deps.withDefaults()}
}

func (uc *AddLineItem) Execute(ctx context.Context, in AddLineItemInput) (*models.Appointment, error) {
	name := strings.TrimSpace(in.Name)
	var price float64
	if in.Price != nil {
		price = *in.Price
	}

	if in.ServiceID != nil {
		svc, err := uc.deps.Repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = svc.Name
		}
		if in.Price == nil {
			price = svc.Price
		}
	}

	if name == "" {
		return nil, httperr.ErrValidation("line_item_name_required")
	}
	if price < 0 {
		return nil, httperr.ErrValidation("line_item_price_negative")
	}

	before, err := uc.deps.loadForMutation(ctx, in.AppointmentID, in.Actor)
	if err != nil {
		return nil, err
	}

	now := uc.deps.now()

	var out *models.Appointment
	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(before)}, func(ctx context.Context, tx domain.ScheduleTx) error {
		ap, err := reload(ctx, tx, before)
		if err != nil {
			return err
		}
		if domain.Status(ap.Status).IsTerminal() {
			return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", ap.Status)
		}

		item := models.AdditionalServiceItem{
			ID:            uuid.New(),
			AppointmentID: ap.ID,
			ServiceID:     in.ServiceID,
			Name:          name,
			Price:         domain.Round2(price),
			AddedAt:       now,
		}
		if err := tx.AddLineItem(ctx, &item); err != nil {
			return err
		}
		ap.AdditionalServices = append(ap.AdditionalServices, item)

		if _, err := uc.deps.Recorder.Record(ctx, tx, ap, in.Actor, now, audit.Entry{
			Action:      audit.ActionUpdated,
			Field:       "additional_services",
			New:         lineItemValue(item),
			Description: fmt.Sprintf("added %s (%.2f)", item.Name, item.Price),
		}); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type RemoveLineItemInput struct {
	AppointmentID uuid.UUID
	ItemID        uuid.UUID
	Actor         domain.Actor
}

type RemoveLineItem struct {
	deps Dependencies
}

func NewRemoveLineItem(deps Dependencies) *RemoveLineItem {
	return &RemoveLineItem{deps: deps.withDefaults()}
}

func (uc *RemoveLineItem) Execute(ctx context.Context, in RemoveLineItemInput) (*models.Appointment, error) {
	before, err := uc.deps.loadForMutation(ctx, in.AppointmentID, in.Actor)
	if err != nil {
		return nil, err
	}

	now := uc.deps.now()

	var out *models.Appointment
	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(before)}, func(ctx context.Context, tx domain.ScheduleTx) error {
		ap, err := reload(ctx, tx, before)
		if err != nil {
			return err
		}
		if domain.Status(ap.Status).IsTerminal() {
			return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", ap.Status)
		}

		idx := -1
		for i, it := range ap.AdditionalServices {
			if it.ID == in.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return httperr.ErrNotFound("line_item")
		}
		removed := ap.AdditionalServices[idx]

		if err := tx.RemoveLineItem(ctx, ap.ID, removed.ID); err != nil {
			return err
		}
		ap.AdditionalServices = append(ap.AdditionalServices[:idx:idx], ap.AdditionalServices[idx+1:]...)

		if _, err := uc.deps.Recorder.Record(ctx, tx, ap, in.Actor, now, audit.Entry{
			Action:      audit.ActionUpdated,
			Field:       "additional_services",
			Old:         lineItemValue(removed),
			Description: fmt.Sprintf("removed %s (%.2f)", removed.Name, removed.Price),
		}); err != nil {
			return err
		}

		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lineItemValue(it models.AdditionalServiceItem) map[string]any {
	return map[string]any{
		"id":    it.ID.String(),
		"name":  it.Name,
		"price": it.Price,
	}
}
