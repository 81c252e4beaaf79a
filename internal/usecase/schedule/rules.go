package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type RuleInput struct {
	// ID set updates an existing rule.
	ID          uuid.UUID
	ProviderID  uuid.UUID
	ServiceID   *uuid.UUID
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
	StartDate   *string
	EndDate     *string
	Actor       domain.Actor
}

func (in RuleInput) validate() error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return httperr.ErrValidation("invalid_day_of_week")
	}
	if err := domain.ValidateWindow(in.StartTime, in.EndTime); err != nil {
		return httperr.ErrValidation("invalid_rule_window")
	}

	for _, d := range []*string{in.StartDate, in.EndDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := timezone.ParseDate(*d, time.UTC); err != nil {
			return httperr.ErrValidation("invalid_rule_date")
		}
	}
	if in.StartDate != nil && in.EndDate != nil && *in.StartDate != "" && *in.EndDate != "" && *in.EndDate < *in.StartDate {
		return httperr.ErrValidation("rule_end_before_start")
	}
	return nil
}

type Rules struct {
	repo  domain.Repository
	cache Invalidator
}

func NewRules(repo domain.Repository, cache Invalidator) *Rules {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &Rules{repo: repo, cache: cache}
}

func (uc *Rules) List(ctx context.Context, providerID uuid.UUID, actor domain.Actor) ([]models.AvailabilityRule, error) {
	provider, err := uc.repo.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeProvider(actor, provider); err != nil {
		return nil, err
	}
	return uc.repo.ListRules(ctx, providerID)
}

// Upsert creates or replaces a rule. Rules span every matching weekday, so
// no single schedule key covers them; reservations re-read rules inside
// their own unit of work.
func (uc *Rules) Upsert(ctx context.Context, in RuleInput) (*models.AvailabilityRule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	provider, err := uc.repo.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeProvider(in.Actor, provider); err != nil {
		return nil, err
	}

	r := &models.AvailabilityRule{ID: uuid.New()}
	if in.ID != uuid.Nil {
		existing, err := uc.repo.GetRule(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if existing.ProviderID != provider.ID {
			return nil, httperr.ErrNotFound("availability_rule")
		}
		r = existing
	}

	r.ProviderID = provider.ID
	r.ServiceID = in.ServiceID
	r.DayOfWeek = in.DayOfWeek
	r.StartTime = in.StartTime
	r.EndTime = in.EndTime
	r.IsAvailable = in.IsAvailable
	r.StartDate = in.StartDate
	r.EndDate = in.EndDate

	err = uc.repo.InSchedule(ctx, nil, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.SaveRule(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, provider.ID)
	log.Info().
		Str("rule_id", r.ID.String()).
		Str("provider_id", provider.ID.String()).
		Int("day_of_week", r.DayOfWeek).
		Str("window", r.StartTime+"-"+r.EndTime).
		Msg("availability rule saved")

	return r, nil
}

func (uc *Rules) Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	r, err := uc.repo.GetRule(ctx, id)
	if err != nil {
		return err
	}
	provider, err := uc.repo.GetProvider(ctx, r.ProviderID)
	if err != nil {
		return err
	}
	if err := domain.AuthorizeProvider(actor, provider); err != nil {
		return err
	}

	err = uc.repo.InSchedule(ctx, nil, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.DeleteRule(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, provider.ID)
	return nil
}
