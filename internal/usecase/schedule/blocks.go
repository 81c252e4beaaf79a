package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// Invalidator drops cached slot views of a provider.
type Invalidator interface {
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, uuid.UUID) {}

type BlockInput struct {
	ProviderID uuid.UUID
	ServiceID  *uuid.UUID
	Date       string
	StartTime  string
	// EndTime nil blocks exactly one slot of whatever duration is queried.
	EndTime *string
	Reason  string
	Actor   domain.Actor
}

func (in BlockInput) validate() error {
	if _, err := timezone.ParseDate(in.Date, time.UTC); err != nil {
		return httperr.ErrValidation("invalid_date")
	}
	if in.EndTime == nil || *in.EndTime == "" {
		if _, err := domain.ParseWallTime(in.StartTime); err != nil {
			return httperr.ErrValidation("invalid_start_time")
		}
		return nil
	}
	if err := domain.ValidateWindow(in.StartTime, *in.EndTime); err != nil {
		return httperr.ErrValidation("invalid_block_window")
	}
	return nil
}

type Blocks struct {
	repo  domain.Repository
	cache Invalidator
}

func NewBlocks(repo domain.Repository, cache Invalidator) *Blocks {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &Blocks{repo: repo, cache: cache}
}

func (uc *Blocks) authorize(ctx context.Context, providerID uuid.UUID, actor domain.Actor) error {
	provider, err := uc.repo.GetProvider(ctx, providerID)
	if err != nil {
		return err
	}
	return domain.AuthorizeProvider(actor, provider)
}

func (uc *Blocks) Create(ctx context.Context, in BlockInput) (*models.BlockedInterval, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, in.ProviderID, in.Actor); err != nil {
		return nil, err
	}

	b := &models.BlockedInterval{
		ID:         uuid.New(),
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    normalizeEnd(in.EndTime),
		Reason:     strings.TrimSpace(in.Reason),
	}

	key := domain.ScheduleKey{ProviderID: b.ProviderID, Date: b.Date}
	err := uc.repo.InSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.CreateBlock(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, b.ProviderID)
	log.Info().
		Str("block_id", b.ID.String()).
		Str("provider_id", b.ProviderID.String()).
		Str("date", b.Date).
		Str("actor", in.Actor.Label()).
		Msg("time blocked")

	return b, nil
}

func (uc *Blocks) Update(ctx context.Context, id uuid.UUID, in BlockInput) (*models.BlockedInterval, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := uc.repo.GetBlock(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, current.ProviderID, in.Actor); err != nil {
		return nil, err
	}

	updated := *current
	updated.ServiceID = in.ServiceID
	updated.Date = in.Date
	updated.StartTime = in.StartTime
	updated.EndTime = normalizeEnd(in.EndTime)
	updated.Reason = strings.TrimSpace(in.Reason)

	keys := []domain.ScheduleKey{
		{ProviderID: current.ProviderID, Date: current.Date},
		{ProviderID: current.ProviderID, Date: updated.Date},
	}
	err = uc.repo.InSchedule(ctx, keys, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.UpdateBlock(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, updated.ProviderID)
	return &updated, nil
}

func (uc *Blocks) Delete(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	current, err := uc.repo.GetBlock(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.authorize(ctx, current.ProviderID, actor); err != nil {
		return err
	}

	key := domain.ScheduleKey{ProviderID: current.ProviderID, Date: current.Date}
	err = uc.repo.InSchedule(ctx, []domain.ScheduleKey{key}, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.DeleteBlock(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, current.ProviderID)
	return nil
}

func normalizeEnd(end *string) *string {
	if end == nil || strings.TrimSpace(*end) == "" {
		return nil
	}
	v := strings.TrimSpace(*end)
	return &v
}
