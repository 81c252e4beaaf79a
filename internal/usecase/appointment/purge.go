package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

type PurgeAppointment struct {
	deps Dependencies
}

func NewPurgeAppointment(deps Dependencies) *PurgeAppointment {
	return &PurgeAppointment{deps: deps.withDefaults()}
}

// Execute archives the appointment with its line items and history, then
// deletes all of it. Only owners may purge; the audit trail is otherwise
// never removed. Returns the archive location, empty when archiving is off.
func (uc *PurgeAppointment) Execute(ctx context.Context, id uuid.UUID, actor domain.Actor) (string, error) {
	if err := domain.AuthorizeOwner(actor); err != nil {
		return "", err
	}

	before, err := uc.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		return "", err
	}

	var location string
	err = uc.deps.inSchedule(ctx, []domain.ScheduleKey{keyOf(before)}, func(ctx context.Context, tx domain.ScheduleTx) error {
		ap, err := reload(ctx, tx, before)
		if err != nil {
			return err
		}

		location, err = uc.deps.Archive.Archive(ctx, ap)
		if err != nil {
			return err
		}
		return tx.DeleteAppointment(ctx, ap.ID)
	})
	if err != nil {
		return "", err
	}

	uc.deps.invalidate(ctx, before.ProviderID)

	log.Warn().
		Str("appointment_id", id.String()).
		Str("archive", location).
		Str("actor", actor.Label()).
		Msg("appointment purged")

	return location, nil
}
