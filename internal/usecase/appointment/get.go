package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Details pairs an appointment with its provider, whose classification
// drives the expected house collection.
type Details struct {
	Appointment *models.Appointment
	Provider    *models.Provider
}

type GetAppointment struct {
	deps Dependencies
}

func NewGetAppointment(deps Dependencies) *GetAppointment {
	return &GetAppointment{deps: deps.withDefaults()}
}

func (uc *GetAppointment) Execute(ctx context.Context, id uuid.UUID, actor domain.Actor) (*Details, error) {
	ap, err := uc.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	provider, err := uc.deps.Repo.GetProvider(ctx, ap.ProviderID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeProvider(actor, provider); err != nil {
		return nil, err
	}
	return &Details{Appointment: ap, Provider: provider}, nil
}

type ListProviderAppointments struct {
	deps Dependencies
}

func NewListProviderAppointments(deps Dependencies) *ListProviderAppointments {
	return &ListProviderAppointments{deps: deps.withDefaults()}
}

// Execute lists every appointment of the provider's day, cancelled ones
// included, ordered by start.
func (uc *ListProviderAppointments) Execute(
	ctx context.Context,
	providerID uuid.UUID,
	date string,
	actor domain.Actor,
) ([]models.Appointment, *models.Provider, error) {

	provider, err := uc.deps.Repo.GetProvider(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.AuthorizeProvider(actor, provider); err != nil {
		return nil, nil, err
	}

	apps, err := uc.deps.Repo.ListAppointmentsForDate(ctx, providerID, date)
	if err != nil {
		return nil, nil, err
	}
	return apps, provider, nil
}
