package appointment

import (
	"context"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ListCandidateSlots struct {
	deps Dependencies
}

func NewListCandidateSlots(deps Dependencies) *ListCandidateSlots {
	return &ListCandidateSlots{deps: deps.withDefaults()}
}

// Execute returns every candidate slot of the day with its status. An
// empty list means the provider is closed. The view is advisory:
// ReserveSlot re-checks under the schedule lock.
func (uc *ListCandidateSlots) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.ResolvedSlot, error) {

	provider, err := uc.deps.Repo.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return []domain.ResolvedSlot{}, nil
	}

	svc, err := uc.deps.Repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	duration, _, err := bookingTerms(svc, in.IsConsultation)
	if err != nil {
		return nil, err
	}

	in.Date = domain.DayStart(in.Date.In(uc.deps.Location))
	now := uc.deps.now()

	cached, version, ok := uc.deps.Cache.Get(ctx, in)
	if ok {
		uc.deps.Metrics.ObserveSlotQuery(true)
		for i := range cached {
			cached[i].Reclassify(now)
		}
		return cached, nil
	}
	uc.deps.Metrics.ObserveSlotQuery(false)

	date := in.Date.Format(timezone.DateLayout)

	rules, err := uc.deps.Repo.ListRules(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	blocks, err := uc.deps.Repo.ListBlocksForDate(ctx, provider.ID, date)
	if err != nil {
		return nil, err
	}
	appts, err := uc.deps.Repo.ListAppointmentsForDate(ctx, provider.ID, date)
	if err != nil {
		return nil, err
	}

	candidates := domain.GenerateSlots(rules, svc.ID, in.Date, duration)
	slots := domain.ResolveSlots(candidates, duration, svc.ID, appts, blocks, now)

	uc.deps.Cache.Set(ctx, in, version, slots)

	log.Debug().
		Str("provider_id", provider.ID.String()).
		Str("date", date).
		Int("slots", len(slots)).
		Msg("slots resolved")

	return slots, nil
}
