package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type GetHistory struct {
	deps Dependencies
}

func NewGetHistory(deps Dependencies) *GetHistory {
	return &GetHistory{deps: deps.withDefaults()}
}

// Execute returns up to limit modification records, newest first.
// limit 0 returns the full history.
func (uc *GetHistory) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
	limit int,
	actor domain.Actor,
) ([]models.ModificationRecord, error) {

	ap, err := uc.deps.loadForMutation(ctx, appointmentID, actor)
	if err != nil {
		return nil, err
	}
	return audit.Recent(ap.Modifications, limit), nil
}
