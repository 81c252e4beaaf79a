package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type ProviderInput struct {
	Name           *string
	Email          *string
	Phone          *string
	UserID         *string
	Classification *string
	Active         *bool
	Actor          domain.Actor
}

type Providers struct {
	repo domain.Repository
}

func NewProviders(repo domain.Repository) *Providers {
	return &Providers{repo: repo}
}

func (uc *Providers) List(ctx context.Context, activeOnly bool) ([]models.Provider, error) {
	return uc.repo.ListProviders(ctx, activeOnly)
}

func (uc *Providers) Create(ctx context.Context, in ProviderInput) (*models.Provider, error) {
	if err := domain.AuthorizeOwner(in.Actor); err != nil {
		return nil, err
	}

	p := &models.Provider{
		ID:             uuid.New(),
		Classification: models.ClassificationIndependent,
		Active:         true,
	}
	if err := apply(p, in, true); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveProvider(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("provider_id", p.ID.String()).Str("classification", p.Classification).Msg("provider created")
	return p, nil
}

// Update changes profile and status fields. Classification can only change
// while no appointment references the provider.
func (uc *Providers) Update(ctx context.Context, id uuid.UUID, in ProviderInput) (*models.Provider, error) {
	if err := domain.AuthorizeOwner(in.Actor); err != nil {
		return nil, err
	}

	p, err := uc.repo.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Classification != nil && *in.Classification != p.Classification {
		n, err := uc.repo.CountAppointmentsForProvider(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, httperr.ErrValidation("classification_locked")
		}
	}

	if err := apply(p, in, false); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveProvider(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func apply(p *models.Provider, in ProviderInput, creating bool) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if p.Name == "" {
		return httperr.ErrValidation("provider_name_required")
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" && !validators.IsEmailValid(email) {
			return httperr.ErrValidation("invalid_email")
		}
		p.Email = email
	}
	if in.Phone != nil {
		p.Phone = validators.NormalizePhone(*in.Phone)
	}
	if in.UserID != nil {
		p.UserID = strings.TrimSpace(*in.UserID)
	}
	if in.Classification != nil {
		switch *in.Classification {
		case models.ClassificationSalaried, models.ClassificationIndependent:
			p.Classification = *in.Classification
		default:
			return httperr.ErrValidation("invalid_classification")
		}
	}
	if in.Active != nil {
		p.Active = *in.Active
	} else if creating {
		p.Active = true
	}
	return nil
}
