package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ServiceInput struct {
	Name                    *string
	Description             *string
	Category                *string
	DurationMin             *int
	Price                   *float64
	Active                  *bool
	OffersConsultation      *bool
	ConsultationDurationMin *int
	Actor                   domain.Actor
}

type Services struct {
	repo domain.Repository
}

func NewServices(repo domain.Repository) *Services {
	return &Services{repo: repo}
}

func (uc *Services) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return uc.repo.ListServices(ctx, activeOnly)
}

func (uc *Services) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := domain.AuthorizeOwner(in.Actor); err != nil {
		return nil, err
	}

	s := &models.Service{ID: uuid.New(), Active: true}
	if err := applyService(s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}

	log.Info().Str("service_id", s.ID.String()).Str("name", s.Name).Msg("service created")
	return s, nil
}

func (uc *Services) Update(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	if err := domain.AuthorizeOwner(in.Actor); err != nil {
		return nil, err
	}

	s, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyService(s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func applyService(s *models.Service, in ServiceInput) error {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		s.Category = strings.TrimSpace(*in.Category)
	}
	if in.DurationMin != nil {
		s.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		s.Price = domain.Round2(*in.Price)
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	if in.OffersConsultation != nil {
		s.OffersConsultation = *in.OffersConsultation
	}
	if in.ConsultationDurationMin != nil {
		s.ConsultationDurationMin = *in.ConsultationDurationMin
	}

	switch {
	case s.Name == "":
		return httperr.ErrValidation("service_name_required")
	case s.DurationMin <= 0:
		return httperr.ErrValidation("invalid_duration")
	case s.Price < 0:
		return httperr.ErrValidation("invalid_price")
	case s.OffersConsultation && s.ConsultationDurationMin <= 0:
		return httperr.ErrValidation("invalid_consultation_duration")
	}
	return nil
}
