package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// Offline accepts any non-empty payment reference as captured. It is the
// gateway used when no Mercado Pago token is configured.
type Offline struct{}

var _ domain.PaymentGateway = Offline{}

func (Offline) CaptureDeposit(_ context.Context, appointmentID uuid.UUID, paymentRef string, amount float64) (domain.CaptureResult, error) {
	ref := strings.TrimSpace(paymentRef)
	if ref == "" {
		return domain.CaptureResult{Status: domain.CaptureFailed}, httperr.ErrUpstreamPayment("payment reference required")
	}
	log.Debug().
		Str("appointment_id", appointmentID.String()).
		Float64("amount", amount).
		Msg("offline deposit capture")
	return domain.CaptureResult{Status: domain.CaptureCaptured, Reference: ref}, nil
}

func (Offline) Refund(_ context.Context, _ uuid.UUID, paymentRef string, _ float64) (string, error) {
	return "offline-refund-" + paymentRef, nil
}
