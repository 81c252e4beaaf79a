package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// Capturer is the slice of the Mercado Pago payment client we use.
type Capturer interface {
	CaptureAmount(ctx context.Context, id int, amount float64) (*mppayment.Response, error)
}

// Refunder is the slice of the Mercado Pago refund client we use.
type Refunder interface {
	CreatePartialRefund(ctx context.Context, paymentID int, amount float64) (*refund.Response, error)
}

// MercadoPago captures deposits that the client authorized at checkout.
// The payment reference is the Mercado Pago payment id.
type MercadoPago struct {
	payments Capturer
	refunds  Refunder
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return NewMercadoPagoWith(mppayment.NewClient(cfg), refund.NewClient(cfg)), nil
}

func NewMercadoPagoWith(payments Capturer, refunds Refunder) *MercadoPago {
	return &MercadoPago{payments: payments, refunds: refunds}
}

var _ domain.PaymentGateway = (*MercadoPago)(nil)

func (m *MercadoPago) CaptureDeposit(
	ctx context.Context,
	appointmentID uuid.UUID,
	paymentRef string,
	amount float64,
) (domain.CaptureResult, error) {

	id, err := paymentID(paymentRef)
	if err != nil {
		return domain.CaptureResult{Status: domain.CaptureFailed}, err
	}

	resp, err := m.payments.CaptureAmount(ctx, id, domain.Round2(amount))
	if err != nil {
		log.Warn().
			Err(err).
			Str("appointment_id", appointmentID.String()).
			Str("payment_ref", paymentRef).
			Msg("mercadopago capture failed")
		return domain.CaptureResult{}, httperr.ErrUpstreamPayment("deposit capture failed")
	}

	res := domain.CaptureResult{
		Status:    captureStatus(resp.Status),
		Reference: strconv.Itoa(resp.ID),
	}
	log.Info().
		Str("appointment_id", appointmentID.String()).
		Str("payment_ref", res.Reference).
		Str("mp_status", resp.Status).
		Msg("mercadopago capture")
	return res, nil
}

func (m *MercadoPago) Refund(
	ctx context.Context,
	appointmentID uuid.UUID,
	paymentRef string,
	amount float64,
) (string, error) {

	id, err := paymentID(paymentRef)
	if err != nil {
		return "", err
	}

	resp, err := m.refunds.CreatePartialRefund(ctx, id, domain.Round2(amount))
	if err != nil {
		return "", fmt.Errorf("mercadopago refund %d: %w", id, err)
	}

	log.Info().
		Str("appointment_id", appointmentID.String()).
		Str("payment_ref", paymentRef).
		Int("refund_id", resp.ID).
		Msg("mercadopago refund")
	return strconv.Itoa(resp.ID), nil
}

func paymentID(ref string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || id <= 0 {
		return 0, httperr.ErrUpstreamPayment("invalid payment reference")
	}
	return id, nil
}

func captureStatus(s string) domain.CaptureStatus {
	switch s {
	case "approved":
		return domain.CaptureCaptured
	case "authorized", "pending", "in_process":
		return domain.CaptureAuthorized
	default:
		return domain.CaptureFailed
	}
}
