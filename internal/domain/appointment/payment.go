package appointment

import (
	"math"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ===============================
// Payment Ledger
// ===============================

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type SettlementMethod string

const (
	MethodCash         SettlementMethod = "cash"
	MethodCardTerminal SettlementMethod = "card_terminal"
	MethodOnline       SettlementMethod = "online"
)

const DefaultDepositPercent = 50.0

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentRefunded, PaymentFailed},
	PaymentFailed:  {PaymentPending, PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

func ParseSettlementMethod(s string) (SettlementMethod, bool) {
	switch m := SettlementMethod(s); m {
	case MethodCash, MethodCardTerminal, MethodOnline:
		return m, true
	}
	return "", false
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DepositFor is the upfront share of price. Zero when no deposit applies.
func DepositFor(price, percent float64, required bool) float64 {
	if !required || price <= 0 || percent <= 0 {
		return 0
	}
	return Round2(price * percent / 100)
}

func CanMovePayment(from, to PaymentStatus) error {
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "payment cannot move from %s to %s", from, to)
}

func SetPaymentStatus(ap *models.Appointment, to PaymentStatus) error {
	if err := CanMovePayment(PaymentStatus(ap.PaymentStatus), to); err != nil {
		return err
	}
	ap.PaymentStatus = string(to)
	return nil
}

func LineItemsTotal(ap *models.Appointment) float64 {
	var sum float64
	for _, it := range ap.AdditionalServices {
		sum += it.Price
	}
	return Round2(sum)
}

func TotalPrice(ap *models.Appointment) float64 {
	return Round2(ap.ServicePrice + LineItemsTotal(ap))
}

func DepositCaptured(ap *models.Appointment) float64 {
	if !ap.DepositPaid {
		return 0
	}
	return ap.DepositAmount
}

// Outstanding is what is still to be collected. A paid or refunded
// appointment owes nothing whatever the arithmetic says.
func Outstanding(ap *models.Appointment) float64 {
	switch PaymentStatus(ap.PaymentStatus) {
	case PaymentPaid, PaymentRefunded:
		return 0
	}
	return math.Max(0, Round2(TotalPrice(ap)-DepositCaptured(ap)))
}

// ExpectedHouseCollection is the salon's share: everything for salaried
// providers, only the deposit for independent ones.
func ExpectedHouseCollection(classification string, ap *models.Appointment) float64 {
	if classification == models.ClassificationSalaried {
		return TotalPrice(ap)
	}
	return ap.DepositAmount
}

// ApplyDepositCapture records a captured deposit.
func ApplyDepositCapture(ap *models.Appointment, reference string) {
	ap.DepositPaid = true
	ap.PaymentIntentRef = reference
	if ap.DepositAmount >= TotalPrice(ap) && PaymentStatus(ap.PaymentStatus) != PaymentPaid {
		ap.PaymentStatus = string(PaymentPaid)
	}
}

// ApplySettlement closes the sale on a live appointment.
func ApplySettlement(ap *models.Appointment, method SettlementMethod, amount float64, actor Actor, now time.Time) error {
	if Status(ap.Status).IsTerminal() {
		return httperr.ErrBusinessf(httperr.CodeIllegalTransition, "appointment is already %s", ap.Status)
	}
	if amount <= 0 {
		return httperr.ErrValidation("settlement_amount_must_be_positive")
	}
	if PaymentStatus(ap.PaymentStatus) != PaymentPaid {
		if err := SetPaymentStatus(ap, PaymentPaid); err != nil {
			return err
		}
	}

	ap.SettlementMethod = string(method)
	ap.SettlementAmount = Round2(amount)
	ap.SettledBy = actor.Label()
	ap.SettledAt = &now
	return nil
}
