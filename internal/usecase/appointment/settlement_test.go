package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func price(v float64) *float64 { return &v }

func TestLineItems_SettleToZeroOutstanding(t *testing.T) {
	f := newFixture(t)
	in := f.input("09:00")
	in.PaymentRef = "mp-1"
	ap := f.reserve(t, in)

	out, err := NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		Name:          "Hidratação",
		Price:         price(20),
		Actor:         employee,
	})
	require.NoError(t, err)
	require.Len(t, out.AdditionalServices, 1)
	assert.Equal(t, 120.0, domain.TotalPrice(out))
	assert.Equal(t, 70.0, domain.Outstanding(out))

	out, err = NewRecordSettlement(f.deps).Execute(context.Background(), SettlementInput{
		AppointmentID: ap.ID,
		Method:        string(domain.MethodCash),
		Amount:        70,
		Actor:         employee,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), out.PaymentStatus)
	assert.Equal(t, "cash", out.SettlementMethod)
	assert.Equal(t, "Bruna", out.SettledBy)
	assert.Zero(t, domain.Outstanding(out))

	// Items added after settlement leave the ledger closed.
	out, err = NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		Name:          "Escova",
		Price:         price(15),
		Actor:         employee,
	})
	require.NoError(t, err)
	assert.Zero(t, domain.Outstanding(out))

	stored := f.reload(t, ap.ID)
	assert.Len(t, stored.AdditionalServices, 2)
	actions := make([]string, 0, len(stored.Modifications))
	for _, rec := range stored.Modifications {
		actions = append(actions, rec.Action)
	}
	assert.Equal(t, []string{"created", "updated", "payment_received", "updated"}, actions)
}

func TestLineItems_DefaultsFromCatalog(t *testing.T) {
	f := newFixture(t)
	extra := &models.Service{Name: "Barba", DurationMin: 20, Price: 35, Active: true}
	require.NoError(t, f.store.SaveService(context.Background(), extra))
	ap := f.reserve(t, f.input("09:00"))

	out, err := NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		ServiceID:     &extra.ID,
		Actor:         owner,
	})
	require.NoError(t, err)
	require.Len(t, out.AdditionalServices, 1)
	item := out.AdditionalServices[0]
	assert.Equal(t, "Barba", item.Name)
	assert.Equal(t, 35.0, item.Price)

	// An explicit price wins, even zero.
	out, err = NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		ServiceID:     &extra.ID,
		Name:          "Barba cortesia",
		Price:         price(0),
		Actor:         owner,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.AdditionalServices[1].Price)
	assert.Equal(t, "Barba cortesia", out.AdditionalServices[1].Name)
}

func TestLineItems_Validation(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))
	add := NewAddLineItem(f.deps)

	_, err := add.Execute(context.Background(), AddLineItemInput{AppointmentID: ap.ID, Price: price(10), Actor: owner})
	be := requireCode(t, err, httperr.CodeValidation)
	assert.Equal(t, "line_item_name_required", be.Detail)

	_, err = add.Execute(context.Background(), AddLineItemInput{AppointmentID: ap.ID, Name: "x", Price: price(-1), Actor: owner})
	be = requireCode(t, err, httperr.CodeValidation)
	assert.Equal(t, "line_item_price_negative", be.Detail)

	_, err = add.Execute(context.Background(), AddLineItemInput{AppointmentID: ap.ID, Name: "x", Price: price(1), Actor: stranger})
	requireCode(t, err, httperr.CodeForbidden)
}

func TestLineItems_Remove(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))

	out, err := NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		Name:          "Hidratação",
		Price:         price(20),
		Actor:         owner,
	})
	require.NoError(t, err)
	itemID := out.AdditionalServices[0].ID

	remove := NewRemoveLineItem(f.deps)
	_, err = remove.Execute(context.Background(), RemoveLineItemInput{AppointmentID: ap.ID, ItemID: uuid.New(), Actor: owner})
	be := requireCode(t, err, httperr.CodeNotFound)
	assert.Equal(t, "line_item", be.Detail)

	out, err = remove.Execute(context.Background(), RemoveLineItemInput{AppointmentID: ap.ID, ItemID: itemID, Actor: owner})
	require.NoError(t, err)
	assert.Empty(t, out.AdditionalServices)

	stored := f.reload(t, ap.ID)
	assert.Empty(t, stored.AdditionalServices)
	assert.Len(t, stored.Modifications, 3)
}

func TestLineItems_TerminalAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))
	require.NoError(t, changeStatus(f, ap.ID, domain.StatusCancelled, owner))

	_, err := NewAddLineItem(f.deps).Execute(context.Background(), AddLineItemInput{
		AppointmentID: ap.ID,
		Name:          "Hidratação",
		Price:         price(20),
		Actor:         owner,
	})
	requireCode(t, err, httperr.CodeIllegalTransition)
}

func TestSettlement_CompleteBeforeStartRollsBack(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))

	_, err := NewRecordSettlement(f.deps).Execute(context.Background(), SettlementInput{
		AppointmentID: ap.ID,
		Method:        string(domain.MethodCardTerminal),
		Amount:        100,
		Complete:      true,
		Actor:         owner,
	})
	requireCode(t, err, httperr.CodeIllegalTransition)

	stored := f.reload(t, ap.ID)
	assert.Equal(t, string(domain.PaymentPending), stored.PaymentStatus)
	assert.Equal(t, string(domain.StatusPending), stored.Status)
	assert.Empty(t, stored.SettlementMethod)
	assert.Len(t, stored.Modifications, 1)
}

func TestSettlement_CompleteAfterStart(t *testing.T) {
	f := newFixture(t)
	in := f.input("09:00")
	in.PaymentRef = "mp-1"
	ap := f.reserve(t, in)
	f.clock.Set(at(9, 40))

	out, err := NewRecordSettlement(f.deps).Execute(context.Background(), SettlementInput{
		AppointmentID: ap.ID,
		Method:        string(domain.MethodOnline),
		Amount:        50,
		Complete:      true,
		Actor:         employee,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), out.Status)
	assert.Equal(t, string(domain.PaymentPaid), out.PaymentStatus)
	assert.Equal(t, "Bruna", out.CompletedBy)

	stored := f.reload(t, ap.ID)
	require.Len(t, stored.Modifications, 2)
	assert.Equal(t, "payment_received", stored.Modifications[1].Action)
	assert.Contains(t, stored.Modifications[1].Description, "completed")

	// Completed appointments take no further settlement.
	_, err = NewRecordSettlement(f.deps).Execute(context.Background(), SettlementInput{
		AppointmentID: ap.ID,
		Method:        string(domain.MethodCash),
		Amount:        10,
		Actor:         owner,
	})
	requireCode(t, err, httperr.CodeIllegalTransition)
}

func TestSettlement_Validation(t *testing.T) {
	f := newFixture(t)
	ap := f.reserve(t, f.input("09:00"))
	uc := NewRecordSettlement(f.deps)

	_, err := uc.Execute(context.Background(), SettlementInput{AppointmentID: ap.ID, Method: "barter", Amount: 10, Actor: owner})
	be := requireCode(t, err, httperr.CodeValidation)
	assert.Equal(t, "invalid_settlement_method", be.Detail)

	_, err = uc.Execute(context.Background(), SettlementInput{AppointmentID: ap.ID, Method: "cash", Amount: 0, Actor: owner})
	be = requireCode(t, err, httperr.CodeValidation)
	assert.Equal(t, "settlement_amount_must_be_positive", be.Detail)
}
