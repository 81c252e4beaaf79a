package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

var salonLoc = time.FixedZone("BRT", -3*60*60)

// monday is the day every fixture rule opens.
const monday = "2030-01-07"

var (
	owner    = domain.Actor{ID: "owner-1", Name: "Olga", Role: domain.RoleOwner}
	employee = domain.Actor{ID: "emp-1", Name: "Bruna", Role: domain.RoleEmployee}
	stranger = domain.Actor{ID: "emp-2", Name: "Carla", Role: domain.RoleEmployee}
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fakeGateway struct {
	mu         sync.Mutex
	status     domain.CaptureStatus
	captureErr error
	refundErr  error
	captures   int
	refunds    int
}

func (g *fakeGateway) CaptureDeposit(_ context.Context, _ uuid.UUID, ref string, _ float64) (domain.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captures++
	if g.captureErr != nil {
		return domain.CaptureResult{}, g.captureErr
	}
	return domain.CaptureResult{Status: g.status, Reference: ref}, nil
}

func (g *fakeGateway) Refund(_ context.Context, _ uuid.UUID, ref string, _ float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds++
	if g.refundErr != nil {
		return "", g.refundErr
	}
	return "refund-" + ref, nil
}

func (g *fakeGateway) counts() (captures, refunds int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captures, g.refunds
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(ev notify.Event) {
	n.mu.Lock()
	n.events = append(n.events, ev)
	n.mu.Unlock()
}

func (n *recordingNotifier) types() []notify.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeArchiver struct {
	archived []uuid.UUID
	err      error
}

func (a *fakeArchiver) Archive(_ context.Context, ap *models.Appointment) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, ap.ID)
	return "s3://archive/" + ap.ID.String() + ".json", nil
}

// countingCache mirrors the Redis cache's versioning: Invalidate bumps the
// version and entries stored under an older one are never served.
type countingCache struct {
	mu          sync.Mutex
	version     int64
	entries     map[domain.AvailabilityInput]cachedView
	hits        int
	invalidated int
}

type cachedView struct {
	version int64
	slots   []domain.ResolvedSlot
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[domain.AvailabilityInput]cachedView{}}
}

func (c *countingCache) Get(_ context.Context, q domain.AvailabilityInput) ([]domain.ResolvedSlot, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, ok := c.entries[q]
	if ok && view.version == c.version {
		c.hits++
		return append([]domain.ResolvedSlot(nil), view.slots...), c.version, true
	}
	return nil, c.version, false
}

func (c *countingCache) Set(_ context.Context, q domain.AvailabilityInput, version int64, slots []domain.ResolvedSlot) {
	c.mu.Lock()
	c.entries[q] = cachedView{version: version, slots: append([]domain.ResolvedSlot(nil), slots...)}
	c.mu.Unlock()
}

func (c *countingCache) Invalidate(_ context.Context, _ uuid.UUID) {
	c.mu.Lock()
	c.version++
	c.invalidated++
	c.mu.Unlock()
}

var errGatewayDown = errors.New("gateway down")

type fixture struct {
	store    *memory.Store
	clock    *testClock
	gateway  *fakeGateway
	notifier *recordingNotifier
	archive  *fakeArchiver
	provider *models.Provider
	service  *models.Service
	deps     Dependencies
}

// newFixture opens one provider on Mondays 09:00-12:00 for a 30 minute
// service priced 100, with a 50% deposit policy. The clock starts the day
// before.
func newFixture(t *testing.T) *fixture {
	return newFixtureWithTimeout(t, time.Second)
}

func newFixtureWithTimeout(t *testing.T, lockTimeout time.Duration) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:    memory.NewStore(lockTimeout),
		clock:    &testClock{t: time.Date(2030, 1, 6, 12, 0, 0, 0, salonLoc)},
		gateway:  &fakeGateway{status: domain.CaptureCaptured},
		notifier: &recordingNotifier{},
		archive:  &fakeArchiver{},
	}

	f.provider = f.addProvider(t, "Bruna", employee.ID)
	f.service = &models.Service{
		Name:                    "Corte",
		DurationMin:             30,
		Price:                   100,
		Active:                  true,
		OffersConsultation:      true,
		ConsultationDurationMin: 15,
	}
	require.NoError(t, f.store.SaveService(ctx, f.service))

	f.deps = Dependencies{
		Repo:     f.store,
		Clock:    f.clock,
		Location: salonLoc,
		Payments: f.gateway,
		Notifier: f.notifier,
		Archive:  f.archive,
		Deposit:  DepositPolicy{Required: true, Percent: 50},
	}
	return f
}

func (f *fixture) addProvider(t *testing.T, name, userID string) *models.Provider {
	t.Helper()
	p := &models.Provider{
		Name:           name,
		UserID:         userID,
		Classification: models.ClassificationIndependent,
		Active:         true,
	}
	require.NoError(t, f.store.SaveProvider(context.Background(), p))
	f.addRule(t, p.ID, int(time.Monday), "09:00", "12:00")
	return p
}

func (f *fixture) addRule(t *testing.T, providerID uuid.UUID, weekday int, start, end string) {
	t.Helper()
	err := f.store.InSchedule(context.Background(), nil, func(ctx context.Context, tx domain.ScheduleTx) error {
		return tx.SaveRule(ctx, &models.AvailabilityRule{
			ProviderID:  providerID,
			DayOfWeek:   weekday,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		})
	})
	require.NoError(t, err)
}

func (f *fixture) input(clock string) ReserveInput {
	return ReserveInput{
		ProviderID:  f.provider.ID,
		ServiceID:   f.service.ID,
		Date:        monday,
		Time:        clock,
		ClientName:  "Maria Souza",
		ClientEmail: "maria@example.com",
		ClientPhone: "11988887777",
	}
}

func (f *fixture) reserve(t *testing.T, in ReserveInput) *models.Appointment {
	t.Helper()
	ap, err := NewReserveSlot(f.deps).Execute(context.Background(), in)
	require.NoError(t, err)
	return ap
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *models.Appointment {
	t.Helper()
	ap, err := f.store.GetAppointment(context.Background(), id)
	require.NoError(t, err)
	return ap
}

// at returns an instant on the fixture Monday.
func at(hour, minute int) time.Time {
	return time.Date(2030, 1, 7, hour, minute, 0, 0, salonLoc)
}

func requireCode(t *testing.T, err error, code string) httperr.BusinessError {
	t.Helper()
	require.Error(t, err)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected a business error, got %v", err)
	require.Equal(t, code, be.Code)
	return be
}

func blockFor(providerID uuid.UUID, date, start string, end *string) *models.BlockedInterval {
	return &models.BlockedInterval{
		ID:         uuid.New(),
		ProviderID: providerID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Reason:     "training",
	}
}
