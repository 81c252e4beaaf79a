package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	owner    = domain.Actor{ID: "owner-1", Name: "Olga", Role: domain.RoleOwner}
	employee = domain.Actor{ID: "emp-1", Name: "Bruna", Role: domain.RoleEmployee}
	stranger = domain.Actor{ID: "emp-2", Name: "Carla", Role: domain.RoleEmployee}
)

type recordingInvalidator struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, providerID uuid.UUID) {
	r.mu.Lock()
	r.calls = append(r.calls, providerID)
	r.mu.Unlock()
}

func setup(t *testing.T) (*memory.Store, *models.Provider, *recordingInvalidator) {
	t.Helper()
	store := memory.NewStore(time.Second)
	p := &models.Provider{Name: "Bruna", UserID: employee.ID, Active: true, Classification: models.ClassificationIndependent}
	require.NoError(t, store.SaveProvider(context.Background(), p))
	return store, p, &recordingInvalidator{}
}

func strPtr(s string) *string { return &s }

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, code), "expected %s, got %v", code, err)
}

// ======================================================
// Blocks
// ======================================================

func TestBlocks_Lifecycle(t *testing.T) {
	store, p, inv := setup(t)
	uc := NewBlocks(store, inv)
	ctx := context.Background()

	b, err := uc.Create(ctx, BlockInput{
		ProviderID: p.ID,
		Date:       "2030-01-07",
		StartTime:  "10:00",
		EndTime:    strPtr("11:00"),
		Reason:     "  dentist ",
		Actor:      employee,
	})
	require.NoError(t, err)
	assert.Equal(t, "dentist", b.Reason)

	listed, err := store.ListBlocksForDate(ctx, p.ID, "2030-01-07")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	updated, err := uc.Update(ctx, b.ID, BlockInput{
		ProviderID: p.ID,
		Date:       "2030-01-08",
		StartTime:  "14:00",
		EndTime:    strPtr(""),
		Actor:      owner,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EndTime)

	moved, err := store.ListBlocksForDate(ctx, p.ID, "2030-01-07")
	require.NoError(t, err)
	assert.Empty(t, moved)

	require.NoError(t, uc.Delete(ctx, b.ID, owner))
	_, err = store.GetBlock(ctx, b.ID)
	requireCode(t, err, httperr.CodeNotFound)

	assert.Equal(t, []uuid.UUID{p.ID, p.ID, p.ID}, inv.calls)
}

func TestBlocks_Validation(t *testing.T) {
	store, p, _ := setup(t)
	uc := NewBlocks(store, nil)

	cases := map[string]BlockInput{
		"bad date":       {ProviderID: p.ID, Date: "2030-13-01", StartTime: "10:00", Actor: owner},
		"bad start":      {ProviderID: p.ID, Date: "2030-01-07", StartTime: "25:00", Actor: owner},
		"inverted range": {ProviderID: p.ID, Date: "2030-01-07", StartTime: "11:00", EndTime: strPtr("10:00"), Actor: owner},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), in)
			requireCode(t, err, httperr.CodeValidation)
		})
	}
}

func TestBlocks_Authorization(t *testing.T) {
	store, p, inv := setup(t)
	uc := NewBlocks(store, inv)

	_, err := uc.Create(context.Background(), BlockInput{
		ProviderID: p.ID,
		Date:       "2030-01-07",
		StartTime:  "10:00",
		Actor:      stranger,
	})
	requireCode(t, err, httperr.CodeForbidden)
	assert.Empty(t, inv.calls)

	_, err = uc.Create(context.Background(), BlockInput{
		ProviderID: uuid.New(),
		Date:       "2030-01-07",
		StartTime:  "10:00",
		Actor:      owner,
	})
	requireCode(t, err, httperr.CodeNotFound)
}

// ======================================================
// Rules
// ======================================================

func TestRules_UpsertAndDelete(t *testing.T) {
	store, p, inv := setup(t)
	uc := NewRules(store, inv)
	ctx := context.Background()

	r, err := uc.Upsert(ctx, RuleInput{
		ProviderID:  p.ID,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
		Actor:       employee,
	})
	require.NoError(t, err)

	r2, err := uc.Upsert(ctx, RuleInput{
		ID:          r.ID,
		ProviderID:  p.ID,
		DayOfWeek:   1,
		StartTime:   "13:00",
		EndTime:     "18:00",
		IsAvailable: true,
		StartDate:   strPtr("2030-01-01"),
		EndDate:     strPtr("2030-06-30"),
		Actor:       owner,
	})
	require.NoError(t, err)
	assert.Equal(t, r.ID, r2.ID)

	rules, err := uc.List(ctx, p.ID, employee)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "13:00", rules[0].StartTime)

	require.NoError(t, uc.Delete(ctx, r.ID, owner))
	rules, err = uc.List(ctx, p.ID, owner)
	require.NoError(t, err)
	assert.Empty(t, rules)

	assert.Len(t, inv.calls, 3)
}

func TestRules_Validation(t *testing.T) {
	store, p, _ := setup(t)
	uc := NewRules(store, nil)

	base := RuleInput{ProviderID: p.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true, Actor: owner}

	cases := map[string]func(in *RuleInput){
		"day out of range": func(in *RuleInput) { in.DayOfWeek = 7 },
		"empty window":     func(in *RuleInput) { in.EndTime = "09:00" },
		"bad date":         func(in *RuleInput) { in.StartDate = strPtr("01/01/2030") },
		"dates inverted": func(in *RuleInput) {
			in.StartDate = strPtr("2030-02-01")
			in.EndDate = strPtr("2030-01-01")
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := uc.Upsert(context.Background(), in)
			requireCode(t, err, httperr.CodeValidation)
		})
	}
}

func TestRules_ForeignRuleIsNotFound(t *testing.T) {
	store, p, _ := setup(t)
	other := &models.Provider{Name: "Dani", Active: true}
	require.NoError(t, store.SaveProvider(context.Background(), other))
	uc := NewRules(store, nil)

	r, err := uc.Upsert(context.Background(), RuleInput{
		ProviderID: other.ID, DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00", IsAvailable: true, Actor: owner,
	})
	require.NoError(t, err)

	_, err = uc.Upsert(context.Background(), RuleInput{
		ID: r.ID, ProviderID: p.ID, DayOfWeek: 2, StartTime: "09:00", EndTime: "11:00", IsAvailable: true, Actor: owner,
	})
	requireCode(t, err, httperr.CodeNotFound)

	_, err = uc.List(context.Background(), other.ID, employee)
	requireCode(t, err, httperr.CodeForbidden)
}
