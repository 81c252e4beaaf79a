package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var salonLoc = time.FixedZone("BRT", -3*60*60)

// 2030-01-07 is a Monday.
func monday() time.Time {
	return time.Date(2030, 1, 7, 0, 0, 0, 0, salonLoc)
}

func rule(providerID uuid.UUID, day time.Weekday, start, end string) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:          uuid.New(),
		ProviderID:  providerID,
		DayOfWeek:   int(day),
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
}

func clocks(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("15:04"))
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestParseWallTime(t *testing.T) {
	tests := []struct {
		in      string
		want    WallTime
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"24:00", 1440, false},
		{"23:59", 1439, false},
		{"24:30", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWallTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlots_MondayMorning(t *testing.T) {
	providerID := uuid.New()
	rules := []models.AvailabilityRule{rule(providerID, time.Monday, "09:00", "12:00")}

	got := GenerateSlots(rules, uuid.New(), monday(), 30*time.Minute)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, clocks(got))
	for _, s := range got {
		assert.Equal(t, salonLoc, s.Location())
	}
}

func TestGenerateSlots_UnionDedupedAndSorted(t *testing.T) {
	providerID := uuid.New()
	rules := []models.AvailabilityRule{
		rule(providerID, time.Monday, "14:00", "15:00"),
		rule(providerID, time.Monday, "09:00", "10:30"),
		rule(providerID, time.Monday, "10:00", "11:00"),
	}

	got := GenerateSlots(rules, uuid.New(), monday(), 30*time.Minute)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "14:00", "14:30"}, clocks(got))
}

func TestGenerateSlots_WindowShorterThanDuration(t *testing.T) {
	providerID := uuid.New()
	rules := []models.AvailabilityRule{rule(providerID, time.Monday, "09:00", "09:45")}

	got := GenerateSlots(rules, uuid.New(), monday(), 60*time.Minute)

	assert.Empty(t, got)
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	providerID := uuid.New()
	rules := []models.AvailabilityRule{rule(providerID, time.Tuesday, "09:00", "12:00")}

	assert.Empty(t, GenerateSlots(rules, uuid.New(), monday(), 30*time.Minute))
}

func TestGenerateSlots_ServiceSpecificRulesShadowGeneric(t *testing.T) {
	providerID := uuid.New()
	serviceID := uuid.New()

	specific := rule(providerID, time.Monday, "13:00", "14:00")
	specific.ServiceID = &serviceID

	rules := []models.AvailabilityRule{
		rule(providerID, time.Monday, "09:00", "10:00"),
		specific,
	}

	assert.Equal(t, []string{"13:00", "13:30"}, clocks(GenerateSlots(rules, serviceID, monday(), 30*time.Minute)))
	assert.Equal(t, []string{"09:00", "09:30"}, clocks(GenerateSlots(rules, uuid.New(), monday(), 30*time.Minute)))
}

func TestGenerateSlots_UnavailableSpecificRuleClosesService(t *testing.T) {
	providerID := uuid.New()
	serviceID := uuid.New()

	closed := rule(providerID, time.Monday, "00:00", "24:00")
	closed.ServiceID = &serviceID
	closed.IsAvailable = false

	rules := []models.AvailabilityRule{
		rule(providerID, time.Monday, "09:00", "10:00"),
		closed,
	}

	assert.Empty(t, GenerateSlots(rules, serviceID, monday(), 30*time.Minute))
}

func TestGenerateSlots_ValidityWindow(t *testing.T) {
	providerID := uuid.New()

	expired := rule(providerID, time.Monday, "09:00", "10:00")
	expired.EndDate = strPtr("2030-01-06")

	future := rule(providerID, time.Monday, "11:00", "12:00")
	future.StartDate = strPtr("2030-01-08")

	current := rule(providerID, time.Monday, "15:00", "16:00")
	current.StartDate = strPtr("2030-01-07")
	current.EndDate = strPtr("2030-01-07")

	got := GenerateSlots([]models.AvailabilityRule{expired, future, current}, uuid.New(), monday(), 30*time.Minute)

	assert.Equal(t, []string{"15:00", "15:30"}, clocks(got))
}

func TestValidateWindow(t *testing.T) {
	assert.NoError(t, ValidateWindow("09:00", "12:00"))
	assert.NoError(t, ValidateWindow("20:00", "24:00"))
	assert.Error(t, ValidateWindow("12:00", "09:00"))
	assert.Error(t, ValidateWindow("09:00", "09:00"))
	assert.Error(t, ValidateWindow("9am", "12:00"))
}
