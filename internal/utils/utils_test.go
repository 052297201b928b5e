package utils

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAvailability(t *testing.T) {
	assert.NoError(t, ValidateAvailability(&domain.Availability{DayOfWeek: 6, StartTime: "19:00", EndTime: "24:00"}))
	assert.Error(t, ValidateAvailability(&domain.Availability{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"}))
	assert.Error(t, ValidateAvailability(&domain.Availability{DayOfWeek: 0, StartTime: "17:00", EndTime: "09:00"}))
	assert.Error(t, ValidateAvailability(&domain.Availability{DayOfWeek: 0, StartTime: "09:00", EndTime: "09:00"}))
}

func TestValidateCSVHeaders(t *testing.T) {
	assert.NoError(t, ValidateCSVHeaders([]string{"a", "b", "c"}, []string{"a", "c"}))
	assert.Error(t, ValidateCSVHeaders([]string{"a"}, []string{"a", "b"}))
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	for i := 0; i < 20; i++ {
		username := GenerateUsernameFromChineseName(GenerateRandomChineseName())
		require.NotEmpty(t, username)
		for _, r := range username {
			assert.True(t, r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)), username)
		}
	}
}

func TestGenerateRandomHourlyRate(t *testing.T) {
	for i := 0; i < 50; i++ {
		rate := GenerateRandomHourlyRate(15, 30)
		assert.GreaterOrEqual(t, rate, 15.0)
		assert.LessOrEqual(t, rate, 30.0)
	}
	assert.Equal(t, 20.0, GenerateRandomHourlyRate(20, 10))
}

func TestGeneratedDataIsValid(t *testing.T) {
	resolver, err := calendar.LoadResolver(calendar.DefaultTimeZone)
	require.NoError(t, err)
	weekStart, err := calendar.ParseDate("2025-11-03")
	require.NoError(t, err)

	for _, a := range GenerateRandomAvailability(1) {
		assert.NoError(t, ValidateAvailability(a))
	}

	shifts := GenerateRandomWeekShifts(resolver, weekStart, []int64{1, 2, 3})
	assert.Len(t, shifts, 7*len(shiftBlocks))
	perDay := make(map[calendar.Date]map[int64]int)
	for _, s := range shifts {
		assert.True(t, s.StartTime.Before(s.EndTime))
		if s.IsOpen() {
			continue
		}
		day := resolver.LocalDate(s.StartTime)
		if perDay[day] == nil {
			perDay[day] = make(map[int64]int)
		}
		perDay[day][*s.EmployeeID]++
		assert.Equal(t, 1, perDay[day][*s.EmployeeID])
	}

	notice := GenerateRandomTimeOff(resolver, weekStart, 1)
	assert.True(t, notice.StartTime.Before(notice.EndTime))
	assert.False(t, resolver.LocalDate(notice.StartTime).Before(weekStart))
}
