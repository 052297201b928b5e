package scheduler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
)

func suggestParams() scheduler.Parameters {
	params := scheduler.DefaultParameters()
	params.Seed = 42
	return params
}

func TestSuggestRespectsTimeOffAndAvailability(t *testing.T) {
	f := newFixture(t)
	carol := f.store.AddEmployee(&domain.Employee{Username: "carol", FullName: "Carol", IsActive: true})
	f.timeOff(f.alice, "2025-11-05 00:00", "2025-11-06 00:00", domain.TimeOffStatusApproved, "看病")
	// Carol 周三只有上午有空
	f.store.AddAvailability(&domain.Availability{EmployeeID: carol.ID, DayOfWeek: 2, StartTime: "06:00", EndTime: "12:00", IsAvailable: true})
	open := f.draft(nil, "2025-11-05 13:00", "2025-11-05 17:00")

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	suggestion := result.Suggestions[0]
	assert.Equal(t, open.ID, suggestion.ShiftID)
	require.NotNil(t, suggestion.EmployeeID)
	assert.Equal(t, f.bob.ID, *suggestion.EmployeeID)
	assert.Equal(t, "Bob", suggestion.EmployeeName)
	assert.Equal(t, 1, suggestion.CandidateCount)
	assert.Equal(t, 1, result.FilledCount)
	assert.Equal(t, 4.0, result.WeeklyHours[f.bob.ID])

	// 只给出建议，不写回草稿
	stored, err := f.store.GetDraft(context.Background(), open.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen())
}

func TestSuggestAvoidsOverlapWithExistingShifts(t *testing.T) {
	f := newFixture(t)
	f.draft(f.alice, "2025-11-04 08:00", "2025-11-04 12:00")
	f.store.AddPublished(&domain.PublishedShift{ShiftDetails: f.details(f.bob, "2025-11-04 11:00", "2025-11-04 15:00")})
	f.draft(nil, "2025-11-04 10:00", "2025-11-04 14:00")

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	assert.Nil(t, result.Suggestions[0].EmployeeID)
	assert.Equal(t, 0, result.Suggestions[0].CandidateCount)
	assert.Equal(t, 1, result.UnfilledCount)
}

func TestSuggestBalancesWeeklyHours(t *testing.T) {
	f := newFixture(t)
	f.draft(f.alice, "2025-11-03 09:00", "2025-11-03 17:00")
	f.draft(nil, "2025-11-04 09:00", "2025-11-04 13:00")
	f.draft(nil, "2025-11-05 09:00", "2025-11-05 13:00")

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 2)
	for _, s := range result.Suggestions {
		require.NotNil(t, s.EmployeeID)
		assert.Equal(t, f.bob.ID, *s.EmployeeID)
	}
	assert.Equal(t, 8.0, result.WeeklyHours[f.alice.ID])
	assert.Equal(t, 8.0, result.WeeklyHours[f.bob.ID])
}

func TestSuggestCountsPublishedDraftOnce(t *testing.T) {
	f := newFixture(t)
	f.draft(f.alice, "2025-11-03 09:00", "2025-11-03 17:00")
	_, err := f.engine.Publish(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), true)
	require.NoError(t, err)
	f.draft(nil, "2025-11-04 09:00", "2025-11-04 13:00")

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 1)
	require.NotNil(t, result.Suggestions[0].EmployeeID)
	assert.Equal(t, f.bob.ID, *result.Suggestions[0].EmployeeID)
	assert.Equal(t, 8.0, result.WeeklyHours[f.alice.ID])
	assert.Equal(t, 4.0, result.WeeklyHours[f.bob.ID])
}

func TestSuggestNeverDoubleBooks(t *testing.T) {
	f := newFixture(t)
	f.store.AddEmployee(&domain.Employee{Username: "inactive", FullName: "Inactive", IsActive: false})
	// 三个同时段的空缺班次，只有两个在职员工
	for i := 0; i < 3; i++ {
		f.draft(nil, "2025-11-06 09:00", "2025-11-06 17:00")
	}

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)

	assigned := make(map[int64]int)
	for _, s := range result.Suggestions {
		if s.EmployeeID != nil {
			assigned[*s.EmployeeID]++
		}
	}
	assert.Equal(t, 2, result.FilledCount)
	assert.Equal(t, 1, result.UnfilledCount)
	assert.Equal(t, map[int64]int{f.alice.ID: 1, f.bob.ID: 1}, assigned)
}

func TestSuggestWithoutOpenShifts(t *testing.T) {
	f := newFixture(t)
	f.draft(f.alice, "2025-11-04 09:00", "2025-11-04 17:00")

	result, err := scheduler.NewSuggester(f.engine).Suggest(context.Background(), f.date("2025-11-03"), f.date("2025-11-09"), suggestParams())
	require.NoError(t, err)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 8.0, result.WeeklyHours[f.alice.ID])
}
