package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/seed"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/testfixtures"
)

func TestImportDrafts(t *testing.T) {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := testfixtures.NewStore(clock)
	engine := scheduler.NewEngine(store, testfixtures.Resolver(t), clock.NowFunc())

	alice := store.AddEmployee(&domain.Employee{Username: "alice", FullName: "Alice", Role: domain.RoleStaff, IsActive: true})
	store.AddTimeOff(&domain.TimeOffNotice{
		EmployeeID: alice.ID,
		StartTime:  testfixtures.Local(t, "2025-11-05 00:00"),
		EndTime:    testfixtures.Local(t, "2025-11-06 00:00"),
		Status:     domain.TimeOffStatusApproved,
		Reason:     "看病",
	})

	csv := strings.Join([]string{
		"用户名,日期,开始,结束,地点,岗位",
		"alice,2025-11-04,09:00,17:00,前台,收银",
		",2025-11-04,22:00,02:00,仓库,",
		"alice,2025-11-05,09:00,17:00,前台,收银",
		"carol,2025-11-05,09:00,17:00,前台,收银",
		"alice,2025-13-01,09:00,17:00,前台,收银",
		"alice,2025-11-06,9点,17:00,前台,收银",
		"alice,2025-11-07,09:00,09:00,前台,收银",
		",2025-11-07,00:00,24:00,仓库,",
	}, "\n")

	result, err := seed.ImportDrafts(context.Background(), engine, []*domain.Employee{alice}, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 5, result.Skipped)

	rng, err := testfixtures.Resolver(t).RangeBounds(testfixtures.Date(t, "2025-11-03"), testfixtures.Date(t, "2025-11-09"))
	require.NoError(t, err)
	drafts, err := store.LoadDrafts(context.Background(), rng)
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, alice.ID, *drafts[0].EmployeeID)
	assert.Equal(t, testfixtures.Local(t, "2025-11-04 09:00"), drafts[0].StartTime)
	require.NotNil(t, drafts[0].Role)
	assert.Equal(t, "收银", *drafts[0].Role)

	// 跨午夜的空缺班次
	assert.True(t, drafts[1].IsOpen())
	assert.Equal(t, testfixtures.Local(t, "2025-11-05 02:00"), drafts[1].EndTime)
	assert.Nil(t, drafts[1].Role)

	// 开始和结束时刻相同的行被跳过，00:00 到 24:00 是完整的一天
	assert.Equal(t, testfixtures.Local(t, "2025-11-07 00:00"), drafts[2].StartTime)
	assert.Equal(t, testfixtures.Local(t, "2025-11-08 00:00"), drafts[2].EndTime)
}

func TestImportDraftsMissingColumn(t *testing.T) {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := testfixtures.NewStore(clock)
	engine := scheduler.NewEngine(store, testfixtures.Resolver(t), clock.NowFunc())

	_, err := seed.ImportDrafts(context.Background(), engine, nil, strings.NewReader("用户名,日期,开始,结束\nalice,2025-11-04,09:00,17:00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "地点")
	assert.Zero(t, store.DraftCount())
}
