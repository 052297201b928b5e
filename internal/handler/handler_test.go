package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/config"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/handler"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/testfixtures"
)

const testSecret = "test-secret"

// fakeRedis 只实现了缓存用到的几个命令，其余命令调用会 panic
type fakeRedis struct {
	redis.Cmdable

	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	default:
		f.values[key] = fmt.Sprint(v)
	}
	f.sets++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []amqp.Publishing
	keys     []string
}

func (p *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		var event struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(m.Body, &event)
		types = append(types, event.Type)
	}
	return types
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t         *testing.T
	store     *testfixtures.Store
	redis     *fakeRedis
	publisher *fakePublisher
	handler   *handler.Handler
	alice     *domain.Employee
	bob       *domain.Employee
	owner     *domain.Employee
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.CookieName = "access_token"
	cfg.Redis.OperationExpiration = 5
	cfg.Redis.WeekDataTTL = 300
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.RabbitMQ.Queue = "schedule_events"
	cfg.Schedule.DefaultStrictMode = true

	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	store := testfixtures.NewStore(clock)
	engine := scheduler.NewEngine(store, testfixtures.Resolver(t), clock.NowFunc())

	s := &server{
		t:         t,
		store:     store,
		redis:     newFakeRedis(),
		publisher: &fakePublisher{},
	}

	h, err := handler.NewHandler(cfg, engine, s.publisher, s.redis)
	require.NoError(t, err)
	h.RegisterRoutes()
	s.handler = h

	s.owner = store.AddEmployee(&domain.Employee{Username: "boss", FullName: "老板", Role: domain.RoleOwner, IsActive: true, HourlyRate: 40})
	s.alice = store.AddEmployee(&domain.Employee{Username: "alice", FullName: "Alice", Role: domain.RoleStaff, IsActive: true, HourlyRate: 20})
	s.bob = store.AddEmployee(&domain.Employee{Username: "bob", FullName: "Bob", Role: domain.RoleStaff, IsActive: true, HourlyRate: 15})
	return s
}

func (s *server) token(employee *domain.Employee) string {
	s.t.Helper()
	claims := handler.AuthClaims{
		Role: string(employee.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(employee.ID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(s.t, err)
	return signed
}

func (s *server) do(as *domain.Employee, method, path string, body any) (int, response) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if as != nil {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: s.token(as)})
	}
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	var resp response
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func (s *server) draft(employee *domain.Employee, from, to string) *domain.DraftShift {
	d := domain.ShiftDetails{
		StartTime: testfixtures.Local(s.t, from),
		EndTime:   testfixtures.Local(s.t, to),
		Location:  "前台",
	}
	if employee != nil {
		d.EmployeeID = testfixtures.Int64(employee.ID)
	}
	return s.store.AddDraft(&domain.DraftShift{ShiftDetails: d})
}

type weekPayload struct {
	Shifts    []json.RawMessage `json:"shifts"`
	Conflicts []domain.Conflict `json:"conflicts"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

const weekQuery = "/schedule?startDate=2025-11-03&endDate=2025-11-09"

func TestHealth(t *testing.T) {
	s := newServer(t)

	code, resp := s.do(nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	_, resp := s.do(nil, http.MethodGet, weekQuery, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)

	req := httptest.NewRequest(http.MethodGet, weekQuery, nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "not-a-token"})
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	var invalid response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	assert.False(t, invalid.Success)
	assert.Equal(t, "无效的令牌", invalid.Message)
}

func TestOwnerOnlyRoutes(t *testing.T) {
	s := newServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/schedule/publish"},
		{http.MethodPost, "/schedule/clear-drafts"},
		{http.MethodPost, "/schedule/open-shifts/suggest"},
		{http.MethodPost, "/shifts"},
		{http.MethodDelete, "/shifts/1"},
		{http.MethodPatch, "/time-off/1/status"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			_, resp := s.do(s.alice, route.method, route.path, map[string]any{})
			assert.False(t, resp.Success)
			assert.Equal(t, "权限不足", resp.Message)
		})
	}
}

func TestGetScheduleUsesCacheUntilWrite(t *testing.T) {
	s := newServer(t)
	s.draft(s.alice, "2025-11-04 09:00", "2025-11-04 17:00")

	_, resp := s.do(s.alice, http.MethodGet, weekQuery, nil)
	require.True(t, resp.Success, resp.Message)
	assert.Len(t, decode[weekPayload](t, resp.Data).Shifts, 1)
	assert.Equal(t, 1, s.redis.sets)

	// 绕过接口直接写入存储，缓存不会失效
	s.draft(s.bob, "2025-11-05 09:00", "2025-11-05 17:00")
	_, resp = s.do(s.alice, http.MethodGet, weekQuery, nil)
	require.True(t, resp.Success)
	assert.Len(t, decode[weekPayload](t, resp.Data).Shifts, 1)

	_, resp = s.do(s.owner, http.MethodPost, "/shifts", map[string]any{
		"employeeID": s.bob.ID,
		"startTime":  testfixtures.Local(t, "2025-11-06 09:00"),
		"endTime":    testfixtures.Local(t, "2025-11-06 13:00"),
		"location":   "前台",
	})
	require.True(t, resp.Success, resp.Message)

	_, resp = s.do(s.alice, http.MethodGet, weekQuery, nil)
	require.True(t, resp.Success)
	assert.Len(t, decode[weekPayload](t, resp.Data).Shifts, 3)
}

func TestGetSchedulePartialWeekIsNotCached(t *testing.T) {
	s := newServer(t)

	_, resp := s.do(s.alice, http.MethodGet, "/schedule?startDate=2025-11-04&endDate=2025-11-05", nil)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, 0, s.redis.sets)
}

func TestGetScheduleInvalidDate(t *testing.T) {
	s := newServer(t)

	code, resp := s.do(s.alice, http.MethodGet, "/schedule?startDate=2025-13-01&endDate=2025-11-09", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "日期无效")
}

func TestGetScheduleStoreError(t *testing.T) {
	s := newServer(t)
	s.store.Err = errors.New("connection refused")

	code, resp := s.do(s.alice, http.MethodGet, weekQuery, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "服务器内部错误", resp.Message)
}

func (s *server) seedConflictWeek() {
	s.store.AddTimeOff(&domain.TimeOffNotice{
		EmployeeID: s.alice.ID,
		StartTime:  testfixtures.Local(s.t, "2025-11-05 00:00"),
		EndTime:    testfixtures.Local(s.t, "2025-11-06 00:00"),
		Status:     domain.TimeOffStatusApproved,
		Reason:     "看病",
	})
	s.draft(s.alice, "2025-11-05 10:00", "2025-11-05 14:00")
	s.draft(s.alice, "2025-11-06 09:00", "2025-11-06 17:00")
	s.draft(s.bob, "2025-11-05 09:00", "2025-11-05 17:00")
}

func TestPublishStrictBlocked(t *testing.T) {
	s := newServer(t)
	s.seedConflictWeek()

	_, resp := s.do(s.owner, http.MethodPost, "/schedule/publish", map[string]any{
		"weekStart": "2025-11-03",
		"weekEnd":   "2025-11-09",
	})
	assert.False(t, resp.Success)
	result := decode[scheduler.PublishResult](t, resp.Data)
	assert.True(t, result.Blocked)
	assert.Zero(t, result.PublishedCount)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, s.alice.ID, result.Conflicts[0].EmployeeID)
	assert.Zero(t, s.store.PublishedCount())
	assert.Empty(t, s.publisher.eventTypes())
}

func TestPublishNonStrict(t *testing.T) {
	s := newServer(t)
	s.seedConflictWeek()

	_, resp := s.do(s.owner, http.MethodPost, "/schedule/publish", map[string]any{
		"weekStart":  "2025-11-03",
		"weekEnd":    "2025-11-09",
		"strictMode": false,
	})
	require.True(t, resp.Success, resp.Message)
	result := decode[scheduler.PublishResult](t, resp.Data)
	assert.Equal(t, 2, result.PublishedCount)
	assert.Equal(t, 2, s.store.PublishedCount())
	assert.Equal(t, []string{domain.EventSchedulePublished}, s.publisher.eventTypes())
	assert.Equal(t, []string{"schedule_events"}, s.publisher.keys)

	// 再次发布不会产生新的班次，也不会再发送事件
	_, resp = s.do(s.owner, http.MethodPost, "/schedule/publish", map[string]any{
		"weekStart":  "2025-11-03",
		"weekEnd":    "2025-11-09",
		"strictMode": false,
	})
	require.True(t, resp.Success, resp.Message)
	assert.Zero(t, decode[scheduler.PublishResult](t, resp.Data).PublishedCount)
	assert.Len(t, s.publisher.eventTypes(), 1)
}

func TestPublishValidation(t *testing.T) {
	s := newServer(t)

	_, resp := s.do(s.owner, http.MethodPost, "/schedule/publish", map[string]any{"weekEnd": "2025-11-09"})
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)

	_, resp = s.do(s.owner, http.MethodPost, "/schedule/publish", map[string]any{
		"weekStart": "2025-11-09",
		"weekEnd":   "2025-11-03",
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "日期无效")
}

func TestClearDrafts(t *testing.T) {
	s := newServer(t)
	s.seedConflictWeek()

	_, resp := s.do(s.owner, http.MethodPost, "/schedule/clear-drafts", map[string]any{
		"startDate": "2025-11-05",
		"endDate":   "2025-11-05",
	})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, map[string]int64{"clearedCount": 2}, decode[map[string]int64](t, resp.Data))
	assert.Equal(t, 1, s.store.DraftCount())
	assert.Equal(t, []string{domain.EventDraftsCleared}, s.publisher.eventTypes())
}

func TestCreateShiftConflict(t *testing.T) {
	s := newServer(t)
	s.seedConflictWeek()

	_, resp := s.do(s.owner, http.MethodPost, "/shifts", map[string]any{
		"employeeID": s.alice.ID,
		"startTime":  testfixtures.Local(t, "2025-11-05 18:00"),
		"endTime":    testfixtures.Local(t, "2025-11-05 22:00"),
		"location":   "前台",
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "Alice 在 2025-11-05 已请假（看病）", resp.Message)
	conflict := decode[domain.ConflictError](t, resp.Data)
	assert.Equal(t, s.alice.ID, conflict.EmployeeID)
	assert.Equal(t, 3, s.store.DraftCount())
}

func TestCreateShiftValidation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"缺少地点", map[string]any{
			"startTime": testfixtures.Local(t, "2025-11-05 09:00"),
			"endTime":   testfixtures.Local(t, "2025-11-05 17:00"),
		}},
		{"结束早于开始", map[string]any{
			"startTime": testfixtures.Local(t, "2025-11-05 17:00"),
			"endTime":   testfixtures.Local(t, "2025-11-05 09:00"),
			"location":  "前台",
		}},
		{"员工不存在", map[string]any{
			"employeeID": 9999,
			"startTime":  testfixtures.Local(t, "2025-11-05 09:00"),
			"endTime":    testfixtures.Local(t, "2025-11-05 17:00"),
			"location":   "前台",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(s.owner, http.MethodPost, "/shifts", tt.body)
			assert.Equal(t, http.StatusOK, code)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
	assert.Zero(t, s.store.DraftCount())
}

func TestCreateOpenShift(t *testing.T) {
	s := newServer(t)

	_, resp := s.do(s.owner, http.MethodPost, "/shifts", map[string]any{
		"startTime": testfixtures.Local(t, "2025-11-05 09:00"),
		"endTime":   testfixtures.Local(t, "2025-11-05 17:00"),
		"location":  "后厨",
	})
	require.True(t, resp.Success, resp.Message)
	var created struct {
		ID         int64  `json:"id"`
		EmployeeID *int64 `json:"employeeID"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Nil(t, created.EmployeeID)
	assert.Equal(t, "draft", created.Status)
}

func TestUpdatePublishedShiftForksDraft(t *testing.T) {
	s := newServer(t)
	published := s.store.AddPublished(&domain.PublishedShift{
		ShiftDetails: domain.ShiftDetails{
			EmployeeID: testfixtures.Int64(s.bob.ID),
			StartTime:  testfixtures.Local(t, "2025-11-07 09:00"),
			EndTime:    testfixtures.Local(t, "2025-11-07 17:00"),
			Location:   "前台",
		},
		WeekStart: testfixtures.Date(t, "2025-11-03"),
		WeekEnd:   testfixtures.Date(t, "2025-11-09"),
	})

	_, resp := s.do(s.owner, http.MethodPatch, fmt.Sprintf("/shifts/%d", published.ID), map[string]any{
		"location": "后厨",
	})
	require.True(t, resp.Success, resp.Message)
	result := decode[struct {
		Forked bool `json:"forked"`
		Shift  struct {
			ID       int64  `json:"id"`
			Location string `json:"location"`
		} `json:"shift"`
	}](t, resp.Data)
	assert.True(t, result.Forked)
	assert.Equal(t, "后厨", result.Shift.Location)
	assert.NotEqual(t, published.ID, result.Shift.ID)
	assert.Equal(t, 1, s.store.DraftCount())

	original, err := s.store.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)
	assert.Equal(t, "前台", original.Location)
}

func TestUpdateShiftRejectsAmbiguousEmployee(t *testing.T) {
	s := newServer(t)
	d := s.draft(s.alice, "2025-11-04 09:00", "2025-11-04 17:00")

	_, resp := s.do(s.owner, http.MethodPatch, fmt.Sprintf("/shifts/%d", d.ID), map[string]any{
		"employeeID":    s.bob.ID,
		"clearEmployee": true,
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "不能同时指定员工和清空员工", resp.Message)
}

func TestDeleteShift(t *testing.T) {
	s := newServer(t)
	d := s.draft(s.alice, "2025-11-04 09:00", "2025-11-04 17:00")

	_, resp := s.do(s.owner, http.MethodDelete, fmt.Sprintf("/shifts/%d", d.ID), nil)
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, map[string]domain.ShiftStatus{"status": domain.ShiftStatusDraft}, decode[map[string]domain.ShiftStatus](t, resp.Data))
	assert.Zero(t, s.store.DraftCount())

	_, resp = s.do(s.owner, http.MethodDelete, "/shifts/999", nil)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "班次不存在")

	_, resp = s.do(s.owner, http.MethodDelete, "/shifts/abc", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "班次ID无效", resp.Message)
}

func TestRequestTimeOff(t *testing.T) {
	s := newServer(t)

	_, resp := s.do(s.alice, http.MethodPost, "/time-off", map[string]any{
		"startTime": testfixtures.Local(t, "2025-11-10 00:00"),
		"endTime":   testfixtures.Local(t, "2025-11-11 00:00"),
		"reason":    "  搬家  ",
	})
	require.True(t, resp.Success, resp.Message)
	notice := decode[domain.TimeOffNotice](t, resp.Data)
	assert.Equal(t, s.alice.ID, notice.EmployeeID)
	assert.Equal(t, domain.TimeOffStatusPending, notice.Status)
	assert.Equal(t, "搬家", notice.Reason)

	// 普通员工不能替别人请假
	_, resp = s.do(s.alice, http.MethodPost, "/time-off", map[string]any{
		"employeeID": s.bob.ID,
		"startTime":  testfixtures.Local(t, "2025-11-10 00:00"),
		"endTime":    testfixtures.Local(t, "2025-11-11 00:00"),
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	_, resp = s.do(s.owner, http.MethodPost, "/time-off", map[string]any{
		"employeeID": s.bob.ID,
		"startTime":  testfixtures.Local(t, "2025-11-12 00:00"),
		"endTime":    testfixtures.Local(t, "2025-11-13 00:00"),
	})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, s.bob.ID, decode[domain.TimeOffNotice](t, resp.Data).EmployeeID)
}

func TestGetTimeOffStaffSeesOwnOnly(t *testing.T) {
	s := newServer(t)
	for _, e := range []*domain.Employee{s.alice, s.bob} {
		s.store.AddTimeOff(&domain.TimeOffNotice{
			EmployeeID: e.ID,
			StartTime:  testfixtures.Local(t, "2025-11-05 00:00"),
			EndTime:    testfixtures.Local(t, "2025-11-06 00:00"),
			Status:     domain.TimeOffStatusPending,
		})
	}

	_, resp := s.do(s.alice, http.MethodGet, "/time-off?startDate=2025-11-03&endDate=2025-11-09", nil)
	require.True(t, resp.Success, resp.Message)
	notices := decode[[]domain.TimeOffNotice](t, resp.Data)
	require.Len(t, notices, 1)
	assert.Equal(t, s.alice.ID, notices[0].EmployeeID)

	_, resp = s.do(s.owner, http.MethodGet, "/time-off?startDate=2025-11-03&endDate=2025-11-09", nil)
	require.True(t, resp.Success, resp.Message)
	assert.Len(t, decode[[]domain.TimeOffNotice](t, resp.Data), 2)
}

func TestReviewTimeOff(t *testing.T) {
	s := newServer(t)
	notice := s.store.AddTimeOff(&domain.TimeOffNotice{
		EmployeeID: s.alice.ID,
		StartTime:  testfixtures.Local(t, "2025-11-05 00:00"),
		EndTime:    testfixtures.Local(t, "2025-11-06 00:00"),
		Status:     domain.TimeOffStatusPending,
		Reason:     "看病",
	})
	path := fmt.Sprintf("/time-off/%d/status", notice.ID)

	_, resp := s.do(s.owner, http.MethodPatch, path, map[string]any{"status": "cancelled"})
	assert.False(t, resp.Success)

	_, resp = s.do(s.owner, http.MethodPatch, path, map[string]any{"status": "approved"})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, domain.TimeOffStatusApproved, decode[domain.TimeOffNotice](t, resp.Data).Status)
	assert.Equal(t, []string{domain.EventTimeOffReviewed}, s.publisher.eventTypes())

	_, resp = s.do(s.owner, http.MethodPatch, path, map[string]any{"status": "denied"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "请假状态无法变更")

	_, resp = s.do(s.owner, http.MethodPatch, "/time-off/999/status", map[string]any{"status": "approved"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "请假记录不存在")
}

func TestSuggestOpenShifts(t *testing.T) {
	s := newServer(t)
	s.draft(nil, "2025-11-04 09:00", "2025-11-04 17:00")

	_, resp := s.do(s.owner, http.MethodPost, "/schedule/open-shifts/suggest", map[string]any{
		"startDate": "2025-11-03",
		"endDate":   "2025-11-09",
		"parameters": map[string]any{
			"populationSize": 10,
			"maxGenerations": 20,
			"crossoverRate":  0.8,
			"mutationRate":   0.1,
			"eliteCount":     2,
			"fairnessWeight": 0.5,
			"seed":           42,
		},
	})
	require.True(t, resp.Success, resp.Message)
	result := decode[scheduler.SuggestResult](t, resp.Data)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, 1, result.FilledCount)
	// 建议不会修改任何班次
	d, err := s.store.LoadDrafts(context.Background(), testfixtures.Resolver(t).DayBounds(testfixtures.Date(t, "2025-11-04")))
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.True(t, d[0].IsOpen())

	_, resp = s.do(s.owner, http.MethodPost, "/schedule/open-shifts/suggest", map[string]any{
		"startDate":  "2025-11-03",
		"endDate":    "2025-11-09",
		"parameters": map[string]any{"populationSize": 1, "maxGenerations": 20},
	})
	assert.False(t, resp.Success)
}
