package testfixtures

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// Store 是排班存储的内存实现，行为与数据库适配器保持一致：
// 查不到时返回 sql.ErrNoRows，版本号不匹配的更新也返回 sql.ErrNoRows，
// 已发布班次在 (员工, 开始时刻) 上唯一。
type Store struct {
	mu sync.Mutex

	now          func() time.Time
	nextID       int64
	drafts       map[int64]*domain.DraftShift
	published    map[int64]*domain.PublishedShift
	timeOffs     map[int64]*domain.TimeOffNotice
	employees    []*domain.Employee
	availability []*domain.Availability

	// 不为 nil 时所有操作都返回该错误
	Err error
	// InsertPublishedCalls 记录 InsertPublished 被调用的次数
	InsertPublishedCalls int
}

func NewStore(clock *Clock) *Store {
	return &Store{
		now:       clock.NowFunc(),
		nextID:    100,
		drafts:    make(map[int64]*domain.DraftShift),
		published: make(map[int64]*domain.PublishedShift),
		timeOffs:  make(map[int64]*domain.TimeOffNotice),
	}
}

// 所有记录共用一个计数器，与数据库中草稿和已发布班次共用 shift_id_seq 一致
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func copyDraft(d *domain.DraftShift) *domain.DraftShift {
	c := *d
	return &c
}

func copyPublished(p *domain.PublishedShift) *domain.PublishedShift {
	c := *p
	return &c
}

func copyTimeOff(n *domain.TimeOffNotice) *domain.TimeOffNotice {
	c := *n
	return &c
}

// AddEmployee 写入员工目录
func (s *Store) AddEmployee(e *domain.Employee) *domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.employees = append(s.employees, e)
	return e
}

func (s *Store) AddAvailability(a *domain.Availability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.availability = append(s.availability, a)
}

// AddTimeOff 直接写入一条请假，不经过审批流程
func (s *Store) AddTimeOff(n *domain.TimeOffNotice) *domain.TimeOffNotice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	n.Version = 1
	s.timeOffs[n.ID] = copyTimeOff(n)
	return n
}

// AddDraft 直接写入一条草稿，不做任何校验
func (s *Store) AddDraft(d *domain.DraftShift) *domain.DraftShift {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	d.Version = 1
	d.CreatedAt = s.now()
	s.drafts[d.ID] = copyDraft(d)
	return d
}

func (s *Store) AddPublished(p *domain.PublishedShift) *domain.PublishedShift {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.published[p.ID] = copyPublished(p)
	return p
}

func (s *Store) DraftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func (s *Store) PublishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func (s *Store) LoadDrafts(ctx context.Context, rng calendar.Range) ([]*domain.DraftShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := make([]*domain.DraftShift, 0)
	for _, d := range s.drafts {
		if rng.Contains(d.StartTime) {
			result = append(result, copyDraft(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) LoadPublished(ctx context.Context, rng calendar.Range) ([]*domain.PublishedShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := make([]*domain.PublishedShift, 0)
	for _, p := range s.published {
		if rng.Contains(p.StartTime) {
			result = append(result, copyPublished(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) LoadTimeOff(ctx context.Context, rng calendar.Range) ([]*domain.TimeOffNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := make([]*domain.TimeOffNotice, 0)
	for _, n := range s.timeOffs {
		if rng.Overlaps(n.StartTime, n.EndTime) {
			result = append(result, copyTimeOff(n))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) LoadEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := make([]*domain.Employee, 0)
	for _, e := range s.employees {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, e.ID) {
			continue
		}
		c := *e
		result = append(result, &c)
	}
	return result, nil
}

func (s *Store) LoadAvailability(ctx context.Context, employeeIDs []int64) ([]*domain.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	result := make([]*domain.Availability, 0)
	for _, a := range s.availability {
		if slices.Contains(employeeIDs, a.EmployeeID) {
			c := *a
			result = append(result, &c)
		}
	}
	return result, nil
}

func (s *Store) GetDraft(ctx context.Context, id int64) (*domain.DraftShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	d, ok := s.drafts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyDraft(d), nil
}

func (s *Store) CreateDraft(ctx context.Context, shift *domain.DraftShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	shift.ID = s.id()
	shift.Version = 1
	shift.CreatedAt = s.now()
	s.drafts[shift.ID] = copyDraft(shift)
	return nil
}

func (s *Store) UpdateDraft(ctx context.Context, shift *domain.DraftShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.drafts[shift.ID]
	if !ok || existing.Version != shift.Version {
		return sql.ErrNoRows
	}
	shift.Version++
	s.drafts[shift.ID] = copyDraft(shift)
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	if _, ok := s.drafts[id]; !ok {
		return false, nil
	}
	delete(s.drafts, id)
	return true, nil
}

func (s *Store) DeleteDraftsInRange(ctx context.Context, rng calendar.Range) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	var count int64
	for id, d := range s.drafts {
		if rng.Contains(d.StartTime) {
			delete(s.drafts, id)
			count++
		}
	}
	return count, nil
}

func (s *Store) GetPublished(ctx context.Context, id int64) (*domain.PublishedShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	p, ok := s.published[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyPublished(p), nil
}

func (s *Store) DeletePublished(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	if _, ok := s.published[id]; !ok {
		return false, nil
	}
	delete(s.published, id)
	return true, nil
}

// InsertPublished 模拟 ON CONFLICT DO NOTHING：与已有行 (员工, 开始时刻) 相同的行被跳过，
// 空缺班次的员工为 NULL，不受唯一约束限制
func (s *Store) InsertPublished(ctx context.Context, shifts []*domain.PublishedShift) ([]*domain.PublishedShift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InsertPublishedCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	inserted := make([]*domain.PublishedShift, 0, len(shifts))
	for _, shift := range shifts {
		if !shift.IsOpen() && s.publishedExists(*shift.EmployeeID, shift.StartTime) {
			continue
		}
		shift.ID = s.id()
		s.published[shift.ID] = copyPublished(shift)
		inserted = append(inserted, shift)
	}
	return inserted, nil
}

func (s *Store) publishedExists(employeeID int64, start time.Time) bool {
	for _, p := range s.published {
		if !p.IsOpen() && *p.EmployeeID == employeeID && p.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

func (s *Store) CreateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	notice.ID = s.id()
	notice.Version = 1
	notice.CreatedAt = s.now()
	s.timeOffs[notice.ID] = copyTimeOff(notice)
	return nil
}

func (s *Store) GetTimeOff(ctx context.Context, id int64) (*domain.TimeOffNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	n, ok := s.timeOffs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyTimeOff(n), nil
}

func (s *Store) UpdateTimeOff(ctx context.Context, notice *domain.TimeOffNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.timeOffs[notice.ID]
	if !ok || existing.Version != notice.Version {
		return sql.ErrNoRows
	}
	notice.Version++
	s.timeOffs[notice.ID] = copyTimeOff(notice)
	return nil
}
