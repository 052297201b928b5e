package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// Engine 负责草稿/已发布两层班次的维护以及一周排班的发布。
// 引擎本身不保存状态，并发控制完全交给外部存储。
type Engine struct {
	store    Store
	resolver *calendar.Resolver
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewEngine(store Store, resolver *calendar.Resolver, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:    store,
		resolver: resolver,
		now:      now,
		newID:    uuid.New,
	}
}

func (e *Engine) Resolver() *calendar.Resolver {
	return e.resolver
}

type PublishResult struct {
	PublicationID  uuid.UUID                `json:"publicationID"`
	PublishedCount int                      `json:"publishedCount"`
	SkippedCount   int                      `json:"skippedCount"`
	Blocked        bool                     `json:"blocked"` // 严格模式下因冲突而未发布
	Conflicts      []domain.Conflict        `json:"conflicts"`
	Published      []*domain.PublishedShift `json:"published"`
}

// dedupKey 标识一条已发布的排班：同一员工同一开始时刻只能发布一次。
// 空缺班次没有员工，再加上地点区分，避免同一时刻不同地点的空缺班次被误判为重复。
type dedupKey struct {
	employeeID int64
	open       bool
	start      int64
	location   string
}

func keyOf(d domain.ShiftDetails) dedupKey {
	if d.IsOpen() {
		return dedupKey{open: true, start: d.StartTime.UnixNano(), location: d.Location}
	}
	return dedupKey{employeeID: *d.EmployeeID, start: d.StartTime.UnixNano()}
}

func draftsAsShifts(drafts []*domain.DraftShift) []domain.Shift {
	shifts := make([]domain.Shift, len(drafts))
	for i, d := range drafts {
		shifts[i] = d
	}
	return shifts
}

// mergeShifts 合并草稿和已发布的班次，按开始时刻排序。
// 已发布的班次优先：来源草稿仍在，或与已发布班次 (员工, 开始时刻) 相同的草稿不再单独列出，
// 这样同一个排班只计一次工时；这些草稿再次发布时也会被去重跳过。
func mergeShifts(drafts []*domain.DraftShift, published []*domain.PublishedShift) []domain.Shift {
	shifts := make([]domain.Shift, 0, len(drafts)+len(published))
	sources := make(map[int64]bool, len(published))
	keys := make(map[dedupKey]bool, len(published))
	for _, p := range published {
		if p.SourceDraftID != nil {
			sources[*p.SourceDraftID] = true
		}
		keys[keyOf(p.ShiftDetails)] = true
		shifts = append(shifts, p)
	}
	for _, d := range drafts {
		if sources[d.ID] || keys[keyOf(d.ShiftDetails)] {
			continue
		}
		shifts = append(shifts, d)
	}
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].Details().StartTime.Before(shifts[j].Details().StartTime)
	})
	return shifts
}

func assignedEmployeeIDs(shifts []domain.Shift) []int64 {
	ids := make([]int64, 0)
	for _, s := range shifts {
		if d := s.Details(); !d.IsOpen() && !slices.Contains(ids, *d.EmployeeID) {
			ids = append(ids, *d.EmployeeID)
		}
	}
	return ids
}

// Publish 把 [weekStart, weekEnd] 中的草稿复制到已发布的集合中，草稿本身不会被删除。
//
// 严格模式下只要存在冲突就整体放弃，不写入任何一行；非严格模式下只发布没有冲突的草稿。
// 已经发布过的 (员工, 开始时刻) 会被跳过，因此对同一组草稿重复发布不会产生重复的行。
func (e *Engine) Publish(ctx context.Context, weekStart, weekEnd calendar.Date, strict bool) (*PublishResult, error) {
	rng, err := e.resolver.RangeBounds(weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Conflicts: make([]domain.Conflict, 0),
		Published: make([]*domain.PublishedShift, 0),
	}

	drafts, err := e.store.LoadDrafts(ctx, rng)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return result, nil
	}

	// 检测冲突
	timeOffs, err := e.store.LoadTimeOff(ctx, rng)
	if err != nil {
		return nil, err
	}
	shifts := draftsAsShifts(drafts)
	employees, err := e.store.LoadEmployees(ctx, domain.EmployeeFilter{IDs: assignedEmployeeIDs(shifts)})
	if err != nil {
		return nil, err
	}
	conflicts, err := FindConflicts(e.resolver, shifts, timeOffs, employees)
	if err != nil {
		return nil, err
	}
	result.Conflicts = conflicts

	if strict && len(conflicts) > 0 {
		result.Blocked = true
		return result, nil
	}

	conflicted := make(map[int64]bool, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.ShiftID] = true
	}

	// 与已发布的班次去重
	published, err := e.store.LoadPublished(ctx, rng)
	if err != nil {
		return nil, err
	}
	seen := make(map[dedupKey]bool, len(published))
	for _, p := range published {
		seen[keyOf(p.ShiftDetails)] = true
	}

	result.PublicationID = e.newID()
	publishedAt := e.now().UTC()

	rows := make([]*domain.PublishedShift, 0, len(drafts))
	for _, draft := range drafts {
		if conflicted[draft.ID] {
			continue
		}
		key := keyOf(draft.ShiftDetails)
		if seen[key] {
			result.SkippedCount++
			continue
		}
		seen[key] = true

		sourceID := draft.ID
		rows = append(rows, &domain.PublishedShift{
			ShiftDetails:  draft.ShiftDetails,
			WeekStart:     weekStart,
			WeekEnd:       weekEnd,
			PublishedAt:   publishedAt,
			PublicationID: result.PublicationID,
			SourceDraftID: &sourceID,
		})
	}

	if len(rows) == 0 {
		return result, nil
	}

	inserted, err := e.store.InsertPublished(ctx, rows)
	if err != nil {
		return nil, err
	}

	// 并发发布时另一方可能已经写入了相同的行，这些行被唯一约束拦下，算作跳过
	result.Published = inserted
	result.PublishedCount = len(inserted)
	result.SkippedCount += len(rows) - len(inserted)

	return result, nil
}

// ClearDrafts 删除范围内的所有草稿，不影响已发布的班次
func (e *Engine) ClearDrafts(ctx context.Context, start, end calendar.Date) (int64, error) {
	rng, err := e.resolver.RangeBounds(start, end)
	if err != nil {
		return 0, err
	}
	return e.store.DeleteDraftsInRange(ctx, rng)
}

// DeleteShift 先尝试删除草稿，找不到再尝试删除已发布的班次，返回被删除的班次所在的集合
func (e *Engine) DeleteShift(ctx context.Context, id int64) (domain.ShiftStatus, error) {
	deleted, err := e.store.DeleteDraft(ctx, id)
	if err != nil {
		return "", err
	}
	if deleted {
		return domain.ShiftStatusDraft, nil
	}

	deleted, err = e.store.DeletePublished(ctx, id)
	if err != nil {
		return "", err
	}
	if deleted {
		return domain.ShiftStatusPublished, nil
	}

	return "", fmt.Errorf("%w: %d", domain.ErrShiftNotFound, id)
}

func validateDetails(d domain.ShiftDetails) error {
	if d.StartTime.IsZero() {
		return fmt.Errorf("%w: 缺少开始时间", domain.ErrInvalidShift)
	}
	if d.EndTime.IsZero() {
		return fmt.Errorf("%w: 缺少结束时间", domain.ErrInvalidShift)
	}
	if !d.StartTime.Before(d.EndTime) {
		return fmt.Errorf("%w: 结束时间必须晚于开始时间", domain.ErrInvalidShift)
	}
	if strings.TrimSpace(d.Location) == "" {
		return fmt.Errorf("%w: 缺少地点", domain.ErrInvalidShift)
	}
	if d.EmployeeID != nil && *d.EmployeeID <= 0 {
		return fmt.Errorf("%w: 员工 ID 无效", domain.ErrInvalidShift)
	}
	return nil
}

// checkAssignment 检查班次分配的员工是否存在、是否在职以及当天是否请假
func (e *Engine) checkAssignment(ctx context.Context, d domain.ShiftDetails) error {
	if d.IsOpen() {
		return nil
	}

	employees, err := e.store.LoadEmployees(ctx, domain.EmployeeFilter{IDs: []int64{*d.EmployeeID}})
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return fmt.Errorf("%w: 员工 %d 不存在", domain.ErrInvalidShift, *d.EmployeeID)
	}
	employee := employees[0]
	if !employee.IsActive {
		return fmt.Errorf("%w: %s 已离职", domain.ErrInvalidShift, employee.FullName)
	}

	day := e.resolver.LocalDate(d.StartTime)
	timeOffs, err := e.store.LoadTimeOff(ctx, e.resolver.DayBounds(day))
	if err != nil {
		return err
	}

	if conflict := CheckAssignment(e.resolver, d, employee, timeOffs); conflict != nil {
		return conflict
	}
	return nil
}

func normalize(d domain.ShiftDetails) domain.ShiftDetails {
	d.StartTime = d.StartTime.UTC()
	d.EndTime = d.EndTime.UTC()
	d.Location = strings.TrimSpace(d.Location)
	return d
}

// CreateShift 创建一个草稿班次
func (e *Engine) CreateShift(ctx context.Context, details domain.ShiftDetails) (*domain.DraftShift, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	details = normalize(details)
	if err := e.checkAssignment(ctx, details); err != nil {
		return nil, err
	}

	draft := &domain.DraftShift{ShiftDetails: details}
	if err := e.store.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

type UpdateResult struct {
	Shift  *domain.DraftShift `json:"shift"`
	Forked bool               `json:"forked"` // 为 true 时表示从已发布的班次派生出了新的草稿
}

// UpdateShift 修改草稿班次。如果 id 只存在于已发布的集合中，则交给 ForkFromPublished 处理，
// 已发布的班次本身不会被修改。
func (e *Engine) UpdateShift(ctx context.Context, id int64, patch domain.ShiftPatch) (*UpdateResult, error) {
	draft, err := e.store.GetDraft(ctx, id)
	switch {
	case err == nil:
		updated, err := e.updateDraft(ctx, draft, patch)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{Shift: updated}, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	published, err := e.store.GetPublished(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrShiftNotFound, id)
		}
		return nil, err
	}

	forked, err := e.ForkFromPublished(ctx, published, patch)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Shift: forked, Forked: true}, nil
}

func (e *Engine) updateDraft(ctx context.Context, draft *domain.DraftShift, patch domain.ShiftPatch) (*domain.DraftShift, error) {
	details := patch.Apply(draft.ShiftDetails)
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	details = normalize(details)
	if err := e.checkAssignment(ctx, details); err != nil {
		return nil, err
	}

	draft.ShiftDetails = details
	if err := e.store.UpdateDraft(ctx, draft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 版本号不匹配，说明在读取之后有人修改或删除了这个草稿
			return nil, domain.ErrShiftModified
		}
		return nil, err
	}
	return draft, nil
}

// ForkFromPublished 以已发布的班次为底稿加上修改生成一个新的草稿，已发布的班次保持不变
func (e *Engine) ForkFromPublished(ctx context.Context, published *domain.PublishedShift, patch domain.ShiftPatch) (*domain.DraftShift, error) {
	details := patch.Apply(published.ShiftDetails)
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	details = normalize(details)
	if err := e.checkAssignment(ctx, details); err != nil {
		return nil, err
	}

	draft := &domain.DraftShift{ShiftDetails: details}
	if err := e.store.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}
