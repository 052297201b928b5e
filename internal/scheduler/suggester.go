package scheduler

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

type slot struct {
	shift      *domain.DraftShift
	candidates []int64
}

// search 保存一次遗传搜索所需的全部输入
type search struct {
	params      Parameters
	rng         *rand.Rand
	slots       []*slot
	employeeIDs []int64           // 参与公平性计算的在职员工
	baseHours   map[int64]float64 // 现有班次的工时
}

type Suggestion struct {
	ShiftID        int64     `json:"shiftID"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Location       string    `json:"location"`
	Role           *string   `json:"role"`
	EmployeeID     *int64    `json:"employeeID"` // 没有合适人选时为 nil
	EmployeeName   string    `json:"employeeName"`
	CandidateCount int       `json:"candidateCount"`
}

type SuggestResult struct {
	Suggestions   []Suggestion      `json:"suggestions"`
	FilledCount   int               `json:"filledCount"`
	UnfilledCount int               `json:"unfilledCount"`
	WeeklyHours   map[int64]float64 `json:"weeklyHours"` // 采纳全部建议之后的工时
}

// Suggester 为范围内的空缺草稿班次推荐员工。
// 推荐结果只是建议，不会写回存储。
type Suggester struct {
	engine *Engine
}

func NewSuggester(engine *Engine) *Suggester {
	return &Suggester{engine: engine}
}

// Suggest 候选人需满足：当天没有请假、可用时间允许、与本人已有的班次不重叠。
// 在此基础上用遗传算法在覆盖率和工时公平性之间做权衡。
func (sg *Suggester) Suggest(ctx context.Context, start, end calendar.Date, params Parameters) (*SuggestResult, error) {
	e := sg.engine
	rng, err := e.resolver.RangeBounds(start, end)
	if err != nil {
		return nil, err
	}

	drafts, err := e.store.LoadDrafts(ctx, rng)
	if err != nil {
		return nil, err
	}
	published, err := e.store.LoadPublished(ctx, rng)
	if err != nil {
		return nil, err
	}
	timeOffs, err := e.store.LoadTimeOff(ctx, rng)
	if err != nil {
		return nil, err
	}
	employees, err := e.store.LoadEmployees(ctx, domain.EmployeeFilter{ActiveOnly: true, AsOf: rng.End})
	if err != nil {
		return nil, err
	}
	employeeIDs := make([]int64, len(employees))
	for i, emp := range employees {
		employeeIDs[i] = emp.ID
	}
	availability, err := e.store.LoadAvailability(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	existing := mergeShifts(drafts, published)

	busy := make(map[int64][]domain.ShiftDetails)
	for _, shift := range existing {
		if d := shift.Details(); !d.IsOpen() {
			busy[*d.EmployeeID] = append(busy[*d.EmployeeID], d)
		}
	}

	blocked := blockedDays(e.resolver, timeOffs)
	availByDay := IndexAvailabilityByDay(availability)

	s := &search{
		params:      params,
		slots:       make([]*slot, 0),
		employeeIDs: employeeIDs,
		baseHours:   WeeklyHours(existing),
	}

	for _, draft := range drafts {
		if !draft.IsOpen() {
			continue
		}

		day := e.resolver.LocalDate(draft.StartTime)
		weekday := day.DaysSince(day.Monday())
		local := draft.StartTime.In(e.resolver.Location())
		startMin := local.Hour()*60 + local.Minute()
		endMin := startMin + int(math.Ceil(draft.EndTime.Sub(draft.StartTime).Minutes()))

		candidates := make([]int64, 0)
		for _, id := range employeeIDs {
			if _, ok := blocked[employeeDay{employeeID: id, date: day}]; ok {
				continue
			}
			if !availableFor(availByDay[id][weekday], startMin, endMin) {
				continue
			}
			free := true
			for _, d := range busy[id] {
				if overlaps(d.StartTime, d.EndTime, draft.StartTime, draft.EndTime) {
					free = false
					break
				}
			}
			if free {
				candidates = append(candidates, id)
			}
		}

		s.slots = append(s.slots, &slot{shift: draft, candidates: candidates})
	}

	result := &SuggestResult{
		Suggestions: make([]Suggestion, 0, len(s.slots)),
		WeeklyHours: s.baseHours,
	}
	if len(s.slots) == 0 {
		return result, nil
	}

	seed := params.Seed
	if seed == 0 {
		seed = e.now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))

	best := s.run()
	s.repair(best)

	names := employeeNames(employees)
	hours := make(map[int64]float64, len(s.baseHours))
	for id, h := range s.baseHours {
		hours[id] = h
	}

	for i, gene := range best.genes {
		sl := s.slots[i]
		suggestion := Suggestion{
			ShiftID:        sl.shift.ID,
			StartTime:      sl.shift.StartTime,
			EndTime:        sl.shift.EndTime,
			Location:       sl.shift.Location,
			Role:           sl.shift.Role,
			EmployeeID:     gene.employeeID,
			CandidateCount: len(sl.candidates),
		}
		if gene.employeeID != nil {
			suggestion.EmployeeName = nameOf(names, *gene.employeeID)
			hours[*gene.employeeID] += gene.hours
			result.FilledCount++
		} else {
			result.UnfilledCount++
		}
		result.Suggestions = append(result.Suggestions, suggestion)
	}
	result.WeeklyHours = hours

	return result, nil
}

// run 执行遗传算法，返回历代最优的染色体
func (s *search) run() *Chromosome {
	size := max(int(s.params.PopulationSize), 2)
	elite := min(max(int(s.params.EliteCount), 0), size)

	// 生成初始种群
	pop := make([]*Chromosome, size)
	for i := 0; i < size; i++ {
		pop[i] = s.randomInitChromosome()
		s.calcFitness(pop[i])
	}

	best := &Chromosome{fitness: -math.MaxFloat64}

	for gen := 0; gen < int(s.params.MaxGenerations); gen++ {
		// 保留精英
		sort.SliceStable(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})
		if pop[0].fitness > best.fitness {
			// 后续繁殖会修改基因，这里必须深拷贝
			best = pop[0].clone()
		}

		newPop := make([]*Chromosome, 0, size)
		newPop = append(newPop, pop[:elite]...)

		for len(newPop) < size {
			// 父本可能是精英，也可能是同一个染色体，先拷贝再交叉变异
			p1 := s.selectByRoulette(pop).clone()
			p2 := s.selectByRoulette(pop).clone()

			if s.rng.Float64() < s.params.CrossoverRate {
				s.singlePointCrossover(p1, p2)
			}

			s.mutate(p1)
			s.mutate(p2)
			s.calcFitness(p1)
			s.calcFitness(p2)

			newPop = append(newPop, p1)
			if len(newPop) < size {
				newPop = append(newPop, p2)
			}
		}

		pop = newPop
	}

	for _, ch := range pop {
		if ch.fitness > best.fitness {
			best = ch.clone()
		}
	}
	return best
}

// repair 按班次顺序撤销会让同一员工时间重叠的分配
func (s *search) repair(ch *Chromosome) {
	assigned := make(map[int64][]*domain.DraftShift)
	for i, gene := range ch.genes {
		if gene.employeeID == nil {
			continue
		}
		shift := s.slots[i].shift
		for _, other := range assigned[*gene.employeeID] {
			if overlaps(other.StartTime, other.EndTime, shift.StartTime, shift.EndTime) {
				gene.employeeID = nil
				break
			}
		}
		if gene.employeeID != nil {
			assigned[*gene.employeeID] = append(assigned[*gene.employeeID], shift)
		}
	}
	s.calcFitness(ch)
}
