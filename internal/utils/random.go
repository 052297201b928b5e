package utils

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 取每个字拼音的前若干个字母，再加上 1~3 位数字
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomEmployee() *domain.Employee {
	fullName := GenerateRandomChineseName()
	return &domain.Employee{
		Username: GenerateUsernameFromChineseName(fullName),
		FullName: fullName,
		Role:     domain.RoleStaff,
		IsActive: true,
	}
}

// GenerateRandomHourlyRate 返回 [min, max] 之间保留两位小数的时薪
func GenerateRandomHourlyRate(min, max float64) float64 {
	if max <= min {
		return min
	}
	return math.Round((min+rand.Float64()*(max-min))*100) / 100
}

// 门店的固定班段，结束时间为 24:00 表示营业到午夜
var shiftBlocks = []struct {
	startHour, endHour int
}{
	{7, 11},
	{11, 15},
	{15, 19},
	{19, 24},
}

var locations = []string{"前台", "后厨", "仓库"}
var roles = []string{"收银", "厨师", "理货"}

// GenerateRandomAvailability 为员工随机生成每周的可用时间：
// 大约一半的天不做限制，其余的天随机给出一个可上班时段或一个不可上班时段
func GenerateRandomAvailability(employeeID int64) []*domain.Availability {
	records := make([]*domain.Availability, 0)
	for day := 0; day < 7; day++ {
		if rand.Intn(2) == 0 {
			continue
		}

		block := shiftBlocks[rand.Intn(len(shiftBlocks))]
		records = append(records, &domain.Availability{
			EmployeeID:  employeeID,
			DayOfWeek:   day,
			StartTime:   fmt.Sprintf("%02d:00", block.startHour),
			EndTime:     fmt.Sprintf("%02d:00", block.endHour),
			IsAvailable: rand.Intn(3) != 0,
		})
	}
	return records
}

// GenerateRandomWeekShifts 为一周的每天每个班段生成一个草稿班次，
// 大约五分之一的班次是空缺班次；同一员工同一天最多被安排一次
func GenerateRandomWeekShifts(resolver *calendar.Resolver, weekStart calendar.Date, employeeIDs []int64) []domain.ShiftDetails {
	shifts := make([]domain.ShiftDetails, 0)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDays(i)
		used := make(map[int64]bool)

		for _, block := range shiftBlocks {
			k := rand.Intn(len(locations))
			role := roles[k]
			details := domain.ShiftDetails{
				StartTime: resolver.At(day, block.startHour, 0),
				EndTime:   resolver.At(day, block.endHour, 0),
				Location:  locations[k],
				Role:      &role,
			}

			if len(employeeIDs) > 0 && rand.Intn(5) != 0 {
				id := employeeIDs[rand.Intn(len(employeeIDs))]
				if !used[id] {
					used[id] = true
					details.EmployeeID = &id
				}
			}

			shifts = append(shifts, details)
		}
	}
	return shifts
}

var timeOffReasons = []string{"看病", "家中有事", "考试", "回老家", "参加婚礼"}

// GenerateRandomTimeOff 在 weekStart 所在的周内随机生成一条 1~2 天的整天请假，状态随机
func GenerateRandomTimeOff(resolver *calendar.Resolver, weekStart calendar.Date, employeeID int64) *domain.TimeOffNotice {
	first := weekStart.AddDays(rand.Intn(7))
	last := first.AddDays(rand.Intn(2))

	statuses := []domain.TimeOffStatus{domain.TimeOffStatusPending, domain.TimeOffStatusApproved, domain.TimeOffStatusDenied}
	return &domain.TimeOffNotice{
		EmployeeID: employeeID,
		StartTime:  resolver.DayBounds(first).Start,
		EndTime:    resolver.DayBounds(last).End,
		Status:     statuses[rand.Intn(len(statuses))],
		Reason:     timeOffReasons[rand.Intn(len(timeOffReasons))],
	}
}
