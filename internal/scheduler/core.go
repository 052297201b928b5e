package scheduler

import (
	"math"
)

// 同一员工被分配到两个时间重叠的班次时的惩罚，远大于空缺惩罚
const overlapPenaltyWeight = 10.0

// randomInitChromosome 随机初始化一个染色体，有候选人的班次一定会分配一个人
func (s *search) randomInitChromosome() *Chromosome {
	genes := make([]*Gene, 0, len(s.slots))

	for _, sl := range s.slots {
		var employeeID *int64 = nil
		if len(sl.candidates) > 0 {
			employeeID = &sl.candidates[s.rng.Intn(len(sl.candidates))]
		}

		genes = append(genes, &Gene{
			shiftID:    sl.shift.ID,
			employeeID: employeeID,
			hours:      sl.shift.Hours(),
		})
	}

	return &Chromosome{
		genes: genes,
	}
}

/**
 * 计算染色体的适应度
 * fitness = - unfilledPenalty - overlapPenaltyWeight * overlapPenalty - FairnessWeight * fairnessPenalty
 * 其中:
 * 		1. unfilledPenalty 为仍然空缺的班次数量
 * 		2. overlapPenalty 为同一员工时间重叠的班次对数
 * 		3. fairnessPenalty 为所有在职员工本周工时的方差（已有班次的工时也计入）
 */
func (s *search) calcFitness(ch *Chromosome) {
	hours := make(map[int64]float64, len(s.employeeIDs))
	for _, id := range s.employeeIDs {
		hours[id] = s.baseHours[id]
	}

	unfilledPenalty := 0.0
	overlapPenalty := 0.0

	for i, gene := range ch.genes {
		if gene.employeeID == nil {
			unfilledPenalty += 1
			continue
		}
		hours[*gene.employeeID] += gene.hours

		for j := i + 1; j < len(ch.genes); j++ {
			other := ch.genes[j]
			if other.employeeID == nil || *other.employeeID != *gene.employeeID {
				continue
			}
			a, b := s.slots[i].shift, s.slots[j].shift
			if overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				overlapPenalty += 1
			}
		}
	}

	// 计算 fairnessPenalty（即方差）
	variance := 0.0
	if len(hours) > 0 {
		avg := 0.0
		for _, h := range hours {
			avg += h
		}
		avg /= float64(len(hours))

		for _, h := range hours {
			variance += math.Pow(h-avg, 2)
		}
		variance /= float64(len(hours))
	}

	ch.fitness = -unfilledPenalty - overlapPenaltyWeight*overlapPenalty - s.params.FairnessWeight*variance
}

// 使用轮盘赌来进行选择。适应度都不大于 0，所以先减去本代最小值再按比例抽取
func (s *search) selectByRoulette(pop []*Chromosome) *Chromosome {
	minFit := math.MaxFloat64
	for _, ch := range pop {
		minFit = min(minFit, ch.fitness)
	}

	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness - minFit
	}
	if sumFit == 0 {
		return pop[s.rng.Intn(len(pop))]
	}

	pick := s.rng.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness - minFit
		if partial >= pick {
			return ch
		}
	}

	return pop[len(pop)-1]
}

// 单点交叉
func (s *search) singlePointCrossover(ch1 *Chromosome, ch2 *Chromosome) {
	length := len(ch1.genes)
	if length != len(ch2.genes) || length == 0 {
		return
	}

	point := s.rng.Intn(length)

	// 交换两个染色体在 point 位置之后的基因
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// 变异
// 以一定概率把班次换给另一个候选人
func (s *search) mutate(ch *Chromosome) {
	for i, gene := range ch.genes {
		if s.rng.Float64() > s.params.MutationRate {
			continue
		}

		candidates := make([]int64, 0, len(s.slots[i].candidates))
		for _, id := range s.slots[i].candidates {
			if gene.employeeID != nil && *gene.employeeID == id {
				continue
			}
			candidates = append(candidates, id)
		}

		if len(candidates) > 0 {
			gene.employeeID = &candidates[s.rng.Intn(len(candidates))]
		}
	}
}
