package scheduler

// Gene: 表示对某个空缺草稿班次的分配决策
type Gene struct {
	shiftID    int64
	employeeID *int64 // 如果 employeeID 为 nil，则表示这个班次仍然空缺
	hours      float64
}

// Chromosome: 一组空缺班次的完整分配方案
type Chromosome struct {
	genes   []*Gene
	fitness float64
}

func (ch *Chromosome) clone() *Chromosome {
	genes := make([]*Gene, len(ch.genes))
	for i, g := range ch.genes {
		genes[i] = &Gene{shiftID: g.shiftID, employeeID: g.employeeID, hours: g.hours}
	}
	return &Chromosome{genes: genes, fitness: ch.fitness}
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int32   `json:"populationSize" validate:"required,min=2,max=1000"`  // 种群大小
	MaxGenerations int32   `json:"maxGenerations" validate:"required,min=1,max=10000"` // 最大迭代次数
	CrossoverRate  float64 `json:"crossoverRate" validate:"min=0,max=1"`               // 交叉概率
	MutationRate   float64 `json:"mutationRate" validate:"min=0,max=1"`                // 变异概率
	EliteCount     int32   `json:"eliteCount" validate:"min=0,ltfield=PopulationSize"` // 精英数量
	FairnessWeight float64 `json:"fairnessWeight" validate:"min=0"`                    // 公平性权重
	Seed           int64   `json:"seed"`                                               // 随机种子，0 表示使用当前时间
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 50,
		MaxGenerations: 200,
		CrossoverRate:  0.8,
		MutationRate:   0.05,
		EliteCount:     2,
		FairnessWeight: 0.5,
	}
}
