package core

import "sort"

// RecommendContext 承载一次推荐调用的全部上下文，贯穿整个 Pipeline 透传。
// 每次调用新建一个，调用结束即丢弃；Pipeline 各节点通过它读取度量、
// 质心、排除集，并向它回写告警与信号计数。
//
// 同一个 RecommendContext 不应被多个调用共享；并发调用各自新建即可，
// 核心不持有跨调用状态。
type RecommendContext struct {
	// Metric 是本次调用使用的距离度量。一次调用内所有距离解释必须一致。
	Metric Metric

	// Limit 是最终输出的目标条数；Overfetch 是向量库检索条数（留出
	// 多样性过滤的余量）。
	Limit     int
	Overfetch int

	// Diversify 控制是否执行多样性过滤。
	Diversify bool

	// DislikeWeight 是负向质心惩罚系数，[0,1]。
	DislikeWeight float64

	// Positive / Negative 是信号收集阶段算出的质心。
	// Positive 为 nil 表示无可用正向信号，链路短路返回空结果。
	Positive []float64
	Negative []float64

	// Exclude 是检索排除集：所有作为输入信号出现过的曲目 id。
	// 推荐结果绝不允许包含其中任何一条。
	Exclude map[string]struct{}

	// PositiveSignals / NegativeSignals 是解析出 embedding 的信号曲目数，
	// 进入返回元数据。
	PositiveSignals int
	NegativeSignals int

	// Warnings 记录降级信息（行为信号组失败、部分 embedding 缺失等）。
	Warnings []string

	// Params 请求级扩展参数（供自定义 Node / 规则过滤器使用）。
	Params map[string]any
}

// AddExclude 将 id 加入排除集。
func (rctx *RecommendContext) AddExclude(ids ...string) {
	if rctx.Exclude == nil {
		rctx.Exclude = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		rctx.Exclude[id] = struct{}{}
	}
}

// Excluded 报告 id 是否在排除集中。
func (rctx *RecommendContext) Excluded(id string) bool {
	if rctx.Exclude == nil {
		return false
	}
	_, ok := rctx.Exclude[id]
	return ok
}

// ExcludeIDs 返回排序后的排除集切片。排序保证同样输入下生成的
// 向量库查询完全一致（确定性要求）。
func (rctx *RecommendContext) ExcludeIDs() []string {
	if len(rctx.Exclude) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rctx.Exclude))
	for id := range rctx.Exclude {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddWarning 记录一条降级告警，进入返回元数据。
func (rctx *RecommendContext) AddWarning(msg string) {
	if msg == "" {
		return
	}
	rctx.Warnings = append(rctx.Warnings, msg)
}
