package recommend

import "github.com/tunelab/tunekit/core"

// Recommendation 是单条推荐结果：曲目元数据加各阶段分数。
// Track 可能为 nil（曲库查不到元数据时仍保留 id 与分数）。
type Recommendation struct {
	TrackID string  `json:"track_id"`
	Score   float64 `json:"score"`

	// Similarity 是与正向质心的相似度；NegSimilarity 是与负向质心的
	// 相似度（无负向质心时为 0）。
	Similarity    float64 `json:"similarity"`
	NegSimilarity float64 `json:"neg_similarity"`

	Track *core.Track `json:"track,omitempty"`
}

// Result 是工作流的统一返回：有序曲目列表加元数据。
// "无可推荐内容"不是错误——空 Tracks 配合零信号计数和 Warnings
// 表达，调用方据此区分"没有"和"失败"。
type Result struct {
	Tracks []Recommendation `json:"tracks"`

	// Warnings 记录降级信息：行为信号组失败、种子无 embedding 等。
	Warnings []string `json:"warnings,omitempty"`

	// PositiveSignals / NegativeSignals 是解析出 embedding 的信号曲目数。
	PositiveSignals int `json:"positive_signals"`
	NegativeSignals int `json:"negative_signals"`

	// Metric 是本次调用实际使用的度量。
	Metric core.Metric `json:"metric"`
}

// TrackIDs 返回结果中的曲目 id，保持排序。
func (r *Result) TrackIDs() []string {
	ids := make([]string, 0, len(r.Tracks))
	for _, rec := range r.Tracks {
		if rec.TrackID != "" {
			ids = append(ids, rec.TrackID)
		}
	}
	return ids
}

// Empty 报告结果是否为空。
func (r *Result) Empty() bool {
	return len(r.Tracks) == 0
}
