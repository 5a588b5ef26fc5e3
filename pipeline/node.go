package pipeline

import (
	"context"

	"github.com/tunelab/tunekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindSignal      Kind = "signal"      // 信号阶段：收集偏好信号并计算质心
	KindRecall      Kind = "recall"      // 召回阶段：按质心检索候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindRank        Kind = "rank"        // 排序阶段：距离换算分数并排序
	KindReRank      Kind = "rerank"      // 重排阶段：多样性约束与截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充元数据或最终结果修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态：Signal 写 rctx、Recall 生成
// 候选、Filter 剔除、ReRank 截断都是同一形态的变换。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeBuilder 根据配置构建 Node，供配置驱动的 Pipeline 装配使用。
type NodeBuilder = func(config map[string]interface{}) (Node, error)
