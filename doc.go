// Package tunekit 是一个音乐目录相似度推荐工具包（Tune Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Signal → Recall → Rank → Filter → ReRank）
// - 质心驱动: 偏好信号合成加权质心，候选来自向量库的排除感知近邻检索
// - 确定性: 同样输入产出同样输出——排序有 id 兜底，排除集有序下发
// - Node 可扩展: 自定义 Node 即可插拔扩展召回/过滤/重排策略
package tunekit

import "github.com/tunelab/tunekit/pipeline"

// 轻量 facade：便于用户直接 import "tunekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindSignal      = pipeline.KindSignal
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
