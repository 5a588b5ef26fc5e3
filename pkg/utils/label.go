// Package utils 提供推荐链路通用的小工具。
package utils

// Label 是候选曲目的可解释标注：记录它由哪个环节、因为什么被处理。
// 典型用法：signal 阶段标注信号来源（like / frequent / seed），
// recall 阶段标注检索度量，rerank 阶段标注多样性决策。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // signal / recall / rank / rerank / filter ...
}

// MergeLabel 合并同名 Label，默认策略是"保留历史、可追踪"：
// - Value 以 '|' 累积
// - Source 以 ',' 累积
//
// 需要覆盖式或优先级式合并时，在上层自行实现即可。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
