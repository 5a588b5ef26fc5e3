package filter

import (
	"context"
	"testing"

	"github.com/tunelab/tunekit/core"
)

func TestExclusionFilter(t *testing.T) {
	f := &ExclusionFilter{}
	rctx := &core.RecommendContext{}
	rctx.AddExclude("seed")

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"排除集中的曲目被剔除", "seed", true},
		{"排除集外的曲目保留", "other", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tt.id))
			if err != nil {
				t.Fatalf("过滤失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("期望 %v, 实际 %v", tt.want, got)
			}
		})
	}
}

func TestRuleFilter_KeepCondition(t *testing.T) {
	f, err := NewRuleFilter(`track.year >= 1990`)
	if err != nil {
		t.Fatalf("编译规则失败: %v", err)
	}

	oldTrack := core.NewItem("t1")
	oldTrack.Track = &core.Track{ID: "t1", Year: 1975}
	newTrack := core.NewItem("t2")
	newTrack.Track = &core.Track{ID: "t2", Year: 2001}

	drop, err := f.ShouldFilter(context.Background(), nil, oldTrack)
	if err != nil {
		t.Fatalf("过滤失败: %v", err)
	}
	if !drop {
		t.Errorf("不满足保留条件的候选应被剔除")
	}

	drop, err = f.ShouldFilter(context.Background(), nil, newTrack)
	if err != nil {
		t.Fatalf("过滤失败: %v", err)
	}
	if drop {
		t.Errorf("满足保留条件的候选不应被剔除")
	}
}

func TestRuleFilter_CompileError(t *testing.T) {
	if _, err := NewRuleFilter(`track.year >=`); err == nil {
		t.Fatal("语法错误的表达式应在编译期报错")
	}
}

func TestNode_CombinesFilters(t *testing.T) {
	rctx := &core.RecommendContext{}
	rctx.AddExclude("excluded")

	rule, err := NewRuleFilter(`item.score > 0.5`)
	if err != nil {
		t.Fatalf("编译规则失败: %v", err)
	}
	n := &Node{Filters: []Filter{&ExclusionFilter{}, rule}}

	keep := core.NewItem("keep")
	keep.Score = 0.9
	low := core.NewItem("low")
	low.Score = 0.1
	excluded := core.NewItem("excluded")
	excluded.Score = 0.9

	got, err := n.Process(context.Background(), rctx, []*core.Item{keep, low, excluded})
	if err != nil {
		t.Fatalf("过滤节点失败: %v", err)
	}
	if len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("期望只保留 keep, 实际 %d 条", len(got))
	}
	if lbl, ok := excluded.Labels["filtered"]; !ok || lbl.Source != "filter.exclusion" {
		t.Errorf("被剔除候选应带 filtered 标注及来源, 实际 %+v", excluded.Labels)
	}
}
