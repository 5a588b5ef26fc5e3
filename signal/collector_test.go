package signal

import (
	"context"
	"math"
	"testing"

	"github.com/tunelab/tunekit/embedding"
)

const tolerance = 1e-9

func newTestEmbeddings() *embedding.Memory {
	m := embedding.NewMemory()
	m.Set("t1", []float64{1, 0})
	m.Set("t2", []float64{0, 1})
	m.Set("t3", []float64{-1, 0})
	return m
}

func TestCollector_PositiveCentroid(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceLike, Weight: 1.0, TrackIDs: []string{"t1", "t2"}, Positive: true},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}

	want := []float64{0.5, 0.5}
	for d := range want {
		if math.Abs(collected.Positive[d]-want[d]) > tolerance {
			t.Errorf("质心维度 %d: 期望 %f, 实际 %f", d, want[d], collected.Positive[d])
		}
	}
	if collected.PositiveSignals != 2 {
		t.Errorf("正向信号数期望 2, 实际 %d", collected.PositiveSignals)
	}
	if collected.Negative != nil {
		t.Errorf("无负向组时负向质心应为 nil")
	}
}

func TestCollector_GroupWeights(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	// like 权重 1.0、frequent 权重 0.5：质心 = (1.0*[1,0] + 0.5*[0,1]) / 1.5
	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceLike, Weight: 1.0, TrackIDs: []string{"t1"}, Positive: true},
		{Source: SourceFrequent, Weight: 0.5, TrackIDs: []string{"t2"}, Positive: true},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}

	want := []float64{1.0 / 1.5, 0.5 / 1.5}
	for d := range want {
		if math.Abs(collected.Positive[d]-want[d]) > tolerance {
			t.Errorf("质心维度 %d: 期望 %f, 实际 %f", d, want[d], collected.Positive[d])
		}
	}
}

func TestCollector_MissingEmbeddingsSilentlyDropped(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceLike, Weight: 1.0, TrackIDs: []string{"t1", "missing"}, Positive: true},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}

	if collected.PositiveSignals != 1 {
		t.Errorf("缺失 embedding 应静默丢弃: 期望 1 条信号, 实际 %d", collected.PositiveSignals)
	}
	// 缺失的 id 仍然进入排除集
	if _, ok := collected.Exclude["missing"]; !ok {
		t.Errorf("缺失 embedding 的信号 id 仍应进入排除集")
	}
}

func TestCollector_EmptyGroupSkippedWithWarning(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceLike, Weight: 1.0, TrackIDs: []string{"t1"}, Positive: true},
		{Source: SourceFrequent, Weight: 0.8, TrackIDs: []string{"missing1", "missing2"}, Positive: true},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}

	if collected.PositiveGroups != 1 {
		t.Errorf("整组无 embedding 应跳过: 期望 1 个参与组, 实际 %d", collected.PositiveGroups)
	}
	if len(collected.Warnings) != 1 {
		t.Errorf("跳过的组应产生告警: 期望 1 条, 实际 %d", len(collected.Warnings))
	}
}

func TestCollector_ExclusionCoversAllSignals(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceLike, Weight: 1.0, TrackIDs: []string{"t1"}, Positive: true},
		{Source: SourceDislike, Weight: 1.0, TrackIDs: []string{"t3"}, Positive: false},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}

	for _, id := range []string{"t1", "t3"} {
		if _, ok := collected.Exclude[id]; !ok {
			t.Errorf("信号 id %s 应在排除集中", id)
		}
	}
	if collected.NegativeSignals != 1 || collected.Negative == nil {
		t.Errorf("负向质心应由 t3 构成: signals=%d negative=%v", collected.NegativeSignals, collected.Negative)
	}
}

func TestCollector_NoResolvableSignals(t *testing.T) {
	c := &Collector{Embeddings: newTestEmbeddings()}

	collected, err := c.Collect(context.Background(), []Group{
		{Source: SourceSeed, Weight: 1.0, TrackIDs: []string{"absent"}, Positive: true},
	})
	if err != nil {
		t.Fatalf("收集失败: %v", err)
	}
	if collected.Positive != nil {
		t.Errorf("无可解析信号时正向质心应为 nil（链路短路条件）")
	}
}
