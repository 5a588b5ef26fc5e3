package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tunelab/tunekit/catalog"
	"github.com/tunelab/tunekit/core"
	"github.com/tunelab/tunekit/embedding"
	"github.com/tunelab/tunekit/signal"
	"github.com/tunelab/tunekit/store"
)

const tolerance = 1e-9

// fixture 组装一套内存协作方：embedding 源、向量库、曲库。
// 写入同一向量的两边，模拟索引构建任务的产物。
type fixture struct {
	emb     *embedding.Memory
	vectors *store.MemoryVectorStore
	catalog *catalog.Memory
}

func newFixture() *fixture {
	return &fixture{
		emb:     embedding.NewMemory(),
		vectors: store.NewMemoryVectorStore(),
		catalog: catalog.NewMemory(),
	}
}

func (f *fixture) add(id string, vec []float64, track *core.Track) {
	f.emb.Set(id, vec)
	f.vectors.Add(id, vec)
	if track != nil {
		f.catalog.Put(track)
	}
}

func (f *fixture) recommender(opts ...Option) *Recommender {
	return New(f.emb, f.vectors, f.catalog, core.Config{}, opts...)
}

func simpleTrack(id, album, artistID, artistName string) *core.Track {
	return &core.Track{
		ID:      id,
		Title:   id,
		Album:   album,
		Artists: []core.Artist{{ID: artistID, Name: artistName, Role: "primary"}},
	}
}

func resultIDs(r *Result) []string {
	out := make([]string, len(r.Tracks))
	for i, rec := range r.Tracks {
		out[i] = rec.TrackID
	}
	return out
}

func TestSeedRadio_EndToEnd(t *testing.T) {
	f := newFixture()
	f.add("seed", []float64{1, 0}, simpleTrack("seed", "S", "a0", "Seeder"))
	f.add("near", []float64{0.9, 0.1}, simpleTrack("near", "A", "a1", "One"))
	f.add("mid", []float64{0.5, 0.5}, simpleTrack("mid", "B", "a2", "Two"))
	f.add("far", []float64{0.1, 0.9}, simpleTrack("far", "C", "a3", "Three"))

	r := f.recommender()
	got, err := r.SeedRadio(context.Background(), "seed", 3, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("单曲电台失败: %v", err)
	}

	want := []string{"near", "mid", "far"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Fatalf("期望 %v, 实际 %v", want, resultIDs(got))
	}
	for _, rec := range got.Tracks {
		if rec.TrackID == "seed" {
			t.Errorf("种子曲目绝不允许出现在结果里")
		}
		if rec.Track == nil {
			t.Errorf("%s 的元数据未回填", rec.TrackID)
		}
	}
	if got.PositiveSignals != 1 {
		t.Errorf("正向信号数期望 1, 实际 %d", got.PositiveSignals)
	}
	if got.Metric != core.MetricCosine {
		t.Errorf("返回元数据应回显度量, 实际 %s", got.Metric)
	}
}

func TestSeedRadio_AbsentEmbeddingIsDegradedNotError(t *testing.T) {
	f := newFixture()
	f.add("other", []float64{1, 0}, nil)

	r := f.recommender()
	got, err := r.SeedRadio(context.Background(), "ghost", 5, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("种子无 embedding 应是降级不是错误: %v", err)
	}
	if len(got.Tracks) != 0 {
		t.Errorf("应返回空结果, 实际 %d 条", len(got.Tracks))
	}
	if len(got.Warnings) == 0 {
		t.Errorf("空结果必须携带降级告警")
	}
}

func TestSeedRadio_InvalidInput(t *testing.T) {
	f := newFixture()
	r := f.recommender()
	ctx := context.Background()

	if _, err := r.SeedRadio(ctx, "", 5, core.MetricCosine, false); !core.IsInvalidInput(err) {
		t.Errorf("空种子 id 应为 INVALID_INPUT, 实际 %v", err)
	}
	if _, err := r.SeedRadio(ctx, "seed", 0, core.MetricCosine, false); !core.IsInvalidInput(err) {
		t.Errorf("非正 limit 应为 INVALID_INPUT, 实际 %v", err)
	}
	if _, err := r.SeedRadio(ctx, "seed", 5, core.Metric("manhattan"), false); !core.IsInvalidInput(err) {
		t.Errorf("未知度量应为 INVALID_INPUT, 实际 %v", err)
	}
}

func TestArtistRadio_ExcludesOwnTracks(t *testing.T) {
	f := newFixture()
	f.add("a-t1", []float64{1, 0}, simpleTrack("a-t1", "Alpha", "artist1", "Alpha Act"))
	f.add("a-t2", []float64{0.9, 0.1}, simpleTrack("a-t2", "Alpha", "artist1", "Alpha Act"))
	f.add("other1", []float64{0.8, 0.2}, simpleTrack("other1", "Beta", "artist2", "Beta Act"))
	f.add("other2", []float64{0.2, 0.8}, simpleTrack("other2", "Gamma", "artist3", "Gamma Act"))

	r := f.recommender()
	got, err := r.ArtistRadio(context.Background(), "artist1", 5, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("艺术家电台失败: %v", err)
	}
	for _, rec := range got.Tracks {
		if rec.TrackID == "a-t1" || rec.TrackID == "a-t2" {
			t.Errorf("艺术家自己的曲目应全部进入排除集, 出现了 %s", rec.TrackID)
		}
	}
	if len(got.Tracks) != 2 {
		t.Errorf("期望推荐其他艺术家的 2 条曲目, 实际 %d", len(got.Tracks))
	}
	if got.PositiveSignals != 2 {
		t.Errorf("正向信号数期望 2, 实际 %d", got.PositiveSignals)
	}
}

func TestArtistRadio_UnknownArtistDegrades(t *testing.T) {
	f := newFixture()
	r := f.recommender()

	got, err := r.ArtistRadio(context.Background(), "nobody", 5, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("未知艺术家应是降级不是错误: %v", err)
	}
	if len(got.Tracks) != 0 || len(got.Warnings) == 0 {
		t.Errorf("应返回空结果加告警, 实际 %d 条 / %d 条告警", len(got.Tracks), len(got.Warnings))
	}
}

func TestPreferencePlaylist_NoDislikes(t *testing.T) {
	f := newFixture()
	f.add("like1", []float64{1, 0}, nil)
	f.add("c1", []float64{0.9, 0.1}, nil)
	f.add("c2", []float64{0.5, 0.5}, nil)

	r := f.recommender()
	got, err := r.PreferencePlaylist(context.Background(), PreferenceRequest{
		LikedIDs: []string{"like1"},
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("偏好歌单失败: %v", err)
	}
	for _, rec := range got.Tracks {
		if rec.NegSimilarity != 0 {
			t.Errorf("%s 无负向信号时 NegSimilarity 应为 0", rec.TrackID)
		}
		if math.Abs(rec.Score-rec.Similarity) > tolerance {
			t.Errorf("%s 无负向信号时最终分应等于相似度", rec.TrackID)
		}
	}
	if got.NegativeSignals != 0 {
		t.Errorf("负向信号数应为 0, 实际 %d", got.NegativeSignals)
	}
}

func TestPreferencePlaylist_DislikePenaltyReorders(t *testing.T) {
	f := newFixture()
	f.add("like1", []float64{1, 0}, nil)
	f.add("dis1", []float64{0, 1}, nil)
	// pa 和 qb 与正向质心等距；pa 靠近负向质心，qb 远离
	f.add("pa", []float64{0.95, 0.312}, nil)
	f.add("qb", []float64{0.95, -0.312}, nil)

	r := f.recommender()
	got, err := r.PreferencePlaylist(context.Background(), PreferenceRequest{
		LikedIDs:    []string{"like1"},
		DislikedIDs: []string{"dis1"},
		Limit:       5,
	})
	if err != nil {
		t.Fatalf("偏好歌单失败: %v", err)
	}
	if len(got.Tracks) != 2 {
		t.Fatalf("期望 2 条, 实际 %d", len(got.Tracks))
	}
	if got.Tracks[0].TrackID != "qb" {
		t.Errorf("惩罚后远离负向质心的 qb 应排第一, 实际 %s", got.Tracks[0].TrackID)
	}
	for _, rec := range got.Tracks {
		if rec.NegSimilarity <= 0 {
			t.Errorf("%s 应有非零负向相似度", rec.TrackID)
		}
		want := rec.Similarity - 0.5*rec.NegSimilarity
		if math.Abs(rec.Score-want) > tolerance {
			t.Errorf("%s 最终分期望 %f, 实际 %f", rec.TrackID, want, rec.Score)
		}
	}
	if got.NegativeSignals != 1 {
		t.Errorf("负向信号数期望 1, 实际 %d", got.NegativeSignals)
	}
}

func TestPreferencePlaylist_ExclusionInvariant(t *testing.T) {
	f := newFixture()
	f.add("like1", []float64{1, 0}, nil)
	f.add("dis1", []float64{0.9, 0.1}, nil) // 不喜欢但与正向质心很近
	f.add("c1", []float64{0.5, 0.5}, nil)

	r := f.recommender()
	got, err := r.PreferencePlaylist(context.Background(), PreferenceRequest{
		LikedIDs:    []string{"like1"},
		DislikedIDs: []string{"dis1"},
		Limit:       5,
	})
	if err != nil {
		t.Fatalf("偏好歌单失败: %v", err)
	}
	for _, rec := range got.Tracks {
		if rec.TrackID == "like1" || rec.TrackID == "dis1" {
			t.Errorf("作为信号出现过的曲目绝不允许被推荐: %s", rec.TrackID)
		}
	}
}

func TestSeedRadio_DiversityCaps(t *testing.T) {
	f := newFixture()
	f.add("seed", []float64{1, 0}, nil)
	// 同一专辑 4 条按相似度递减；AlbumCap 默认 2
	f.add("s1", []float64{0.99, 0.01}, simpleTrack("s1", "Same", "a1", "Act"))
	f.add("s2", []float64{0.98, 0.02}, simpleTrack("s2", "Same", "a1", "Act"))
	f.add("s3", []float64{0.97, 0.03}, simpleTrack("s3", "Same", "a1", "Act"))
	f.add("s4", []float64{0.96, 0.04}, simpleTrack("s4", "Same", "a1", "Act"))
	f.add("d1", []float64{0.5, 0.5}, simpleTrack("d1", "Diff", "a2", "Other"))

	r := f.recommender()
	got, err := r.SeedRadio(context.Background(), "seed", 3, core.MetricCosine, true)
	if err != nil {
		t.Fatalf("单曲电台失败: %v", err)
	}

	want := []string{"s1", "s2", "d1"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Fatalf("专辑上限应拦下 s3/s4, 期望 %v, 实际 %v", want, resultIDs(got))
	}
}

// stubBehavior 行为信号源桩：高频播放正常、完整播放为空、高频跳过报错，
// 三组降级路径一次齐活。
type stubBehavior struct{}

func (stubBehavior) FrequentlyPlayed(context.Context, core.FrequentQuery) ([]core.PlayStat, error) {
	return []core.PlayStat{{TrackID: "freq1", Plays: 12}}, nil
}

func (stubBehavior) RecentlyCompleted(context.Context, core.CompletedQuery) ([]core.PlayStat, error) {
	return nil, nil
}

func (stubBehavior) OftenSkipped(context.Context, core.SkippedQuery) ([]core.PlayStat, error) {
	return nil, errors.New("aggregation job is behind")
}

func TestBlendedFeed_BehaviorGroupsDegradeIndependently(t *testing.T) {
	f := newFixture()
	f.add("like1", []float64{1, 0}, nil)
	f.add("freq1", []float64{0.8, 0.2}, nil)
	f.add("c1", []float64{0.7, 0.3}, nil)
	f.add("c2", []float64{0.2, 0.8}, nil)

	r := f.recommender(WithBehaviorSource(stubBehavior{}))
	got, err := r.BlendedFeed(context.Background(), BlendedRequest{
		LikedIDs:           []string{"like1"},
		Limit:              5,
		UseBehaviorSignals: true,
	})
	if err != nil {
		t.Fatalf("单个行为信号组失败不应中断调用: %v", err)
	}

	// like1 + freq1 两条正向信号成立；completed 为空、skipped 报错各记一条告警
	if got.PositiveSignals != 2 {
		t.Errorf("正向信号数期望 2, 实际 %d", got.PositiveSignals)
	}
	if got.NegativeSignals != 0 {
		t.Errorf("负向信号数期望 0, 实际 %d", got.NegativeSignals)
	}
	if len(got.Warnings) < 2 {
		t.Errorf("期望至少 2 条降级告警, 实际 %v", got.Warnings)
	}
	for _, rec := range got.Tracks {
		if rec.TrackID == "like1" || rec.TrackID == "freq1" {
			t.Errorf("信号曲目 %s 不应出现在结果里", rec.TrackID)
		}
	}
}

func TestBlendedFeed_NoBehaviorSourceWarns(t *testing.T) {
	f := newFixture()
	f.add("like1", []float64{1, 0}, nil)
	f.add("c1", []float64{0.9, 0.1}, nil)

	r := f.recommender()
	got, err := r.BlendedFeed(context.Background(), BlendedRequest{
		LikedIDs:           []string{"like1"},
		Limit:              5,
		UseBehaviorSignals: true,
	})
	if err != nil {
		t.Fatalf("未配置行为源应是降级不是错误: %v", err)
	}
	found := false
	for _, w := range got.Warnings {
		if w == "behavior signals requested but no behavior source configured" {
			found = true
		}
	}
	if !found {
		t.Errorf("应记录未配置行为源的告警, 实际 %v", got.Warnings)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].TrackID != "c1" {
		t.Errorf("显式偏好应照常生效, 实际 %v", resultIDs(got))
	}
}

func TestCustomMix_Validation(t *testing.T) {
	f := newFixture()
	r := f.recommender()
	ctx := context.Background()

	if _, err := r.CustomMix(ctx, nil, 5, core.MetricCosine, false); !core.IsInvalidInput(err) {
		t.Errorf("空种子列表应为 INVALID_INPUT, 实际 %v", err)
	}
	seeds := []signal.Group{{Source: signal.SourceCustom, Weight: 0, TrackIDs: []string{"t1"}, Positive: true}}
	if _, err := r.CustomMix(ctx, seeds, 5, core.MetricCosine, false); !core.IsInvalidInput(err) {
		t.Errorf("非正权重应为 INVALID_INPUT, 实际 %v", err)
	}
}

func TestCustomMix_WeightedSeeds(t *testing.T) {
	f := newFixture()
	f.add("recent1", []float64{1, 0}, nil)
	f.add("recent2", []float64{0, 1}, nil)
	f.add("cx", []float64{0.9, 0.3}, nil)
	f.add("cy", []float64{0.3, 0.9}, nil)

	r := f.recommender()
	// recent1 权重远高于 recent2：质心偏向 [1,0]，cx 应排在 cy 前
	seeds := []signal.Group{
		{Source: signal.SourceCustom, Weight: 1.0, TrackIDs: []string{"recent1"}, Positive: true},
		{Source: signal.SourceCustom, Weight: 0.1, TrackIDs: []string{"recent2"}, Positive: true},
	}
	got, err := r.CustomMix(context.Background(), seeds, 2, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("自定义混音失败: %v", err)
	}
	want := []string{"cx", "cy"}
	if !reflect.DeepEqual(resultIDs(got), want) {
		t.Fatalf("期望 %v, 实际 %v", want, resultIDs(got))
	}
}

func TestRecommender_Deterministic(t *testing.T) {
	f := newFixture()
	f.add("seed", []float64{1, 0}, nil)
	// 一批与质心等距的候选：排序只能靠 id 升序兜底
	f.add("t-c", []float64{0.5, 0.5}, nil)
	f.add("t-a", []float64{0.5, 0.5}, nil)
	f.add("t-b", []float64{0.5, 0.5}, nil)

	r := f.recommender()
	first, err := r.SeedRadio(context.Background(), "seed", 3, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("第一次调用失败: %v", err)
	}
	second, err := r.SeedRadio(context.Background(), "seed", 3, core.MetricCosine, false)
	if err != nil {
		t.Fatalf("第二次调用失败: %v", err)
	}
	if !reflect.DeepEqual(resultIDs(first), resultIDs(second)) {
		t.Fatalf("同样输入两次调用结果不一致: %v vs %v", resultIDs(first), resultIDs(second))
	}
	want := []string{"t-a", "t-b", "t-c"}
	if !reflect.DeepEqual(resultIDs(first), want) {
		t.Fatalf("并列分应按 id 升序, 期望 %v, 实际 %v", want, resultIDs(first))
	}
}

func TestResult_TrackIDs(t *testing.T) {
	r := &Result{Tracks: []Recommendation{{TrackID: "a"}, {TrackID: "b"}}}
	if !reflect.DeepEqual(r.TrackIDs(), []string{"a", "b"}) {
		t.Errorf("TrackIDs 期望 [a b], 实际 %v", r.TrackIDs())
	}
	if r.Empty() {
		t.Errorf("非空结果 Empty 应为 false")
	}
}
