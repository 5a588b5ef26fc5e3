package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/tunelab/tunekit/core"
)

type failingCatalog struct{}

func (failingCatalog) Fetch(context.Context, []string) ([]*core.Track, error) {
	return nil, errors.New("connection refused")
}

func (failingCatalog) TracksByArtist(context.Context, string) ([]*core.Track, error) {
	return nil, errors.New("connection refused")
}

func TestEnrichNode_FillsTracks(t *testing.T) {
	m := NewMemory()
	m.Put(&core.Track{ID: "t1", Title: "Song One"})
	n := &EnrichNode{Store: m}

	known := core.NewItem("t1")
	unknown := core.NewItem("ghost")

	got, err := n.Process(context.Background(), nil, []*core.Item{known, unknown})
	if err != nil {
		t.Fatalf("元数据补充失败: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("曲库查不到的候选不应被剔除, 实际 %d 条", len(got))
	}
	if known.Track == nil || known.Track.Title != "Song One" {
		t.Errorf("t1 元数据未回填: %+v", known.Track)
	}
	if unknown.Track != nil {
		t.Errorf("未知 id 的 Track 应保持 nil")
	}
}

func TestEnrichNode_StoreUnavailable(t *testing.T) {
	n := &EnrichNode{Store: failingCatalog{}}

	_, err := n.Process(context.Background(), nil, []*core.Item{core.NewItem("t1")})
	if !core.IsUnavailable(err) {
		t.Fatalf("曲库不可达应为 UNAVAILABLE 级错误, 实际 %v", err)
	}
}

func TestMemory_TracksByArtistAnyRole(t *testing.T) {
	m := NewMemory()
	m.Put(&core.Track{ID: "t1", Artists: []core.Artist{{ID: "a1", Name: "Lead", Role: "primary"}}})
	m.Put(&core.Track{ID: "t2", Artists: []core.Artist{
		{ID: "a2", Name: "Other", Role: "primary"},
		{ID: "a1", Name: "Lead", Role: "featured"},
	}})
	m.Put(&core.Track{ID: "t3", Artists: []core.Artist{{ID: "a3", Name: "Unrelated", Role: "primary"}}})

	got, err := m.TracksByArtist(context.Background(), "a1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("期望按 id 排序的 [t1 t2], 实际 %d 条", len(got))
	}
}
