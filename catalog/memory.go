package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/tunelab/tunekit/core"
)

// Memory 是内存实现的 CatalogStore，用于测试/开发/原型。
type Memory struct {
	mu     sync.RWMutex
	tracks map[string]*core.Track
}

func NewMemory() *Memory {
	return &Memory{tracks: make(map[string]*core.Track)}
}

// Put 写入一条曲目元数据。
func (m *Memory) Put(track *core.Track) {
	if track == nil || track.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[track.ID] = track
}

// Fetch 实现 core.CatalogStore 接口。未知 id 直接缺席，不是错误。
func (m *Memory) Fetch(_ context.Context, trackIDs []string) ([]*core.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*core.Track, 0, len(trackIDs))
	for _, id := range trackIDs {
		if tr, ok := m.tracks[id]; ok {
			out = append(out, tr)
		}
	}
	return out, nil
}

// TracksByArtist 实现 core.CatalogStore 接口：任何角色的参与都算。
// 结果按曲目 id 排序，保证质心计算和排除集的顺序确定。
func (m *Memory) TracksByArtist(_ context.Context, artistID string) ([]*core.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*core.Track
	for _, tr := range m.tracks {
		for _, a := range tr.Artists {
			if a.ID == artistID {
				out = append(out, tr)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ core.CatalogStore = (*Memory)(nil)
