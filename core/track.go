package core

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"
)

// Artist 是曲目的参与艺术家。列表按角色排序，主唱（primary）在前。
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"` // primary / featured / composer ...
}

// Track 是曲目元数据。ID 是内容派生的稳定标识，由曲库（CatalogStore）负责生成。
type Track struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Album    string        `json:"album,omitempty"` // 空字符串表示专辑未知
	Artists  []Artist      `json:"artists"`         // 按角色排序，primary 在前
	Duration time.Duration `json:"duration"`
	Year     int           `json:"year,omitempty"`
}

// PrimaryArtist 返回主唱艺术家。艺术家列表为空时 ok 为 false。
func (t *Track) PrimaryArtist() (Artist, bool) {
	if t == nil || len(t.Artists) == 0 {
		return Artist{}, false
	}
	return t.Artists[0], true
}

// AlbumIdentity 返回派生的专辑身份：专辑名 + 主唱名的大小写不敏感哈希。
// 专辑或主唱未知时返回空字符串，多样性约束对这类曲目不生效。
//
// 用专辑名+主唱做 key 是为了区分同名专辑（不同艺术家的 "Greatest Hits"
// 是不同专辑），同时容忍元数据大小写差异。
func (t *Track) AlbumIdentity() string {
	if t == nil || t.Album == "" {
		return ""
	}
	primary, ok := t.PrimaryArtist()
	if !ok || primary.Name == "" {
		return ""
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(t.Album)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(primary.Name)))
	return strconv.FormatUint(h.Sum64(), 16)
}

// ArtistNames 返回按角色排序的艺术家名称列表。
func (t *Track) ArtistNames() []string {
	if t == nil || len(t.Artists) == 0 {
		return nil
	}
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}
