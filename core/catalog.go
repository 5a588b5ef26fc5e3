package core

import "context"

// CatalogStore 是曲库元数据的领域接口。
//
// 约定：
//   - Fetch 返回无序结果，调用方按 id 重新关联；
//     未知 id 直接缺席，不是错误
//   - 返回的 Track 艺术家列表已按角色排序（primary 在前），
//     再按稳定次序排序
//   - 存储不可达时返回 UNAVAILABLE 级错误
type CatalogStore interface {
	// Fetch 批量获取曲目元数据（无序）。
	Fetch(ctx context.Context, trackIDs []string) ([]*Track, error)

	// TracksByArtist 获取某艺术家名下的全部曲目（电台工作流用来
	// 构造艺术家质心，同时这些曲目全部进入排除集）。
	TracksByArtist(ctx context.Context, artistID string) ([]*Track, error)
}
