// Package signal 负责偏好信号的收集与质心计算：把显式输入（喜欢/不喜欢、
// 种子曲目）和行为聚合（高频播放、完整播放、高频跳过）组装成带权信号组，
// 解析 embedding 后合成正/负向质心，并维护检索排除集。
package signal

// 信号来源名称。进入候选的 provenance label 和返回元数据。
const (
	SourceSeed      = "seed"      // 单曲电台种子
	SourceArtist    = "artist"    // 艺术家电台的艺术家曲目
	SourceLike      = "like"      // 显式喜欢
	SourceDislike   = "dislike"   // 显式不喜欢
	SourceFrequent  = "frequent"  // 高频播放
	SourceCompleted = "completed" // 近期完整播放
	SourceSkipped   = "skipped"   // 高频跳过
	SourceCustom    = "custom"    // 自定义加权种子
)

// Group 是一个信号组：一组曲目 id、固定权重和极性。
// 组内每条曲目以组权重参与质心加权平均。
type Group struct {
	Source   string
	Weight   float64
	TrackIDs []string
	Positive bool
}
