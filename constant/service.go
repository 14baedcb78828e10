package constant

// 服务元信息，用于追踪与日志标识
const (
	ServiceName    = "report_service"
	ServiceVersion = "1.0.0"
)

// 定时任务调度相关常量
const (
	// VisibilityRefreshCronSpec 是可见度分数刷新任务的默认 cron 表达式。
	// 可见度分数包含时效衰减项，即使没有新投票也会随时间下降，
	// 因此需要周期性地全量重算并回写数据库。
	VisibilityRefreshCronSpec = "@every 10m"

	// TrendingCacheSize 是热门举报榜单 ZSet 中保留的最大条目数。
	// 定时任务每轮刷新时按可见度分数取 Top N 重建榜单。
	TrendingCacheSize = 200
)

// COSObjectKeyPrefixEvidence 是举报证据文件在 COS 中的对象键前缀。
// 最终对象键形如: reports/evidence/20250101/<reportID>_<uuid>.jpg
const COSObjectKeyPrefixEvidence = "reports/evidence/"
