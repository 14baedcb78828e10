package constant

// Redis Key 相关常量 (导出)
const (
	// TrendingRankKey 是热门举报榜单的 Key 名称。
	// 这是一个 Sorted Set (ZSet)，成员是举报的公开 ID (reportID)，分数是可见度分数 (visibilityScore)。
	// 由定时刷新任务全量重建，服务层按排名范围读取实现信息流的游标分页。
	// Redis 类型: Sorted Set
	// 示例成员与分数: Member="a1b2c3d4e5f6", Score=72
	TrendingRankKey = "report_trending_rank"

	// ReportsHashKey 是举报实体缓存的 Hash Key 名称。
	// Field 是 reportID，Value 是举报实体的 JSON 序列化结果（刷新任务写入时的快照）。
	// 与 TrendingRankKey 配套使用：先从 ZSet 取出 ID，再从该 Hash 批量取实体。
	// Redis 类型: Hash
	ReportsHashKey = "reports"
)
