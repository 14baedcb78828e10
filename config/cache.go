package config

// VisibilityRefreshConfig 包含可见度定时刷新任务相关的配置
type VisibilityRefreshConfig struct {
	// BatchSize 是将重新计算后的可见度分数写回 MySQL 时，每个数据库操作批次处理的举报数量。
	// 例如，如果本轮刷新需要更新 200,000 条举报的可见度分数，且 BatchSize 设置为 500，
	// 则 BatchUpdateVisibilityScores 方法会将这 200,000 条数据分割成 400 个小批次。
	// 每个小批次包含 500 条举报的更新数据，将通过一次数据库 UPDATE 操作（使用 CASE WHEN 语句）完成。
	// 这个参数主要影响单次数据库 UPDATE 语句的复杂度和处理的数据行数。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是执行可见度分数写回 MySQL 任务时，并发处理数据批次的 worker (goroutine) 数量。
	// 接上例，如果有 400 个数据批次（每批 500 条）需要处理，且 ConcurrencyLevel 设置为 4，
	// 则系统会启动 4 个 worker goroutine 并行地从任务队列中获取不同的小批次进行处理。
	// 这个参数主要影响同时向数据库发起更新请求的并发连接数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// PageSize 是定时任务从 MySQL 分页扫描活跃举报时，每页读取的记录数量。
	// 扫描按主键 ID 升序逐页进行，直到读完所有未删除的举报。
	PageSize int `mapstructure:"pageSize" json:"pageSize" yaml:"pageSize"`

	// TrendingSize 是每轮刷新后写入 Redis 热门榜的举报数量上限。
	TrendingSize int `mapstructure:"trendingSize" json:"trendingSize" yaml:"trendingSize"`
}
