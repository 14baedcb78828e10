package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/constant"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/myErrors"
)

// Cache 定义了举报相关的缓存操作接口。
// - 目标: 提供 Redis 缓存层，加速热门举报榜单的访问，减轻数据库压力。
// - 包括: 热门举报排名查询、按排名范围取ID、批量取举报实体。
type Cache interface {
	// GetReportRank 获取指定举报在热门榜 ZSet (`TrendingRankKey`) 中的排名（0-based, 降序）。
	// - 返回 -1 表示举报不在榜单中。
	GetReportRank(ctx context.Context, reportID string) (int64, error)

	// GetReportsByRange 从热门榜 ZSet (`TrendingRankKey`) 获取指定排名范围内的举报 ID 列表。
	// - 用于游标加载热门举报列表。
	// - start, stop 是基于 0 的排名索引。
	GetReportsByRange(ctx context.Context, start, stop int64) ([]string, error)

	// GetReports 从 Redis Hash (`ReportsHashKey`) 中批量获取举报实体。
	// - 根据举报 ID 列表，高效获取缓存的举报信息。
	// - 返回的举报实体中分数字段反映的是缓存重建时的快照值。
	// - 部分未命中时静默跳过；请求的 ID 全部未命中时返回 myErrors.ErrCacheMiss，
	//   调用方可据此回退到 MySQL。
	GetReports(ctx context.Context, reportIDs []string) ([]*entities.Report, error)
}

// cacheImpl 是 Cache 接口的 Redis 实现。
type cacheImpl struct {
	redisClient *redis.Client   // Redis 客户端实例
	logger      *core.ZapLogger // 日志记录器实例
}

// NewCache 是 cacheImpl 的构造函数。
func NewCache(redisClient *redis.Client, logger *core.ZapLogger) Cache {
	return &cacheImpl{
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetReportRank 实现获取举报排名。
// 排名是 0-based，分数越高，排名越靠前 (即 ZREVRANK 的结果)。
func (c *cacheImpl) GetReportRank(ctx context.Context, reportID string) (int64, error) {
	// 1. 确定要操作的 Redis Key 和成员 (Member)
	key := constant.TrendingRankKey

	c.logger.Debug("开始从 Redis 获取举报排名",
		zap.String("key", key),
		zap.String("member_reportID", reportID),
	)

	// 2. 执行 ZREVRANK 命令
	// ZREVRANK 返回成员在 Sorted Set 中的排名，按分数从高到低排序。
	// 如果成员不存在，命令会返回 redis.Nil。
	rank, err := c.redisClient.ZRevRank(ctx, key, reportID).Result()

	// 3. 处理命令执行结果
	if err != nil {
		// 3a. 检查错误是否为 redis.Nil (表示成员不存在于 ZSet 中)
		if errors.Is(err, redis.Nil) {
			c.logger.Info("举报不在热门榜 ZSet 中 (或 ZSet 本身不存在)",
				zap.String("reportID", reportID),
				zap.String("key", key),
			)
			// 按照接口约定，返回 -1 表示举报不在榜单中，此时操作本身没有发生 Redis 通信错误。
			return -1, nil
		}
		// 3b. 处理其他类型的 Redis 错误 (例如连接问题、服务器错误等)
		c.logger.Error("从 Redis 获取举报排名失败",
			zap.Error(err),
			zap.String("reportID", reportID),
			zap.String("key", key),
		)
		return -1, fmt.Errorf("获取举报(ID: %s)在热门榜(key: %s)中的排名失败: %w", reportID, key, err)
	}

	// 4. ZREVRANK 成功执行，返回获取到的排名 (0-based)
	c.logger.Debug("成功从 Redis 获取举报排名",
		zap.String("key", key),
		zap.String("member_reportID", reportID),
		zap.Int64("rank", rank),
	)
	return rank, nil
}

// GetReportsByRange 实现按排名范围获取举报 ID。
// start 和 stop 是 0-based 的排名索引，按分数从高到低排列。
func (c *cacheImpl) GetReportsByRange(ctx context.Context, start, stop int64) ([]string, error) {
	// 1. 确定要操作的 Redis Key。
	key := constant.TrendingRankKey

	c.logger.Debug("开始从 Redis 按排名范围获取举报 ID",
		zap.String("key", key),
		zap.Int64("start_rank", start),
		zap.Int64("stop_rank", stop),
	)

	// 2. 参数校验：确保 start 和 stop 是有效的范围。
	// Redis 的 ZREVRANGE 对于越界范围有其自身的处理方式（通常返回空列表），
	// 但在客户端做基本校验可以避免无效查询或意外行为。
	if start < 0 {
		// start 为负时 ZREVRANGE 会从尾部开始计算，可能不是期望行为。为简化，视为无效参数。
		c.logger.Warn("GetReportsByRange: start 参数为负数，视为无效请求，返回空列表。",
			zap.Int64("start", start),
			zap.Int64("stop", stop),
		)
		return []string{}, nil
	}
	if start > stop && stop != -1 { // stop 为 -1 表示到 ZSet 末尾
		c.logger.Info("GetReportsByRange: start 排名大于 stop 排名，这是一个无效范围，返回空列表。",
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.String("key", key),
		)
		return []string{}, nil
	}

	// 3. 执行 ZREVRANGE 命令，返回指定排名范围内的成员（举报 ID）。
	ids, err := c.redisClient.ZRevRange(ctx, key, start, stop).Result()

	// 4. 处理命令执行结果。
	if err != nil {
		// 4a. Key 不存在或范围超出实际大小时返回 redis.Nil，不视为操作性错误。
		if errors.Is(err, redis.Nil) {
			c.logger.Info("按排名范围获取举报 ID：热门榜 ZSet 为空/不存在，或请求的范围超出实际大小，返回空列表。",
				zap.Int64("start", start),
				zap.Int64("stop", stop),
				zap.String("key", key),
			)
			return []string{}, nil
		}
		// 4b. 处理其他类型的 Redis 错误。
		c.logger.Error("从 Redis ZRevRange 按排名范围获取举报 ID 失败",
			zap.Error(err),
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("获取排名 %d-%d 的举报 ID 失败 (key: %s): %w", start, stop, key, err)
	}

	c.logger.Debug("成功从 Redis 按排名范围获取举报 ID 列表。",
		zap.String("key", key),
		zap.Int64("start_rank", start),
		zap.Int64("stop_rank", stop),
		zap.Int("returned_id_count", len(ids)),
	)
	return ids, nil
}

// GetReports 从 Redis Hash (`ReportsHashKey`) 中批量获取举报实体。
// - 根据举报 ID 列表，高效获取缓存的举报信息。
// - 返回的举报实体中分数字段反映的是热门榜重建任务缓存刷新时的快照值。
func (c *cacheImpl) GetReports(ctx context.Context, reportIDs []string) ([]*entities.Report, error) {
	// 1. 处理边界情况：如果请求的 ID 列表为空，则直接返回空列表。
	if len(reportIDs) == 0 {
		c.logger.Debug("GetReports: 请求的 reportIDs 列表为空，返回空举报列表。")
		return []*entities.Report{}, nil
	}

	// 2. 准备 HMGET 命令所需的参数。
	hashKey := constant.ReportsHashKey // 与热门榜重建任务中使用的键一致

	c.logger.Debug("开始从 Redis Hash 批量获取举报",
		zap.String("hashKey", hashKey),
		zap.Int("requested_id_count", len(reportIDs)),
	)

	// 3. 执行 HMGET 命令批量获取数据。
	// HMGET 返回一个 []interface{}，其顺序与请求的 fields 顺序一致。
	// 如果某个 field 在 Hash 中不存在，则结果列表中对应位置的值为 nil。
	values, err := c.redisClient.HMGet(ctx, hashKey, reportIDs...).Result()
	if err != nil {
		c.logger.Error("从 Redis Hash 批量获取举报失败 (HMGET 执行错误)",
			zap.Error(err),
			zap.String("hashKey", hashKey),
			zap.Int("idCount", len(reportIDs)),
		)
		return nil, fmt.Errorf("批量获取举报缓存 (key: %s) 失败: %w", hashKey, err)
	}

	// 4. 处理 HMGET 返回的结果，反序列化 JSON 数据。
	reports := make([]*entities.Report, 0, len(reportIDs)) // 预估容量，最多为请求的 ID 数量
	cacheMissCount := 0                                    // 记录缓存未命中的数量
	unmarshalErrorCount := 0                               // 记录反序列化失败的数量

	for i, val := range values {
		requestedID := reportIDs[i]

		// 4a. 检查 HMGET 返回的值是否为 nil，表示该举报在缓存中未找到 (cache miss)。
		if val == nil {
			cacheMissCount++
			c.logger.Debug("举报 Hash 缓存未命中",
				zap.String("reportID", requestedID),
				zap.String("hashKey", hashKey),
			)
			continue // 跳过未命中的 ID
		}

		// 4b. 尝试将获取到的值断言为字符串（因为我们存的是 JSON 字符串）。
		jsonStr, ok := val.(string)
		if !ok {
			// 如果值不是字符串，这是一个异常情况，可能表示缓存数据被意外修改。
			unmarshalErrorCount++
			c.logger.Error("举报 Hash 缓存中的值类型不是预期的字符串，跳过该举报",
				zap.String("reportID", requestedID),
				zap.String("hashKey", hashKey),
				zap.Any("valueType", fmt.Sprintf("%T", val)),
			)
			continue
		}

		// 4c. 反序列化 JSON 字符串到 entities.Report 结构体。
		var report entities.Report
		if jsonErr := json.Unmarshal([]byte(jsonStr), &report); jsonErr != nil {
			// 如果 JSON 反序列化失败，可能表示缓存数据已损坏。
			unmarshalErrorCount++
			c.logger.Error("反序列化举报 Hash 缓存数据失败，跳过该举报",
				zap.Error(jsonErr),
				zap.String("reportID", requestedID),
				zap.String("hashKey", hashKey),
			)
			continue
		}

		// 4d. 反序列化成功，将举报添加到结果列表中。
		reports = append(reports, &report)
	}

	// 5. 记录操作总结日志并返回结果。
	c.logger.Debug("批量获取举报 Hash 缓存完成",
		zap.String("hashKey", hashKey),
		zap.Int("requested_id_count", len(reportIDs)),
		zap.Int("found_in_cache_count", len(reports)),
		zap.Int("cache_miss_count", cacheMissCount),
		zap.Int("unmarshal_error_count", unmarshalErrorCount),
	)

	// 全部未命中视为 Hash 缓存整体失效（例如重建任务尚未跑过），交由调用方回退数据库。
	if len(reports) == 0 {
		return nil, myErrors.ErrCacheMiss
	}
	return reports, nil
}
