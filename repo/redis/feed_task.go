// File: repo/redis/feed_task.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/report_service/constant"
	"github.com/Xushengqwer/report_service/models/entities"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TrendingTaskCache 定义了后台任务管理和维护热门举报缓存的操作接口。
type TrendingTaskCache interface {
	// RebuildTrending 以数据库中的最新可见度分数为准，整体重建热门榜。
	// - 同时重建排名 ZSet (`TrendingRankKey`) 与实体 Hash (`ReportsHashKey`)。
	// - 采用临时Key+RENAME策略，重建期间读请求仍命中旧快照，不会看到半成品。
	RebuildTrending(ctx context.Context, reports []*entities.Report) error
}

// trendingTaskCacheImpl 是 TrendingTaskCache 接口的 Redis 实现。
type trendingTaskCacheImpl struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewTrendingTaskCache 创建 TrendingTaskCache 的新实例。
func NewTrendingTaskCache(redisClient *redis.Client, logger *core.ZapLogger) TrendingTaskCache {
	return &trendingTaskCacheImpl{
		redisClient: redisClient,
		logger:      logger,
	}
}

// RebuildTrending 实现热门榜的整体重建。
func (c *trendingTaskCacheImpl) RebuildTrending(ctx context.Context, reports []*entities.Report) error {
	startTime := time.Now()
	c.logger.Info("开始重建热门举报缓存 (采用临时Key+RENAME策略)", zap.Int("reportCount", len(reports)))

	finalRankKey := constant.TrendingRankKey
	finalHashKey := constant.ReportsHashKey

	// 1. 处理空榜场景：数据库中没有可上榜的举报时直接清空两个缓存Key。
	if len(reports) == 0 {
		c.logger.Info("没有可上榜的举报，将清空热门榜缓存",
			zap.String("rankKeyToClear", finalRankKey),
			zap.String("hashKeyToClear", finalHashKey),
		)
		if delErr := c.redisClient.Del(ctx, finalRankKey, finalHashKey).Err(); delErr != nil {
			c.logger.Error("清空热门榜缓存失败", zap.Error(delErr))
			return fmt.Errorf("清空热门榜缓存失败: %w", delErr)
		}
		return nil
	}

	// 2. 准备写入数据：ZSet 成员与 Hash 字段均使用举报ID，分数为可见度分数。
	suffix := "_temp_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	tempRankKey := finalRankKey + suffix
	tempHashKey := finalHashKey + suffix

	members := make([]redis.Z, 0, len(reports))
	dataToCache := make(map[string]interface{}, len(reports))
	marshalErrors := 0

	for _, report := range reports {
		if report == nil {
			continue
		}
		jsonData, jsonErr := json.Marshal(report)
		if jsonErr != nil {
			c.logger.Error("序列化举报实体失败，跳过该举报", zap.Error(jsonErr), zap.String("reportID", report.ReportID))
			marshalErrors++
			continue
		}
		members = append(members, redis.Z{
			Score:  float64(report.VisibilityScore),
			Member: report.ReportID,
		})
		dataToCache[report.ReportID] = jsonData
	}

	if len(members) == 0 {
		c.logger.Error("未能准备任何有效的举报数据进行缓存 (全部序列化失败)，现有缓存将保留。",
			zap.Int("reportCount", len(reports)),
			zap.Int("marshalErrors", marshalErrors),
		)
		return errors.New("未能准备有效的举报数据进行缓存，操作中止")
	}

	// 3. 写入临时Key。
	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, tempRankKey, tempHashKey)
	pipe.ZAdd(ctx, tempRankKey, members...)
	pipe.HMSet(ctx, tempHashKey, dataToCache)
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		c.logger.Error("执行 Redis Pipeline (写入临时热门榜) 失败，现有缓存将保留。",
			zap.Error(execErr),
			zap.String("tempRankKey", tempRankKey),
			zap.String("tempHashKey", tempHashKey),
		)
		c.redisClient.Del(ctx, tempRankKey, tempHashKey)
		return fmt.Errorf("写入临时热门榜缓存失败: %w", execErr)
	}

	// 4. 原子激活：两次 RENAME 放在同一个 Pipeline 中执行。
	renamePipe := c.redisClient.Pipeline()
	renamePipe.Rename(ctx, tempRankKey, finalRankKey)
	renamePipe.Rename(ctx, tempHashKey, finalHashKey)
	if _, renameErr := renamePipe.Exec(ctx); renameErr != nil {
		c.logger.Error("执行 Redis RENAME (temp 到 final) 失败，新缓存可能在临时Key中，现有缓存可能仍存在。",
			zap.Error(renameErr),
			zap.String("tempRankKey", tempRankKey),
			zap.String("tempHashKey", tempHashKey),
		)
		c.redisClient.Del(ctx, tempRankKey, tempHashKey)
		return fmt.Errorf("重命名临时热门榜缓存到最终Key失败: %w", renameErr)
	}

	c.logger.Info("成功重建热门举报缓存",
		zap.String("rankKey", finalRankKey),
		zap.String("hashKey", finalHashKey),
		zap.Int("cachedCount", len(members)),
		zap.Int("marshalErrors", marshalErrors),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}
