// File: service/trending.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/vo"
	"github.com/Xushengqwer/report_service/myErrors"
	"github.com/Xushengqwer/report_service/repo/mysql"
	"github.com/Xushengqwer/report_service/repo/redis"
)

// TrendingService 定义了热门举报榜单查询的业务逻辑接口。
type TrendingService interface {
	// GetTrendingByCursor 游标方式获取热门举报列表。
	// - lastReportID: 上一页最后一条举报的 ReportID，为 nil 表示首次加载。
	// - limit: 希望获取的举报数量。
	// - 返回: 举报列表, 下一页游标, 错误。
	GetTrendingByCursor(ctx context.Context, lastReportID *string, limit int) ([]*vo.ReportResponse, *string, error)
}

// trendingService 是 TrendingService 的具体实现，读请求优先走 Redis 缓存，
// 缓存整体未命中（例如重建任务尚未执行）时回退 MySQL。
type trendingService struct {
	cache     redis.Cache                           // 热门榜单缓存读取接口
	batchRepo mysql.ReportBatchOperationsRepository // 缓存失效时的数据库兜底查询
	logger    *core.ZapLogger
}

// NewTrendingService 是 trendingService 的构造函数。
func NewTrendingService(cache redis.Cache, batchRepo mysql.ReportBatchOperationsRepository, logger *core.ZapLogger) TrendingService {
	return &trendingService{
		cache:     cache,
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// GetTrendingByCursor 实现游标方式获取热门举报列表。
func (s *trendingService) GetTrendingByCursor(ctx context.Context, lastReportID *string, limit int) ([]*vo.ReportResponse, *string, error) {
	var start int64 // ZSet 范围查询的起始排名 (0-based)

	if limit <= 0 {
		s.logger.Warn("GetTrendingByCursor: 请求的 limit 小于或等于0", zap.Int("limit", limit))
		return []*vo.ReportResponse{}, nil, errors.New("limit 参数必须大于0")
	}

	if lastReportID == nil { // 首次加载
		start = 0
		s.logger.Debug("热门举报首次加载 (游标分页)", zap.Int("limit", limit))
	} else { // 非首次加载，根据 lastReportID 计算 start
		rank, err := s.cache.GetReportRank(ctx, *lastReportID)
		if err != nil {
			s.logger.Error("获取上一页最后举报排名失败 (游标分页)", zap.Error(err), zap.Stringp("lastReportID", lastReportID))
			return nil, nil, fmt.Errorf("获取举报排名失败: %w", err)
		}
		if rank == -1 { // 游标举报已不在榜单中
			s.logger.Warn("游标 lastReportID 已不在热榜中 (游标分页)", zap.Stringp("lastReportID", lastReportID))
			// 返回特定错误，让客户端决定如何响应（例如提示刷新或从头加载）。
			return nil, nil, fmt.Errorf("提供的游标举报(ID: %s)已不在热门榜单中，请刷新", *lastReportID)
		}
		start = rank + 1 // 下一页从上一页最后一条的下一名开始
		s.logger.Debug("热门举报分页加载", zap.Stringp("lastReportID", lastReportID), zap.Int64("startRank", start), zap.Int("limit", limit))
	}

	stop := start + int64(limit) - 1 // 计算 ZSet 查询的结束排名

	// 从热榜 ZSet 获取指定排名范围内的举报 ID 列表。
	reportIDs, err := s.cache.GetReportsByRange(ctx, start, stop)
	if err != nil {
		s.logger.Error("从缓存按排名范围获取举报 ID 失败 (游标分页)", zap.Error(err), zap.Int64("start", start), zap.Int64("stop", stop))
		return nil, nil, fmt.Errorf("获取举报 ID 列表失败: %w", err)
	}

	if len(reportIDs) == 0 { // 未获取到任何 ID
		if lastReportID == nil {
			// 首次加载且 ZSet 为空：缓存尚未重建，回退数据库取 Top N
			s.logger.Warn("热门榜 ZSet 为空，回退 MySQL 查询", zap.Int("limit", limit))
			return s.fallbackFromDB(ctx, limit)
		}
		s.logger.Info("按排名范围未获取到举报 ID (游标分页)，可能已到末尾", zap.Int64("start", start), zap.Int64("stop", stop))
		return []*vo.ReportResponse{}, nil, nil // 返回空列表和 nil 游标，表示没有更多数据
	}

	// 根据 ID 列表从 Redis Hash 缓存中批量获取举报实体数据。
	reports, err := s.cache.GetReports(ctx, reportIDs)
	if err != nil {
		if errors.Is(err, myErrors.ErrCacheMiss) {
			// Hash 缓存整体失效（ZSet 与 Hash 不一致），同样回退数据库
			s.logger.Warn("举报 Hash 缓存整体未命中，回退 MySQL 查询", zap.Int("id_count", len(reportIDs)))
			return s.fallbackFromDB(ctx, limit)
		}
		s.logger.Error("从缓存批量获取举报实体失败 (游标分页)", zap.Error(err), zap.Strings("reportIDs", reportIDs))
		return nil, nil, fmt.Errorf("获取举报详情失败: %w", err)
	}
	// GetReports 可能因部分 ID 缓存未命中而返回比 reportIDs 数量少的记录。
	// 游标的确定应基于从 ZSet 获取的 ID 数量。

	reportResponses := vo.MapReportsToResponsesVO(reports)

	// 确定下一页的游标。
	// 如果从 ZSet 获取的 ID 数量等于请求的 limit，说明可能还有更多数据，
	// 使用 reportIDs (来自ZSet) 的最后一个 ID 作为下一页的游标。
	var nextCursor *string
	if len(reportIDs) == limit && len(reportResponses) > 0 {
		lastReturnedID := reportIDs[len(reportIDs)-1]
		nextCursor = &lastReturnedID
		s.logger.Debug("确定下一页游标 (游标分页)", zap.String("nextCursor", *nextCursor))
	} else {
		nextCursor = nil // 没有更多数据
		s.logger.Debug("已到达热门举报列表末尾 (游标分页)")
	}

	return reportResponses, nextCursor, nil
}

// fallbackFromDB 在缓存整体失效时直接查询 MySQL 的可见度 Top N。
// 数据库结果不提供稳定游标，返回 nil 游标；下一轮缓存重建后恢复游标分页。
func (s *trendingService) fallbackFromDB(ctx context.Context, limit int) ([]*vo.ReportResponse, *string, error) {
	reports, err := s.batchRepo.ListTopByVisibility(ctx, limit)
	if err != nil {
		s.logger.Error("回退 MySQL 查询热门举报失败", zap.Error(err), zap.Int("limit", limit))
		return nil, nil, fmt.Errorf("查询热门举报失败: %w", err)
	}

	// 与缓存重建任务同口径：垃圾内容不进热门榜
	visible := make([]*entities.Report, 0, len(reports))
	for _, report := range reports {
		if report.SpamFlag {
			continue
		}
		visible = append(visible, report)
	}

	return vo.MapReportsToResponsesVO(visible), nil, nil
}
