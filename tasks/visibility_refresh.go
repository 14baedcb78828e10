// File: tasks/visibility_refresh.go
package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/config"
	"github.com/Xushengqwer/report_service/constant"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/repo/mysql"
	"github.com/Xushengqwer/report_service/repo/redis"
	"github.com/Xushengqwer/report_service/scoring"
)

// VisibilityRefreshTask 负责定时重算全部举报的可见度分数并刷新热门榜缓存。
// 可见度分数包含时效衰减项，即使没有新投票也会随时间下降，
// 因此需要周期性地全量扫描、重算、批量回写 MySQL，再重建 Redis 热门榜。
type VisibilityRefreshTask struct {
	batchRepo  mysql.ReportBatchOperationsRepository // MySQL 批量操作仓库，扫描与回写
	taskCache  redis.TrendingTaskCache               // Redis 热门榜重建接口
	refreshCfg config.VisibilityRefreshConfig
	cron       *cron.Cron
	logger     *core.ZapLogger
}

// NewVisibilityRefreshTask 初始化并启动可见度刷新的定时任务。
func NewVisibilityRefreshTask(
	batchRepo mysql.ReportBatchOperationsRepository,
	taskCache redis.TrendingTaskCache,
	refreshCfg config.VisibilityRefreshConfig,
	logger *core.ZapLogger,
) *VisibilityRefreshTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &VisibilityRefreshTask{
		batchRepo:  batchRepo,
		taskCache:  taskCache,
		refreshCfg: refreshCfg,
		cron:       cronV3,
		logger:     logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *VisibilityRefreshTask) startCronJob() {
	schedule := constant.VisibilityRefreshCronSpec
	t.logger.Info("准备启动可见度分数刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("可见度分数刷新任务开始执行...")
		startTime := time.Now()
		// 为单次任务执行设置超时。全量扫描 + 批量回写 + 榜单重建，
		// 正常应远低于 10 分钟，留出余量防止任务卡死。
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.refreshVisibility(ctx)

		duration := time.Since(startTime)
		t.logger.Info("可见度分数刷新任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		t.logger.Fatal("添加可见度分数刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("可见度分数刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// refreshVisibility 是定时任务执行的实际刷新逻辑。
// 1. 按主键分页扫描全部活跃举报，逐条重算可见度分数。
// 2. 将发生变化的分数批量回写 MySQL。
// 3. 按最新分数取 Top N 重建 Redis 热门榜。
func (t *VisibilityRefreshTask) refreshVisibility(ctx context.Context) {
	pageSize := t.refreshCfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	now := time.Now()
	changed := make(map[uint64]int)
	scanned := 0

	t.logger.Info("任务步骤1: 开始分页扫描活跃举报并重算可见度分数...")
	for offset := 0; ; offset += pageSize {
		reports, err := t.batchRepo.ListActiveReportsPage(ctx, offset, pageSize)
		if err != nil {
			t.logger.Error("分页扫描活跃举报失败，本次刷新中止。", zap.Error(err), zap.Int("offset", offset))
			return
		}
		if len(reports) == 0 {
			break
		}
		scanned += len(reports)

		for _, report := range reports {
			counts := scoring.VoteCounts{
				LowRisk:    report.VotesLowRisk,
				Concerning: report.VotesConcerning,
				Urgent:     report.VotesUrgent,
				Critical:   report.VotesCritical,
			}
			score := scoring.VisibilityScore(
				scoring.ThreatScore(counts),
				report.EvidenceScore,
				report.CreatedAt,
				now,
				counts.Total(),
			)
			if score != report.VisibilityScore {
				changed[report.ID] = score
			}
		}

		if len(reports) < pageSize {
			break
		}
	}
	t.logger.Info("任务步骤1: 扫描与重算完成。",
		zap.Int("扫描数量", scanned),
		zap.Int("变更数量", len(changed)))

	if len(changed) > 0 {
		t.logger.Info("任务步骤2: 开始将可见度分数批量回写 MySQL...")
		if err := t.batchRepo.BatchUpdateVisibilityScores(ctx, changed); err != nil {
			t.logger.Error("批量回写可见度分数失败", zap.Error(err), zap.Int("提交数量", len(changed)))
			// 记录错误，仍继续重建榜单：榜单以数据库当前值为准，部分回写失败不应让缓存停更。
		} else {
			t.logger.Info("任务步骤2: 批量回写可见度分数完成。", zap.Int("提交数量", len(changed)))
		}
	} else {
		t.logger.Info("任务步骤2: 没有分数变更，跳过回写。")
	}

	trendingSize := t.refreshCfg.TrendingSize
	if trendingSize <= 0 {
		trendingSize = constant.TrendingCacheSize
	}

	t.logger.Info("任务步骤3: 开始重建 Redis 热门榜...")
	topReports, err := t.batchRepo.ListTopByVisibility(ctx, trendingSize)
	if err != nil {
		t.logger.Error("查询热门举报 Top N 失败，跳过榜单重建", zap.Error(err))
		return
	}
	if err := t.taskCache.RebuildTrending(ctx, t.filterVisible(topReports)); err != nil {
		t.logger.Error("重建 Redis 热门榜失败", zap.Error(err))
	} else {
		t.logger.Info("任务步骤3: 成功重建 Redis 热门榜", zap.Int("条目数量", len(topReports)))
	}
}

// filterVisible 过滤掉被判为垃圾内容的举报，垃圾内容不进热门榜。
func (t *VisibilityRefreshTask) filterVisible(reports []*entities.Report) []*entities.Report {
	filtered := make([]*entities.Report, 0, len(reports))
	for _, report := range reports {
		if report.SpamFlag {
			continue
		}
		filtered = append(filtered, report)
	}
	return filtered
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *VisibilityRefreshTask) Stop() context.Context {
	t.logger.Info("正在停止可见度分数刷新定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("可见度分数刷新定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
