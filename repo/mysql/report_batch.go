// File: repo/mysql/report_batch.go
package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/report_service/config"
	"github.com/Xushengqwer/report_service/models/entities"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportBatchOperationsRepository defines the interface for batch database operations,
// primarily supporting the visibility refresh task and trending cache rebuilds.
type ReportBatchOperationsRepository interface {
	// ListActiveReportsPage 按主键升序分页扫描未删除的举报。
	// - 供定时任务全量遍历重算可见度分数使用。
	ListActiveReportsPage(ctx context.Context, offset, limit int) ([]*entities.Report, error)

	// BatchUpdateVisibilityScores 异步、并发地将重算后的可见度分数批量写回 MySQL。
	// 设计目标是高吞吐量和容错性，允许在单个任务中处理大量更新，并记录但不中断因部分批次失败。
	BatchUpdateVisibilityScores(ctx context.Context, scores map[uint64]int) error

	// ListTopByVisibility 按可见度分数降序检索前 N 条举报。
	// - 为热门榜单缓存重建提供数据源，通过单次查询减少数据库负载。
	ListTopByVisibility(ctx context.Context, limit int) ([]*entities.Report, error)
}

type reportBatchOperationsRepository struct {
	db         *gorm.DB
	logger     *core.ZapLogger
	refreshCfg config.VisibilityRefreshConfig
}

// NewReportBatchOperationsRepository creates a new instance of ReportBatchOperationsRepository.
func NewReportBatchOperationsRepository(db *gorm.DB, logger *core.ZapLogger, refreshCfg config.VisibilityRefreshConfig) ReportBatchOperationsRepository {
	return &reportBatchOperationsRepository{db: db, logger: logger, refreshCfg: refreshCfg}
}

// scoreItem 是一个内部结构体，用于在并发处理通道中传递主键和对应的可见度分数。
type scoreItem struct {
	ID    uint64
	Score int
}

// ListActiveReportsPage 实现按主键升序的分页扫描。
func (r *reportBatchOperationsRepository) ListActiveReportsPage(ctx context.Context, offset, limit int) ([]*entities.Report, error) {
	var reports []*entities.Report

	// GORM 的 Find 方法会自动处理软删除，只返回存在的记录。
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		r.logger.Error("ListActiveReportsPage: 分页扫描举报失败。", zap.Error(err), zap.Int("offset", offset), zap.Int("limit", limit))
		return nil, err
	}

	return reports, nil
}

// BatchUpdateVisibilityScores 实现了可见度分数批量回写的核心逻辑。
//
// 使用场景:
// 由后台定时任务调用，将重算后的可见度分数（含时效衰减）
// 定期、批量且并发地写回 MySQL 的 reports 表中。
//
// 核心机制:
// 1. 数据分批: 根据配置 `refreshCfg.BatchSize` 将大量更新分割成小批次。
// 2. 并发处理: 根据配置 `refreshCfg.ConcurrencyLevel` 启动 worker goroutine 池处理这些批次。
// 3. 数据库更新: 每个 worker 对其批次内的数据，通过 `processBatch` 方法构建单条 SQL (CASE WHEN) 更新数据库。
//
// 允许部分批次失败（记录错误并聚合返回），以实现最终一致性。
func (r *reportBatchOperationsRepository) BatchUpdateVisibilityScores(ctx context.Context, scores map[uint64]int) error {
	totalUpdates := len(scores)
	if totalUpdates == 0 {
		r.logger.Info("BatchUpdateVisibilityScores: 没有需要更新的可见度分数，任务提前结束。")
		return nil // 如果没有数据，直接返回 nil 表示成功（无需操作）。
	}

	// --- 1. 加载并验证配置 ---
	batchSize := r.refreshCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500 // Fallback
		r.logger.Warn("BatchUpdateVisibilityScores: 配置 BatchSize 无效，使用默认值", zap.Int("defaultBatchSize", batchSize), zap.Int("configured", r.refreshCfg.BatchSize))
	}

	concurrencyLevel := r.refreshCfg.ConcurrencyLevel
	if concurrencyLevel <= 0 {
		concurrencyLevel = 1 // Fallback (顺序执行)
		r.logger.Warn("BatchUpdateVisibilityScores: 配置 ConcurrencyLevel 无效，使用默认值 1", zap.Int("defaultConcurrency", concurrencyLevel), zap.Int("configured", r.refreshCfg.ConcurrencyLevel))
	}

	// --- 2. 数据准备与日志记录 ---
	itemsToUpdate := make([]scoreItem, 0, totalUpdates)
	for id, score := range scores {
		itemsToUpdate = append(itemsToUpdate, scoreItem{ID: id, Score: score})
	}

	totalBatches := (totalUpdates + batchSize - 1) / batchSize
	r.logger.Info("BatchUpdateVisibilityScores: 开始并发批量更新",
		zap.Int("总数", totalUpdates),
		zap.Int("批大小", batchSize),
		zap.Int("并发数", concurrencyLevel),
		zap.Int("批次数", totalBatches),
	)

	// --- 3. 设置并发工作池 ---
	var wg sync.WaitGroup
	jobs := make(chan []scoreItem, concurrencyLevel)
	results := make(chan error, totalBatches)
	overallStartTime := time.Now()

	// --- 4. 启动 Worker Goroutines ---
	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.logger.Debug("Worker 启动", zap.Int("workerID", workerID))
			for batch := range jobs {
				select {
				case <-ctx.Done():
					r.logger.Warn("上下文取消，Worker 停止处理", zap.Int("workerID", workerID), zap.Error(ctx.Err()))
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				default:
				}

				err := r.processBatch(ctx, batch, workerID)
				results <- err
			}
			r.logger.Debug("Worker 正常退出", zap.Int("workerID", workerID))
		}(i)
	}

	// --- 5. 启动分发任务 Goroutine ---
	go func() {
		defer func() {
			close(jobs)
			r.logger.Info("所有批次任务已发送完毕，jobs channel 已关闭。")
		}()

		for i := 0; i < totalUpdates; i += batchSize {
			end := i + batchSize
			if end > totalUpdates {
				end = totalUpdates
			}
			batchCopy := make([]scoreItem, len(itemsToUpdate[i:end]))
			copy(batchCopy, itemsToUpdate[i:end])

			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发更多批次任务。", zap.Error(ctx.Err()))
				return
			case jobs <- batchCopy:
			}
		}
	}()

	// --- 6. 启动收集结果 Goroutine ---
	var aggregatedErrors []error
	go func() {
		wg.Wait()
		close(results)
	}()

	// --- 7. 收集并聚合结果 ---
	for err := range results {
		if err != nil {
			aggregatedErrors = append(aggregatedErrors, err)
		}
	}

	// --- 8. 最终日志记录与返回 ---
	totalDuration := time.Since(overallStartTime)
	failedCount := len(aggregatedErrors)
	r.logger.Info("完成所有批次的可见度分数并发更新处理。",
		zap.Duration("总耗时", totalDuration),
		zap.Int("总批次数", totalBatches),
		zap.Int("失败批次数", failedCount),
	)

	if failedCount > 0 {
		var errorStrings []string
		for _, e := range aggregatedErrors {
			errorStrings = append(errorStrings, e.Error())
		}
		finalError := fmt.Errorf("并发批量更新过程中发生错误 (%d / %d 个批次失败): %s", failedCount, totalBatches, strings.Join(errorStrings, "; "))
		r.logger.Error("并发批量更新最终结果：失败", zap.Error(finalError))
		return finalError
	}

	r.logger.Info("并发批量更新最终结果：成功。")
	return nil
}

// processBatch 负责处理单个批次的数据库更新。
func (r *reportBatchOperationsRepository) processBatch(ctx context.Context, batch []scoreItem, workerID int) error {
	currentBatchSize := len(batch)

	var (
		ids          []uint64
		sqlCase      strings.Builder
		updateParams []interface{}
	)
	sqlCase.WriteString("CASE id ")
	for _, item := range batch {
		ids = append(ids, item.ID)
		sqlCase.WriteString("WHEN ? THEN ? ")
		updateParams = append(updateParams, item.ID, item.Score)
	}
	sqlCase.WriteString("END")

	dbOperationStart := time.Now()
	err := r.db.WithContext(ctx).Model(&entities.Report{}).
		Where("id IN ?", ids).
		Update("visibility_score", gorm.Expr(sqlCase.String(), updateParams...)).Error
	dbDuration := time.Since(dbOperationStart)

	if err != nil {
		r.logger.Error("processBatch: 数据库更新批次失败",
			zap.Int("workerID", workerID),
			zap.Int("batchSize", currentBatchSize),
			zap.Duration("db耗时", dbDuration),
			zap.Error(err),
		)
		return fmt.Errorf("worker %d 处理批次 (大小 %d) 失败: %w", workerID, currentBatchSize, err)
	}

	r.logger.Debug("processBatch: 数据库更新批次成功",
		zap.Int("workerID", workerID),
		zap.Int("batchSize", currentBatchSize),
		zap.Duration("db耗时", dbDuration),
	)
	return nil
}

// ListTopByVisibility 实现按可见度分数降序检索前 N 条举报。
func (r *reportBatchOperationsRepository) ListTopByVisibility(ctx context.Context, limit int) ([]*entities.Report, error) {
	var reports []*entities.Report

	if limit <= 0 {
		r.logger.Debug("ListTopByVisibility: limit 无效，返回空列表。", zap.Int("limit", limit))
		return reports, nil
	}

	err := r.db.WithContext(ctx).
		Order("visibility_score DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		r.logger.Error("ListTopByVisibility: 查询热门举报失败。", zap.Error(err), zap.Int("limit", limit))
		return nil, err
	}

	r.logger.Debug("ListTopByVisibility: 查询热门举报成功。", zap.Int("找到数量", len(reports)))
	return reports, nil
}
