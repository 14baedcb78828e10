package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/entities" // 引入数据库实体定义
	"github.com/Xushengqwer/report_service/models/enums"
)

// ReportRepository 定义了举报数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type ReportRepository interface {
	// CreateReport 持久化一条新的举报记录。
	// - 这是举报生命周期的起点，对应匿名用户提交举报的操作。
	CreateReport(ctx context.Context, db *gorm.DB, report *entities.Report) error

	// GetByReportID 根据对外举报ID检索举报。
	// - 如果未找到，应返回 commonerrors.ErrRepoNotFound 错误。
	GetByReportID(ctx context.Context, reportID string) (*entities.Report, error)

	// GetByTokenHash 根据状态查询令牌的摘要检索举报。
	// - 举报人凭明文令牌查询进度，服务层先做 SHA-256 再调用本方法。
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Report, error)

	// ListFeed 分页查询公开信息流，支持类别与城市筛选。
	// - 排序固定为可见度分数降序，其次创建时间降序。
	// - 返回: 举报列表, 符合条件的总记录数, 错误。
	ListFeed(ctx context.Context, params *dto.FeedQueryDTO) ([]*entities.Report, int64, error)

	// ApplyVoteDelta 以单条 UPDATE 原子调整投票计数器。
	// - inc 为本次要加一的档位；dec 非 nil 时表示改票，对应档位减一（下限为 0）。
	// - incTotal 为 true 时总票数加一（首次投票），改票场景传 false。
	ApplyVoteDelta(ctx context.Context, db *gorm.DB, reportID string, inc enums.VoteCategory, dec *enums.VoteCategory, incTotal bool) error

	// UpdateDerivedScores 回写派生分数与社区标记。
	// - totalVotes 以四个档位之和重新推导后传入，一并纠正可能的漂移。
	UpdateDerivedScores(ctx context.Context, db *gorm.DB, reportID string, threatScore int, threatLevel enums.ThreatLabel, visibilityScore int, totalVotes uint, communityFlagged bool) error
}

// reportRepository 是 ReportRepository 接口针对 MySQL 的具体实现。
type reportRepository struct {
	db     *gorm.DB        // GORM 数据库实例
	logger *core.ZapLogger // 日志记录器实例
}

// NewReportRepository 是 reportRepository 的构造函数。
func NewReportRepository(db *gorm.DB, logger *core.ZapLogger) ReportRepository {
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

// CreateReport 实现举报的数据库插入操作。
// 注意：增加了 db *gorm.DB 参数，便于在服务层事务中复用。
func (r *reportRepository) CreateReport(ctx context.Context, db *gorm.DB, report *entities.Report) error {
	// 使用传入的 db 对象（在这里即为事务对象 tx）执行数据库操作。
	// GORM 会自动处理 BaseModel 中的 CreatedAt 和 UpdatedAt 字段。
	if err := db.WithContext(ctx).Create(report).Error; err != nil {
		// 在仓库层，通常直接返回数据库错误，由服务层决定如何处理或包装。
		return err
	}
	return nil
}

// GetByReportID 实现根据对外举报ID获取举报。
func (r *reportRepository) GetByReportID(ctx context.Context, reportID string) (*entities.Report, error) {
	var report entities.Report

	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).First(&report).Error
	if err != nil {
		// 检查错误是否为 GORM 的“未找到记录”错误。
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据举报ID获取举报未找到", zap.String("reportID", reportID), zap.Error(err))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据举报ID获取举报数据库查询失败", zap.String("reportID", reportID), zap.Error(err))
		return nil, err
	}

	return &report, nil
}

// GetByTokenHash 实现根据令牌摘要获取举报。
func (r *reportRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Report, error) {
	var report entities.Report

	err := r.db.WithContext(ctx).Where("status_token_hash = ?", tokenHash).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 令牌摘要不打日志明文之外的信息，避免误导排查方向
			r.logger.Warn("根据令牌摘要获取举报未找到")
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据令牌摘要获取举报数据库查询失败", zap.Error(err))
		return nil, err
	}

	return &report, nil
}

// ListFeed 实现公开信息流的分页查询，支持类别与城市筛选。
func (r *reportRepository) ListFeed(ctx context.Context, params *dto.FeedQueryDTO) ([]*entities.Report, int64, error) {
	var reports []*entities.Report // 用于存储查询结果
	var totalCount int64           // 用于存储符合条件的总记录数

	// --- 构建基础查询 ---
	query := r.db.WithContext(ctx).Model(&entities.Report{})
	countQuery := r.db.WithContext(ctx).Model(&entities.Report{}) // 用于计数的查询

	// --- 应用筛选条件 ---
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
		countQuery = countQuery.Where("category = ?", *params.Category)
	}
	if params.City != nil && *params.City != "" { // 确保指针不为nil且字符串非空
		// 城市筛选不区分大小写
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+*params.City+"%")
		countQuery = countQuery.Where("LOWER(city) LIKE LOWER(?)", "%"+*params.City+"%")
	}

	// --- 执行计数查询 ---
	// 在应用所有筛选条件后，但在应用分页和排序之前执行计数
	if err := countQuery.Count(&totalCount).Error; err != nil {
		r.logger.Error("获取举报信息流：计数查询失败",
			zap.Error(err),
			zap.Any("category", params.Category),
			zap.Any("city", params.City),
		)
		return nil, 0, fmt.Errorf("计数举报失败: %w", err)
	}

	// 如果总数为0，无需执行后续的列表查询
	if totalCount == 0 {
		return reports, 0, nil // 返回空列表和总数0
	}

	// --- 应用排序和分页到列表查询 ---
	query = query.Order("visibility_score DESC").Order("created_at DESC") // 可见度优先
	query = query.Offset(params.Offset).Limit(params.Limit)               // 应用分页

	// --- 执行列表查询 ---
	if err := query.Find(&reports).Error; err != nil {
		r.logger.Error("获取举报信息流：列表查询失败",
			zap.Error(err),
			zap.Any("category", params.Category),
			zap.Any("city", params.City),
			zap.Int("offset", params.Offset),
			zap.Int("limit", params.Limit),
		)
		return nil, 0, fmt.Errorf("查询举报信息流失败: %w", err)
	}

	return reports, totalCount, nil
}

// voteColumn 将投票档位映射为计数器列名。
func voteColumn(category enums.VoteCategory) string {
	switch category {
	case enums.VoteLowRisk:
		return "votes_low_risk"
	case enums.VoteConcerning:
		return "votes_concerning"
	case enums.VoteUrgent:
		return "votes_urgent"
	default:
		return "votes_critical"
	}
}

// ApplyVoteDelta 实现投票计数器的原子增减。
func (r *reportRepository) ApplyVoteDelta(ctx context.Context, db *gorm.DB, reportID string, inc enums.VoteCategory, dec *enums.VoteCategory, incTotal bool) error {
	updateMap := make(map[string]interface{})

	incCol := voteColumn(inc)
	updateMap[incCol] = gorm.Expr(incCol + " + 1")

	if dec != nil {
		// 改票时旧档位减一，下限为 0，并发竞争下也不会出现负数
		decCol := voteColumn(*dec)
		updateMap[decCol] = gorm.Expr("CASE WHEN " + decCol + " > 0 THEN " + decCol + " - 1 ELSE 0 END")
	}
	if incTotal {
		updateMap["total_votes"] = gorm.Expr("total_votes + 1")
	}

	result := db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("report_id = ? AND deleted_at IS NULL", reportID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("调整投票计数器数据库操作失败",
			zap.Error(result.Error),
			zap.String("reportID", reportID),
			zap.String("incCategory", inc.String()),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试调整投票计数器但未找到举报或举报已被删除",
			zap.String("reportID", reportID),
		)
		return commonerrors.ErrRepoNotFound
	}

	return nil
}

// UpdateDerivedScores 实现派生分数的回写。
func (r *reportRepository) UpdateDerivedScores(ctx context.Context, db *gorm.DB, reportID string, threatScore int, threatLevel enums.ThreatLabel, visibilityScore int, totalVotes uint, communityFlagged bool) error {
	updateMap := map[string]interface{}{
		"threat_score":      threatScore,
		"threat_level":      threatLevel,
		"visibility_score":  visibilityScore,
		"total_votes":       totalVotes,
		"community_flagged": communityFlagged,
	}

	result := db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("report_id = ? AND deleted_at IS NULL", reportID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("回写派生分数数据库操作失败",
			zap.Error(result.Error),
			zap.String("reportID", reportID),
			zap.Any("updateData", updateMap),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试回写派生分数但未找到举报或举报已被删除",
			zap.String("reportID", reportID),
		)
		return commonerrors.ErrRepoNotFound
	}

	return nil
}
