package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core" // 导入日志库
	"go.uber.org/zap"                       // 导入 zap
	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
)

// statusCount 承接按状态分组统计的扫描结果。
type statusCount struct {
	Status enums.Status `gorm:"column:status"`
	Count  int64        `gorm:"column:count"`
}

// categoryCount 承接按类别分组统计的扫描结果。
type categoryCount struct {
	Category enums.Category `gorm:"column:category"`
	Count    int64          `gorm:"column:count"`
}

// threatLevelCount 承接按威胁等级分组统计的扫描结果。
type threatLevelCount struct {
	ThreatLevel enums.ThreatLabel `gorm:"column:threat_level"`
	Count       int64             `gorm:"column:count"`
}

// ReportAdminRepository 定义了举报管理端相关的数据库操作接口。
// - 主要负责管理后台对举报数据的查询、状态修改和统计。
type ReportAdminRepository interface {
	// UpdateReportStatus 更新指定举报的处理状态、状态文案和可选的内部备注。
	// - note (sql.NullString): 使用 sql.NullString 以区分 NULL 和空字符串。
	// - 注意: 如果记录未找到或已被软删除，应返回明确的错误。
	UpdateReportStatus(ctx context.Context, reportID string, status enums.Status, statusMessage string, note sql.NullString) error

	// SetCommunityFlag 直接设置社区标记位。
	// - 供审核裁决消费者使用：确认标记或撤销误标。
	SetCommunityFlag(ctx context.Context, reportID string, flagged bool, note sql.NullString) error

	// ListReportsByCondition 根据多种可选条件分页查询举报列表。
	// - 服务于管理后台的复杂查询和筛选需求。
	// - 输出: 返回举报列表和满足条件的总记录数，用于分页展示。
	ListReportsByCondition(ctx context.Context, req *dto.ListReportsByConditionRequest) ([]*entities.Report, int64, error)

	// CountByStatus 按处理状态分组统计举报数量。
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountByCategory 按案件类别分组统计举报数量。
	CountByCategory(ctx context.Context) (map[string]int64, error)

	// CountByThreatLevel 按威胁等级分组统计举报数量。
	CountByThreatLevel(ctx context.Context) (map[string]int64, error)

	// CountFlags 统计总数、被社区标记数与垃圾内容数。
	CountFlags(ctx context.Context) (total int64, flagged int64, spam int64, err error)
}

// reportAdminRepository 是 ReportAdminRepository 接口的 MySQL 实现。
type reportAdminRepository struct {
	db     *gorm.DB        // GORM 数据库实例
	logger *core.ZapLogger // 日志记录器实例
}

// NewReportAdminRepository 是 reportAdminRepository 的构造函数。
// - 通过依赖注入传入 db 和 logger。
func NewReportAdminRepository(db *gorm.DB, logger *core.ZapLogger) ReportAdminRepository {
	return &reportAdminRepository{
		db:     db,
		logger: logger,
	}
}

// UpdateReportStatus 实现更新举报状态、文案和备注的逻辑。
func (r *reportAdminRepository) UpdateReportStatus(ctx context.Context, reportID string, status enums.Status, statusMessage string, note sql.NullString) error {
	// 准备需要更新的字段 map。
	// 使用 map 可以确保只更新指定的字段。
	updateData := map[string]interface{}{
		"status":          status,
		"status_message":  statusMessage,
		"updated_at":      time.Now(), // 总是更新修改时间
		"moderation_note": note,       // 更新内部备注 (可以是 NULL)
	}

	// 执行更新操作，限制条件为举报ID匹配且未被软删除。
	result := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("report_id = ? AND deleted_at IS NULL", reportID).
		Updates(updateData)

	// 处理 GORM 操作本身的错误。
	if result.Error != nil {
		r.logger.Error("更新举报状态数据库出错", zap.Error(result.Error), zap.String("reportID", reportID), zap.Any("status", status))
		return result.Error
	}
	// 检查是否有行受到影响。如果没有，说明举报未找到或已被删除。
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新不存在或已删除举报的状态", zap.String("reportID", reportID), zap.Any("status", status))
		return commonerrors.ErrRepoNotFound
	}
	r.logger.Debug("成功更新举报状态", zap.String("reportID", reportID), zap.Any("status", status))
	return nil
}

// SetCommunityFlag 实现社区标记位的直接设置。
func (r *reportAdminRepository) SetCommunityFlag(ctx context.Context, reportID string, flagged bool, note sql.NullString) error {
	updateData := map[string]interface{}{
		"community_flagged": flagged,
		"updated_at":        time.Now(),
	}
	if note.Valid {
		updateData["moderation_note"] = note
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("report_id = ? AND deleted_at IS NULL", reportID).
		Updates(updateData)

	if result.Error != nil {
		r.logger.Error("设置社区标记数据库出错", zap.Error(result.Error), zap.String("reportID", reportID), zap.Bool("flagged", flagged))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试设置不存在或已删除举报的社区标记", zap.String("reportID", reportID))
		return commonerrors.ErrRepoNotFound
	}
	r.logger.Debug("成功设置社区标记", zap.String("reportID", reportID), zap.Bool("flagged", flagged))
	return nil
}

// ListReportsByCondition 实现按条件分页查询举报。
func (r *reportAdminRepository) ListReportsByCondition(ctx context.Context, req *dto.ListReportsByConditionRequest) ([]*entities.Report, int64, error) {
	var reports []*entities.Report
	// Model(&entities.Report{}) 用于 GORM 知道基础查询针对哪个表，特别是 Count 操作需要。
	dbQuery := r.db.WithContext(ctx).Model(&entities.Report{}).Where("deleted_at IS NULL")

	// 优化：如果提供了精确的举报ID，直接查询，忽略其他条件。
	if req.ReportID != nil {
		var report entities.Report
		err := dbQuery.Where("report_id = ?", *req.ReportID).First(&report).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				r.logger.Info("按条件查询举报：未找到指定举报ID", zap.Stringp("reportID", req.ReportID))
				return nil, 0, nil // 未找到不算错误，返回空结果
			}
			r.logger.Error("按举报ID查询失败", zap.Error(err), zap.Stringp("reportID", req.ReportID))
			return nil, 0, err // 其他数据库错误
		}
		r.logger.Debug("按条件查询举报：通过举报ID找到", zap.Stringp("reportID", req.ReportID))
		return []*entities.Report{&report}, 1, nil // 返回单条记录及总数 1
	}

	// --- 动态构建查询条件 ---
	// 使用 Where 方法链式添加条件。
	// 对于可选条件，先判断 DTO 中的字段是否为 nil。
	if req.Title != nil {
		dbQuery = dbQuery.Where("title LIKE ?", "%"+*req.Title+"%")
	}
	if req.Category != nil {
		dbQuery = dbQuery.Where("category = ?", *req.Category)
	}
	if req.City != nil {
		dbQuery = dbQuery.Where("LOWER(city) LIKE LOWER(?)", "%"+*req.City+"%")
	}
	if req.Status != nil {
		dbQuery = dbQuery.Where("status = ?", *req.Status)
	}
	if req.ThreatLevel != nil {
		dbQuery = dbQuery.Where("threat_level = ?", *req.ThreatLevel)
	}
	if req.CommunityFlagged != nil {
		dbQuery = dbQuery.Where("community_flagged = ?", *req.CommunityFlagged)
	}
	if req.SpamFlag != nil {
		dbQuery = dbQuery.Where("spam_flag = ?", *req.SpamFlag)
	}

	// --- 处理排序 ---
	orderField := "created_at" // 默认排序字段
	switch req.OrderBy {
	case "visibility_score":
		orderField = "visibility_score"
	case "threat_score":
		orderField = "threat_score"
	}
	orderDirection := "ASC" // 默认升序
	if req.OrderDesc {
		orderDirection = "DESC" // 如果 DTO 要求降序
	}
	// 构建完整的 ORDER BY 子句
	orderClause := fmt.Sprintf("%s %s", orderField, orderDirection)

	// --- 执行 Count 查询 ---
	// 先计算总数，此时不应用 Limit 和 Offset，但应用 Where 条件。
	var total int64
	// GORM 的 Count 会自动忽略 Order 子句。
	if err := dbQuery.Count(&total).Error; err != nil {
		r.logger.Error("按条件查询举报计数失败", zap.Error(err))
		return nil, 0, err
	}

	// 如果总数为 0，无需执行后续的 Find 查询。
	if total == 0 {
		r.logger.Debug("按条件查询举报：未找到匹配记录")
		return reports, 0, nil // 返回空列表和总数 0
	}

	// --- 执行分页数据查询 ---
	// 计算偏移量。Page 从 1 开始。
	offset := (req.Page - 1) * req.PageSize
	// 应用排序、Limit 和 Offset，执行查询。
	if err := dbQuery.Order(orderClause).Limit(req.PageSize).Offset(offset).Find(&reports).Error; err != nil {
		r.logger.Error("按条件查询举报分页数据失败", zap.Error(err))
		return nil, 0, err
	}

	r.logger.Debug("按条件查询举报成功", zap.Int("page", req.Page), zap.Int("pageSize", req.PageSize), zap.Int64("total", total))
	return reports, total, nil // 返回查询结果和总数
}

// CountByStatus 实现按处理状态分组统计。
func (r *reportAdminRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Select("status, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("按状态统计举报失败", zap.Error(err))
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status.String()] = row.Count
	}
	return stats, nil
}

// CountByCategory 实现按案件类别分组统计。
func (r *reportAdminRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []categoryCount
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Select("category, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("按类别统计举报失败", zap.Error(err))
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Category.String()] = row.Count
	}
	return stats, nil
}

// CountByThreatLevel 实现按威胁等级分组统计。
func (r *reportAdminRepository) CountByThreatLevel(ctx context.Context) (map[string]int64, error) {
	var rows []threatLevelCount
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Select("threat_level, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("threat_level").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("按威胁等级统计举报失败", zap.Error(err))
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.ThreatLevel.String()] = row.Count
	}
	return stats, nil
}

// CountFlags 实现总数与标记数的统计。
func (r *reportAdminRepository) CountFlags(ctx context.Context) (total int64, flagged int64, spam int64, err error) {
	base := r.db.WithContext(ctx).Model(&entities.Report{}).Where("deleted_at IS NULL")

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.logger.Error("统计举报总数失败", zap.Error(err))
		return 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("community_flagged = ?", true).Count(&flagged).Error; err != nil {
		r.logger.Error("统计被标记举报数失败", zap.Error(err))
		return 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("spam_flag = ?", true).Count(&spam).Error; err != nil {
		r.logger.Error("统计垃圾举报数失败", zap.Error(err))
		return 0, 0, 0, err
	}
	return total, flagged, spam, nil
}
