package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/entities"
)

// ReportEvidenceRepository 定义了与 report_evidences 表交互的接口。
type ReportEvidenceRepository interface {
	// BatchCreateEvidence 创建多个新的证据材料条目。
	// - 意图: 高效地插入与举报关联的多个证据文件的元数据。
	// - 输入: ctx context.Context, db *gorm.DB (用于事务操作), items []*entities.ReportEvidence
	// - 注意: 服务层应确保每个 item 的 ReportID, MediaURL, DisplayOrder 等字段已正确填充。
	BatchCreateEvidence(ctx context.Context, db *gorm.DB, items []*entities.ReportEvidence) error

	// GetEvidenceByReportID 检索与给定举报关联的所有证据材料。
	// - 按 DisplayOrder 升序返回。
	// - 注意: 如果未找到证据，则返回空切片，而不是错误。
	GetEvidenceByReportID(ctx context.Context, reportID string) ([]*entities.ReportEvidence, error)

	// BatchGetEvidenceByReportIDs 批量检索多条举报的证据材料。
	// - 返回以举报ID为键的映射；没有证据的举报ID也会存在于映射中，对应空切片。
	// - 为信息流批量填充证据列表设计，通过单次查询减少数据库负载。
	BatchGetEvidenceByReportIDs(ctx context.Context, reportIDs []string) (map[string][]*entities.ReportEvidence, error)

	// DeleteEvidenceByReportID 删除与给定举报关联的所有证据材料。
	// - 通常在创建事务回滚后的补偿清理中使用。
	DeleteEvidenceByReportID(ctx context.Context, db *gorm.DB, reportID string) error
}

type reportEvidenceRepository struct {
	db *gorm.DB // GORM 数据库实例，用于非事务性的默认操作
}

// NewReportEvidenceRepository 创建 ReportEvidenceRepository 的新实例。
func NewReportEvidenceRepository(db *gorm.DB) ReportEvidenceRepository {
	return &reportEvidenceRepository{db: db}
}

// BatchCreateEvidence 创建多个新的证据材料条目。
func (r *reportEvidenceRepository) BatchCreateEvidence(ctx context.Context, db *gorm.DB, items []*entities.ReportEvidence) error {
	if len(items) == 0 {
		return nil // 没有要创建的内容
	}
	tx := db.WithContext(ctx)
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	return nil
}

// GetEvidenceByReportID 检索与给定举报关联的所有证据材料。
func (r *reportEvidenceRepository) GetEvidenceByReportID(ctx context.Context, reportID string) ([]*entities.ReportEvidence, error) {
	var items []*entities.ReportEvidence
	// GORM 的 Find 在未找到记录时不会返回 gorm.ErrRecordNotFound，而是返回一个空切片。
	err := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("display_order ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// BatchGetEvidenceByReportIDs 批量检索多条举报的证据材料。
func (r *reportEvidenceRepository) BatchGetEvidenceByReportIDs(ctx context.Context, reportIDs []string) (map[string][]*entities.ReportEvidence, error) {
	// 如果输入的举报ID列表为空，则直接返回一个空的映射和nil错误。
	if len(reportIDs) == 0 {
		return make(map[string][]*entities.ReportEvidence), nil
	}

	var items []*entities.ReportEvidence
	// 查询结果按 report_id 和展示顺序升序排列，以确保结果的顺序一致性。
	if err := r.db.WithContext(ctx).
		Where("report_id IN ?", reportIDs).
		Order("report_id asc, display_order asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	// 初始化映射，预估容量以提高效率。
	evidenceMap := make(map[string][]*entities.ReportEvidence, len(reportIDs))

	// 遍历查询到的证据列表，按 ReportID 分组存入映射。
	for _, item := range items {
		evidenceMap[item.ReportID] = append(evidenceMap[item.ReportID], item)
	}

	// 确保返回的映射中包含所有请求的举报ID（即使某些ID没有对应的证据），
	// 方便调用方直接遍历取值，无需再次检查键是否存在。
	for _, id := range reportIDs {
		if _, ok := evidenceMap[id]; !ok {
			evidenceMap[id] = []*entities.ReportEvidence{}
		}
	}

	return evidenceMap, nil
}

// DeleteEvidenceByReportID 删除与给定举报关联的所有证据材料。
func (r *reportEvidenceRepository) DeleteEvidenceByReportID(ctx context.Context, db *gorm.DB, reportID string) error {
	tx := db.WithContext(ctx)
	result := tx.Where("report_id = ?", reportID).Delete(&entities.ReportEvidence{})
	if result.Error != nil {
		return result.Error
	}
	return nil
}
