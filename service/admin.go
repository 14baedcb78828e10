package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/models/vo"
	"github.com/Xushengqwer/report_service/mq/producer"
	"github.com/Xushengqwer/report_service/repo/mysql"
)

// ReportAdminService 定义举报管理端服务的接口。
// - 封装管理员对举报的处理状态更新、条件查询与统计概览。
type ReportAdminService interface {
	// UpdateReportStatus 处理管理员更新举报处理状态的请求。
	// - 更新成功后异步发送 Kafka 状态变更事件。
	UpdateReportStatus(ctx context.Context, reportID string, req *dto.UpdateReportStatusRequest) error

	// ListReportsByCondition 按条件分页查询举报列表。
	// - 供管理后台使用，直接将 DTO 传递给仓库层。
	ListReportsByCondition(ctx context.Context, req *dto.ListReportsByConditionRequest) (*vo.ListReportsAdminByConditionResponse, error)

	// GetReportStats 返回管理端统计概览。
	GetReportStats(ctx context.Context) (*vo.ReportStatsVO, error)

	// ApplyModerationDecision 应用人工复核对社区标记的裁决。
	// - confirmed 为 true 时维持标记，false 时清除误标，均记录裁决备注。
	// - 由 Kafka 复核裁决消费者调用。
	ApplyModerationDecision(ctx context.Context, reportID string, confirmed bool, note string) error
}

// reportAdminService 是 ReportAdminService 接口的实现。
type reportAdminService struct {
	adminRepo  mysql.ReportAdminRepository
	reportRepo mysql.ReportRepository
	logger     *core.ZapLogger
	db         *gorm.DB
	kafkaSvc   *producer.KafkaProducer // Kafka 生产者，用于发送异步消息
}

// NewReportAdminService 初始化举报管理端服务。
func NewReportAdminService(
	adminRepo mysql.ReportAdminRepository,
	reportRepo mysql.ReportRepository,
	logger *core.ZapLogger,
	db *gorm.DB,
	kafkaSvc *producer.KafkaProducer,
) ReportAdminService {
	return &reportAdminService{
		adminRepo:  adminRepo,
		reportRepo: reportRepo,
		logger:     logger,
		db:         db,
		kafkaSvc:   kafkaSvc,
	}
}

// UpdateReportStatus 实现更新举报处理状态的逻辑。
// - 将 DTO 中的 Note 转换为 sql.NullString 再传递给仓库层。
func (s *reportAdminService) UpdateReportStatus(ctx context.Context, reportID string, req *dto.UpdateReportStatusRequest) error {
	if !req.Status.IsValid() {
		return fmt.Errorf("非法的举报状态: %s", req.Status)
	}

	var note sql.NullString
	if req.Note != "" {
		note = sql.NullString{String: req.Note, Valid: true}
	}

	err := s.adminRepo.UpdateReportStatus(ctx, reportID, req.Status, req.StatusMessage, note)
	if err != nil {
		s.logger.Error("更新举报状态时调用仓库层失败",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.Any("status", req.Status))

		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return fmt.Errorf("举报(ID: %s)未找到: %w", reportID, err)
		}
		return fmt.Errorf("更新举报(ID: %s)状态失败: %w", reportID, err)
	}
	s.logger.Info("管理员更新举报状态成功", zap.String("report_id", reportID), zap.Any("status", req.Status))

	// 异步发送状态变更事件，供面向举报人的通知服务消费
	if s.kafkaSvc != nil {
		go func(rid string, status enums.Status, message string) {
			bgCtx := context.Background()
			if kafkaErr := s.kafkaSvc.SendReportStatusChangedEvent(bgCtx, rid, status, message); kafkaErr != nil {
				s.logger.Error("发送 Kafka 状态变更事件失败", zap.Error(kafkaErr), zap.String("report_id", rid))
			} else {
				s.logger.Info("成功发送 Kafka 状态变更事件", zap.String("report_id", rid))
			}
		}(reportID, req.Status, req.StatusMessage)
	}
	return nil
}

// ListReportsByCondition 实现按条件查询举报。
// - 业务逻辑简单，主要依赖仓库层查询和结果转换。
func (s *reportAdminService) ListReportsByCondition(ctx context.Context, req *dto.ListReportsByConditionRequest) (*vo.ListReportsAdminByConditionResponse, error) {
	reports, total, err := s.adminRepo.ListReportsByCondition(ctx, req)
	if err != nil {
		s.logger.Error("管理员按条件查询举报列表失败", zap.Error(err), zap.Any("request", req))
		return nil, fmt.Errorf("查询举报列表失败: %w", err) // 对上层隐藏具体数据库错误细节
	}

	reportResponses := make([]*vo.AdminReportResponse, 0, len(reports))
	for _, report := range reports {
		reportResponses = append(reportResponses, vo.MapReportToAdminResponseVO(report))
	}

	return &vo.ListReportsAdminByConditionResponse{
		Reports: reportResponses,
		Total:   total,
	}, nil
}

// GetReportStats 实现管理端统计概览。
func (s *reportAdminService) GetReportStats(ctx context.Context) (*vo.ReportStatsVO, error) {
	byStatus, err := s.adminRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("按状态统计举报失败", zap.Error(err))
		return nil, fmt.Errorf("统计举报失败: %w", err)
	}

	byCategory, err := s.adminRepo.CountByCategory(ctx)
	if err != nil {
		s.logger.Error("按类别统计举报失败", zap.Error(err))
		return nil, fmt.Errorf("统计举报失败: %w", err)
	}

	byThreatLevel, err := s.adminRepo.CountByThreatLevel(ctx)
	if err != nil {
		s.logger.Error("按威胁等级统计举报失败", zap.Error(err))
		return nil, fmt.Errorf("统计举报失败: %w", err)
	}

	total, flagged, spam, err := s.adminRepo.CountFlags(ctx)
	if err != nil {
		s.logger.Error("统计标记数量失败", zap.Error(err))
		return nil, fmt.Errorf("统计举报失败: %w", err)
	}

	return &vo.ReportStatsVO{
		Total:         total,
		ByStatus:      byStatus,
		ByCategory:    byCategory,
		ByThreatLevel: byThreatLevel,
		FlaggedCount:  flagged,
		SpamCount:     spam,
	}, nil
}

// ApplyModerationDecision 实现人工复核裁决的落库。
func (s *reportAdminService) ApplyModerationDecision(ctx context.Context, reportID string, confirmed bool, note string) error {
	var moderationNote sql.NullString
	if note != "" {
		moderationNote = sql.NullString{String: note, Valid: true}
	}

	if err := s.adminRepo.SetCommunityFlag(ctx, reportID, confirmed, moderationNote); err != nil {
		s.logger.Error("应用复核裁决失败",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.Bool("confirmed", confirmed))
		return err
	}

	s.logger.Info("复核裁决已应用",
		zap.String("report_id", reportID),
		zap.Bool("confirmed", confirmed))
	return nil
}
