package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/classifier"
	"github.com/Xushengqwer/report_service/constant"
	"github.com/Xushengqwer/report_service/dependencies"
	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/models/events"
	"github.com/Xushengqwer/report_service/models/vo"
	"github.com/Xushengqwer/report_service/mq/producer"
	"github.com/Xushengqwer/report_service/repo/mysql"
	"github.com/Xushengqwer/report_service/scoring"
)

// 附带证据材料的举报证据分数为 70，否则为 50，创建后不再变化
const (
	evidenceScoreWithMedia    = 70
	evidenceScoreWithoutMedia = 50
)

// ReportService 定义了处理举报核心业务逻辑的接口。
type ReportService interface {
	// CreateReport 处理匿名用户提交举报的业务流程。
	// - 对描述文本做关键词分析，写入分类器输出。
	// - 生成对外举报ID和状态查询令牌，令牌仅保存 SHA-256 摘要。
	// - 证据文件先上传 COS，再在事务中原子写入举报与证据记录。
	// - 成功创建后，异步触发 Kafka 事件通知下游审核/通知服务。
	// - 返回 VO，其中明文令牌只在此响应中出现一次。
	CreateReport(ctx context.Context, req *dto.CreateReportRequest, evidenceFiles []*multipart.FileHeader) (*vo.CreateReportResponse, error)

	// GetReportByID 获取单个举报的公开详情（含证据列表）。
	GetReportByID(ctx context.Context, reportID string) (*vo.ReportResponse, error)

	// ListFeed 分页查询公开信息流，支持类别与城市筛选。
	// - 排序固定为可见度分数降序，其次创建时间降序。
	ListFeed(ctx context.Context, req *dto.FeedRequestDTO) (*vo.FeedPageVO, error)

	// GetStatusByToken 举报人凭明文状态令牌查询处理进度。
	// - 先做 SHA-256 摘要再查库，明文令牌不落库也不记日志。
	GetStatusByToken(ctx context.Context, token string) (*vo.ReportStatusVO, error)
}

// reportService 是 ReportService 接口的具体实现。
type reportService struct {
	reportRepo   mysql.ReportRepository          // 负责举报主记录的 MySQL 操作
	evidenceRepo mysql.ReportEvidenceRepository  // 负责证据记录的 MySQL 操作
	cosClient    dependencies.COSClientInterface // cos云服务依赖
	analyzer     classifier.Analyzer             // 举报内容关键词分析器
	db           *gorm.DB                        // GORM 数据库实例，主要用于事务管理
	kafkaSvc     *producer.KafkaProducer         // Kafka 生产者，用于发送异步消息
	logger       *core.ZapLogger                 // 日志记录器，用于记录关键信息和错误
}

// NewReportService 是 reportService 的构造函数，通过依赖注入初始化服务实例。
// - 这种方式便于单元测试和组件替换。
func NewReportService(db *gorm.DB, reportRepo mysql.ReportRepository, evidenceRepo mysql.ReportEvidenceRepository, cosClient dependencies.COSClientInterface, analyzer classifier.Analyzer, kafkaSvc *producer.KafkaProducer, logger *core.ZapLogger) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		evidenceRepo: evidenceRepo,
		cosClient:    cosClient,
		analyzer:     analyzer,
		db:           db,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
	}
}

// generateReportID 生成对外公开的 12 位十六进制举报ID。
func generateReportID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// generateStatusToken 生成状态查询令牌：16 位十六进制明文与其 SHA-256 摘要。
// 明文仅出现在创建响应中，数据库只保存摘要。
func generateStatusToken() (token string, tokenHash string, err error) {
	buf := make([]byte, 8)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("生成状态令牌失败: %w", err)
	}
	token = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(sum[:]), nil
}

// generateEvidenceObjectKey 创建证据文件的唯一 COS 对象键。
func (s *reportService) generateEvidenceObjectKey(originalFilename string, reportID string) string {
	now := time.Now()
	datePrefix := now.Format("20060102") // YYYYMMDD
	randomUUID := uuid.NewString()
	extension := strings.ToLower(filepath.Ext(originalFilename)) // 例如：".jpg", ".png"

	// 规则：reports/evidence/YYYYMMDD/reportID_uuid.ext
	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixEvidence,
		datePrefix,
		reportID,
		randomUUID,
		extension,
	)
}

// CreateReport 处理匿名用户提交举报的请求，包括证据上传、内容分析和数据库操作。
func (s *reportService) CreateReport(ctx context.Context, req *dto.CreateReportRequest, evidenceFiles []*multipart.FileHeader) (*vo.CreateReportResponse, error) {
	// 1. 生成对外ID与状态查询令牌
	reportID := generateReportID()
	statusToken, tokenHash, err := generateStatusToken()
	if err != nil {
		s.logger.Error("生成状态查询令牌失败", zap.Error(err))
		return nil, err
	}

	// 2. 对描述文本做关键词分析
	analysis := s.analyzer.Analyze(classifier.Input{
		Description: req.Description,
		Category:    req.Category,
		CrimeType:   req.CrimeType,
		Urgency:     req.InitialThreatLevel.ToUrgency(),
	})

	// 3. 上传证据文件到 COS
	type uploadedEvidenceInfo struct {
		MediaURL     string
		ObjectKey    string
		DisplayOrder int
	}
	uploadedEvidence := make([]uploadedEvidenceInfo, 0, len(evidenceFiles))

	for i, fileHeader := range evidenceFiles {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			s.logger.Error("打开证据文件以上传失败",
				zap.String("filename", fileHeader.Filename),
				zap.Error(openErr))
			return nil, fmt.Errorf("打开证据文件 %s 失败: %w", fileHeader.Filename, openErr)
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
			s.logger.Warn("未提供证据文件的内容类型，使用默认值",
				zap.String("filename", fileHeader.Filename),
				zap.String("defaultContentType", contentType))
		}

		objectKey := s.generateEvidenceObjectKey(fileHeader.Filename, reportID)

		mediaURL, uploadErr := s.cosClient.UploadFile(ctx, objectKey, file, fileHeader.Size, contentType)
		file.Close() // 在 UploadFile 使用完文件后关闭它。
		if uploadErr != nil {
			s.logger.Error("上传证据文件到 COS 失败",
				zap.String("filename", fileHeader.Filename),
				zap.String("objectKey", objectKey),
				zap.Error(uploadErr))
			return nil, fmt.Errorf("上传证据文件 %s 到 COS 失败: %w", fileHeader.Filename, uploadErr)
		}

		uploadedEvidence = append(uploadedEvidence, uploadedEvidenceInfo{
			MediaURL:     mediaURL,
			ObjectKey:    objectKey,
			DisplayOrder: i, // 基于前端文件列表的顺序
		})
		s.logger.Info("成功上传证据文件到 COS",
			zap.String("filename", fileHeader.Filename),
			zap.String("objectKey", objectKey))
	}

	evidenceScore := evidenceScoreWithoutMedia
	if len(uploadedEvidence) > 0 {
		evidenceScore = evidenceScoreWithMedia
	}

	// 4. 在事务中执行数据库操作
	var createdReport *entities.Report

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		report := &entities.Report{
			ReportID:           reportID,
			Title:              req.Title,
			Description:        req.Description,
			Category:           req.Category,
			CrimeType:          req.CrimeType,
			City:               req.City,
			Area:               req.Area,
			IncidentDate:       req.IncidentDate,
			InitialThreatLevel: req.InitialThreatLevel,
			ThreatScore:        0,
			ThreatLevel:        scoring.ThreatLabel(0),
			VisibilityScore:    scoring.VisibilityScore(0, evidenceScore, now, now, 0),
			EvidenceScore:      evidenceScore,
			Status:             enums.StatusSubmitted,
			StatusMessage:      enums.DefaultStatusMessage,
			StatusTokenHash:    tokenHash,
			DetectedCrimeType:  analysis.DetectedCrimeType,
			AssignedAuthority:  analysis.AssignedAuthority,
			AnalysisConfidence: analysis.Confidence,
			UrgencyScore:       analysis.Urgency,
			SpamFlag:           analysis.SpamFlag,
		}
		if analysis.SuggestedCategory != nil {
			report.SuggestedCategory.String = string(*analysis.SuggestedCategory)
			report.SuggestedCategory.Valid = true
		}
		if repoErr := s.reportRepo.CreateReport(ctx, tx, report); repoErr != nil {
			return fmt.Errorf("创建举报失败: %w", repoErr)
		}
		createdReport = report

		if len(uploadedEvidence) > 0 {
			evidenceToCreate := make([]*entities.ReportEvidence, len(uploadedEvidence))
			for i, info := range uploadedEvidence {
				evidenceToCreate[i] = &entities.ReportEvidence{
					ReportID:     reportID,
					MediaURL:     info.MediaURL,
					ObjectKey:    info.ObjectKey,
					DisplayOrder: info.DisplayOrder,
				}
			}
			if repoErr := s.evidenceRepo.BatchCreateEvidence(ctx, tx, evidenceToCreate); repoErr != nil {
				return fmt.Errorf("创建举报证据记录失败: %w", repoErr)
			}
		}
		return nil // 提交事务
	})

	if err != nil {
		s.logger.Error("创建举报事务失败", zap.Error(err))
		// 数据库事务失败时清理已上传的 COS 文件，避免孤立对象。
		// 清理操作记录自身错误，不掩盖原始的数据库错误。
		for _, info := range uploadedEvidence {
			s.logger.Warn("由于数据库事务失败，尝试清理孤立的 COS 文件", zap.String("objectKey", info.ObjectKey))
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), info.ObjectKey); cleanupErr != nil {
				s.logger.Error("清理孤立的 COS 文件失败", zap.String("objectKey", info.ObjectKey), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}

	// --- 事务成功 ---

	// 5. 异步发送 Kafka 举报提交事件
	if s.kafkaSvc != nil {
		reportData := events.ReportData{
			ReportID:           createdReport.ReportID,
			Title:              createdReport.Title,
			Description:        createdReport.Description,
			Category:           createdReport.Category,
			City:               createdReport.City,
			Area:               createdReport.Area,
			InitialThreatLevel: createdReport.InitialThreatLevel,
			DetectedCrimeType:  createdReport.DetectedCrimeType,
			AssignedAuthority:  createdReport.AssignedAuthority,
			AnalysisConfidence: createdReport.AnalysisConfidence,
			UrgencyScore:       createdReport.UrgencyScore,
			SpamFlag:           createdReport.SpamFlag,
		}
		go func(rd events.ReportData) {
			bgCtx := context.Background() // 为后台 goroutine 创建新的上下文
			if kafkaErr := s.kafkaSvc.SendReportSubmittedEvent(bgCtx, rd); kafkaErr != nil {
				s.logger.Error("发送 Kafka 举报提交事件失败", zap.Error(kafkaErr), zap.String("report_id", rd.ReportID))
			} else {
				s.logger.Info("成功发送 Kafka 举报提交事件", zap.String("report_id", rd.ReportID))
			}
		}(reportData)
	}

	// 6. 返回创建响应，明文令牌仅此一次
	return &vo.CreateReportResponse{
		ReportID:    createdReport.ReportID,
		StatusToken: statusToken,
	}, nil
}

// GetReportByID 实现获取举报公开详情的逻辑。
func (s *reportService) GetReportByID(ctx context.Context, reportID string) (*vo.ReportResponse, error) {
	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("举报未找到", zap.String("report_id", reportID))
		} else {
			s.logger.Error("获取举报失败", zap.Error(err), zap.String("report_id", reportID))
		}
		return nil, err
	}

	evidence, err := s.evidenceRepo.GetEvidenceByReportID(ctx, reportID)
	if err != nil {
		s.logger.Error("获取举报证据列表失败", zap.Error(err), zap.String("report_id", reportID))
		return nil, err
	}

	response := vo.MapReportToResponseVO(report)
	response.Evidence = vo.MapEvidenceToVOs(evidence)
	return response, nil
}

// ListFeed 实现公开信息流的分页查询。
func (s *reportService) ListFeed(ctx context.Context, req *dto.FeedRequestDTO) (*vo.FeedPageVO, error) {
	query := &dto.FeedQueryDTO{
		Category: req.Category,
		City:     req.City,
		Offset:   req.GetOffset(),
		Limit:    req.GetLimit(),
	}

	reports, total, err := s.reportRepo.ListFeed(ctx, query)
	if err != nil {
		s.logger.Error("查询公开信息流失败", zap.Error(err))
		return nil, err
	}

	responses := vo.MapReportsToResponsesVO(reports)

	// 批量补齐证据列表，避免每条举报一次查询
	if len(reports) > 0 {
		reportIDs := make([]string, len(reports))
		for i, report := range reports {
			reportIDs[i] = report.ReportID
		}
		evidenceMap, evidenceErr := s.evidenceRepo.BatchGetEvidenceByReportIDs(ctx, reportIDs)
		if evidenceErr != nil {
			s.logger.Error("批量获取举报证据失败", zap.Error(evidenceErr))
			return nil, evidenceErr
		}
		for _, response := range responses {
			response.Evidence = vo.MapEvidenceToVOs(evidenceMap[response.ReportID])
		}
	}

	return &vo.FeedPageVO{
		Reports: responses,
		Total:   total,
	}, nil
}

// GetStatusByToken 实现举报人凭令牌查询处理进度的逻辑。
func (s *reportService) GetStatusByToken(ctx context.Context, token string) (*vo.ReportStatusVO, error) {
	sum := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(sum[:])

	report, err := s.reportRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			// 不记录明文令牌，仅记录摘要前缀便于排查
			s.logger.Warn("状态查询令牌无效", zap.String("token_hash_prefix", tokenHash[:8]))
		} else {
			s.logger.Error("凭令牌查询举报失败", zap.Error(err))
		}
		return nil, err
	}

	return &vo.ReportStatusVO{
		ReportID:      report.ReportID,
		Status:        report.Status,
		StatusMessage: report.StatusMessage,
		UpdatedAt:     report.UpdatedAt,
	}, nil
}
