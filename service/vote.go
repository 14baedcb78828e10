package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/models/vo"
	"github.com/Xushengqwer/report_service/mq/producer"
	"github.com/Xushengqwer/report_service/myErrors"
	"github.com/Xushengqwer/report_service/repo/mysql"
	"github.com/Xushengqwer/report_service/scoring"
)

// VoteService 定义了威胁投票的业务逻辑接口。
type VoteService interface {
	// CastVote 处理一次威胁投票。
	// - 每个会话对每条举报只有一票：首投计票，重复同档位为幂等空操作，换档位为改票（总票数不变）。
	// - 投票生效后在同一事务外重算派生分数并回写。
	// - 社区标记首次由 false 变为 true 时，异步发送 Kafka 事件。
	CastVote(ctx context.Context, reportID string, sessionID string, category enums.VoteCategory) (*vo.VoteResultVO, error)

	// GetVoteStatus 查询本会话在指定举报上的投票状态。
	// - 未投过票不是错误，返回 HasVoted=false；未携带会话标识同样按未投票处理。
	GetVoteStatus(ctx context.Context, reportID string, sessionID string) (*vo.VoteStatusVO, error)
}

// voteService 是 VoteService 接口的具体实现。
type voteService struct {
	reportRepo mysql.ReportRepository     // 负责举报计数器与派生分数的 MySQL 操作
	voteRepo   mysql.ThreatVoteRepository // 负责投票台账的 MySQL 操作
	db         *gorm.DB                   // GORM 数据库实例，用于事务管理
	kafkaSvc   *producer.KafkaProducer    // Kafka 生产者，社区标记事件通知
	logger     *core.ZapLogger
}

// NewVoteService 是 voteService 的构造函数。
func NewVoteService(db *gorm.DB, reportRepo mysql.ReportRepository, voteRepo mysql.ThreatVoteRepository, kafkaSvc *producer.KafkaProducer, logger *core.ZapLogger) VoteService {
	return &voteService{
		reportRepo: reportRepo,
		voteRepo:   voteRepo,
		db:         db,
		kafkaSvc:   kafkaSvc,
		logger:     logger,
	}
}

// hashSessionID 计算会话标识的 SHA-256 摘要，明文会话ID不落库。
func hashSessionID(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}

// CastVote 实现投票主流程。
func (s *voteService) CastVote(ctx context.Context, reportID string, sessionID string, category enums.VoteCategory) (*vo.VoteResultVO, error) {
	// 1. 入参校验
	if sessionID == "" {
		return nil, myErrors.ErrMissingSession
	}
	if !category.IsValid() {
		return nil, myErrors.ErrInvalidVoteType
	}

	// 2. 确认举报存在
	report, err := s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("对不存在的举报投票", zap.String("report_id", reportID))
		} else {
			s.logger.Error("投票前查询举报失败", zap.Error(err), zap.String("report_id", reportID))
		}
		return nil, err
	}

	sessionHash := hashSessionID(sessionID)

	// 3. 查询既有投票，决定首投/幂等/改票分支
	existing, err := s.voteRepo.GetVote(ctx, reportID, sessionHash)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		s.logger.Error("查询既有投票失败", zap.Error(err), zap.String("report_id", reportID))
		return nil, err
	}

	alreadyVoted := false

	if existing != nil && existing.Category == category {
		// 重复同档位投票：幂等空操作，直接返回当前状态
		alreadyVoted = true
	} else {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if existing == nil {
				// 首次投票：落台账 + 对应档位和总票数各加一
				vote := &entities.ThreatVote{
					ReportID:    reportID,
					SessionHash: sessionHash,
					Category:    category,
				}
				if repoErr := s.voteRepo.RecordVote(ctx, tx, vote); repoErr != nil {
					if errors.Is(repoErr, gorm.ErrDuplicatedKey) {
						// 并发重复提交：另一请求已抢先落库，回退为改票分支处理
						return repoErr
					}
					return fmt.Errorf("记录投票失败: %w", repoErr)
				}
				if repoErr := s.reportRepo.ApplyVoteDelta(ctx, tx, reportID, category, nil, true); repoErr != nil {
					return fmt.Errorf("更新投票计数失败: %w", repoErr)
				}
				return nil
			}

			// 改票：台账原地改档位，旧档位减一（下限 0），新档位加一，总票数不变
			oldCategory := existing.Category
			if repoErr := s.voteRepo.ChangeVoteCategory(ctx, tx, existing.ID, category); repoErr != nil {
				return fmt.Errorf("改票失败: %w", repoErr)
			}
			if repoErr := s.reportRepo.ApplyVoteDelta(ctx, tx, reportID, category, &oldCategory, false); repoErr != nil {
				return fmt.Errorf("更新投票计数失败: %w", repoErr)
			}
			return nil
		})

		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 并发下唯一索引兜底：重新查询既有记录判断档位
				concurrent, getErr := s.voteRepo.GetVote(ctx, reportID, sessionHash)
				if getErr != nil {
					s.logger.Error("并发投票冲突后重查失败", zap.Error(getErr), zap.String("report_id", reportID))
					return nil, getErr
				}
				if concurrent.Category == category {
					alreadyVoted = true
				} else {
					// 档位不同则按改票重试一次
					return s.CastVote(ctx, reportID, sessionID, category)
				}
			} else {
				s.logger.Error("投票事务失败", zap.Error(err), zap.String("report_id", reportID))
				return nil, err
			}
		}
	}

	// 4. 重新读取计数并回写派生分数
	report, err = s.reportRepo.GetByReportID(ctx, reportID)
	if err != nil {
		s.logger.Error("投票后重读举报失败", zap.Error(err), zap.String("report_id", reportID))
		return nil, err
	}

	counts := scoring.VoteCounts{
		LowRisk:    report.VotesLowRisk,
		Concerning: report.VotesConcerning,
		Urgent:     report.VotesUrgent,
		Critical:   report.VotesCritical,
	}
	total := counts.Total()
	threatScore := scoring.ThreatScore(counts)
	threatLevel := scoring.ThreatLabel(threatScore)
	visibilityScore := scoring.VisibilityScore(threatScore, report.EvidenceScore, report.CreatedAt, time.Now(), total)

	// 社区标记只进不退
	wasFlagged := report.CommunityFlagged
	flagged := wasFlagged || scoring.ShouldFlag(threatScore, total)

	if !alreadyVoted {
		if err = s.reportRepo.UpdateDerivedScores(ctx, s.db, reportID, threatScore, threatLevel, visibilityScore, total, flagged); err != nil {
			s.logger.Error("回写派生分数失败", zap.Error(err), zap.String("report_id", reportID))
			return nil, err
		}
	}

	// 5. 首次触发社区标记时异步通知复核服务
	if flagged && !wasFlagged && s.kafkaSvc != nil {
		go func(rid string, score int, votes uint) {
			bgCtx := context.Background()
			if kafkaErr := s.kafkaSvc.SendReportCommunityFlaggedEvent(bgCtx, rid, score, votes); kafkaErr != nil {
				s.logger.Error("发送 Kafka 社区标记事件失败", zap.Error(kafkaErr), zap.String("report_id", rid))
			} else {
				s.logger.Info("成功发送 Kafka 社区标记事件", zap.String("report_id", rid))
			}
		}(reportID, threatScore, total)
	}

	return &vo.VoteResultVO{
		ReportID:        reportID,
		Category:        category,
		AlreadyVoted:    alreadyVoted,
		VotesLowRisk:    counts.LowRisk,
		VotesConcerning: counts.Concerning,
		VotesUrgent:     counts.Urgent,
		VotesCritical:   counts.Critical,
		TotalVotes:      total,
		ThreatScore:     threatScore,
		ThreatLevel:     threatLevel,
	}, nil
}

// GetVoteStatus 实现投票状态查询。
func (s *voteService) GetVoteStatus(ctx context.Context, reportID string, sessionID string) (*vo.VoteStatusVO, error) {
	// 缺少会话标识不是错误：匿名访问者没有投票记录，直接返回未投票
	if sessionID == "" {
		return &vo.VoteStatusVO{ReportID: reportID, HasVoted: false}, nil
	}

	// 确认举报存在，对不存在的举报查询投票状态返回 404
	if _, err := s.reportRepo.GetByReportID(ctx, reportID); err != nil {
		return nil, err
	}

	vote, err := s.voteRepo.GetVote(ctx, reportID, hashSessionID(sessionID))
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return &vo.VoteStatusVO{ReportID: reportID, HasVoted: false}, nil
		}
		s.logger.Error("查询投票状态失败", zap.Error(err), zap.String("report_id", reportID))
		return nil, err
	}

	category := vote.Category
	return &vo.VoteStatusVO{
		ReportID: reportID,
		HasVoted: true,
		Category: &category,
	}, nil
}
