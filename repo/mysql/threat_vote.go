package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"gorm.io/gorm"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
)

// ThreatVoteRepository 定义了投票台账在 MySQL 中的持久化操作接口。
// 台账保证每个 (举报, 会话) 至多一条记录，数据库层的复合唯一索引是最终仲裁。
type ThreatVoteRepository interface {
	// GetVote 查询指定会话在指定举报上的既有投票。
	// - 未投过票时返回 commonerrors.ErrRepoNotFound。
	GetVote(ctx context.Context, reportID string, sessionHash string) (*entities.ThreatVote, error)

	// RecordVote 落库一条新的投票记录。
	// - 唯一索引冲突时返回 gorm.ErrDuplicatedKey（依赖连接初始化时的 TranslateError），
	//   调用方据此回退到“查询既有记录”分支处理并发重复提交。
	RecordVote(ctx context.Context, db *gorm.DB, vote *entities.ThreatVote) error

	// ChangeVoteCategory 将既有投票原地改为新档位。
	ChangeVoteCategory(ctx context.Context, db *gorm.DB, voteID uint64, category enums.VoteCategory) error
}

// threatVoteRepository 是 ThreatVoteRepository 接口针对 MySQL 的具体实现。
type threatVoteRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewThreatVoteRepository 是 threatVoteRepository 的构造函数。
func NewThreatVoteRepository(db *gorm.DB, logger *core.ZapLogger) ThreatVoteRepository {
	return &threatVoteRepository{
		db:     db,
		logger: logger,
	}
}

// GetVote 实现既有投票的查询。
func (r *threatVoteRepository) GetVote(ctx context.Context, reportID string, sessionHash string) (*entities.ThreatVote, error) {
	var vote entities.ThreatVote

	err := r.db.WithContext(ctx).
		Where("report_id = ? AND session_hash = ?", reportID, sessionHash).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未投过票是正常业务路径，不打 Warn
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询投票记录数据库操作失败",
			zap.Error(err),
			zap.String("reportID", reportID),
		)
		return nil, err
	}

	return &vote, nil
}

// RecordVote 实现投票记录的插入。
func (r *threatVoteRepository) RecordVote(ctx context.Context, db *gorm.DB, vote *entities.ThreatVote) error {
	if err := db.WithContext(ctx).Create(vote).Error; err != nil {
		// 唯一索引冲突由调用方识别处理，这里只记录其余错误
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Error("插入投票记录数据库操作失败",
				zap.Error(err),
				zap.String("reportID", vote.ReportID),
			)
		}
		return err
	}
	return nil
}

// ChangeVoteCategory 实现投票档位的原地更新。
func (r *threatVoteRepository) ChangeVoteCategory(ctx context.Context, db *gorm.DB, voteID uint64, category enums.VoteCategory) error {
	result := db.WithContext(ctx).
		Model(&entities.ThreatVote{}).
		Where("id = ?", voteID).
		Update("category", category)

	if result.Error != nil {
		r.logger.Error("更新投票档位数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("voteID", voteID),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新投票档位但未找到记录", zap.Uint64("voteID", voteID))
		return commonerrors.ErrRepoNotFound
	}

	return nil
}
