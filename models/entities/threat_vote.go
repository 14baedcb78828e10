package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/report_service/models/enums"
)

// ThreatVote 威胁投票台账
// - 每条记录对应 (举报, 会话) 的唯一一票，复合唯一索引在数据库层兜底并发去重
// - 改票时原地更新 Category，不新增记录，保证每会话每举报至多一行
type ThreatVote struct {
	entities.BaseModel

	// 被投票的举报ID
	ReportID string `gorm:"type:char(12);not null;uniqueIndex:idx_report_session,priority:1" json:"report_id"`

	// 投票会话的 SHA-256 摘要（64位十六进制），明文会话ID不落库
	SessionHash string `gorm:"type:char(64);not null;uniqueIndex:idx_report_session,priority:2" json:"-"`

	// 投票档位（low_risk / concerning / urgent / critical）
	Category enums.VoteCategory `gorm:"type:varchar(16);not null" json:"category"`
}
