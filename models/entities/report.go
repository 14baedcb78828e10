package entities

import (
	"database/sql"
	"time"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/report_service/models/enums"
)

// Report 匿名举报实体
// - 使用场景: 公开信息流、投票聚合、管理端审阅共用同一张表
// - 表名: reports (GORM 默认使用结构体名复数形式)
type Report struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 对外公开的举报ID，12位十六进制字符
	// - 所有对外接口（信息流、投票、状态查询）均使用该 ID，不暴露自增主键
	ReportID string `gorm:"type:char(12);uniqueIndex;not null" json:"report_id"`

	// 标题，必填，5-200 字符（入口处由 DTO binding 校验）
	Title string `gorm:"type:varchar(200);not null" json:"title"`

	// 描述，必填，20-500 字符
	Description string `gorm:"type:varchar(500);not null" json:"description"`

	// 案件类别，枚举字符串（theft / harassment / cyber_fraud / ...）
	Category enums.Category `gorm:"type:varchar(32);not null;index" json:"category"`

	// 举报人申报的作案途径（cyber / physical），作为分类器校验输入
	CrimeType enums.CrimeType `gorm:"type:varchar(16);not null" json:"crime_type"`

	// 案发城市，信息流支持按城市不区分大小写筛选
	City string `gorm:"type:varchar(100);not null;index" json:"city"`

	// 案发区域/街道，可选
	Area string `gorm:"type:varchar(100)" json:"area"`

	// 案发时间
	IncidentDate time.Time `gorm:"not null" json:"incident_date"`

	// 举报人自评的初始威胁档位（low_risk / concerning / urgent / critical）
	// - 仅作为分类器紧迫度输入与展示，不参与派生分数计算
	InitialThreatLevel enums.VoteCategory `gorm:"type:varchar(16);not null" json:"initial_threat_level"`

	// --- 投票计数器 ---
	// 四个档位计数与总票数均为非负，由单条 UPDATE 原子增减。
	// TotalVotes 在每次派生分数重算时以四个档位之和回写，防止漂移。
	VotesLowRisk    uint `gorm:"not null;default:0" json:"votes_low_risk"`
	VotesConcerning uint `gorm:"not null;default:0" json:"votes_concerning"`
	VotesUrgent     uint `gorm:"not null;default:0" json:"votes_urgent"`
	VotesCritical   uint `gorm:"not null;default:0" json:"votes_critical"`
	TotalVotes      uint `gorm:"not null;default:0" json:"total_votes"`

	// --- 派生分数 ---

	// 威胁分数 0-100，投票计数的归一化加权平均
	ThreatScore int `gorm:"not null;default:0" json:"threat_score"`

	// 威胁等级标签，由 ThreatScore 派生（low / concerning / urgent / critical）
	ThreatLevel enums.ThreatLabel `gorm:"type:varchar(16);not null;default:low" json:"threat_level"`

	// 可见度分数 0-100，信息流与热门榜单的排序依据
	// - 含时效衰减项，由定时任务周期性重算
	VisibilityScore int `gorm:"not null;default:0;index" json:"visibility_score"`

	// 证据分数：附带证据材料为 70，否则 50，创建后不变
	EvidenceScore int `gorm:"not null;default:50" json:"evidence_score"`

	// 社区标记：威胁分数与票数同时达到阈值后置为 true，且一旦为 true 不再回落
	CommunityFlagged bool `gorm:"not null;default:false;index" json:"community_flagged"`

	// --- 处理状态 ---

	// 处理状态，枚举字符串，由管理端更新
	Status enums.Status `gorm:"type:varchar(16);not null;default:submitted;index" json:"status"`

	// 状态说明文案，随状态更新，举报人凭令牌查询时返回
	StatusMessage string `gorm:"type:varchar(255);not null" json:"status_message"`

	// 管理员处理备注，可为 NULL
	ModerationNote sql.NullString `gorm:"type:varchar(255);comment:管理员处理备注" json:"-"`

	// 状态查询令牌的 SHA-256 摘要（64位十六进制）
	// - 明文令牌仅在创建响应中出现一次，任何地方不落库
	StatusTokenHash string `gorm:"type:char(64);uniqueIndex;not null" json:"-"`

	// --- 分类器输出（创建时写入，之后只读） ---

	// 建议类别：当其他类别的关键词命中数超过申报类别时给出，可为 NULL
	SuggestedCategory sql.NullString `gorm:"type:varchar(32)" json:"-"`

	// 判定的作案途径（cyber / physical）
	DetectedCrimeType enums.CrimeType `gorm:"type:varchar(16);not null" json:"detected_crime_type"`

	// 建议转交的处置机构（cybercrime_unit / local_police）
	AssignedAuthority enums.Authority `gorm:"type:varchar(32);not null" json:"assigned_authority"`

	// 分类置信度 0-100
	AnalysisConfidence int `gorm:"not null;default:0" json:"analysis_confidence"`

	// 紧迫度分数 0-100
	UrgencyScore int `gorm:"not null;default:0" json:"urgency_score"`

	// 垃圾内容标记：分类器命中垃圾特征时置 true，管理端可按此筛选
	SpamFlag bool `gorm:"not null;default:false;index" json:"spam_flag"`
}
