package vo

import (
	"time"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
)

// ReportResponse 定义了举报公开信息的响应数据结构
// - 不包含处理备注、令牌摘要等内部字段
type ReportResponse struct {
	ReportID         string             `json:"report_id"`         // 举报ID
	Title            string             `json:"title"`             // 标题
	Description      string             `json:"description"`       // 描述
	Category         enums.Category     `json:"category"`          // 案件类别
	City             string             `json:"city"`              // 案发城市
	Area             string             `json:"area,omitempty"`    // 案发区域
	IncidentDate     time.Time          `json:"incident_date"`     // 案发时间
	VotesLowRisk     uint               `json:"votes_low_risk"`    // 低风险票数
	VotesConcerning  uint               `json:"votes_concerning"`  // 关注票数
	VotesUrgent      uint               `json:"votes_urgent"`      // 紧急票数
	VotesCritical    uint               `json:"votes_critical"`    // 极危票数
	TotalVotes       uint               `json:"total_votes"`       // 总票数
	ThreatScore      int                `json:"threat_score"`      // 威胁分数
	ThreatLevel      enums.ThreatLabel  `json:"threat_level"`      // 威胁等级
	VisibilityScore  int                `json:"visibility_score"`  // 可见度分数
	CommunityFlagged bool               `json:"community_flagged"` // 是否被社区标记
	Evidence         []ReportEvidenceVO `json:"evidence"`          // 证据材料列表
	CreatedAt        time.Time          `json:"created_at"`        // 创建时间
}

// ReportEvidenceVO 定义了举报中单个证据材料的视图对象
type ReportEvidenceVO struct {
	MediaURL     string `json:"media_url"`     // 证据文件URL
	DisplayOrder int    `json:"display_order"` // 展示顺序
}

// CreateReportResponse 定义了举报提交成功后的响应结构。
// - StatusToken 明文只在这里出现一次，请举报人妥善保存
type CreateReportResponse struct {
	ReportID    string `json:"report_id"`    // 举报ID
	StatusToken string `json:"status_token"` // 状态查询令牌，仅此一次返回
}

// ReportStatusVO 定义了举报人凭令牌查询处理进度的响应结构
type ReportStatusVO struct {
	ReportID      string       `json:"report_id"`      // 举报ID
	Status        enums.Status `json:"status"`         // 处理状态
	StatusMessage string       `json:"status_message"` // 状态说明文案
	UpdatedAt     time.Time    `json:"updated_at"`     // 最近更新时间
}

// VoteResultVO 定义了投票操作的响应结构
type VoteResultVO struct {
	ReportID        string             `json:"report_id"`        // 举报ID
	Category        enums.VoteCategory `json:"category"`         // 本次生效的投票档位
	AlreadyVoted    bool               `json:"already_voted"`    // 重复同档位投票时为 true
	VotesLowRisk    uint               `json:"votes_low_risk"`   // 投票后的低风险票数
	VotesConcerning uint               `json:"votes_concerning"` // 投票后的关注票数
	VotesUrgent     uint               `json:"votes_urgent"`     // 投票后的紧急票数
	VotesCritical   uint               `json:"votes_critical"`   // 投票后的极危票数
	TotalVotes      uint               `json:"total_votes"`      // 投票后的总票数
	ThreatScore     int                `json:"threat_score"`     // 投票后的威胁分数
	ThreatLevel     enums.ThreatLabel  `json:"threat_level"`     // 投票后的威胁等级
}

// VoteStatusVO 定义了查询本会话在某条举报上投票状态的响应结构
type VoteStatusVO struct {
	ReportID string              `json:"report_id"` // 举报ID
	HasVoted bool                `json:"has_voted"` // 本会话是否已投票
	Category *enums.VoteCategory `json:"category"`  // 已投的档位，未投票时为 nil
}

// FeedPageVO 定义了公开信息流分页查询的响应结构。
// - 包含当前页的举报列表和总记录数。
type FeedPageVO struct {
	Reports []*ReportResponse `json:"reports"` // 当前页的举报列表
	Total   int64             `json:"total"`   // 符合条件的总记录数
}

// ListTrendingByCursorResponse 查看热门举报列表游标加载
type ListTrendingByCursorResponse struct {
	Reports    []*ReportResponse `json:"reports"`     // 举报列表
	NextCursor *string           `json:"next_cursor"` // 下一个游标（最后一条的 ReportID），nil 表示无更多数据
}

// ListReportsAdminByConditionResponse 定义管理员按条件查询举报的响应结构体
type ListReportsAdminByConditionResponse struct {
	Reports []*AdminReportResponse `json:"reports"` // 举报列表
	Total   int64                  `json:"total"`   // 举报总数
}

// AdminReportResponse 定义了管理端视角的举报响应结构
// - 在公开字段之外附带分类器输出与内部备注
type AdminReportResponse struct {
	ReportResponse
	Status             enums.Status    `json:"status"`                       // 处理状态
	StatusMessage      string          `json:"status_message"`               // 状态说明文案
	ModerationNote     *string         `json:"moderation_note,omitempty"`    // 管理员备注
	SuggestedCategory  *string         `json:"suggested_category,omitempty"` // 分类器建议改判的类别
	DetectedCrimeType  enums.CrimeType `json:"detected_crime_type"`          // 判定的作案途径
	AssignedAuthority  enums.Authority `json:"assigned_authority"`           // 建议处置机构
	AnalysisConfidence int             `json:"analysis_confidence"`          // 分类置信度
	UrgencyScore       int             `json:"urgency_score"`                // 紧迫度分数
	SpamFlag           bool            `json:"spam_flag"`                    // 垃圾内容标记
}

// ReportStatsVO 定义了管理端统计概览的响应结构
type ReportStatsVO struct {
	Total         int64            `json:"total"`           // 举报总数
	ByStatus      map[string]int64 `json:"by_status"`       // 各处理状态的数量
	ByCategory    map[string]int64 `json:"by_category"`     // 各案件类别的数量
	ByThreatLevel map[string]int64 `json:"by_threat_level"` // 各威胁等级的数量
	FlaggedCount  int64            `json:"flagged_count"`   // 被社区标记的数量
	SpamCount     int64            `json:"spam_count"`      // 被判为垃圾内容的数量
}

// MapReportToResponseVO 将单个举报实体转换为公开响应VO。
// 证据列表由调用方按需填充。
func MapReportToResponseVO(report *entities.Report) *ReportResponse {
	if report == nil {
		return nil
	}
	return &ReportResponse{
		ReportID:         report.ReportID,
		Title:            report.Title,
		Description:      report.Description,
		Category:         report.Category,
		City:             report.City,
		Area:             report.Area,
		IncidentDate:     report.IncidentDate,
		VotesLowRisk:     report.VotesLowRisk,
		VotesConcerning:  report.VotesConcerning,
		VotesUrgent:      report.VotesUrgent,
		VotesCritical:    report.VotesCritical,
		TotalVotes:       report.TotalVotes,
		ThreatScore:      report.ThreatScore,
		ThreatLevel:      report.ThreatLevel,
		VisibilityScore:  report.VisibilityScore,
		CommunityFlagged: report.CommunityFlagged,
		Evidence:         make([]ReportEvidenceVO, 0),
		CreatedAt:        report.CreatedAt,
	}
}

// MapReportsToResponsesVO 是一个辅助函数，用于将举报实体列表转换为响应VO列表。
func MapReportsToResponsesVO(reports []*entities.Report) []*ReportResponse {
	if len(reports) == 0 {
		return []*ReportResponse{} // 返回空切片而不是nil，便于前端处理
	}

	responses := make([]*ReportResponse, 0, len(reports))
	for _, report := range reports {
		if report == nil { // 安全检查
			continue
		}
		responses = append(responses, MapReportToResponseVO(report))
	}
	return responses
}

// MapReportToAdminResponseVO 将举报实体转换为管理端响应VO，附带内部字段。
func MapReportToAdminResponseVO(report *entities.Report) *AdminReportResponse {
	if report == nil {
		return nil
	}
	resp := &AdminReportResponse{
		ReportResponse:     *MapReportToResponseVO(report),
		Status:             report.Status,
		StatusMessage:      report.StatusMessage,
		DetectedCrimeType:  report.DetectedCrimeType,
		AssignedAuthority:  report.AssignedAuthority,
		AnalysisConfidence: report.AnalysisConfidence,
		UrgencyScore:       report.UrgencyScore,
		SpamFlag:           report.SpamFlag,
	}
	if report.ModerationNote.Valid {
		note := report.ModerationNote.String
		resp.ModerationNote = &note
	}
	if report.SuggestedCategory.Valid {
		suggested := report.SuggestedCategory.String
		resp.SuggestedCategory = &suggested
	}
	return resp
}

// MapEvidenceToVOs 将证据实体列表转换为VO列表，已按展示顺序排好。
func MapEvidenceToVOs(items []*entities.ReportEvidence) []ReportEvidenceVO {
	if len(items) == 0 {
		return make([]ReportEvidenceVO, 0)
	}
	vos := make([]ReportEvidenceVO, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		vos = append(vos, ReportEvidenceVO{
			MediaURL:     item.MediaURL,
			DisplayOrder: item.DisplayOrder,
		})
	}
	return vos
}
