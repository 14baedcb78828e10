// Package events 定义举报服务对外发布与消费的 Kafka 事件结构。
package events

import (
	"time"

	"github.com/Xushengqwer/report_service/models/enums"
)

// ReportData 事件中携带的举报核心数据
type ReportData struct {
	ReportID           string              `json:"report_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Category           enums.Category      `json:"category"`
	City               string              `json:"city"`
	Area               string              `json:"area,omitempty"`
	InitialThreatLevel enums.VoteCategory  `json:"initial_threat_level"`
	DetectedCrimeType  enums.CrimeType     `json:"detected_crime_type"`
	AssignedAuthority  enums.Authority     `json:"assigned_authority"`
	AnalysisConfidence int                 `json:"analysis_confidence"`
	UrgencyScore       int                 `json:"urgency_score"`
	SpamFlag           bool                `json:"spam_flag"`
}

// ReportSubmittedEvent 举报创建成功后发布，供下游审核/通知服务消费
type ReportSubmittedEvent struct {
	EventID   string     `json:"event_id"`
	Timestamp time.Time  `json:"timestamp"`
	Report    ReportData `json:"report"`
}

// ReportStatusChangedEvent 管理端更新处理状态后发布
type ReportStatusChangedEvent struct {
	EventID       string       `json:"event_id"`
	Timestamp     time.Time    `json:"timestamp"`
	ReportID      string       `json:"report_id"`
	Status        enums.Status `json:"status"`
	StatusMessage string       `json:"status_message"`
}

// ReportCommunityFlaggedEvent 举报首次被社区标记时发布
type ReportCommunityFlaggedEvent struct {
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ReportID    string    `json:"report_id"`
	ThreatScore int       `json:"threat_score"`
	TotalVotes  uint      `json:"total_votes"`
}

// ModerationDecisionEvent 审核服务对被标记举报的裁决事件，由本服务消费
type ModerationDecisionEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	ReportID  string    `json:"report_id"`
	// 裁决说明，写入举报的处理备注
	Note string `json:"note,omitempty"`
}
