package dto

import (
	"github.com/Xushengqwer/report_service/models/enums"
)

// ListReportsByConditionRequest 定义管理员分页条件查询举报的请求数据结构
type ListReportsByConditionRequest struct {
	ReportID         *string            `form:"report_id" json:"report_id,omitempty"`                 // 举报ID精确查询，可选
	Title            *string            `form:"title" json:"title,omitempty"`                         // 标题模糊查询，可选
	Category         *enums.Category    `form:"category" json:"category,omitempty"`                   // 类别筛选，可选
	City             *string            `form:"city" json:"city,omitempty"`                           // 城市模糊查询，可选
	Status           *enums.Status      `form:"status" json:"status,omitempty"`                       // 处理状态筛选，可选
	ThreatLevel      *enums.ThreatLabel `form:"threat_level" json:"threat_level,omitempty"`           // 威胁等级筛选，可选
	CommunityFlagged *bool              `form:"community_flagged" json:"community_flagged,omitempty"` // 是否被社区标记，可选
	SpamFlag         *bool              `form:"spam_flag" json:"spam_flag,omitempty"`                 // 是否被判为垃圾内容，可选
	OrderBy          string             `form:"order_by" json:"order_by"`                             // 排序字段（created_at / visibility_score / threat_score），默认 created_at
	OrderDesc        bool               `form:"order_desc" json:"order_desc"`                         // 是否降序，true 为降序
	Page             int                `form:"page" json:"page" binding:"required,gt=0"`             // 页码，从 1 开始，必填
	PageSize         int                `form:"page_size" json:"page_size" binding:"required,gt=0"`   // 每页大小，必填
}

// UpdateReportStatusRequest 定义更新举报处理状态的请求数据结构
type UpdateReportStatusRequest struct {
	// Status 新的处理状态（submitted / under_review / action_taken / closed）
	Status enums.Status `json:"status" binding:"required" example:"under_review"`
	// StatusMessage 状态说明文案，举报人凭令牌查询时可见，可选
	StatusMessage string `json:"status_message" binding:"omitempty,max=255" example:"案件已转交属地警方核实"`
	// Note 管理员内部备注，不对外展示，可选
	Note string `json:"note" binding:"omitempty,max=255"`
}
