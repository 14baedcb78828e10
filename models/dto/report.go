package dto

import (
	"time"

	"github.com/Xushengqwer/report_service/models/enums"
)

// CreateReportRequest 定义了提交举报的请求数据结构
// - 添加了 binding 标签用于输入验证
type CreateReportRequest struct {
	Title              string             `json:"title" form:"title" binding:"required,min=5,max=200"`                                       // 标题，必填，5-200字符
	Description        string             `json:"description" form:"description" binding:"required,min=20,max=500"`                          // 描述，必填，20-500字符
	Category           enums.Category     `json:"category" form:"category" binding:"required,oneof=theft harassment cyber_fraud stalking assault corruption accident suspicious_activity other"` // 案件类别，必填
	CrimeType          enums.CrimeType    `json:"crime_type" form:"crime_type" binding:"required,oneof=cyber physical"`                      // 作案途径，必填
	City               string             `json:"city" form:"city" binding:"required,max=100"`                                               // 案发城市，必填
	Area               string             `json:"area" form:"area" binding:"omitempty,max=100"`                                              // 案发区域，可选
	IncidentDate       time.Time          `json:"incident_date" form:"incident_date" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"` // 案发时间，必填，RFC3339 格式
	InitialThreatLevel enums.VoteCategory `json:"initial_threat_level" form:"initial_threat_level" binding:"required,oneof=low_risk concerning urgent critical"` // 自评威胁档位，必填

	// 注意：证据文件是作为 multipart/form-data 的 "evidence" 字段直接上传的，
	// 后端按接收顺序处理并记录展示顺序。
}

// FeedRequestDTO 定义了获取公开举报信息流的API请求参数。
// - 用于控制器层接收和验证来自客户端的HTTP请求。
type FeedRequestDTO struct {
	// Page 页码，从 1 开始，缺省为 1。
	// - 从URL查询参数 "page" 获取。
	Page int `form:"page" binding:"omitempty,gte=1"`

	// Limit 每页数量，缺省为 10，上限 50。
	// - 从URL查询参数 "limit" 获取。
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=50"`

	// Category 案件类别筛选条件。
	// - 从URL查询参数 "category" 获取，可选。
	Category *enums.Category `form:"category" binding:"omitempty"`

	// City 城市筛选关键词，不区分大小写模糊匹配。
	// - 从URL查询参数 "city" 获取，可选。
	City *string `form:"city" binding:"omitempty,max=100"`
}

// GetOffset 计算分页偏移量。
// - (page - 1) * limit
func (dto *FeedRequestDTO) GetOffset() int {
	if dto.Page <= 0 {
		return 0
	}
	return (dto.Page - 1) * dto.GetLimit()
}

// GetLimit 获取每页数量，未指定时返回默认值 10。
func (dto *FeedRequestDTO) GetLimit() int {
	if dto.Limit <= 0 {
		return 10
	}
	return dto.Limit
}

// FeedQueryDTO 封装了信息流查询参数。
// - 用于在 Service 层和 Repo 层之间传递结构化的查询条件。
type FeedQueryDTO struct {
	// Category 案件类别筛选条件，nil 表示不筛选。
	Category *enums.Category `json:"category"`

	// City 城市模糊筛选关键词，nil 表示不筛选。
	City *string `json:"city"`

	// Offset 分页偏移量。
	Offset int `json:"offset"`

	// Limit 每页数量。
	Limit int `json:"limit"`
}

// CastVoteRequest 定义了威胁投票的请求数据结构
// - 会话标识从请求头 X-Session-ID 获取，不在请求体中
type CastVoteRequest struct {
	Category enums.VoteCategory `json:"category" binding:"required"` // 投票档位，必填
}

// TrendingRequestDTO 定义了获取热门举报列表的API请求参数（游标加载）。
type TrendingRequestDTO struct {
	// LastReportID 上一页最后一条举报的 ReportID，可选，首次加载不传。
	// - 从URL查询参数 "lastReportId" 获取。
	LastReportID *string `form:"lastReportId" binding:"omitempty,len=12"`

	// PageSize 每页数量，必填，1-50。
	PageSize int `form:"pageSize" binding:"required,gte=1,lte=50"`
}
