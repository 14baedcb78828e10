package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// CreateReportResponseWrapper 对应 response.APIResponse[vo.CreateReportResponse]
type CreateReportResponseWrapper struct {
	Code    int                  `json:"code" example:"0"`
	Message string               `json:"message,omitempty" example:"success"`
	Data    CreateReportResponse `json:"data"` // 使用具体的 vo.CreateReportResponse
}

// ReportResponseWrapper 对应 response.APIResponse[vo.ReportResponse]
type ReportResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    ReportResponse `json:"data"` // 使用具体的 vo.ReportResponse
}

// FeedPageResponseWrapper 对应 response.APIResponse[vo.FeedPageVO]
// 用于公开信息流接口的成功响应。
type FeedPageResponseWrapper struct {
	Code    int        `json:"code" example:"0"`                    // 响应码，0 表示成功
	Message string     `json:"message,omitempty" example:"success"` // 响应消息
	Data    FeedPageVO `json:"data"`                                // 实际的信息流分页数据
}

// ReportStatusResponseWrapper 对应 response.APIResponse[vo.ReportStatusVO]
type ReportStatusResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    ReportStatusVO `json:"data"`
}

// VoteResultResponseWrapper 对应 response.APIResponse[vo.VoteResultVO]
type VoteResultResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    VoteResultVO `json:"data"`
}

// VoteStatusResponseWrapper 对应 response.APIResponse[vo.VoteStatusVO]
type VoteStatusResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    VoteStatusVO `json:"data"`
}

// ListTrendingByCursorResponseWrapper 对应 response.APIResponse[vo.ListTrendingByCursorResponse]
type ListTrendingByCursorResponseWrapper struct {
	Code    int                          `json:"code" example:"0"`
	Message string                       `json:"message,omitempty" example:"success"`
	Data    ListTrendingByCursorResponse `json:"data"`
}

// ListReportsAdminResponseWrapper 对应 response.APIResponse[vo.ListReportsAdminByConditionResponse]
type ListReportsAdminResponseWrapper struct {
	Code    int                                 `json:"code" example:"0"`
	Message string                              `json:"message,omitempty" example:"success"`
	Data    ListReportsAdminByConditionResponse `json:"data"`
}

// AdminReportResponseWrapper 对应 response.APIResponse[vo.AdminReportResponse]
type AdminReportResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    AdminReportResponse `json:"data"`
}

// ReportStatsResponseWrapper 对应 response.APIResponse[vo.ReportStatsVO]
type ReportStatsResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    ReportStatsVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
	// 注意：这里没有 Data 字段，因为错误时它是 nil 且被 omitempty 省略了
}
