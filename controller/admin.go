package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/service"
)

// ReportAdminController 定义举报管理端控制器的结构体
type ReportAdminController struct {
	adminService service.ReportAdminService // 服务层接口
}

// NewReportAdminController 构造函数，注入服务层依赖
func NewReportAdminController(adminService service.ReportAdminService) *ReportAdminController {
	return &ReportAdminController{
		adminService: adminService,
	}
}

// UpdateReportStatus 处理管理员更新举报处理状态的 HTTP 请求
// @Summary      更新举报处理状态
// @Description  管理员更新举报的处理状态、状态说明文案和可选的内部备注。
// @Tags         admin-reports (管理员-举报)
// @Accept       json
// @Produce      json
// @Param        report_id path string true "举报 ID (12位十六进制)"
// @Param        request body dto.UpdateReportStatusRequest true "状态更新请求体"
// @Success      200 {object} vo.BaseResponseWrapper "举报状态更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载（例如，缺少字段，无效的状态）"
// @Failure      404 {object} vo.BaseResponseWrapper "举报未找到"
// @Failure      500 {object} vo.BaseResponseWrapper "更新过程中发生内部服务器错误"
// @Router       /api/v1/report/admin/reports/{report_id}/status [patch]
func (ctrl *ReportAdminController) UpdateReportStatus(c *gin.Context) {
	reportID := c.Param("report_id")

	// 1. 从请求体绑定 JSON 数据
	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求负载: "+err.Error())
		return
	}

	// 2. 调用服务层更新状态
	if err := ctrl.adminService.UpdateReportStatus(c.Request.Context(), reportID, &req); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "更新的举报未找到")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新举报状态失败: "+err.Error())
		}
		return
	}

	// 3. 返回成功响应
	response.RespondSuccess[any](c, nil, "举报状态更新成功")
}

// ListReportsByCondition 处理按条件查询举报列表的 HTTP 请求
// @Summary      按条件列出举报 (管理员)
// @Description  出于管理目的，根据各种过滤条件检索分页的举报列表。使用查询参数进行过滤和分页。
// @Tags         admin-reports (管理员-举报)
// @Accept       json
// @Produce      json
// @Param        report_id query string false "按精确的举报 ID 过滤"
// @Param        title query string false "按标题过滤（模糊匹配）"
// @Param        category query string false "按案件类别过滤" Enums(theft,harassment,cyber_fraud,stalking,assault,corruption,accident,suspicious_activity,other)
// @Param        city query string false "按城市过滤（模糊匹配）"
// @Param        status query string false "按处理状态过滤" Enums(submitted,under_review,action_taken,closed)
// @Param        threat_level query string false "按威胁等级过滤" Enums(low,concerning,urgent,critical)
// @Param        community_flagged query bool false "按是否被社区标记过滤"
// @Param        spam_flag query bool false "按是否被判为垃圾内容过滤"
// @Param        order_by query string false "排序字段" Enums(created_at,visibility_score,threat_score) default(created_at)
// @Param        order_desc query bool false "是否降序" default(true)
// @Param        page query int true "页码 (从1开始)" Format(int) minimum(1)
// @Param        page_size query int true "每页数量" Format(int) minimum(1)
// @Success      200 {object} vo.ListReportsAdminResponseWrapper "成功响应，包含举报列表和总记录数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/report/admin/reports [get]
func (ctrl *ReportAdminController) ListReportsByCondition(c *gin.Context) {
	var req dto.ListReportsByConditionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.adminService.ListReportsByCondition(c.Request.Context(), &req)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "查询举报列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, result, "举报列表查询成功")
}

// GetReportStats 处理管理端统计概览的 HTTP 请求
// @Summary      获取举报统计概览 (管理员)
// @Description  返回举报总数、各处理状态数量、各案件类别数量、社区标记数与垃圾内容数。
// @Tags         admin-reports (管理员-举报)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.ReportStatsResponseWrapper "统计概览获取成功"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/report/admin/reports/stats [get]
func (ctrl *ReportAdminController) GetReportStats(c *gin.Context) {
	stats, err := ctrl.adminService.GetReportStats(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取统计概览失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, stats, "统计概览获取成功")
}

// RegisterRoutes 注册 ReportAdminController 的路由
func (ctrl *ReportAdminController) RegisterRoutes(group *gin.RouterGroup) {
	adminReports := group.Group("/admin/reports")
	{
		adminReports.GET("", ctrl.ListReportsByCondition)               // GET /api/v1/report/admin/reports
		adminReports.GET("/stats", ctrl.GetReportStats)                 // GET /api/v1/report/admin/reports/stats
		adminReports.PATCH("/:report_id/status", ctrl.UpdateReportStatus) // PATCH /api/v1/report/admin/reports/:report_id/status
	}
}
