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

// ReportController 定义举报控制器的结构体
type ReportController struct {
	reportService service.ReportService // 服务层接口，通过依赖注入传入
}

// NewReportController 构造函数，用于创建 ReportController 实例
func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// CreateReport 处理提交举报的 HTTP 请求，包含证据文件上传。
// DTO 字段作为独立的表单字段提交。
// @Summary      提交匿名举报 (独立表单字段及证据文件)
// @Description  使用提供的详情（作为独立表单字段）和证据文件创建一条匿名举报。请求体应为 multipart/form-data。响应中的状态查询令牌仅此一次返回。
// @Tags         reports (举报)
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string true "标题 (5-200字符)" minLength(5) maxLength(200)
// @Param        description formData string true "描述 (20-500字符)" minLength(20) maxLength(500)
// @Param        category formData string true "案件类别" Enums(theft,harassment,cyber_fraud,stalking,assault,corruption,accident,suspicious_activity,other)
// @Param        crime_type formData string true "作案途径" Enums(cyber,physical)
// @Param        city formData string true "案发城市" maxLength(100)
// @Param        area formData string false "案发区域 (可选)" maxLength(100)
// @Param        incident_date formData string true "案发时间 (RFC3339格式, e.g., 2025-01-01T15:04:05Z)" format(date-time)
// @Param        initial_threat_level formData string true "自评威胁档位" Enums(low_risk,concerning,urgent,critical)
// @Param        evidence formData file false "证据文件 (可多选)"
// @Success      200 {object} vo.CreateReportResponseWrapper "举报提交成功，含状态查询令牌"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或文件处理错误"
// @Failure      500 {object} vo.BaseResponseWrapper "提交举报时发生内部服务器错误"
// @Router       /api/v1/report/reports [post]
func (ctrl *ReportController) CreateReport(c *gin.Context) {
	// 1. 解析 Multipart Form (确保在访问表单数据或文件之前调用)
	// 设置表单解析的最大内存，超出部分会存到临时磁盘文件
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	// 2. 绑定 DTO 数据 (来自独立的表单字段)
	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	// 3. 获取证据文件部分
	// "evidence" 是前端 FormData.append("evidence", file) 时使用的字段名
	form := c.Request.MultipartForm
	if form == nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "未能获取 multipart form 数据")
		return
	}
	evidenceFiles := form.File["evidence"] // 证据非必填，无文件时为空切片

	// 4. 调用服务层处理
	createVO, serviceErr := ctrl.reportService.CreateReport(c.Request.Context(), &req, evidenceFiles)
	if serviceErr != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "提交举报失败: "+serviceErr.Error())
		return
	}

	response.RespondSuccess(c, createVO, "举报提交成功")
}

// GetFeed 获取公开举报信息流 (分页)
// @Summary      获取公开举报信息流
// @Description  分页获取公开举报列表，支持按案件类别和城市（不区分大小写模糊匹配）筛选，按可见度分数降序排列。
// @Tags         reports (举报)
// @Accept       json
// @Produce      json
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        limit query int false "每页数量" format(int32) minimum(1) maximum(50) default(10)
// @Param        category query string false "案件类别筛选" Enums(theft,harassment,cyber_fraud,stalking,assault,corruption,accident,suspicious_activity,other)
// @Param        city query string false "城市筛选关键词 (最大长度 100)" maxLength(100)
// @Success      200 {object} vo.FeedPageResponseWrapper "成功响应，包含举报列表和总记录数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/report/reports [get]
func (ctrl *ReportController) GetFeed(c *gin.Context) {
	// 1. 绑定并验证查询参数
	var reqDTO dto.FeedRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	// 2. 调用服务层方法
	feedPageVO, err := ctrl.reportService.ListFeed(c.Request.Context(), &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取举报信息流失败: "+err.Error())
		return
	}

	// 3. 成功响应
	response.RespondSuccess(c, feedPageVO, "举报信息流获取成功")
}

// GetReportByID 处理获取举报公开详情的 HTTP 请求
// @Summary      获取指定ID的举报详情 (公开)
// @Description  通过举报的公开 ID 检索特定举报的详细信息（含证据列表）。
// @Tags         reports (举报)
// @Accept       json
// @Produce      json
// @Param        report_id path string true "举报 ID (12位十六进制)"
// @Success      200 {object} vo.ReportResponseWrapper "举报详情检索成功"
// @Failure      404 {object} vo.BaseResponseWrapper "举报不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "检索举报详情时发生内部服务器错误"
// @Router       /api/v1/report/reports/{report_id} [get]
func (ctrl *ReportController) GetReportByID(c *gin.Context) {
	reportID := c.Param("report_id")

	detail, err := ctrl.reportService.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "举报不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索举报详情失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, detail, "举报详情检索成功")
}

// GetStatusByToken 处理举报人凭令牌查询处理进度的 HTTP 请求
// @Summary      凭状态令牌查询举报处理进度
// @Description  举报人使用提交时一次性下发的明文状态令牌查询处理进度。令牌以 SHA-256 摘要匹配，无效令牌一律返回 404。
// @Tags         reports (举报)
// @Accept       json
// @Produce      json
// @Param        token path string true "状态查询令牌 (16位十六进制)"
// @Success      200 {object} vo.ReportStatusResponseWrapper "处理进度查询成功"
// @Failure      404 {object} vo.BaseResponseWrapper "令牌无效"
// @Failure      500 {object} vo.BaseResponseWrapper "查询处理进度时发生内部服务器错误"
// @Router       /api/v1/report/reports/status/{token} [get]
func (ctrl *ReportController) GetStatusByToken(c *gin.Context) {
	token := c.Param("token")

	statusVO, err := ctrl.reportService.GetStatusByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			// 不区分"令牌格式错误"与"令牌未命中"，避免探测
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "令牌无效")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "查询处理进度失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, statusVO, "处理进度查询成功")
}

// RegisterRoutes 注册 ReportController 的路由
func (ctrl *ReportController) RegisterRoutes(group *gin.RouterGroup) {
	reports := group.Group("/reports")
	{
		reports.POST("", ctrl.CreateReport)                    // POST /api/v1/report/reports
		reports.GET("", ctrl.GetFeed)                          // GET /api/v1/report/reports
		reports.GET("/status/:token", ctrl.GetStatusByToken)   // GET /api/v1/report/reports/status/:token
		reports.GET("/:report_id", ctrl.GetReportByID)         // GET /api/v1/report/reports/:report_id
	}
}
