package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/vo"
	"github.com/Xushengqwer/report_service/service"
)

// TrendingController 定义热门举报控制器的结构体
type TrendingController struct {
	trendingService service.TrendingService // 服务层接口
}

// NewTrendingController 构造函数，注入服务层依赖
func NewTrendingController(trendingService service.TrendingService) *TrendingController {
	return &TrendingController{
		trendingService: trendingService,
	}
}

// GetTrendingByCursor 处理获取热门举报的 HTTP 请求
// @Summary      通过游标获取热门举报
// @Description  使用基于游标的分页方式，从 Redis 缓存检索热门举报列表（按可见度分数降序）。使用查询参数来传递游标和数量限制。
// @Tags         trending (热门举报)
// @Accept       json
// @Produce      json
// @Param        lastReportId query string false "上一页最后一条举报的 ID，首页省略"
// @Param        pageSize query int true "每页举报数量" Format(int) minimum(1) maximum(50)
// @Success      200 {object} vo.ListTrendingByCursorResponseWrapper "热门举报检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的输入参数（例如，无效的 pageSize 或游标格式）"
// @Failure      500 {object} vo.BaseResponseWrapper "检索热门举报时发生内部服务器错误"
// @Router       /api/v1/report/trending [get]
func (ctrl *TrendingController) GetTrendingByCursor(c *gin.Context) {
	// 1. 绑定并验证查询参数
	var req dto.TrendingRequestDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	// 2. 调用服务层
	reports, nextCursor, err := ctrl.trendingService.GetTrendingByCursor(c.Request.Context(), req.LastReportID, req.PageSize)
	if err != nil {
		// 游标失效等业务错误也走 500，客户端按提示刷新即可
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索热门举报失败: "+err.Error())
		return
	}

	// 3. 组装游标响应
	result := &vo.ListTrendingByCursorResponse{
		Reports:    reports,
		NextCursor: nextCursor,
	}
	response.RespondSuccess(c, result, "热门举报检索成功")
}

// RegisterRoutes 注册 TrendingController 的路由
func (ctrl *TrendingController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/trending", ctrl.GetTrendingByCursor) // GET /api/v1/report/trending
}
