package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/myErrors"
	"github.com/Xushengqwer/report_service/service"
)

// 投票会话标识的请求头名称
const sessionIDHeader = "X-Session-ID"

// VoteController 定义威胁投票控制器的结构体
type VoteController struct {
	voteService service.VoteService
}

// NewVoteController 构造函数，用于创建 VoteController 实例
func NewVoteController(voteService service.VoteService) *VoteController {
	return &VoteController{
		voteService: voteService,
	}
}

// CastVote 处理威胁投票的 HTTP 请求
// @Summary      对举报投威胁档位票
// @Description  每个会话（请求头 X-Session-ID）对每条举报只有一票：首投计票，重复同档位为幂等空操作，换档位为改票（总票数不变）。返回投票后的聚合结果。
// @Tags         votes (投票)
// @Accept       json
// @Produce      json
// @Param        report_id path string true "举报 ID (12位十六进制)"
// @Param        X-Session-ID header string true "投票会话标识"
// @Param        request body dto.CastVoteRequest true "投票档位"
// @Success      200 {object} vo.VoteResultResponseWrapper "投票成功，含投票后的聚合结果"
// @Failure      400 {object} vo.BaseResponseWrapper "缺少会话标识或投票档位非法"
// @Failure      404 {object} vo.BaseResponseWrapper "举报不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "投票时发生内部服务器错误"
// @Router       /api/v1/report/reports/{report_id}/vote [post]
func (ctrl *VoteController) CastVote(c *gin.Context) {
	reportID := c.Param("report_id")

	// 会话标识从请求头获取，不在请求体中
	sessionID := c.GetHeader(sessionIDHeader)

	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "绑定请求数据失败: "+err.Error())
		return
	}

	result, err := ctrl.voteService.CastVote(c.Request.Context(), reportID, sessionID, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, myErrors.ErrMissingSession):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少会话标识头 "+sessionIDHeader)
		case errors.Is(err, myErrors.ErrInvalidVoteType):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "非法的投票档位")
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "举报不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "投票失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, result, "投票成功")
}

// GetVoteStatus 处理查询本会话投票状态的 HTTP 请求
// @Summary      查询本会话的投票状态
// @Description  返回当前会话（请求头 X-Session-ID）在指定举报上的投票情况，未投过票或未携带会话标识均返回 has_voted=false。
// @Tags         votes (投票)
// @Produce      json
// @Param        report_id path string true "举报 ID (12位十六进制)"
// @Param        X-Session-ID header string false "投票会话标识"
// @Success      200 {object} vo.VoteStatusResponseWrapper "查询成功"
// @Failure      404 {object} vo.BaseResponseWrapper "举报不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "查询时发生内部服务器错误"
// @Router       /api/v1/report/reports/{report_id}/vote [get]
func (ctrl *VoteController) GetVoteStatus(c *gin.Context) {
	reportID := c.Param("report_id")
	sessionID := c.GetHeader(sessionIDHeader)

	status, err := ctrl.voteService.GetVoteStatus(c.Request.Context(), reportID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "举报不存在")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "查询投票状态失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, status, "查询投票状态成功")
}

// RegisterRoutes 注册 VoteController 的路由
func (ctrl *VoteController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/reports/:report_id/vote", ctrl.CastVote)     // POST /api/v1/report/reports/:report_id/vote
	group.GET("/reports/:report_id/vote", ctrl.GetVoteStatus) // GET  /api/v1/report/reports/:report_id/vote
}
