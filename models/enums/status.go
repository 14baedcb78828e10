package enums

// Status 表示举报在处理流程中的状态。
// 预期流转: submitted -> under_review -> action_taken | closed。
// 状态由管理端写入，系统不强制校验流转方向。
type Status string

const (
	StatusSubmitted   Status = "submitted"    // 已提交，等待审阅
	StatusUnderReview Status = "under_review" // 审阅中
	StatusActionTaken Status = "action_taken" // 已采取行动/已转交
	StatusClosed      Status = "closed"       // 已关闭
)

// IsValid 判断是否为合法的举报状态。
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusActionTaken, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// DefaultStatusMessage 是举报创建时写入的默认状态说明，
// 举报人凭状态查询令牌查询时返回该文案。
const DefaultStatusMessage = "Your report has been submitted and is pending review."
