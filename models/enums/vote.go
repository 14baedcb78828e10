package enums

// VoteCategory 表示社区对举报严重程度的投票档位。
// - 同时也是举报人提交时自评的初始威胁档位 (initialThreatLevel)。
type VoteCategory string

const (
	VoteLowRisk    VoteCategory = "low_risk"   // 低风险
	VoteConcerning VoteCategory = "concerning" // 令人担忧
	VoteUrgent     VoteCategory = "urgent"     // 紧急
	VoteCritical   VoteCategory = "critical"   // 危急
)

// AllVoteCategories 按严重程度升序排列。
var AllVoteCategories = []VoteCategory{
	VoteLowRisk,
	VoteConcerning,
	VoteUrgent,
	VoteCritical,
}

// IsValid 判断是否为合法的投票档位。
func (v VoteCategory) IsValid() bool {
	switch v {
	case VoteLowRisk, VoteConcerning, VoteUrgent, VoteCritical:
		return true
	}
	return false
}

func (v VoteCategory) String() string { return string(v) }

// UrgencyLevel 是分类器使用的紧迫程度输入档位。
// 投票档位与之一一对应，服务层在调用分类器前完成映射。
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

// ToUrgency 将投票档位映射为分类器的紧迫程度档位。
func (v VoteCategory) ToUrgency() UrgencyLevel {
	switch v {
	case VoteConcerning:
		return UrgencyMedium
	case VoteUrgent:
		return UrgencyHigh
	case VoteCritical:
		return UrgencyEmergency
	default:
		return UrgencyLow
	}
}
