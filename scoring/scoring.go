// Package scoring 提供举报的威胁分数与可见度分数的纯函数计算。
// 所有分数均归一化到 [0, 100]，不依赖数据库，便于在服务层与定时任务中复用。
package scoring

import (
	"math"
	"time"

	"github.com/Xushengqwer/report_service/models/enums"
)

// 投票档位权重，威胁分数按票数加权平均后即落在 [0, 100] 内
const (
	weightLowRisk    = 10
	weightConcerning = 35
	weightUrgent     = 70
	weightCritical   = 100
)

// 社区标记阈值：威胁分数与总票数需同时达标
const (
	flagThreatThreshold = 70
	flagVoteThreshold   = 5
)

// VoteCounts 四个投票档位的计数快照
type VoteCounts struct {
	LowRisk    uint
	Concerning uint
	Urgent     uint
	Critical   uint
}

// Total 返回四个档位之和。总票数永远以此重新推导，不信任存量字段。
func (v VoteCounts) Total() uint {
	return v.LowRisk + v.Concerning + v.Urgent + v.Critical
}

// ThreatScore 计算威胁分数：各档位票数的加权平均，四舍五入取整。
// 无任何投票时返回 0。
func ThreatScore(v VoteCounts) int {
	total := v.Total()
	if total == 0 {
		return 0
	}
	weighted := float64(v.LowRisk)*weightLowRisk +
		float64(v.Concerning)*weightConcerning +
		float64(v.Urgent)*weightUrgent +
		float64(v.Critical)*weightCritical
	return int(math.Round(weighted / float64(total)))
}

// ThreatLabel 将威胁分数映射为等级标签。
func ThreatLabel(score int) enums.ThreatLabel {
	switch {
	case score >= 80:
		return enums.ThreatCritical
	case score >= 60:
		return enums.ThreatUrgent
	case score >= 30:
		return enums.ThreatConcerning
	default:
		return enums.ThreatLow
	}
}

// RecencyFactor 计算时效分量：每过 1 小时衰减 2 分，最低为 0。
func RecencyFactor(createdAt, now time.Time) int {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	score := 100 - int(hours)*2
	if score < 0 {
		return 0
	}
	return score
}

// VoteVolume 计算参与度分量：每票 2 分，封顶 20。
func VoteVolume(total uint) int {
	score := int(total) * 2
	if score > 20 {
		return 20
	}
	return score
}

// VisibilityScore 计算可见度分数，信息流与热门榜单按此排序。
// 组成: 威胁 40% + 证据 20% + 时效 30% + 参与度 10%，结果截断到 [0, 100]。
func VisibilityScore(threat, evidence int, createdAt, now time.Time, total uint) int {
	raw := 0.4*float64(threat) +
		0.2*float64(evidence) +
		0.3*float64(RecencyFactor(createdAt, now)) +
		0.1*float64(VoteVolume(total))
	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ShouldFlag 判断是否达到社区标记条件。
// 注意该判定只决定由 false 置 true 的时机，标记一旦置位不会因分数回落而撤销。
func ShouldFlag(threat int, total uint) bool {
	return threat >= flagThreatThreshold && total >= flagVoteThreshold
}
