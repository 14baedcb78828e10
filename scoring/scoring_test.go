package scoring

import (
	"testing"
	"time"

	"github.com/Xushengqwer/report_service/models/enums"
)

func TestThreatScore_NoVotes(t *testing.T) {
	if got := ThreatScore(VoteCounts{}); got != 0 {
		t.Errorf("无投票时威胁分数应为 0, 实际 %d", got)
	}
}

func TestThreatScore_WeightedAverage(t *testing.T) {
	tests := []struct {
		name  string
		votes VoteCounts
		want  int
	}{
		{"全部低风险", VoteCounts{LowRisk: 4}, 10},
		{"全部极危", VoteCounts{Critical: 3}, 100},
		{"低风险与极危各一票", VoteCounts{LowRisk: 1, Critical: 1}, 55},
		{"混合档位四舍五入", VoteCounts{LowRisk: 1, Concerning: 1, Urgent: 1}, 38}, // (10+35+70)/3 = 38.33 -> 38
		{"偏向紧急", VoteCounts{Concerning: 1, Urgent: 3, Critical: 1}, 69},       // (35+210+100)/5 = 69
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThreatScore(tt.votes); got != tt.want {
				t.Errorf("ThreatScore(%+v) = %d, 期望 %d", tt.votes, got, tt.want)
			}
		})
	}
}

func TestThreatLabel(t *testing.T) {
	tests := []struct {
		score int
		want  enums.ThreatLabel
	}{
		{0, enums.ThreatLow},
		{29, enums.ThreatLow},
		{30, enums.ThreatConcerning},
		{59, enums.ThreatConcerning},
		{60, enums.ThreatUrgent},
		{79, enums.ThreatUrgent},
		{80, enums.ThreatCritical},
		{100, enums.ThreatCritical},
	}
	for _, tt := range tests {
		if got := ThreatLabel(tt.score); got != tt.want {
			t.Errorf("ThreatLabel(%d) = %s, 期望 %s", tt.score, got, tt.want)
		}
	}
}

func TestRecencyFactor(t *testing.T) {
	now := time.Now()
	if got := RecencyFactor(now, now); got != 100 {
		t.Errorf("刚创建的举报时效分量应为 100, 实际 %d", got)
	}
	if got := RecencyFactor(now.Add(-10*time.Hour), now); got != 80 {
		t.Errorf("10 小时后时效分量应为 80, 实际 %d", got)
	}
	if got := RecencyFactor(now.Add(-72*time.Hour), now); got != 0 {
		t.Errorf("72 小时后时效分量应衰减到 0, 实际 %d", got)
	}
	// 时钟回拨时不应出现大于 100 的结果
	if got := RecencyFactor(now.Add(time.Hour), now); got != 100 {
		t.Errorf("创建时间在未来时时效分量应为 100, 实际 %d", got)
	}
}

func TestVoteVolume(t *testing.T) {
	if got := VoteVolume(0); got != 0 {
		t.Errorf("零票参与度应为 0, 实际 %d", got)
	}
	if got := VoteVolume(3); got != 6 {
		t.Errorf("3 票参与度应为 6, 实际 %d", got)
	}
	if got := VoteVolume(50); got != 20 {
		t.Errorf("参与度应封顶 20, 实际 %d", got)
	}
}

func TestVisibilityScore_Bounds(t *testing.T) {
	now := time.Now()
	// 新举报 + 高威胁 + 有证据 + 大量投票
	got := VisibilityScore(100, 70, now, now, 50)
	if got < 0 || got > 100 {
		t.Fatalf("可见度分数越界: %d", got)
	}
	// 0.4*100 + 0.2*70 + 0.3*100 + 0.1*20 = 86
	if got != 86 {
		t.Errorf("满配举报可见度应为 86, 实际 %d", got)
	}

	// 陈旧且无人投票的举报
	got = VisibilityScore(0, 50, now.Add(-100*time.Hour), now, 0)
	// 0.4*0 + 0.2*50 + 0.3*0 + 0.1*0 = 10
	if got != 10 {
		t.Errorf("陈旧无票举报可见度应为 10, 实际 %d", got)
	}
}

func TestShouldFlag(t *testing.T) {
	tests := []struct {
		name   string
		threat int
		total  uint
		want   bool
	}{
		{"双阈值均达标", 70, 5, true},
		{"威胁分数不足", 69, 10, false},
		{"票数不足", 90, 4, false},
		{"双阈值均不足", 10, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldFlag(tt.threat, tt.total); got != tt.want {
				t.Errorf("ShouldFlag(%d, %d) = %v, 期望 %v", tt.threat, tt.total, got, tt.want)
			}
		})
	}
}
