package classifier

import (
	"testing"

	"github.com/Xushengqwer/report_service/models/enums"
)

func TestAnalyze_DeclaredCategoryMatches(t *testing.T) {
	analyzer := NewKeywordAnalyzer()
	result := analyzer.Analyze(Input{
		Description: "I witnessed someone steal a wallet near the market and the thief ran off down the street",
		Category:    enums.CategoryTheft,
		CrimeType:   enums.CrimeTypePhysical,
		Urgency:     enums.UrgencyLow,
	})

	// 命中 steal 与 thief 两个关键词，且申报途径与判定途径吻合
	// 50 + 20 + 10 = 80
	if result.Confidence != 80 {
		t.Errorf("置信度应为 80, 实际 %d", result.Confidence)
	}
	if result.SuggestedCategory != nil {
		t.Errorf("类别申报正确时不应给出改判建议, 实际 %s", *result.SuggestedCategory)
	}
	if result.DetectedCrimeType != enums.CrimeTypePhysical {
		t.Errorf("无网络特征词时应判定为线下作案, 实际 %s", result.DetectedCrimeType)
	}
	if result.AssignedAuthority != enums.AuthorityLocalPolice {
		t.Errorf("线下作案应转交属地警方, 实际 %s", result.AssignedAuthority)
	}
	if result.SpamFlag {
		t.Error("正常描述不应触发垃圾标记")
	}
}

func TestAnalyze_SuggestsBetterCategory(t *testing.T) {
	analyzer := NewKeywordAnalyzer()
	result := analyzer.Analyze(Input{
		Description: "Someone sent me a phishing email asking for my otp and password to empty my bank account through upi transfer",
		Category:    enums.CategoryTheft,
		CrimeType:   enums.CrimeTypePhysical,
		Urgency:     enums.UrgencyMedium,
	})

	if result.SuggestedCategory == nil {
		t.Fatal("网络诈骗关键词密集时应建议改判类别")
	}
	if *result.SuggestedCategory != enums.CategoryCyberFraud {
		t.Errorf("建议类别应为 cyber_fraud, 实际 %s", *result.SuggestedCategory)
	}
	if result.DetectedCrimeType != enums.CrimeTypeCyber {
		t.Errorf("应判定为网络作案, 实际 %s", result.DetectedCrimeType)
	}
	if result.AssignedAuthority != enums.AuthorityCybercrimeUnit {
		t.Errorf("网络作案应转交网警, 实际 %s", result.AssignedAuthority)
	}
}

func TestAnalyze_CrimeTypeMismatchPenalty(t *testing.T) {
	analyzer := NewKeywordAnalyzer()

	base := Input{
		Description: "A stranger keeps watching my house and following me whenever I leave for work every morning",
		Category:    enums.CategoryStalking,
		Urgency:     enums.UrgencyLow,
	}

	matched := base
	matched.CrimeType = enums.CrimeTypePhysical
	mismatched := base
	mismatched.CrimeType = enums.CrimeTypeCyber

	matchedResult := analyzer.Analyze(matched)
	mismatchedResult := analyzer.Analyze(mismatched)
	if diff := matchedResult.Confidence - mismatchedResult.Confidence; diff != 20 {
		t.Errorf("途径吻合与不吻合的置信度差应为 20, 实际 %d", diff)
	}
}

func TestAnalyze_UrgencyScore(t *testing.T) {
	analyzer := NewKeywordAnalyzer()

	// 基准 25 + low 档 10，无关键词加成
	calm := analyzer.Analyze(Input{
		Description: "My neighbor plays loud music every single night and refuses to stop when asked politely",
		Category:    enums.CategoryOther,
		CrimeType:   enums.CrimeTypePhysical,
		Urgency:     enums.UrgencyLow,
	})
	if calm.Urgency != 35 {
		t.Errorf("低紧迫举报的紧迫度应为 35, 实际 %d", calm.Urgency)
	}

	// emergency 档 +50，命中多个紧急关键词后截断到 100
	critical := analyzer.Analyze(Input{
		Description: "Emergency help now, an armed man with a gun took a hostage and someone is dying with serious injury",
		Category:    enums.CategoryAssault,
		CrimeType:   enums.CrimeTypePhysical,
		Urgency:     enums.UrgencyEmergency,
	})
	if critical.Urgency != 100 {
		t.Errorf("极端紧急举报的紧迫度应截断到 100, 实际 %d", critical.Urgency)
	}
}

func TestAnalyze_SpamDetection(t *testing.T) {
	analyzer := NewKeywordAnalyzer()

	t.Run("命中特征词且字数不足", func(t *testing.T) {
		result := analyzer.Analyze(Input{
			Description: "asdf test test test",
			Category:    enums.CategoryOther,
			CrimeType:   enums.CrimeTypePhysical,
			Urgency:     enums.UrgencyLow,
		})
		if !result.SpamFlag {
			t.Error("垃圾特征词加字数不足应触发垃圾标记")
		}
		// 50 + 0 + 10(途径吻合) - 20(字数不足) = 40
		if result.Confidence != 40 {
			t.Errorf("置信度应为 40, 实际 %d", result.Confidence)
		}
	})

	t.Run("连续重复字符", func(t *testing.T) {
		result := analyzer.Analyze(Input{
			Description: "someone robbed my shop aaaaaaa and ran off with the cash box please look into it",
			Category:    enums.CategoryTheft,
			CrimeType:   enums.CrimeTypePhysical,
			Urgency:     enums.UrgencyLow,
		})
		if !result.SpamFlag {
			t.Error("连续重复字符应触发垃圾标记")
		}
	})

	t.Run("置信度不会为负", func(t *testing.T) {
		result := analyzer.Analyze(Input{
			Description: "zzzzz www",
			Category:    enums.CategoryOther,
			CrimeType:   enums.CrimeTypeCyber,
			Urgency:     enums.UrgencyLow,
		})
		if result.Confidence < 0 {
			t.Errorf("置信度不应为负, 实际 %d", result.Confidence)
		}
		if !result.SpamFlag {
			t.Error("短文本加重复字符应触发垃圾标记")
		}
	})
}

func TestAnalyze_Deterministic(t *testing.T) {
	analyzer := NewKeywordAnalyzer()
	input := Input{
		Description: "He threatened to hack my email account and kept sending phishing links to steal my password",
		Category:    enums.CategoryHarassment,
		CrimeType:   enums.CrimeTypeCyber,
		Urgency:     enums.UrgencyMedium,
	}
	first := analyzer.Analyze(input)
	if first.SuggestedCategory == nil || *first.SuggestedCategory != enums.CategoryCyberFraud {
		t.Fatalf("网络特征词占优时应建议改判为 cyber_fraud, 实际 %+v", first.SuggestedCategory)
	}
	for i := 0; i < 10; i++ {
		got := analyzer.Analyze(input)
		if got.Confidence != first.Confidence || got.Urgency != first.Urgency ||
			got.DetectedCrimeType != first.DetectedCrimeType || got.SpamFlag != first.SpamFlag ||
			*got.SuggestedCategory != *first.SuggestedCategory {
			t.Fatalf("同样输入应得到同样结果: 第 %d 次 %+v != %+v", i, got, first)
		}
	}
}
