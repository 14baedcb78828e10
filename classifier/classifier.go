// Package classifier 在举报创建时对描述文本做关键词分析，
// 输出建议类别、作案途径、处置机构、置信度、紧迫度与垃圾标记。
// 分析是纯函数，结果一次写入，之后只读。
package classifier

import (
	"regexp"
	"strings"

	"github.com/Xushengqwer/report_service/models/enums"
)

// 连续 5 个及以上相同字符视为灌水特征
var repeatedCharPattern = regexp.MustCompile(`(.)\1{4,}`)

// Input 分析输入，文本取自举报的描述
type Input struct {
	Description string
	// 举报人申报的案件类别
	Category enums.Category
	// 举报人申报的作案途径
	CrimeType enums.CrimeType
	// 举报人自评威胁档位映射出的紧迫度基准
	Urgency enums.UrgencyLevel
}

// Analysis 分析结果
type Analysis struct {
	// 建议改判的类别，未触发改判时为 nil
	SuggestedCategory *enums.Category
	DetectedCrimeType enums.CrimeType
	AssignedAuthority enums.Authority
	// 置信度 0-100
	Confidence int
	// 紧迫度 0-100
	Urgency int
	SpamFlag bool
}

// Analyzer 举报内容分析器
type Analyzer interface {
	Analyze(input Input) Analysis
}

type keywordAnalyzer struct{}

// NewKeywordAnalyzer 创建基于关键词匹配的分析器实现。
func NewKeywordAnalyzer() Analyzer {
	return &keywordAnalyzer{}
}

func (a *keywordAnalyzer) Analyze(input Input) Analysis {
	text := strings.ToLower(input.Description)

	result := Analysis{Confidence: 50}

	// 申报类别的关键词命中数提升置信度，每词 +10 封顶 +40
	declaredMatches := countMatches(text, categoryKeywords[input.Category])
	boost := declaredMatches * 10
	if boost > 40 {
		boost = 40
	}
	result.Confidence += boost

	// 按固定顺序扫描其他类别，命中数严格大于当前最优时给出改判建议。
	// 顺序固定保证同样输入永远得到同样建议，平票保留先出现的类别。
	bestMatches := declaredMatches
	for _, category := range enums.AllCategories {
		if category == input.Category || category == enums.CategoryOther {
			continue
		}
		if matches := countMatches(text, categoryKeywords[category]); matches > bestMatches {
			bestMatches = matches
			suggested := category
			result.SuggestedCategory = &suggested
		}
	}
	if result.SuggestedCategory != nil {
		result.Confidence -= 15
	}

	// 网络/线下作案途径判定，平票视为线下
	cyberScore := countMatches(text, cyberKeywords)
	physicalScore := countMatches(text, physicalKeywords)
	if cyberScore > physicalScore {
		result.DetectedCrimeType = enums.CrimeTypeCyber
		result.AssignedAuthority = enums.AuthorityCybercrimeUnit
	} else {
		result.DetectedCrimeType = enums.CrimeTypePhysical
		result.AssignedAuthority = enums.AuthorityLocalPolice
	}

	// 判定途径与申报途径吻合时小幅加分，反之扣分
	if result.DetectedCrimeType == input.CrimeType {
		result.Confidence += 10
	} else {
		result.Confidence -= 10
	}

	// 紧迫度 = 基准 25 + 自评档位加成 + 关键词加成，截断到 [0, 100]
	urgency := 25
	switch input.Urgency {
	case enums.UrgencyEmergency:
		urgency += 50
	case enums.UrgencyHigh:
		urgency += 35
	case enums.UrgencyMedium:
		urgency += 20
	default:
		urgency += 10
	}
	urgency += countMatches(text, emergencyKeywords) * 10
	urgency += countMatches(text, highUrgencyKeywords) * 5
	if urgency > 100 {
		urgency = 100
	}
	if urgency < 0 {
		urgency = 0
	}
	result.Urgency = urgency

	// 垃圾内容检测：命中特征词、正文过短、连续重复字符均触发标记，
	// 后两项同时压低置信度
	for _, indicator := range spamIndicators {
		if strings.Contains(text, indicator) {
			result.SpamFlag = true
			break
		}
	}
	if len(strings.Fields(input.Description)) < 10 {
		result.SpamFlag = true
		result.Confidence -= 20
	}
	if repeatedCharPattern.MatchString(text) {
		result.SpamFlag = true
		result.Confidence -= 30
	}

	if result.Confidence > 100 {
		result.Confidence = 100
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	return result
}

// countMatches 统计文本中命中的关键词个数，采用不区分大小写的子串匹配。
// 调用方需保证 text 已转为小写。
func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
