package enums

// Category 表示举报的案件类别。
// - 存储: varchar，直接存储枚举字符串，与前端及消息体保持一致，避免整型映射表。
type Category string

const (
	CategoryTheft              Category = "theft"               // 盗窃/抢劫
	CategoryHarassment         Category = "harassment"          // 骚扰/恐吓
	CategoryCyberFraud         Category = "cyber_fraud"         // 网络诈骗
	CategoryStalking           Category = "stalking"            // 跟踪
	CategoryAssault            Category = "assault"             // 人身侵害
	CategoryCorruption         Category = "corruption"          // 腐败/受贿
	CategoryAccident           Category = "accident"            // 事故
	CategorySuspiciousActivity Category = "suspicious_activity" // 可疑活动
	CategoryOther              Category = "other"               // 其他
)

// AllCategories 按规范声明顺序列出全部类别。
// 分类器在扫描候选类别时依赖该顺序保证结果确定性。
var AllCategories = []Category{
	CategoryTheft,
	CategoryHarassment,
	CategoryCyberFraud,
	CategoryStalking,
	CategoryAssault,
	CategoryCorruption,
	CategoryAccident,
	CategorySuspiciousActivity,
	CategoryOther,
}

// IsValid 判断是否为合法的案件类别。
func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
