package classifier

import "github.com/Xushengqwer/report_service/models/enums"

// 各类别的特征关键词，匹配时对文本做不区分大小写的子串扫描。
// "other" 类别无关键词，不参与改判。
var categoryKeywords = map[enums.Category][]string{
	enums.CategoryTheft: {
		"steal", "stole", "stolen", "rob", "robbed", "robbery",
		"burglar", "burglary", "snatch", "pickpocket", "loot", "thief", "break-in",
	},
	enums.CategoryHarassment: {
		"harass", "threaten", "bully", "stalk", "intimidate", "abuse",
		"verbal abuse", "mental torture", "blackmail", "extort",
	},
	enums.CategoryCyberFraud: {
		"hack", "phishing", "scam", "fraud", "online", "password", "otp",
		"bank account", "credit card", "debit card", "upi", "crypto", "bitcoin",
		"website", "email", "social media", "fake profile",
	},
	enums.CategoryStalking: {
		"follow", "following", "stalk", "stalking", "watch", "watching",
		"spy", "spying", "track", "tracking",
	},
	enums.CategoryAssault: {
		"hit", "beat", "punch", "kick", "attack", "attacked", "assault",
		"violence", "violent", "injury", "injured", "weapon", "knife", "gun",
	},
	enums.CategoryCorruption: {
		"bribe", "bribery", "corrupt", "corruption", "illegal payment",
		"under the table", "government", "official", "misuse of power",
	},
	enums.CategoryOther: {},
}

// 网络作案特征词
var cyberKeywords = []string{
	"online", "internet", "website", "email", "social media", "app",
	"digital", "computer", "phone", "mobile", "hack", "password", "account",
	"otp", "upi", "bank transfer", "crypto", "phishing", "malware", "virus",
}

// 线下作案特征词
var physicalKeywords = []string{
	"street", "home", "house", "office", "shop", "road", "park",
	"face to face", "in person", "physical", "body", "attacked",
	"hit", "punch", "weapon",
}

// 紧迫度加成关键词，emergency 每词 +10，high 每词 +5
var (
	emergencyKeywords = []string{
		"emergency", "life threatening", "dying", "kidnap", "hostage",
		"gun", "weapon", "immediate", "help", "now", "urgent",
	}
	highUrgencyKeywords = []string{
		"serious", "dangerous", "threat", "armed", "injury", "blood", "hospital",
	}
)

// 垃圾内容特征词
var spamIndicators = []string{
	"test", "testing", "asdf", "qwerty", "abc", "xxx", "lorem ipsum", "123",
}
