package enums

// ThreatLabel 是由威胁分数派生出的可读威胁等级标签。
// 与 VoteCategory 不同：VoteCategory 是投票输入档位，ThreatLabel 是聚合输出。
type ThreatLabel string

const (
	ThreatLow        ThreatLabel = "low"
	ThreatConcerning ThreatLabel = "concerning"
	ThreatUrgent     ThreatLabel = "urgent"
	ThreatCritical   ThreatLabel = "critical"
)

func (t ThreatLabel) String() string { return string(t) }

// CrimeType 表示分类器判定的作案途径。
type CrimeType string

const (
	CrimeTypeCyber    CrimeType = "cyber"    // 线上/网络作案
	CrimeTypePhysical CrimeType = "physical" // 线下/物理作案
)

func (c CrimeType) String() string { return string(c) }

// Authority 表示分类器建议转交的处置机构。
type Authority string

const (
	AuthorityCybercrimeUnit Authority = "cybercrime_unit" // 网络犯罪部门
	AuthorityLocalPolice    Authority = "local_police"    // 属地警务
)

func (a Authority) String() string { return string(a) }
