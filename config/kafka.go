package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	ReportSubmitted         string `mapstructure:"reportSubmitted" yaml:"reportSubmitted"`                 //  举报提交主题
	ReportStatusChanged     string `mapstructure:"reportStatusChanged" yaml:"reportStatusChanged"`         //  举报状态变更主题
	ReportCommunityFlagged  string `mapstructure:"reportCommunityFlagged" yaml:"reportCommunityFlagged"`   //  社区标记主题
	ModerationFlagConfirmed string `mapstructure:"moderationFlagConfirmed" yaml:"moderationFlagConfirmed"` //  人工复核确认标记主题
	ModerationFlagCleared   string `mapstructure:"moderationFlagCleared" yaml:"moderationFlagCleared"`     //  人工复核撤销标记主题
}
