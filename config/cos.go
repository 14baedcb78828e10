package config

// COSConfig 包含访问腾讯云对象存储（存放举报证据文件）所需的配置
type COSConfig struct {
	SecretID   string `mapstructure:"secret_id" json:"secret_id" yaml:"secret_id"`
	SecretKey  string `mapstructure:"secret_key" json:"secret_key" yaml:"secret_key"`
	BucketName string `mapstructure:"bucket_name" json:"bucket_name" yaml:"bucket_name"`
	AppID      string `mapstructure:"app_id" json:"app_id" yaml:"app_id"`
	Region     string `mapstructure:"region" json:"region" yaml:"region"`
	// BaseURL 可选，填写后覆盖默认拼接的存储桶访问域名（如使用 CDN 加速域名）
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}
