package config

// RedisConfig 包含连接 Redis 所需的配置
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // Redis 地址，如 127.0.0.1:6379
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 密码，无密码时留空
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 数据库索引
	PoolSize int    `mapstructure:"pool_size" json:"pool_size" yaml:"pool_size"`
}
