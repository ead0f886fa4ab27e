package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 认证服务的全量配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	// Addr 监听地址（如 ":8080"）
	Addr string `mapstructure:"addr"`
	// Mode gin 运行模式：debug / release / test
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据库配置，Driver 决定 gorm 方言
type DatabaseConfig struct {
	// Driver 数据库驱动：sqlite / mysql / postgres
	Driver string `mapstructure:"driver"`
	// DSN 数据源连接串
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 会话存储的 Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 会话令牌配置
type JWTConfig struct {
	// Secret 签名密钥（HS256）
	Secret string `mapstructure:"secret"`
	// TTL 令牌有效期
	TTL time.Duration `mapstructure:"ttl"`
	// Issuer 令牌签发方标识
	Issuer string `mapstructure:"issuer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug / info / warn / error
	Level string `mapstructure:"level"`
	// Path 日志文件路径，为空时只输出到标准输出
	Path string `mapstructure:"path"`
	// MaxSizeMB 单个日志文件的最大体积（MB），用于滚动切割
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups 保留的历史日志文件数
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays 历史日志的最长保留天数
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// setDefaults 设置各配置项的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "huellitas.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "huellitas-auth")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
}

// Load 加载配置
// 优先级：环境变量（AUTH_ 前缀） > 配置文件 > 默认值
// path 为空时按常规路径查找 config.yaml，找不到配置文件不算错误
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			// 配置文件缺失时回退到默认值 + 环境变量
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置的合法性
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("config: unsupported database driver '%s'", c.Database.Driver)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("config: jwt ttl must be positive")
	}
	return nil
}
