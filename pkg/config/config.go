package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/betbot/relaygate/clob/types"
)

// Config 网关配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Clob    ClobConfig    `yaml:"clob"`
	Builder BuilderConfig `yaml:"builder"`
	Store   StoreConfig   `yaml:"store"`
	Whale   WhaleConfig   `yaml:"whale"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// ClobConfig 上游 CLOB 配置
type ClobConfig struct {
	Host        string `yaml:"host"`
	DataAPIHost string `yaml:"data_api_host"`
	// CancelConvention 撤单签名约定：path-only 或 bulk-body，
	// 按部署显式配置，绝不在线探测
	CancelConvention string `yaml:"cancel_convention"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// BuilderConfig Builder 协签服务配置
type BuilderConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// StoreConfig 持久化配置
type StoreConfig struct {
	// CredPath badger 凭证库目录
	CredPath string `yaml:"cred_path"`
	// CredEncryptionKey 可选的 32 字节静态加密密钥（base64 或 hex）
	CredEncryptionKey string `yaml:"cred_encryption_key"`
	// WhaleDBPath sqlite 鲸鱼交易库文件
	WhaleDBPath string `yaml:"whale_db_path"`
}

// WhaleConfig 聚合管道配置
type WhaleConfig struct {
	// ThresholdUSD 金额阈值，amount = size × price 低于此值的记录丢弃
	ThresholdUSD float64 `yaml:"threshold_usd"`
	PageSize     int     `yaml:"page_size"`
	MaxPages     int     `yaml:"max_pages"`
	// WindowHours 滚动统计窗口
	WindowHours int `yaml:"window_hours"`
	// SyncIntervalSeconds 后台同步间隔，0 表示只按需触发
	SyncIntervalSeconds int `yaml:"sync_interval_seconds"`
	// UnorderedFeed 活动流分页不保证时间有序时置 true，
	// 关闭提前停页优化（cutoff 过滤不受影响）
	UnorderedFeed bool `yaml:"unordered_feed"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Console    bool   `yaml:"console"`
}

// Load 从 YAML 文件加载配置，环境变量覆盖，最后补默认值
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&c.Server.Listen, "RELAYGATE_LISTEN")
	setStr(&c.Clob.Host, "RELAYGATE_CLOB_HOST")
	setStr(&c.Clob.DataAPIHost, "RELAYGATE_DATA_API_HOST")
	setStr(&c.Clob.CancelConvention, "RELAYGATE_CANCEL_CONVENTION")
	setStr(&c.Builder.URL, "RELAYGATE_BUILDER_URL")
	setStr(&c.Store.CredPath, "RELAYGATE_CRED_PATH")
	setStr(&c.Store.CredEncryptionKey, "RELAYGATE_CRED_KEY")
	setStr(&c.Store.WhaleDBPath, "RELAYGATE_WHALE_DB")
	setStr(&c.Log.Level, "RELAYGATE_LOG_LEVEL")

	if v := os.Getenv("RELAYGATE_WHALE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Whale.ThresholdUSD = f
		}
	}
	if v := os.Getenv("RELAYGATE_BUILDER_ENABLED"); v != "" {
		c.Builder.Enabled = v == "1" || v == "true"
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Clob.Host == "" {
		c.Clob.Host = "https://clob.polymarket.com"
	}
	if c.Clob.DataAPIHost == "" {
		c.Clob.DataAPIHost = "https://data-api.polymarket.com"
	}
	if c.Clob.CancelConvention == "" {
		c.Clob.CancelConvention = string(types.CancelPathOnly)
	}
	if c.Clob.TimeoutSeconds == 0 {
		c.Clob.TimeoutSeconds = 30
	}
	if c.Store.CredPath == "" {
		c.Store.CredPath = "data/credstore"
	}
	if c.Store.WhaleDBPath == "" {
		c.Store.WhaleDBPath = "data/whales.db"
	}
	if c.Whale.ThresholdUSD == 0 {
		c.Whale.ThresholdUSD = 10000
	}
	if c.Whale.PageSize == 0 {
		c.Whale.PageSize = 500
	}
	if c.Whale.MaxPages == 0 {
		c.Whale.MaxPages = 20
	}
	if c.Whale.WindowHours == 0 {
		c.Whale.WindowHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch types.CancelConvention(c.Clob.CancelConvention) {
	case types.CancelPathOnly, types.CancelBulkBody:
	default:
		return fmt.Errorf("非法的 cancel_convention: %q (支持 path-only / bulk-body)", c.Clob.CancelConvention)
	}
	if c.Builder.Enabled && c.Builder.URL == "" {
		return fmt.Errorf("builder.enabled 为 true 时必须配置 builder.url")
	}
	return nil
}

// ClobTimeout HTTP 超时
func (c *Config) ClobTimeout() time.Duration {
	return time.Duration(c.Clob.TimeoutSeconds) * time.Second
}

// CancelConvention 转换为枚举
func (c *Config) CancelConvention() types.CancelConvention {
	return types.CancelConvention(c.Clob.CancelConvention)
}
