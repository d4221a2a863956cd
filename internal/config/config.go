package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`                  // 服务器配置
	Database DatabaseConfig          `mapstructure:"database"`                // 数据库配置
	Ingest   IngestConfig            `mapstructure:"ingest"`                  // 入库对账配置
	Sync     SyncConfig              `mapstructure:"sync"`                    // 同步调度配置
	Sources  map[string]SourceConfig `mapstructure:"sources" validate:"dive"` // 多数据源独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`          // 服务端口
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 数据库配置（postgres 为生产，sqlite 用于本地与测试）
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN             string        `mapstructure:"dsn" validate:"required"`                           // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=0"`                   // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`                   // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`                                 // 连接最大存活时间
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=silent error warn info"` // GORM 日志级别
}

// IngestConfig 对账引擎参数
type IngestConfig struct {
	OngoingWindowDays       int    `mapstructure:"ongoing_window_days" validate:"min=1"`       // 常设展合成窗口（天）
	PlaceholderHorizonYears int    `mapstructure:"placeholder_horizon_years" validate:"min=1"` // 结束日期超过该年限视为占位值
	AffinityFile            string `mapstructure:"affinity_file"`                              // 场馆域名归属表（可选）
}

// SyncConfig 同步调度配置
type SyncConfig struct {
	Interval       time.Duration `mapstructure:"interval"`        // 定时同步间隔，0 表示只允许手动触发
	EnabledSources []string      `mapstructure:"enabled_sources"` // 启用的数据源列表
}

// SourceConfig 单个数据源的独立配置（一个数据源对应一个场馆）
type SourceConfig struct {
	Type             string  `mapstructure:"type" validate:"required"`         // 适配器类型：jsonfeed
	VenueID          uint64  `mapstructure:"venue_id" validate:"required"`     // 入库目标场馆
	CityID           uint64  `mapstructure:"city_id"`                          // 入库目标城市，0 取场馆所属城市
	VenueName        string  `mapstructure:"venue_name"`                       // 场馆名称，为空取 venues.name
	BaseURL          string  `mapstructure:"base_url" validate:"required,url"` // 数据源基础地址
	Path             string  `mapstructure:"path"`                             // 事件列表路径
	Timeout          int     `mapstructure:"timeout"`                          // 请求超时（秒）
	RetryCount       int     `mapstructure:"retry_count" validate:"min=0"`     // 重试次数
	Proxy            string  `mapstructure:"proxy"`                            // 代理地址
	Organizer        string  `mapstructure:"organizer"`                        // 固定主办方（为空不覆盖）
	DefaultSourceURL string  `mapstructure:"default_source_url"`               // 事件缺少链接时使用的默认链接
	RatePerSecond    float64 `mapstructure:"rate_per_second" validate:"min=0"` // 每秒请求数上限，0 不限速
	Burst            int     `mapstructure:"burst" validate:"min=0"`
}

var validate = validator.New()

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录读取 config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetTypeByDefaultValue(true)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("ingest.ongoing_window_days", 730)
	v.SetDefault("ingest.placeholder_horizon_years", 10)
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	for _, name := range c.Sync.EnabledSources {
		if _, ok := c.Sources[name]; !ok {
			return fmt.Errorf("配置校验失败: enabled_sources 中的 %s 未在 sources 中定义", name)
		}
	}
	return nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	// 数据源代理：<NAME>_PROXY，如 MET_PROXY
	for name, s := range cfg.Sources {
		key := strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_PROXY"
		if v := os.Getenv(key); v != "" {
			s.Proxy = v
			cfg.Sources[name] = s
		}
	}
}
