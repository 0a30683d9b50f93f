package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger          `mapstructure:"logger"`
	DB        Database        `mapstructure:"database"`
	API       API             `mapstructure:"api"`
	Eastmoney Eastmoney       `mapstructure:"eastmoney"`
	Cache     Cache           `mapstructure:"cache"`
	Gemini    Gemini          `mapstructure:"gemini"`
	NavSync   NavSync         `mapstructure:"nav_sync"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Eastmoney struct {
	BaseURL              string        `mapstructure:"base_url"`
	SearchBaseURL        string        `mapstructure:"search_base_url"`
	ValuationBaseURL     string        `mapstructure:"valuation_base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute  int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL        time.Duration `mapstructure:"quote_cache_ttl"`
	HistoryCacheTTL      time.Duration `mapstructure:"history_cache_ttl"`
	ValuationCacheTTL    time.Duration `mapstructure:"valuation_cache_ttl"`
	ValuationConcurrency int           `mapstructure:"valuation_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type NavSync struct {
	Enabled      bool   `mapstructure:"enabled"`
	CronSchedule string `mapstructure:"cron_schedule"`
	FetchDays    int    `mapstructure:"fetch_days"`
}

type AnalyticsConfig struct {
	RiskFreeRate       float64 `mapstructure:"risk_free_rate"`
	DefaultHistoryDays int     `mapstructure:"default_history_days"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("eastmoney.base_url", "https://api.fund.eastmoney.com")
	viper.SetDefault("eastmoney.search_base_url", "https://fundsuggest.eastmoney.com")
	viper.SetDefault("eastmoney.timeout", 10*time.Second)
	viper.SetDefault("eastmoney.max_request_per_minute", 60)
	viper.SetDefault("eastmoney.valuation_base_url", "https://fundgz.1234567.com.cn")
	viper.SetDefault("eastmoney.quote_cache_ttl", 5*time.Minute)
	viper.SetDefault("eastmoney.history_cache_ttl", 30*time.Minute)
	viper.SetDefault("eastmoney.valuation_cache_ttl", 1*time.Minute)
	viper.SetDefault("eastmoney.valuation_concurrency", 6)
	viper.SetDefault("cache.default_expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 15*time.Minute)
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("nav_sync.enabled", true)
	viper.SetDefault("nav_sync.cron_schedule", "*/30 * * * *")
	viper.SetDefault("nav_sync.fetch_days", 120)
	viper.SetDefault("analytics.risk_free_rate", 0.0)
	viper.SetDefault("analytics.default_history_days", 120)
}
