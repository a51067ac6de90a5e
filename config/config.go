package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log     Logger        `mapstructure:"logger"`
	DB      Database      `mapstructure:"database"`
	API     API           `mapstructure:"api"`
	Quote   QuoteSource   `mapstructure:"quote"`
	Cache   Cache         `mapstructure:"cache"`
	Sweep   Sweep         `mapstructure:"sweep"`
	Ranking RankingConfig `mapstructure:"ranking"`
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

type QuoteSource struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Sweep struct {
	CronExpression string `mapstructure:"cron_expression"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

type RankingConfig struct {
	MaxLeaderboardSize int `mapstructure:"max_leaderboard_size"`
}

func Load() (*Config, error) {
	// .env is optional; environment wins over file values either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
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
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("quote.timeout", 30*time.Second)
	viper.SetDefault("quote.max_request_per_min", 60)
	viper.SetDefault("quote.cache_ttl", time.Minute)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("sweep.cron_expression", "5 * * * *")
	viper.SetDefault("sweep.max_concurrency", 4)
	viper.SetDefault("ranking.max_leaderboard_size", 50)
}
