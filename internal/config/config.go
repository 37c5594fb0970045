package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port string     `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type StorageConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Bucket        string        `mapstructure:"bucket"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	SignedURLTTL  time.Duration `mapstructure:"signed_url_ttl"`
	StagingDir    string        `mapstructure:"staging_dir"`
	FFmpegBinary  string        `mapstructure:"ffmpeg_binary"`
	UploadRetries int           `mapstructure:"upload_retries"`
}

type AssessmentConfig struct {
	VideoSizeLimitMB     float64       `mapstructure:"video_size_limit_mb"`
	UseAnnotations       bool          `mapstructure:"use_annotations"`
	UseLLMs              bool          `mapstructure:"use_llms"`
	StoreResultsLocally  bool          `mapstructure:"store_results_locally"`
	LocalResultsDir      string        `mapstructure:"local_results_dir"`
	WorkerCount          int           `mapstructure:"worker_count"`
	DetectorTimeout      time.Duration `mapstructure:"detector_timeout"`
	TrimStartSeconds     float64       `mapstructure:"trim_start_seconds"`
	TrimEndSeconds       float64       `mapstructure:"trim_end_seconds"`
	AvgShotDurationSecs  float64       `mapstructure:"avg_shot_duration_secs"`
	QuickPacingMinShots  int           `mapstructure:"quick_pacing_min_shots"`
	DynamicStartMaxFirst float64       `mapstructure:"dynamic_start_max_first_shot_secs"`
	CloseUpMinBoxArea    float64       `mapstructure:"close_up_min_box_area"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BundleTTL  time.Duration `mapstructure:"bundle_ttl"`
	EntityTTL  time.Duration `mapstructure:"entity_ttl"`
}

type Neo4jConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		AssessmentEvents string `mapstructure:"assessment_events"`
	} `mapstructure:"topics"`
}

type LLMConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Location  string        `mapstructure:"location"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

type AuthConfig struct {
	JWTSecret string          `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration   `mapstructure:"token_ttl"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Default int           `mapstructure:"default"`
	Premium int           `mapstructure:"premium"`
	Window  time.Duration `mapstructure:"window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8086")
	viper.SetDefault("server.mode", "development")
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("server.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})

	// Storage defaults
	viper.SetDefault("storage.timeout", "60s")
	viper.SetDefault("storage.max_retries", 3)
	viper.SetDefault("storage.retry_backoff", "500ms")
	viper.SetDefault("storage.signed_url_ttl", "1h")
	viper.SetDefault("storage.staging_dir", "./abcd_videos")
	viper.SetDefault("storage.ffmpeg_binary", "ffmpeg")
	viper.SetDefault("storage.upload_retries", 3)

	// Assessment defaults
	viper.SetDefault("assessment.video_size_limit_mb", 7.0)
	viper.SetDefault("assessment.use_annotations", true)
	viper.SetDefault("assessment.use_llms", false)
	viper.SetDefault("assessment.store_results_locally", false)
	viper.SetDefault("assessment.local_results_dir", "./results")
	viper.SetDefault("assessment.worker_count", 4)
	viper.SetDefault("assessment.detector_timeout", "30s")
	viper.SetDefault("assessment.trim_start_seconds", 0.0)
	viper.SetDefault("assessment.trim_end_seconds", 5.0)
	viper.SetDefault("assessment.avg_shot_duration_secs", 2.0)
	viper.SetDefault("assessment.quick_pacing_min_shots", 5)
	viper.SetDefault("assessment.dynamic_start_max_first_shot_secs", 3.0)
	viper.SetDefault("assessment.close_up_min_box_area", 0.15)

	// Database defaults
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")
	viper.SetDefault("redis.bundle_ttl", "1h")
	viper.SetDefault("redis.entity_ttl", "24h")

	// Kafka defaults
	viper.SetDefault("kafka.topics.assessment_events", "assessment-events")

	// LLM defaults
	viper.SetDefault("llm.model", "gemini-1.5-pro")
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("llm.location", "us-central1")
	viper.SetDefault("llm.max_tokens", 2048)

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.rate_limit.default", 60)
	viper.SetDefault("auth.rate_limit.premium", 600)
	viper.SetDefault("auth.rate_limit.window", "1m")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}
