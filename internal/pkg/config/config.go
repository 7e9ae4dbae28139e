package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config 전역 설정 구조체
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	OSS      OSSConfig      `mapstructure:"oss"`
	Matching MatchingConfig `mapstructure:"matching"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 시간 단위
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

// MatchingConfig 파트너 매칭/정산 설정
type MatchingConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`
	// CandidateLimit 추천 후보 풀 상한
	CandidateLimit int `mapstructure:"candidate_limit"`
	// DefaultCommission 파트너십에 수수료 미설정 시 적용되는 건당 수수료 (원)
	DefaultCommission int `mapstructure:"default_commission"`
	// DefaultDailyLimit 크로스 쿠폰 생성 시 기본 일일 한도
	DefaultDailyLimit int `mapstructure:"default_daily_limit"`
	// Transition 카테고리 전환율 테이블 오버라이드 (from -> to -> 점수)
	Transition map[string]map[string]int `mapstructure:"transition"`
}

// WeightsConfig 매칭 점수 가중치. 네 항목의 합은 반드시 100
type WeightsConfig struct {
	CategoryTransition int `mapstructure:"category_transition"`
	Distance           int `mapstructure:"distance"`
	PriceSimilarity    int `mapstructure:"price_similarity"`
	PeakTimeAlignment  int `mapstructure:"peak_time_alignment"`
}

var GlobalConfig Config

// Validate 설정 검증
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	// 가중치 합 검증은 할당 시점에 1회 수행한다
	w := c.Matching.Weights
	if sum := w.CategoryTransition + w.Distance + w.PriceSimilarity + w.PeakTimeAlignment; sum != 100 {
		return errors.New("matching weights must sum to exactly 100")
	}

	return nil
}

// LoadConfig 설정 로드
func LoadConfig() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// 기본값
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("matching.weights.category_transition", 40)
	viper.SetDefault("matching.weights.distance", 20)
	viper.SetDefault("matching.weights.price_similarity", 20)
	viper.SetDefault("matching.weights.peak_time_alignment", 20)
	viper.SetDefault("matching.candidate_limit", 50)
	viper.SetDefault("matching.default_commission", 500)
	viper.SetDefault("matching.default_daily_limit", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// viper 가 env 중첩 키를 못 푸는 경우 대비 수동 오버라이드
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}

	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
