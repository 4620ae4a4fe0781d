package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	ML        MLConfig
	Recommend RecommendConfig
	Log       LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32

	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

// MLConfig describes the external scoring subsystem. Each timeout bounds one
// outbound call on its own.
type MLConfig struct {
	BaseURL       string
	HealthTimeout time.Duration
	ScoreTimeout  time.Duration
	RecommendPath string
}

type RecommendConfig struct {
	TopN     int
	CacheTTL time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

const (
	DefaultMLBaseURL       = "http://localhost:8000"
	DefaultMLHealthTimeout = 3 * time.Second
	DefaultMLScoreTimeout  = 10 * time.Second
	DefaultMLRecommendPath = "/api/recommend"
	DefaultTopN            = 10
	maxTopN                = 50
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST"),
		DBPort:         opt("DB_PORT"),
		DBName:         opt("DB_NAME"),
		DBUser:         opt("DB_USER"),
		DBPassword:     opt("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE"),
		ConnectTimeout: secondsOr(opt("DB_CONNECT_TIMEOUT_SECONDS"), 5*time.Second),
		PoolMaxConns:   int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:   int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		AutoMigrate:    boolOr(opt("DB_AUTO_MIGRATE"), false),
		MigrationsDir:  opt("DB_MIGRATIONS_DIR"),
	}
	if cfg.Database.DBSSLMode == "" {
		cfg.Database.DBSSLMode = "disable"
	}

	cfg.Redis = RedisConfig{
		Host:     stringOr(opt("REDIS_HOST"), "localhost"),
		Port:     stringOr(opt("REDIS_PORT"), "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      secondsOr(opt("REDIS_TTL"), 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: durationOr(opt("JWT_ACCESS_EXPIRES_IN"), 15*time.Minute),
	}

	cfg.ML = MLConfig{
		BaseURL:       strings.TrimRight(stringOr(opt("ML_SERVICE_URL"), DefaultMLBaseURL), "/"),
		HealthTimeout: durationOr(opt("ML_HEALTH_TIMEOUT"), DefaultMLHealthTimeout),
		ScoreTimeout:  durationOr(opt("ML_SCORE_TIMEOUT"), DefaultMLScoreTimeout),
		RecommendPath: stringOr(opt("ML_RECOMMEND_PATH"), DefaultMLRecommendPath),
	}

	cfg.Recommend = RecommendConfig{
		TopN:     ClampTopN(intOr(opt("RECOMMEND_TOP_N"), DefaultTopN)),
		CacheTTL: durationOr(opt("RECOMMEND_CACHE_TTL"), 0),
	}

	cfg.Log = LogConfig{
		JSON:  boolOr(opt("LOG_JSON"), false),
		Debug: boolOr(opt("LOG_DEBUG"), false),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// ClampTopN keeps the result cap inside what the scoring subsystem accepts.
func ClampTopN(n int) int {
	if n <= 0 {
		return DefaultTopN
	}
	if n > maxTopN {
		return maxTopN
	}
	return n
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func secondsOr(raw string, def time.Duration) time.Duration {
	v := intOr(raw, 0)
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}

// durationOr accepts Go durations ("3s", "1m") and bare integers as seconds.
func durationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return secondsOr(raw, def)
}
