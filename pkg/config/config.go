package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Grades   GradesConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Ratings  RatingsConfig
	Refresh  RefreshConfig
	Majors   MajorsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// GradesConfig points at the read-only SQLite grade history.
type GradesConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs the Redis read cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig configures the class search scraper.
type CatalogConfig struct {
	BaseURL      string
	Term         string
	GECategories []string
	Workers      int
	PageSize     int
	FetchDetails bool
	Timeout      time.Duration
	MaxAttempts  int
	MaxPages     int
}

// RatingsConfig configures the instructor ratings GraphQL client.
type RatingsConfig struct {
	Enabled  bool
	URL      string
	SchoolID string
	Auth     string
	RPS      float64
	Burst    int
	Timeout  time.Duration
}

// RefreshConfig controls the scheduled snapshot refresh.
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
	OnStart  bool
	Timeout  time.Duration
}

// MajorsConfig locates major requirement documents.
type MajorsConfig struct {
	Dir          string
	DefaultMajor string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Grades = GradesConfig{Path: v.GetString("GRADES_DB_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		BaseURL:      v.GetString("CATALOG_BASE_URL"),
		Term:         v.GetString("CATALOG_TERM"),
		GECategories: splitAndTrim(v.GetString("CATALOG_GE_CATEGORIES")),
		Workers:      positive(v.GetInt("CATALOG_WORKERS"), 4),
		PageSize:     positive(v.GetInt("CATALOG_PAGE_SIZE"), 2000),
		FetchDetails: v.GetBool("CATALOG_FETCH_DETAILS"),
		Timeout:      parseDuration(v.GetString("CATALOG_TIMEOUT"), 30*time.Second),
		MaxAttempts:  positive(v.GetInt("CATALOG_MAX_ATTEMPTS"), 3),
		MaxPages:     positive(v.GetInt("CATALOG_MAX_PAGES"), 50),
	}

	rps := v.GetFloat64("RATINGS_RPS")
	if rps <= 0 {
		rps = 5
	}
	cfg.Ratings = RatingsConfig{
		Enabled:  v.GetBool("RATINGS_ENABLED"),
		URL:      v.GetString("RATINGS_URL"),
		SchoolID: v.GetString("RATINGS_SCHOOL_ID"),
		Auth:     v.GetString("RATINGS_AUTH"),
		RPS:      rps,
		Burst:    positive(v.GetInt("RATINGS_BURST"), 5),
		Timeout:  parseDuration(v.GetString("RATINGS_TIMEOUT"), 15*time.Second),
	}

	cfg.Refresh = RefreshConfig{
		Enabled:  v.GetBool("REFRESH_ENABLED"),
		Interval: parseDuration(v.GetString("REFRESH_INTERVAL"), time.Hour),
		OnStart:  v.GetBool("REFRESH_ON_START"),
		Timeout:  parseDuration(v.GetString("REFRESH_TIMEOUT"), 45*time.Minute),
	}

	cfg.Majors = MajorsConfig{
		Dir:          v.GetString("MAJORS_DIR"),
		DefaultMajor: v.GetString("DEFAULT_MAJOR"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "slugtistics")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("GRADES_DB_PATH", "./slugtistics.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "slugtistics-api")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_BASE_URL", "https://pisa.ucsc.edu/class_search/")
	v.SetDefault("CATALOG_TERM", "2252")
	v.SetDefault("CATALOG_GE_CATEGORIES", "CC,ER,IM,MF,SI,SR,TA,PE-E,PE-H,PE-T,PR-E,PR-C,PR-S,C1,C2")
	v.SetDefault("CATALOG_WORKERS", 4)
	v.SetDefault("CATALOG_PAGE_SIZE", 2000)
	v.SetDefault("CATALOG_FETCH_DETAILS", true)
	v.SetDefault("CATALOG_TIMEOUT", "30s")
	v.SetDefault("CATALOG_MAX_ATTEMPTS", 3)
	v.SetDefault("CATALOG_MAX_PAGES", 50)

	v.SetDefault("RATINGS_ENABLED", true)
	v.SetDefault("RATINGS_URL", "https://www.ratemyprofessors.com/graphql")
	v.SetDefault("RATINGS_SCHOOL_ID", "U2Nob29sLTEwNzg=")
	v.SetDefault("RATINGS_AUTH", "Basic dGVzdDp0ZXN0")
	v.SetDefault("RATINGS_RPS", 5)
	v.SetDefault("RATINGS_BURST", 5)
	v.SetDefault("RATINGS_TIMEOUT", "15s")

	v.SetDefault("REFRESH_ENABLED", true)
	v.SetDefault("REFRESH_INTERVAL", "1h")
	v.SetDefault("REFRESH_ON_START", true)
	v.SetDefault("REFRESH_TIMEOUT", "45m")

	v.SetDefault("MAJORS_DIR", "./data/majors")
	v.SetDefault("DEFAULT_MAJOR", "computer_science_bs_2024")
}

// isMissingFile reports a missing .env; SetConfigFile surfaces it as a path error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positive(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
