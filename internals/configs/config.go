package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Config dibangun sekali saat startup lalu diteruskan ke semua komponen.
type Config struct {
	Port string

	// Dua tingkat kredensial: DatabaseURL untuk operasi biasa,
	// DatabaseServiceURL (elevated) untuk cascade delete & maintenance.
	DatabaseURL        string
	DatabaseServiceURL string
	DBSlowThreshold    time.Duration

	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string

	AIAPIKey   string
	AIBaseURL  string
	AIModel    string
	AISTTModel string
	AITTSModel string
	AITimeout  time.Duration

	RedisURL string

	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucket     string
	OSSPublicBase string

	EmailVerificationRequired bool
	LegacyUserCutoff          time.Time

	CORSOrigins []string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env file not found, using system environment")
		} else {
			log.Println("[INFO] .env file loaded")
		}
	} else {
		log.Println("[INFO] Running in Railway, using system environment")
	}
}

// Load membaca environment (setelah LoadEnv) lewat viper dengan default.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_SLOW_THRESHOLD", "200ms")
	v.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_STT_MODEL", "whisper-1")
	v.SetDefault("AI_TTS_MODEL", "tts-1")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("EMAIL_VERIFICATION_REQUIRED", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		DatabaseServiceURL: strings.TrimSpace(v.GetString("DATABASE_SERVICE_URL")),
		DBSlowThreshold:    v.GetDuration("DB_SLOW_THRESHOLD"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTRefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
		GoogleClientID:   v.GetString("GOOGLE_CLIENT_ID"),

		AIAPIKey:   strings.TrimSpace(v.GetString("AI_API_KEY")),
		AIBaseURL:  strings.TrimRight(v.GetString("AI_BASE_URL"), "/"),
		AIModel:    v.GetString("AI_MODEL"),
		AISTTModel: v.GetString("AI_STT_MODEL"),
		AITTSModel: v.GetString("AI_TTS_MODEL"),
		AITimeout:  v.GetDuration("AI_TIMEOUT"),

		RedisURL: strings.TrimSpace(v.GetString("REDIS_URL")),

		OSSEndpoint:   v.GetString("ALI_OSS_ENDPOINT"),
		OSSAccessKey:  v.GetString("ALI_OSS_ACCESS_KEY"),
		OSSSecretKey:  v.GetString("ALI_OSS_SECRET_KEY"),
		OSSBucket:     v.GetString("ALI_OSS_BUCKET"),
		OSSPublicBase: v.GetString("ALI_OSS_PUBLIC_BASE"),

		EmailVerificationRequired: v.GetBool("EMAIL_VERIFICATION_REQUIRED"),
		CORSOrigins:               splitList(v.GetString("CORS_ORIGINS")),
	}

	if cfg.AIAPIKey == "" {
		// nama lama yang masih dipakai di beberapa deployment
		cfg.AIAPIKey = strings.TrimSpace(v.GetString("OPENAI_API_KEY"))
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 30 * time.Second
	}

	if raw := strings.TrimSpace(v.GetString("LEGACY_USER_CUTOFF")); raw != "" {
		t, err := parseCutoff(raw)
		if err != nil {
			return nil, fmt.Errorf("LEGACY_USER_CUTOFF: %w", err)
		}
		cfg.LegacyUserCutoff = t
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	if cfg.DatabaseServiceURL == "" {
		cfg.DatabaseServiceURL = cfg.DatabaseURL
	}

	logSecretPresence("JWT_SECRET", cfg.JWTSecret)
	logSecretPresence("JWT_REFRESH_SECRET", cfg.JWTRefreshSecret)
	logSecretPresence("AI_API_KEY", cfg.AIAPIKey)

	return cfg, nil
}

// AIEnabled: tanpa API key semua route AI menjawab 503.
func (c *Config) AIEnabled() bool { return c != nil && c.AIAPIKey != "" }

func (c *Config) OSSEnabled() bool {
	return c != nil && c.OSSEndpoint != "" && c.OSSAccessKey != "" && c.OSSSecretKey != "" && c.OSSBucket != ""
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func dsnFromParts() string {
	if GetEnv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=internlink",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseCutoff(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	return t.UTC(), nil
}

func logSecretPresence(name, value string) {
	if value == "" {
		log.Printf("[WARN] %s is not set", name)
		return
	}
	log.Printf("[INFO] %s loaded", name)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(slow time.Duration) gormLogger.Interface {
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &GormLogger{
		SlowThreshold: slow,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !isIgnorable(err):
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

func isIgnorable(err error) bool {
	return err == gormLogger.ErrRecordNotFound
}
