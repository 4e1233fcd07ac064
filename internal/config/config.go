package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 注文ストアの種類
const (
	OrderStorePostgres = "postgres"
	OrderStoreMongo    = "mongo"
)

// アプリ全体の設定
type Config struct {
	Port  string // サーバーポート(8080)
	GoEnv string // dev/prod

	LogLevel  string // debug/info/warn/error
	LogFormat string // json/console

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string        // セッションCookieの署名鍵
	SessionTTL    time.Duration // セッションの有効期間（アクセスごとに延長）
	CookieSecure  bool

	MessagingHost string // ディープリンクのホスト(wa.me)
	MerchantPhone string // ショップに電話番号が無いときの送信先

	OrderStore string // postgres/mongo
	MongoURI   string
	MongoDB    string
}

// .envがあれば読む。無くてもエラーにしない
func LoadDotenv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// 環境変数からConfigを作る
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := durationDefault("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "talksellr"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    sessionTTL,
		CookieSecure:  envBool("COOKIE_SECURE", true),

		MessagingHost: getenv("MESSAGING_HOST", "wa.me"),
		MerchantPhone: os.Getenv("MERCHANT_PHONE"),

		OrderStore: getenv("ORDER_STORE", OrderStorePostgres),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DB", "talksellr"),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	//必須チェック
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.IsProduction() && len(cfg.SessionSecret) < 32 {
		return Config{}, fmt.Errorf("SESSION_SECRET must be at least 32 bytes in prod")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	switch cfg.OrderStore {
	case OrderStorePostgres, OrderStoreMongo:
	default:
		return Config{}, fmt.Errorf("ORDER_STORE must be %q or %q", OrderStorePostgres, OrderStoreMongo)
	}

	return cfg, nil
}

// 本番かどうか
func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

// DATABASE_URL、無ければPOSTGRES_*からDSNを組み立てる
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}
