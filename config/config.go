package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	GRPC     ServerConfig
	MySQL    MySQLConfig
	Redis    RedisConfig
	Log      LogConfig
	Gateway  GatewayConfig
	Auth     AuthConfig
	Mail     MailConfig
	Storage  StorageConfig
	Receipts ReceiptsConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	ServiceName     string
	PublicBaseURL   string
	FrontendBaseURL string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	CheckoutTTL time.Duration
}

type LogConfig struct {
	Level string
}

type GatewayConfig struct {
	MerchantKey string
	Salt        string
	PaymentURL  string
	VerifyURL   string
	HTTPTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	FromName     string
	AdminAddress string
}

type StorageConfig struct {
	Driver          string
	MaxUploadBytes  int64
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string
	S3AccessKey     string
	S3SecretKey     string
	CloudinaryURL   string
	CloudinaryDir   string
}

type ReceiptsConfig struct {
	TempleName    string
	TempleAddress string
	InvoicePrefix string
}

type JobsConfig struct {
	PendingStaleAfter time.Duration
	BatchSize         int32
	ReconcileInterval time.Duration
	ReceiptsInterval  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}
	mysqlDSN, err := normalizeMySQLDSN(mysqlDSN)
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			ServiceName:     getEnv("APP_SERVICE_NAME", "donations-service"),
			PublicBaseURL:   strings.TrimRight(getEnv("APP_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			FrontendBaseURL: strings.TrimRight(getEnv("APP_FRONTEND_BASE_URL", "http://localhost:3000"), "/"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			CheckoutTTL: getMinutesEnv("CHECKOUT_TTL_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gateway: GatewayConfig{
			MerchantKey: getEnv("PAYU_MERCHANT_KEY", ""),
			Salt:        getEnv("PAYU_SALT", ""),
			PaymentURL:  getEnv("PAYU_PAYMENT_URL", "https://test.payu.in/_payment"),
			VerifyURL:   getEnv("PAYU_VERIFY_URL", "https://test.payu.in/merchant/postservice.php?form=2"),
			HTTPTimeout: getSecondsEnv("PAYU_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getMinutesEnv("JWT_TTL_MINUTES", 12*time.Hour),
		},
		Mail: MailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("MAIL_FROM", ""),
			FromName:     getEnv("MAIL_FROM_NAME", "Temple Office"),
			AdminAddress: getEnv("MAIL_ADMIN_ADDRESS", ""),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
			MaxUploadBytes:  int64(getIntEnv("STORAGE_MAX_UPLOAD_BYTES", 5<<20)),
			S3Bucket:        getEnv("S3_BUCKET", ""),
			S3Region:        getEnv("S3_REGION", "ap-south-1"),
			S3Endpoint:      getEnv("S3_ENDPOINT", ""),
			S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			S3AccessKey:     getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
			CloudinaryURL:   getEnv("CLOUDINARY_URL", ""),
			CloudinaryDir:   getEnv("CLOUDINARY_FOLDER", "temple"),
		},
		Receipts: ReceiptsConfig{
			TempleName:    getEnv("RECEIPT_TEMPLE_NAME", "Temple Trust"),
			TempleAddress: getEnv("RECEIPT_TEMPLE_ADDRESS", ""),
			InvoicePrefix: getEnv("RECEIPT_INVOICE_PREFIX", "TMPL"),
		},
		Jobs: JobsConfig{
			PendingStaleAfter: getMinutesEnv("JOBS_PENDING_STALE_AFTER_MINUTES", 30*time.Minute),
			BatchSize:         int32(getIntEnv("JOBS_BATCH_SIZE", 100)),
			ReconcileInterval: getSecondsEnv("JOBS_RECONCILE_INTERVAL_SECONDS", 5*time.Minute),
			ReceiptsInterval:  getSecondsEnv("JOBS_RECEIPTS_INTERVAL_SECONDS", 10*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// normalizeMySQLDSN forces parseTime so DATETIME columns scan into time.Time.
func normalizeMySQLDSN(dsn string) (string, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	parsed.ParseTime = true
	return parsed.FormatDSN(), nil
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
