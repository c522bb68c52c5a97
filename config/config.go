package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/models"
)

const insecureSessionSecret = "uma_string_bem_grande_e_difícil"

var DB *gorm.DB

type Settings struct {
	Port string

	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimeZone string
	SQLitePath string

	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string
	SeedFile      string
}

// Load đọc .env (nếu có) rồi tới biến môi trường.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "survey"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBTimeZone:    getEnv("DB_TIMEZONE", "America/Sao_Paulo"),
		SQLitePath:    getEnv("SQLITE_PATH", "survey.db"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SeedFile:      os.Getenv("SEED_FILE"),
	}

	if s.SessionSecret == "" {
		log.Println("Warning: SESSION_SECRET not set, using the built-in development secret")
		s.SessionSecret = insecureSessionSecret
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "8h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL: %q", os.Getenv("SESSION_TTL"))
	}
	s.SessionTTL = ttl

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.CORSOrigins = append(s.CORSOrigins, o)
			}
		}
	}

	if s.DBDriver != "postgres" && s.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", s.DBDriver)
	}
	return s, nil
}

// DSN builds the connection string for the configured driver.
func (s *Settings) DSN() string {
	if s.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort, s.DBSSLMode, s.DBTimeZone)
	}
	return "file:" + s.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Open mở kết nối gorm và migrate bảng.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite only has one writer; a single connection serializes transactions
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// ConnectDB khởi tạo kết nối và gán vào DB toàn cục.
func ConnectDB(s *Settings) error {
	db, err := Open(s.DBDriver, s.DSN())
	if err != nil {
		return err
	}
	DB = db
	log.Printf("Connected to %s & migrated successfully", s.DBDriver)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
