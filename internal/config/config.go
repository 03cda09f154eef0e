package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	DocStore           string
	DBDSN              string
	FirestoreProjectID string
	DBConnectRetries   int

	ServerPort    string
	SessionSecret string
	AdminEmail    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RedisAddr     string
	RedisPassword string

	AssetsDir            string
	NetworkProbeInterval time.Duration
}

// FromEnv читает окружение (и .env, если есть) и проверяет настройки хранилища.
// SESSION_SECRET здесь не обязателен: он нужен только серверу.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DocStore:           strings.ToLower(os.Getenv("DOC_STORE")),
		DBDSN:              os.Getenv("DB_DSN"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		ServerPort:         os.Getenv("SERVER_PORT"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		AssetsDir:          os.Getenv("ASSETS_DIR"),
	}

	if cfg.DocStore == "" {
		cfg.DocStore = StorePostgres
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@tgpcet.ac.in"
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "web/images"
	}

	cfg.NetworkProbeInterval = 15 * time.Second
	if v := os.Getenv("NETWORK_PROBE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, errors.Errorf("NETWORK_PROBE_INTERVAL: invalid duration %q", v)
		}
		cfg.NetworkProbeInterval = d
	}

	cfg.DBConnectRetries = 5
	if v := os.Getenv("DB_CONNECT_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, errors.Errorf("DB_CONNECT_RETRIES: invalid value %q", v)
		}
		cfg.DBConnectRetries = n
	}

	switch cfg.DocStore {
	case StorePostgres:
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is not set")
		}
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, errors.New("FIRESTORE_PROJECT_ID is not set")
		}
	case StoreMemory:
	default:
		return nil, errors.Errorf("DOC_STORE: unknown backend %q", cfg.DocStore)
	}

	return cfg, nil
}

// GoogleEnabled — вход через Google настроен.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

func Load() *Config {
	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	return cfg
}
