package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	Quote  QuoteConfig
	Poller PollerConfig
	Random RandomConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port   string
	Host   string
	APIKey string
}

// StoreConfig selects and configures the history store backend
type StoreConfig struct {
	// Backend is "file" or "postgres"
	Backend  string
	FilePath string
	Database DatabaseConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled    bool
	Brokers    []string
	EventTopic string
	TickTopic  string
	GroupID    string
}

// RedisConfig holds the quote cache configuration
type RedisConfig struct {
	Addr     string
	QuoteTTL time.Duration
}

// QuoteConfig holds live quote fetch configuration
type QuoteConfig struct {
	FetchTimeout time.Duration
}

// PollerConfig holds background polling configuration
type PollerConfig struct {
	Interval time.Duration
	Symbols  []string
}

// RandomConfig holds the synthetic price model knobs
type RandomConfig struct {
	UseRandomPrices bool
	BaseVol         float64
	JumpProb        float64
	JumpScale       float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:   getEnv("SERVER_PORT", "8080"),
			Host:   getEnv("SERVER_HOST", "0.0.0.0"),
			APIKey: getEnv("API_KEY", ""),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", "file"),
			FilePath: getEnv("STORE_FILE_PATH", "data/data.json"),
			Database: DatabaseConfig{
				Host:           getEnv("DB_HOST", "localhost"),
				Port:           getEnv("DB_PORT", "5432"),
				User:           getEnv("DB_USER", "postgres"),
				Password:       getEnv("DB_PASSWORD", "postgres"),
				DBName:         getEnv("DB_NAME", "stocksim"),
				SSLMode:        getEnv("DB_SSLMODE", "disable"),
				MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
			},
		},
		Kafka: KafkaConfig{
			Enabled:    getBool("KAFKA_ENABLED", false),
			Brokers:    []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			EventTopic: getEnv("KAFKA_EVENT_TOPIC", "price-events"),
			TickTopic:  getEnv("KAFKA_TICK_TOPIC", ""),
			GroupID:    getEnv("KAFKA_GROUP_ID", "stocksim-ticks"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			QuoteTTL: getDuration("REDIS_QUOTE_TTL", 30*time.Second),
		},
		Quote: QuoteConfig{
			FetchTimeout: getDuration("QUOTE_FETCH_TIMEOUT", 5*time.Second),
		},
		Poller: PollerConfig{
			Interval: getDuration("PRICE_POLL_INTERVAL", 5*time.Minute),
			Symbols:  getSymbols("PRICE_POLL_SYMBOLS"),
		},
		Random: RandomConfig{
			UseRandomPrices: getBool("USE_RANDOM_PRICES", false),
			BaseVol:         getFloat("RANDOM_BASE_VOL", 0.02),
			JumpProb:        getFloat("RANDOM_JUMP_PROB", 0.08),
			JumpScale:       getFloat("RANDOM_JUMP_SCALE", 0.06),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		v := strings.ToLower(value)
		return v == "1" || v == "true" || v == "yes"
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSymbols(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var symbols []string
	for _, s := range strings.Split(value, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
