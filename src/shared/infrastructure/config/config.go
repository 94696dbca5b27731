package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig conexión a PostgreSQL
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN string de conexión para lib/pq, con usuario y password escapados
func (c DatabaseConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// Config configuración del servicio leída del entorno
type Config struct {
	Database DatabaseConfig

	RedisURL             string
	ExchangeRateCacheTTL time.Duration

	LogLevel    string
	LogEncoding string

	Port              string
	PrometheusEnabled bool

	DefaultCurrency string
	// SaleTimeout 0 hereda el deadline del contexto del llamador
	SaleTimeout     time.Duration
	AutoMigrate     bool
}

// Load lee .env si existe y luego las variables de entorno.
// Las variables ya definidas en el entorno tienen prioridad sobre el archivo.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	return Config{
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "sales_db"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		RedisURL:             getEnv("REDIS_URL", ""),
		ExchangeRateCacheTTL: getEnvDuration("EXCHANGE_RATE_CACHE_TTL", 5*time.Minute),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogEncoding:          getEnv("LOG_ENCODING", "json"),
		Port:                 getEnv("PORT", "8080"),
		PrometheusEnabled:    getEnvBool("PROMETHEUS_ENABLED", false),
		DefaultCurrency:      strings.ToUpper(getEnv("DEFAULT_CURRENCY", "ARS")),
		SaleTimeout:          getEnvDuration("SALE_TIMEOUT", 0),
		AutoMigrate:          getEnvBool("AUTO_MIGRATE", false),
	}
}

// getEnv obtiene una variable de entorno o devuelve un valor por defecto
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
