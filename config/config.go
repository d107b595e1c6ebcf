package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config armazena todas as configurações do GoHotel.
// Cada campo corresponde a uma variável de ambiente documentada.
type Config struct {
	// Geral
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Banco de Dados (PostgreSQL). DATABASE_URL, quando definida, tem
	// prioridade sobre os campos individuais.
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         int    `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBTimeoutSec   int    `mapstructure:"DB_TIMEOUT_SEC"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	// Cache (Redis), usado pelo rate limiter.
	RedisAddr string `mapstructure:"REDIS_ADDR"`

	// Rate Limiting
	RateLimitMaxRequests int `mapstructure:"RATE_LIMIT_MAX_REQUESTS"`
	RateLimitPeriodSec   int `mapstructure:"RATE_LIMIT_PERIOD_SEC"`

	DBTimeout       time.Duration `mapstructure:"-"`
	RateLimitPeriod time.Duration `mapstructure:"-"`
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"DATABASE_URL":            "",
	"DB_HOST":                 "localhost",
	"DB_PORT":                 5432,
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "",
	"DB_NAME":                 "hotel",
	"DB_SSLMODE":              "disable",
	"DB_TIMEOUT_SEC":          5,
	"DB_MAX_OPEN_CONNS":       25,
	"REDIS_ADDR":              "localhost:6379",
	"RATE_LIMIT_MAX_REQUESTS": 100,
	"RATE_LIMIT_PERIOD_SEC":   60,
}

// LoadConfig carrega as configurações do ambiente (e de um .env opcional no
// diretório atual).
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// O .env é opcional; em Docker tudo vem do ambiente.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.DBTimeout = time.Duration(cfg.DBTimeoutSec) * time.Second
	cfg.RateLimitPeriod = time.Duration(cfg.RateLimitPeriodSec) * time.Second
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && strings.TrimSpace(c.DBHost) == "" {
		return fmt.Errorf("configuração inválida: defina DATABASE_URL ou DB_HOST")
	}
	if c.DBTimeoutSec <= 0 {
		return fmt.Errorf("configuração inválida: DB_TIMEOUT_SEC deve ser positivo (recebido %d)", c.DBTimeoutSec)
	}
	if c.RateLimitMaxRequests <= 0 || c.RateLimitPeriodSec <= 0 {
		return fmt.Errorf("configuração inválida: RATE_LIMIT_MAX_REQUESTS e RATE_LIMIT_PERIOD_SEC devem ser positivos")
	}
	return nil
}

// DSN devolve a URL de conexão do lib/pq.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		u.User = url.User(c.DBUser)
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsProduction indica se o logger deve usar saída JSON.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
