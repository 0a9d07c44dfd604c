// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	CORS                    `yaml:"cors"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Email                   `yaml:"email"`
	Verification            `yaml:"verification"`
	JWTToken                `yaml:"jwttoken"`
	MercadoPago             `yaml:"mercadopago"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// CORS настройки кросс-доменных заголовков.
type CORS struct {
	FrontendDomain string   `yaml:"frontend_domain" env:"FRONTEND_DOMAIN" env-default:"https://alcateiahits.org"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"https://alcateiahits.org,https://www.alcateiahits.org,http://localhost:80,http://localhost:3000"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitMQ настройки подключения к брокеру событий подписок.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Email настройки исходящей почты.
type Email struct {
	Provider     string `yaml:"provider" env:"EMAIL_PROVIDER" env-default:"resend"`
	From         string `yaml:"from" env:"EMAIL_FROM" env-default:"Alcateia Hits <noreply@alcateiahits.org>"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     string `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass     string `yaml:"smtp_pass" env:"SMTP_PASS"`
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	ResendAPIURL string `yaml:"resend_api_url" env-default:"https://api.resend.com/emails"`
}

// Verification настройки жизненного цикла одноразовых кодов.
type Verification struct {
	VerificationTTL  time.Duration `yaml:"verification_ttl" env-default:"10m"`
	PasswordResetTTL time.Duration `yaml:"password_reset_ttl" env-default:"15m"`
	LockTTL          time.Duration `yaml:"lock_ttl" env-default:"5s"`
	SweepInterval    time.Duration `yaml:"sweep_interval" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// MercadoPago ключи платёжного провайдера.
type MercadoPago struct {
	AccessToken   string `yaml:"access_token" env:"MERCADOPAGO_ACCESS_TOKEN"`
	WebhookSecret string `yaml:"webhook_secret" env:"MERCADOPAGO_WEBHOOK_SECRET"`
}

// RateLimit ограничение частоты запросов к /api/email.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг из файла, переменные окружения имеют приоритет.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"CORS:\n"+
			"  FrontendDomain: %s\n"+
			"  AllowedOrigins: %v\n"+
			"Redis: %s\n"+
			"RabbitMQ: %s\n"+
			"Email:\n"+
			"  Provider: %s\n"+
			"  From: %s\n"+
			"Verification:\n"+
			"  VerificationTTL: %s\n"+
			"  PasswordResetTTL: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.FrontendDomain,
		c.AllowedOrigins,
		c.AddressRedis,
		c.RabbitMQURL,
		c.Provider,
		c.From,
		c.VerificationTTL,
		c.PasswordResetTTL,
	)
}
