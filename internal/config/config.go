// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Gateway                 `yaml:"gateway"`
	CacheTTL                `yaml:"cache_ttl"`
	SMTP                    `yaml:"smtp"`
	RabbitMQ                `yaml:"rabbitmq"`
	Gamification            `yaml:"gamification"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Gateway настройки платёжного шлюза Asaas.
type Gateway struct {
	GatewayAPIURL string `yaml:"gateway_api_url" env-default:"https://api.asaas.com/v3"`
	GatewayAPIKey string `yaml:"gateway_api_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// CacheTTL настройки времени жизни кешируемых данных каталога и проверок доступа.
type CacheTTL struct {
	CategoriesTTL time.Duration `yaml:"categories_ttl" env-default:"5m"`
	AccessTTL     time.Duration `yaml:"access_ttl" env-default:"30s"`
	CourseTTL     time.Duration `yaml:"course_ttl" env-default:"1h"`
}

// SMTP настройки почтового транспорта для отправки квитанций.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// Gamification настройки начисления очков за чтение.
type Gamification struct {
	PointsPerPage int `yaml:"points_per_page" env-default:"1"`
}

// RabbitMQ настройки подключения к брокеру сообщений.
type RabbitMQ struct {
	RabbitURL    string `yaml:"rabbit_url"`
	ReceiptQueue string `yaml:"receipt_queue" env-default:"payment_receipts"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH.
// Завершает процесс при любой ошибке загрузки.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
