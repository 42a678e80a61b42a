package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации сервиса.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig описывает подключение к PostgreSQL.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// RedisConfig описывает подключение к Redis (Pub/Sub и кэш списка оверрайдов).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig содержит пути к RSA ключам и настройки JWT операторской консоли.
// AdminPassword задает учетку первого оператора на свежей базе;
// пустое значение отключает сидирование.
type AuthConfig struct {
	PublicKeyPath  string        `mapstructure:"public_key_path"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	AdminUsername  string        `mapstructure:"admin_username"`
	AdminPassword  string        `mapstructure:"admin_password"`
	PublicKey      []byte
	PrivateKey     []byte
}

// MonitorConfig — настройки ядра оценки SLA.
type MonitorConfig struct {
	// Interval — период фонового прогона по всем заказам
	Interval time.Duration `mapstructure:"interval"`
	// Window — сколько последних замеров участвует в оценке.
	// Размер окна напрямую влияет на гистерезис алертов.
	Window int `mapstructure:"window"`
	// HealthyBias — вероятность сгенерировать "здоровый" замер
	HealthyBias float64 `mapstructure:"healthy_bias"`
	// ForcedHealthy — стартовый список имен, для которых замеры всегда здоровые.
	// Демо-костыль из первой версии, вынесен в конфиг: пустой список его отключает.
	ForcedHealthy []string `mapstructure:"forced_healthy"`
}

// NotifyConfig выбирает транспорт доставки алертов на этапе сборки процесса.
type NotifyConfig struct {
	Mode       string     `mapstructure:"mode"` // console | webhook | smtp
	WebhookURL string     `mapstructure:"webhook_url"`
	SMTP       SMTPConfig `mapstructure:"smtp"`
	RateLimit  float64    `mapstructure:"rate_limit"` // Доставок в секунду
	RateBurst  int        `mapstructure:"rate_burst"`
	Buffer     int        `mapstructure:"buffer"` // Размер очереди диспетчера
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 2. ENV перекрывает файл: MONITOR_INTERVAL=30s перекроет monitor.interval
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Дефолты
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. Ключи: сначала смотрим сам PEM в ENV (для Docker/K8s), потом файл
	cfg.Auth.PublicKey = loadKeyResource(cfg.Auth.PublicKeyPath, "AUTH_PUBLIC_KEY_DATA")
	cfg.Auth.PrivateKey = loadKeyResource(cfg.Auth.PrivateKeyPath, "AUTH_PRIVATE_KEY_DATA")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("database.max_conns", 15)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	// Интервал 8с удобен для демо; в проде имеет смысл 30с и больше
	v.SetDefault("monitor.interval", 8*time.Second)
	v.SetDefault("monitor.window", 5)
	v.SetDefault("monitor.healthy_bias", 0.7)
	v.SetDefault("monitor.forced_healthy", []string{"chitra"})
	v.SetDefault("notify.mode", "console")
	v.SetDefault("notify.rate_limit", 10)
	v.SetDefault("notify.rate_burst", 5)
	v.SetDefault("notify.buffer", 256)
	v.SetDefault("notify.smtp.port", 587)
}

// loadKeyResource — универсальный хелпер: ключ либо напрямую из ENV, либо из файла
func loadKeyResource(path string, envDataKey string) []byte {
	if data := os.Getenv(envDataKey); data != "" {
		return []byte(data)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data
		}
	}
	return nil
}
