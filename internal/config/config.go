package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig   `toml:"server"`
	Database        DatabaseConfig `toml:"database"`
	Logs            LogsConfig     `toml:"logs"`
	Metrics         MetricsConfig  `toml:"metrics"`
	CalendarService ServiceConfig  `toml:"calendar_service"`
	NotifierService ServiceConfig  `toml:"notifier_service"`
	Waitlist        WaitlistConfig `toml:"waitlist"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к базе данных
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceConfig настройки интеграционного клиента
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// WaitlistConfig параметры жизненного цикла офферов
type WaitlistConfig struct {
	OfferTTLMinutes int    `toml:"offer_ttl_minutes"`
	CooldownMinutes int    `toml:"cooldown_minutes"`
	SweepBatchSize  int    `toml:"sweep_batch_size"`
	SweepToken      string `toml:"sweep_token"`
	ClaimBaseURL    string `toml:"claim_base_url"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Waitlist.OfferTTLMinutes <= 0 {
		c.Waitlist.OfferTTLMinutes = domain.DefaultOfferTTLMinutes
	}
	if c.Waitlist.CooldownMinutes <= 0 {
		c.Waitlist.CooldownMinutes = domain.DefaultCooldownMinutes
	}
	if c.Waitlist.SweepBatchSize <= 0 {
		c.Waitlist.SweepBatchSize = domain.DefaultSweepBatchSize
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if c.CalendarService.URL == "" {
		return fmt.Errorf("config: calendar_service.url is required")
	}
	if c.NotifierService.URL == "" {
		return fmt.Errorf("config: notifier_service.url is required")
	}
	if c.Waitlist.ClaimBaseURL == "" {
		return fmt.Errorf("config: waitlist.claim_base_url is required")
	}
	return nil
}
