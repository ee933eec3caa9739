// Package config конфигурация сервера дашборда
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config конфигурация приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr адрес прослушивания в форме host:port
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig настройки SQLite-хранилища
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// SyncConfig настройки фоновой синхронизации интеграций
type SyncConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Schedule   string `mapstructure:"schedule"` // cron-выражение
	TimeoutStr string `mapstructure:"timeout"`  // например "30s"

	// Заполняется при загрузке
	Timeout time.Duration
}

// LoggerConfig настройки логирования
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load читает конфигурацию из файла и переменных окружения.
// Отсутствие файла не ошибка, работают значения по умолчанию.
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}

	viper.SetEnvPrefix("DEALERBOARD")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Sync.TimeoutStr != "" {
		duration, err := time.ParseDuration(config.Sync.TimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid sync.timeout: %w", err)
		}
		config.Sync.Timeout = duration
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("database.path", "dealerboard.db")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 5)

	viper.SetDefault("sync.enabled", true)
	viper.SetDefault("sync.schedule", "@every 15m")
	viper.SetDefault("sync.timeout", "30s")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "text")
}
