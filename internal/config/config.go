// Package config provides configuration loading and validation for the
// guild bot. Values come from a YAML file overridden by BOT_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Game      GameConfig      `mapstructure:"game"`
	Profile   ProfileConfig   `mapstructure:"profile"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and admin identity. BotInfo is filled
// at startup from GetMe, not from the config file.
type TelegramConfig struct {
	Token       string       `mapstructure:"token"         validate:"required"`
	AdminUserID int64        `mapstructure:"admin_user_id" validate:"required,gt=0"`
	BotInfo     *models.User `mapstructure:"-"`
}

// GeminiConfig holds settings for the Gemini AI client.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	ModelName         string  `mapstructure:"model_name"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	SystemInstruction string  `mapstructure:"system_instruction"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=120"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// RedisConfig holds the optional Redis connection used for distributed
// cooldowns. When Addr is empty the bot falls back to in-memory cooldowns.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

// GameConfig holds tunables for the crime game layer.
type GameConfig struct {
	AttackCooldownSeconds int `mapstructure:"attack_cooldown_seconds" validate:"min=1"`
	CasinoCooldownSeconds int `mapstructure:"casino_cooldown_seconds" validate:"min=1"`
	RoastCooldownSeconds  int `mapstructure:"roast_cooldown_seconds"  validate:"min=1"`
	JailSeconds           int `mapstructure:"jail_seconds"            validate:"min=1"`
}

// ProfileConfig holds tunables for the profiling pipeline.
type ProfileConfig struct {
	RebuildPerUserLimit int `mapstructure:"rebuild_per_user_limit" validate:"min=1"`
	RetentionDays       int `mapstructure:"retention_days"         validate:"min=1"`
	SummaryMessageLimit int `mapstructure:"summary_message_limit"  validate:"min=1"`
}

// TaskConfig enables and schedules one background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds user-facing message templates.
type MessagesConfig struct {
	Welcome              string `mapstructure:"welcome"`
	Help                 string `mapstructure:"help"`
	GeneralError         string `mapstructure:"general_error"`
	ErrorUnauthorizedMsg string `mapstructure:"error_unauthorized"`
	CooldownMsg          string `mapstructure:"cooldown"`
	JailMsg              string `mapstructure:"jail"`
}

// LoadConfig reads the YAML file at path, applies defaults and BOT_*
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("database.path", "guildbot.db")

	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 3)
	v.SetDefault("gemini.retry_delay_seconds", 5)

	v.SetDefault("redis.db", 0)

	v.SetDefault("game.attack_cooldown_seconds", 60)
	v.SetDefault("game.casino_cooldown_seconds", 10)
	v.SetDefault("game.roast_cooldown_seconds", 30)
	v.SetDefault("game.jail_seconds", 120)

	v.SetDefault("profile.rebuild_per_user_limit", 500)
	v.SetDefault("profile.retention_days", 90)
	v.SetDefault("profile.summary_message_limit", 200)

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
		"cleanup":         {Enabled: true, Schedule: "0 30 4 * * *"},
		"profile_rebuild": {Enabled: false, Schedule: "0 0 5 * * 0"},
	})

	v.SetDefault("messages.welcome", "Салют, братва! Гильдия Беспредела на связи. Жми /help, чтобы узнать, чем тут промышляют.")
	v.SetDefault("messages.help", "Команды: /profile, /top, /crime, /attack, /casino, /summary, /roast")
	v.SetDefault("messages.general_error", "Что-то пошло не так. Попробуй позже.")
	v.SetDefault("messages.error_unauthorized", "Эта команда только для смотрящего.")
	v.SetDefault("messages.cooldown", "⏰ Не гони! Подожди ещё %d сек.")
	v.SetDefault("messages.jail", "⛓️ Ты в тюрьме ещё %d сек!")
}
