package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	StorageYAML   = "yaml"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	AI         AIConfig         `mapstructure:"ai"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Outputs    OutputsConfig    `mapstructure:"outputs"`
	Server     ServerConfig     `mapstructure:"server"`
	Speech     SpeechConfig     `mapstructure:"speech"`
}

type AIConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=openai gemini anthropic"`
	// Retries is the number of extra attempts after a failed analysis.
	Retries uint `mapstructure:"retries" validate:"max=5"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url" validate:"omitempty,url"`
	MaxTokens int64  `mapstructure:"max_tokens" validate:"min=1"`
}

type StorageConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=yaml sqlite mysql memory"`
	StatusFile string `mapstructure:"status_file" validate:"required_if=Backend yaml"`
	SQLiteFile string `mapstructure:"sqlite_file" validate:"required_if=Backend sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type VocabularyConfig struct {
	// File replaces the embedded word list when set.
	File string `mapstructure:"file" validate:"omitempty,file"`
}

type CacheConfig struct {
	// Directory enables the analysis cache when set.
	Directory string `mapstructure:"directory"`
}

type TemplatesConfig struct {
	StudySheetTemplate string `mapstructure:"study_sheet_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	StudySheetDirectory string `mapstructure:"study_sheet_directory"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SpeechConfig struct {
	// Command is an external text-to-speech program. Speech is disabled when empty.
	Command        string   `mapstructure:"command"`
	Args           []string `mapstructure:"args"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"min=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wordmemo")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("ai.provider", ProviderOpenAI)
	v.SetDefault("ai.retries", 0)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("anthropic.max_tokens", 16384)
	v.SetDefault("storage.backend", StorageYAML)
	v.SetDefault("storage.status_file", filepath.Join("data", "statuses.yml"))
	v.SetDefault("storage.sqlite_file", filepath.Join("data", "wordmemo.db"))
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.study_sheet_template", "")
	v.SetDefault("outputs.study_sheet_directory", filepath.Join("outputs", "study_sheets"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "wordmemo")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("speech.args", []string{"{text}"})
	v.SetDefault("speech.timeout_seconds", 30)

	envBindings := []struct {
		key string
		env string
	}{
		{key: "ai.provider", env: "WORDMEMO_AI_PROVIDER"},
		{key: "openai.api_key", env: "OPENAI_API_KEY"},
		{key: "openai.model", env: "OPENAI_MODEL"},
		{key: "gemini.api_key", env: "GEMINI_API_KEY"},
		{key: "anthropic.api_key", env: "ANTHROPIC_API_KEY"},
		{key: "anthropic.model", env: "ANTHROPIC_MODEL"},
		{key: "database.password", env: "DB_PASSWORD"},
	}
	for _, binding := range envBindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", binding.env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// APIKey returns the key of the configured AI provider.
func (cfg *Config) APIKey() string {
	switch cfg.AI.Provider {
	case ProviderGemini:
		return cfg.Gemini.APIKey
	case ProviderAnthropic:
		return cfg.Anthropic.APIKey
	default:
		return cfg.OpenAI.APIKey
	}
}

// APIKeyEnv names the environment variable holding the key of the configured provider.
func (cfg *Config) APIKeyEnv() string {
	switch cfg.AI.Provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
