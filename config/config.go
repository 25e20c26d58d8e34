package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	LLM      LLMConfig      `yaml:"llm"`
	TTS      TTSConfig      `yaml:"tts"`
	Pushover PushoverConfig `yaml:"pushover"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr       string        `yaml:"http_addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RateLimit      int           `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type StoreConfig struct {
	// Driver is file, sqlite or redis.
	Driver        string        `yaml:"driver"`
	Path          string        `yaml:"path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisKey      string        `yaml:"redis_key"`
	SeedFile      string        `yaml:"seed_file"`
	SyncInterval  time.Duration `yaml:"sync_interval"`
}

type LLMConfig struct {
	// Provider is groq, anthropic, gemini or none.
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	Language    string        `yaml:"language"`
}

type TTSConfig struct {
	Polly      PollyConfig      `yaml:"polly"`
	Bark       BarkConfig       `yaml:"bark"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	CacheTTL   time.Duration    `yaml:"cache_ttl"`
}

type PollyConfig struct {
	Region                string `yaml:"region"`
	AccessKeyID           string `yaml:"access_key_id"`
	SecretAccessKey       string `yaml:"secret_access_key"`
	UseDefaultCredentials bool   `yaml:"use_default_credentials"`
}

type BarkConfig struct {
	APIToken     string        `yaml:"api_token"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxPolls     int           `yaml:"max_polls"`
}

type ElevenLabsConfig struct {
	APIKey string `yaml:"api_key"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 30
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 10
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "file"
	}
	if c.Store.Path == "" {
		switch c.Store.Driver {
		case "sqlite":
			c.Store.Path = "./data/chatbot.db"
		default:
			c.Store.Path = "./data/chatbot-config.json"
		}
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Store.RedisKey == "" {
		c.Store.RedisKey = "chatbot:config"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "groq"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 20 * time.Second
	}
	if c.LLM.Language == "" {
		c.LLM.Language = "Deutsch"
	}
	if c.TTS.Polly.Region == "" {
		c.TTS.Polly.Region = "eu-west-1"
	}
	if c.TTS.Bark.PollInterval == 0 {
		c.TTS.Bark.PollInterval = 500 * time.Millisecond
	}
	if c.TTS.Bark.MaxPolls == 0 {
		c.TTS.Bark.MaxPolls = 60
	}
	if c.TTS.CacheTTL == 0 {
		c.TTS.CacheTTL = time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "file", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.LLM.Provider {
	case "groq", "anthropic", "gemini", "none":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}
