package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultDownloadDir            = "downloads"
	DefaultSessionDir             = "session"
	DefaultLogFile                = "logs/bot.log"
	DefaultMaxConcurrentTransfers = 4

	DefaultStartMsg = "👋 Hello {user}!\n\n" +
		"Send me a TeraBox link and I will download the file and send it back to you.\n\n" +
		"Updates: @{channel}"
	DefaultForceSubMsg = "⚠️ You must join @{channel} to use this bot.\n\n" +
		"Join the channel and press \"Check Again\"."
)

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	AppID    int    `validate:"required,gt=0"`
	AppHash  string `validate:"required"`
	BotToken string `validate:"required"`

	// ChannelUsername is the channel a user must join, without the leading @.
	ChannelUsername string `validate:"required"`
	// DumpChannel receives every downloaded file before it is relayed.
	// Either @username or a numeric -100... identifier.
	DumpChannel string `validate:"required"`
	TeraboxAPI  string `validate:"required,url"`

	StartMsg    string
	ForceSubMsg string
	OwnerID     int64

	DownloadDir            string `validate:"required"`
	SessionDir             string `validate:"required"`
	LogFile                string
	LogLevel               string `validate:"omitempty,oneof=debug info warn error"`
	MaxConcurrentTransfers int    `validate:"gt=0"`
	// UploadProgress renders a progress bar while uploading to the dump channel.
	UploadProgress bool
}

// LoadConfig reads .env (if any) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		AppHash:                os.Getenv("APP_HASH"),
		BotToken:               os.Getenv("BOT_TOKEN"),
		ChannelUsername:        strings.TrimPrefix(strings.TrimSpace(os.Getenv("CHANNEL_USERNAME")), "@"),
		DumpChannel:            strings.TrimSpace(os.Getenv("DUMP_CHANNEL")),
		TeraboxAPI:             strings.TrimRight(os.Getenv("TERABOX_API"), "/"),
		StartMsg:               getEnv("START_MSG", DefaultStartMsg),
		ForceSubMsg:            getEnv("FORCE_SUB_MSG", DefaultForceSubMsg),
		DownloadDir:            getEnv("DOWNLOAD_DIR", DefaultDownloadDir),
		SessionDir:             getEnv("SESSION_DIR", DefaultSessionDir),
		LogFile:                getEnv("LOG_FILE", DefaultLogFile),
		LogLevel:               strings.ToLower(os.Getenv("LOG_LEVEL")),
		MaxConcurrentTransfers: getEnvInt("MAX_CONCURRENT_TRANSFERS", DefaultMaxConcurrentTransfers),
		UploadProgress:         getEnvBool("UPLOAD_PROGRESS", true),
	}

	if v := os.Getenv("APP_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_ID: %w", err)
		}
		cfg.AppID = id
	}
	if v := os.Getenv("OWNER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_ID: %w", err)
		}
		cfg.OwnerID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
