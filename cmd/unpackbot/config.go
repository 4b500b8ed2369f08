package main

import (
	"encoding/json"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

const envPrefix = "UNPACKBOT_"

// Config is the Discord bot configuration. Values from the JSON file are
// overridden by UNPACKBOT_* environment variables.
type Config struct {
	Token                      string `json:"token" env:"TOKEN"`
	Prefix                     string `json:"prefix" env:"PREFIX"`
	NormalUserCharLimit        int    `json:"normal_user_charlimit" env:"NORMAL_USER_CHARLIMIT"`
	ManageMessageUserCharLimit int    `json:"manage_message_user_charlimit" env:"MANAGE_MESSAGE_USER_CHARLIMIT"`
	LogLevel                   string `json:"log_level" env:"LOG_LEVEL"`
}

// DefaultConfig returns the settings used when neither the file nor the
// environment set a value.
func DefaultConfig() Config {
	return Config{
		Prefix:                     "!",
		NormalUserCharLimit:        1000,
		ManageMessageUserCharLimit: 4000,
		LogLevel:                   "info",
	}
}

// LoadConfig reads the JSON file at path, if any, and applies environment
// overrides on top.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(err, "failed to read environment")
	}

	return cfg, nil
}

// Validate checks the settings needed to handle messages. The token is
// checked separately since the check command runs without one.
func (c Config) Validate() error {
	if c.Prefix == "" {
		return errors.New("prefix must not be empty")
	}
	if c.NormalUserCharLimit < 0 {
		return errors.Errorf("normal_user_charlimit must not be negative, got %d", c.NormalUserCharLimit)
	}
	if c.ManageMessageUserCharLimit < 0 {
		return errors.Errorf("manage_message_user_charlimit must not be negative, got %d", c.ManageMessageUserCharLimit)
	}
	return nil
}

// Limits returns the per-user character limits.
func (c Config) Limits() unpack.Limits {
	return unpack.Limits{
		Normal:         c.NormalUserCharLimit,
		ManageMessages: c.ManageMessageUserCharLimit,
	}
}

// Settings returns the dispatcher settings for Discord.
func (c Config) Settings() unpack.Settings {
	return unpack.Settings{
		Prefix:       c.Prefix,
		Limits:       c.Limits(),
		Mentions:     unpack.DiscordMentions,
		MessageLimit: unpack.DefaultMessageLimit,
	}
}
