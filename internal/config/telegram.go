package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// TelegramConfig is loaded only by the telegram command.
type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN,notEmpty"`
	// OwnerID is the only Telegram user the bot answers.
	OwnerID int64 `env:"TELEGRAM_OWNER_ID,notEmpty" validate:"gt=0"`
}

func LoadTelegram() (*TelegramConfig, error) {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse telegram settings: %w", describeParse(err, c))
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid telegram settings: %w", describe(err))
	}
	return c, nil
}
