package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	BaseURL  string        `env:"BOT_BASE_URL" envDefault:"http://localhost:8080"`
	Username string        `env:"BOT_USERNAME" envDefault:"robot"`
	Password string        `env:"BOT_PASSWORD" envDefault:"Robot1234"`
	Deposit  string        `env:"BOT_DEPOSIT" envDefault:"100"`
	Wager    string        `env:"BOT_WAGER" envDefault:"5"`
	Rounds   int           `env:"BOT_ROUNDS" envDefault:"20"`
	Pause    time.Duration `env:"BOT_PAUSE" envDefault:"250ms"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
