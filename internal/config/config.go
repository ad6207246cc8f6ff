package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	ObserverPin string `mapstructure:"observer_pin"`

	MinPlayers          int `mapstructure:"min_players"`
	MaxPlayers          int `mapstructure:"max_players"`
	RoundsTotal         int `mapstructure:"rounds_total"`
	StartingStock       int `mapstructure:"starting_stock"`
	MaxHarvestPerPlayer int `mapstructure:"max_harvest_per_player"`
	GrowthStartRound    int `mapstructure:"growth_start_round"`
	StockCap            int `mapstructure:"stock_cap"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 4096)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "fishpond-dev-secret")
	v.SetDefault("observer_pin", "314")
	v.SetDefault("min_players", 2)
	v.SetDefault("max_players", 6)
	v.SetDefault("rounds_total", 5)
	v.SetDefault("starting_stock", 40)
	v.SetDefault("max_harvest_per_player", 10)
	v.SetDefault("growth_start_round", 2)
	v.SetDefault("stock_cap", 0)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Stock: %d | Seasons: %d\n", cfg.Mode, cfg.Port, cfg.StartingStock, cfg.RoundsTotal)
	return &cfg, nil
}
