package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		BotName string `yaml:"bot_name" env-default:"ShopBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env-default:"shopbot"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool          `yaml:"enabled" env-default:"false"`
		Address  string        `yaml:"address" env-default:"127.0.0.1:6379"`
		Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int           `yaml:"db" env-default:"0"`
		Prefix   string        `yaml:"prefix" env-default:"shopbot:chat:"`
		TTL      time.Duration `yaml:"ttl" env-default:"24h"`
	} `yaml:"redis"`
	Catalog struct {
		Path string `yaml:"path" env:"CATALOG_PATH" env-default:""`
	} `yaml:"catalog"`
	Dialog struct {
		MaxTransitions int `yaml:"max_transitions" env-default:"20"`
	} `yaml:"dialog"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env-default:"true"`
	} `yaml:"metrics"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}

// Load reads a config without the process-wide cache.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return conf, nil
}
