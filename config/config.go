package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"database"`
	Socket struct {
		CORSAllowed string `mapstructure:"cors_allowed"`
	} `mapstructure:"socket"`
	Sync struct {
		CodeDebounceMS     int `mapstructure:"code_debounce_ms"`
		LanguageDebounceMS int `mapstructure:"language_debounce_ms"`
	} `mapstructure:"sync"`
	Runners struct {
		PaizaURL       string `mapstructure:"paiza_url"`
		PistonURL      string `mapstructure:"piston_url"`
		PollIntervalMS int    `mapstructure:"poll_interval_ms"`
		PollAttempts   int    `mapstructure:"poll_attempts"`
		TimeoutMS      int    `mapstructure:"timeout_ms"`
	} `mapstructure:"runners"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var C Config

func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")

	viper.SetDefault("server.port", 5000)
	viper.SetDefault("database.sqlite_path", "codesync.db")
	viper.SetDefault("socket.cors_allowed", "*")
	viper.SetDefault("sync.code_debounce_ms", 1000)
	viper.SetDefault("sync.language_debounce_ms", 500)
	viper.SetDefault("runners.paiza_url", "https://api.paiza.io")
	viper.SetDefault("runners.piston_url", "https://emkc.org/api/v2/piston/execute")
	viper.SetDefault("runners.poll_interval_ms", 1000)
	viper.SetDefault("runners.poll_attempts", 5)
	viper.SetDefault("runners.timeout_ms", 10000)
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()

	// Config file is optional, defaults cover a local run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		log.Fatal(err)
	}
}
