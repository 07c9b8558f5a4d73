package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Storage struct {
		Bucket string `mapstructure:"bucket"`
	} `mapstructure:"storage"`

	Saver struct {
		DebounceMS int `mapstructure:"debounce_ms"`
	} `mapstructure:"saver"`

	BigQuery struct {
		Enabled bool   `mapstructure:"enabled"`
		Project string `mapstructure:"project"`
		Dataset string `mapstructure:"dataset"`
	} `mapstructure:"bigquery"`

	Notion struct {
		Token      string `mapstructure:"token"`
		DatabaseID string `mapstructure:"database_id"`
	} `mapstructure:"notion"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("saver.debounce_ms", 600)
	v.SetDefault("bigquery.dataset", "inventory")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Environment overrides for deployment
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if project := os.Getenv("BIGQUERY_PROJECT"); project != "" {
		cfg.BigQuery.Project = project
	}
	if cfg.Notion.Token == "" || cfg.Notion.Token == "${NOTION_TOKEN}" {
		cfg.Notion.Token = os.Getenv("NOTION_TOKEN")
	}
	if dbID := os.Getenv("NOTION_DATABASE_ID"); dbID != "" {
		cfg.Notion.DatabaseID = dbID
	}

	return &cfg
}
