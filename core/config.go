package core

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	// Port is the port number to listen on. The default is 8080.
	Port int `validate:"required,port"`
	// Hostname is the hostname to listen on. The default is 0.0.0.0.
	Hostname string `validate:"required"`
	SQLite   struct {
		// File is the path to the SQLite database file.
		File string `validate:"required"`
		// Migrations is the path to the directory that the migration files reside.
		Migrations string `validate:"required"`
	}
	Upload struct {
		// Dir is the flat directory uploaded files are stored in.
		Dir string `validate:"required"`
	}
	// AllowedOrigins is the explicit list of origins the server accepts
	// cross-origin requests from. Arbitrary origins are never reflected.
	AllowedOrigins []string `validate:"required,min=1"`
	valid          bool
}

// LoadConfig loads the configuration from a .env file (if present), the
// config file, and environment variables. Invalid values are not rejected
// here; they are caught by Validate.
func LoadConfig() (*Config, error) {
	config := &Config{}

	// .env values become plain environment variables picked up by viper.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", 8080)
	viper.SetDefault("hostname", "0.0.0.0")
	viper.SetDefault("sqlite.file", "./chatroom.db")
	viper.SetDefault("sqlite.migrations", "./migrations")
	viper.SetDefault("upload.dir", "./uploads")
	viper.SetDefault("allowedorigins", "http://localhost:5173,http://127.0.0.1:5173")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToSliceHookFunc(",")),
		),
	); err != nil {
		// defer error to validation step
		return config, nil
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.valid {
		return nil
	}
	err := validate.Struct(c)
	if err != nil {
		return err
	}
	c.valid = true
	return nil
}
