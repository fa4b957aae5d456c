package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultFundingAddress = "0x6c639cac616254232d9c4d51b1c3646132b46c4a"

type Config struct {
	HTTP struct {
		Port int `validate:"gt=0,lt=65536"`
	}
	Log struct {
		Level string `validate:"oneof=debug info warn error"`
	}
	Bot struct {
		Token         string        `validate:"required"`
		WebhookURL    string        `validate:"omitempty,url"`
		UpdateTimeout int           `validate:"gte=0"`
		SessionIdle   time.Duration `validate:"gte=0"`
	}
	Backend struct {
		Endpoint string        `validate:"required,url"`
		Timeout  time.Duration `validate:"gte=0"`
	}
	App struct {
		FundingAddress  string        `validate:"required"`
		SuccessDelay    time.Duration `validate:"gte=0"`
		DefaultLanguage string        `validate:"oneof=en ru uk"`
	}
}

var defaults = map[string]interface{}{
	"http.port":           8080,
	"log.level":           "info",
	"bot.token":           "",
	"bot.webhookurl":      "",
	"bot.updatetimeout":   20,
	"bot.sessionidle":     "24h",
	"backend.endpoint":    "http://localhost:8000",
	"backend.timeout":     "10s",
	"app.fundingaddress":  DefaultFundingAddress,
	"app.successdelay":    "2s",
	"app.defaultlanguage": "en",
}

// Read loads <appName>.yaml from the configs directory (or any of extraPaths),
// then lets environment variables override it: bot.token is read from BOT_TOKEN.
// A .env file in the working directory is loaded first when present.
func Read(appName string, cfg interface{}, extraPaths ...string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.AddConfigPath("../../configs/")
	v.AddConfigPath("./configs/")
	for _, path := range extraPaths {
		v.AddConfigPath(path)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	if cfg != nil {
		err := v.Unmarshal(cfg)
		if err != nil {
			return err
		}
		if err := validator.New().Struct(cfg); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}
