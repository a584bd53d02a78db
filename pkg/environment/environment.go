package environment

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration values the application reads on startup
type Environment struct {
	Environment     string `mapstructure:"APP_ENV"`
	Cors            string `mapstructure:"CORS"`
	Secret          string `mapstructure:"SECRET"`
	Port            string `mapstructure:"PORT"`
	Redis           string `mapstructure:"REDIS"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	BaseUrl         string `mapstructure:"BASE_URL"`
	FrontendBaseUrl string `mapstructure:"FRONTEND_BASE_URL"`
	RateLimit       string `mapstructure:"RATE_LIMIT"`
}

var Global Environment

// Initialize reads a .env file if present and falls back to process environment variables
func Initialize() {
	data, err := godotenv.Read(".env")
	if err != nil {
		data = map[string]string{}
		for _, variable := range []string{"APP_ENV", "CORS", "SECRET", "PORT", "REDIS", "REDIS_PASSWORD", "BASE_URL", "FRONTEND_BASE_URL", "RATE_LIMIT"} {
			data[variable] = os.Getenv(variable)
		}
	}

	err = mapstructure.Decode(data, &Global)
	if err != nil {
		panic(err)
	}

	if Global.Environment == "" {
		Global.Environment = Dev
	}
}
