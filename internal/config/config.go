package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is bound from the environment once at startup. The API key is
// deliberately optional here: without it the server still serves the UI and
// data endpoints, and the chat endpoint reports the missing key per request.
type Config struct {
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	ListingsCSV   string        `envconfig:"LISTINGS_CSV" default:"listings.csv"`
	Port          string        `envconfig:"PORT" default:"8080"`
	StaticDir     string        `envconfig:"STATIC_DIR" default:"web"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env if present, then binds Config from the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
