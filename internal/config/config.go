package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `split_words:"true" default:"dev"`

	APIListenAddress string `split_words:"true" default:":8080"`
	APIAllowedOrigin string `split_words:"true" default:"*"`

	DeveloperAgentURL  string `split_words:"true" default:"http://developer-agent:8081"`
	RegulatorAgentURL  string `split_words:"true" default:"http://regulator-agent:8081"`
	SupervisorAgentURL string `split_words:"true" default:"http://supervisor-agent:8081"`

	JWTSecret     string `envconfig:"jwt_secret" default:"demo-secret"`
	JWTExpirySecs int64  `envconfig:"jwt_exp_sec" default:"3600"`

	SessionLifetimeSecs int64 `split_words:"true" default:"3600"`
	RoleLifetimeSecs    int64 `split_words:"true" default:"86400"`
	SweepIntervalSecs   int64 `split_words:"true" default:"60"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("ig", config); err != nil {
		return nil, err
	}
	return config, nil
}

// String formats the configuration for logging.
// The signing secret is masked as it must never end up in any log output.
func (config *Config) String() string {
	redacted := *config
	if redacted.JWTSecret != "" {
		redacted.JWTSecret = "[redacted]"
	}
	return fmt.Sprintf("%+v", redacted)
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "prod") || strings.EqualFold(config.Environment, "production")
}
