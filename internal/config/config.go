package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config concentra toda la configuración del servicio.
// Se carga desde env vars (con .env opcional para dev).
type Config struct {
	AppName  string `envconfig:"APP_NAME" default:"pet-hotel-api"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DSN de Postgres. Si está vacío, el router usa repos in-memory (modo dev).
	DBDSN string `envconfig:"DB_DSN"`

	// Identity service (verificación de tokens). Vacío => modo dev con headers de debug.
	IdentityBaseURL string `envconfig:"IDENTITY_BASE_URL"`
	IdentityAPIKey  string `envconfig:"IDENTITY_API_KEY"`

	// Job de reconciliación de inventario.
	SchedulerEnabled bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	ReconcileCron    string `envconfig:"RECONCILE_CRON" default:"0 3 * * *"`
}

// Load lee env vars (y un .env si existe) y materializa la Config.
func Load() (*Config, error) {
	// .env ausente no es error; en deploy la config viene del entorno.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.SchedulerEnabled && c.ReconcileCron == "" {
		return errors.New("RECONCILE_CRON must be provided when scheduler is enabled")
	}
	return nil
}
