package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"30"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Backend struct {
		BaseURL string `env:"BASE_URL,required"`
		Timeout int    `env:"TIMEOUT" envDefault:"15"` // seconds
	} `envPrefix:"BACKEND_"`
	Session struct {
		Store      string `env:"STORE" envDefault:"redis"` // redis | memory
		CookieName string `env:"COOKIE_NAME" envDefault:"__inventory_console_session"`
		Expiration int    `env:"EXPIRATION" envDefault:"43200"` // 12 hours
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"SESSION_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxConns       int32  `env:"MAX_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		DB               int    `env:"DB" envDefault:"0"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./templates"`
	} `envPrefix:"EMAIL_"`
	Snapshot struct {
		TTL int `env:"TTL" envDefault:"300"` // inventory snapshot lifetime in seconds
	} `envPrefix:"SNAPSHOT_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
	Activity struct {
		PageSize    int `env:"PAGE_SIZE" envDefault:"50"`
		MaxPageSize int `env:"MAX_PAGE_SIZE" envDefault:"200"`
	} `envPrefix:"ACTIVITY_"`
	CORS struct {
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	} `envPrefix:"CORS_"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads an optional .env file and then parses the process environment.
// Variables already present in the environment win over the file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// first error only, keeps the startup log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects durations that the caches would read as "never expire".
func (c *Config) validate() error {
	if c.Snapshot.TTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive, got %d", c.Snapshot.TTL)
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("SESSION_EXPIRATION must be positive, got %d", c.Session.Expiration)
	}
	return nil
}
