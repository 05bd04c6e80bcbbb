package config

import "github.com/caarlos0/env/v6"

// Config holds the service configuration, loaded from the environment.
type Config struct {
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"cothink"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	ExportDir     string `env:"EXPORT_DIR" envDefault:"./simulation_data"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
