package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	PostgresURL string `yaml:"postgres-url" env:"POSTGRES_URL"`

	Redis Redis `yaml:"redis"`

	JWTSecretKey string `yaml:"jwt-secret-key" env:"JWT_SECRET_KEY"`

	// RoomTTL bounds how long an idle room survives in the directory.
	RoomTTL time.Duration `yaml:"room-ttl" env:"ROOM_TTL" env-default:"1h"`
	// RoomCleanupDelay is how long a finished room stays visible before eviction.
	RoomCleanupDelay time.Duration `yaml:"room-cleanup-delay" env:"ROOM_CLEANUP_DELAY" env-default:"30s"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations from the given yaml file, with
// environment overrides.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) Addr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
