package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MySQLDSN    string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/boutique?parseTime=true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	WorkerCount int    `envconfig:"WORKER_COUNT" default:"4"`
	QueueSize   int    `envconfig:"QUEUE_SIZE" default:"1024"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
