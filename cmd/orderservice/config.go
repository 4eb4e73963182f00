package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const appID = "orderservice"

type config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`

	DBUser            string        `envconfig:"db_user" default:"root"`
	DBPassword        string        `envconfig:"db_password"`
	DBHost            string        `envconfig:"db_host" default:"localhost:3306"`
	DBName            string        `envconfig:"db_name" default:"orderservice"`
	DBMaxConn         int           `envconfig:"db_max_conn" default:"10"`
	DBConnMaxLifetime time.Duration `envconfig:"db_conn_max_lifetime" default:"5m"`

	RequestTimeout time.Duration `envconfig:"request_timeout" default:"10s"`
	BcryptCost     int           `envconfig:"bcrypt_cost" default:"10"`
	LogLevel       string        `envconfig:"log_level" default:"info"`
}

func parseEnv() (*config, error) {
	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

func initLogger(c *config) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "unknown log level %q", c.LogLevel)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})
	return nil
}
