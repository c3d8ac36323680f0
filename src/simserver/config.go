package simserver

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"9898"`
	DBDriver        string `envconfig:"DB_DRIVER" default:"sqlite"` // "sqlite" or "postgres"
	DatabaseDSN     string `envconfig:"DATABASE_DSN" default:"tradesim.db"`
	StartingBalance string `envconfig:"STARTING_BALANCE" default:"10000"`
	AccessTokenTTL  string `envconfig:"ACCESS_TOKEN_TTL" default:"30m"`
	RefreshTokenTTL string `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	GormLogLevel    int    `envconfig:"GORM_LOG_LEVEL" default:"2"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
