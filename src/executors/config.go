package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Username   string        `envconfig:"MONITOR_USERNAME"`
	Password   string        `envconfig:"MONITOR_PASSWORD"`
	BaseURL    string        `envconfig:"BASE_URL" default:"http://localhost:9898/api"`
	PollPeriod time.Duration `envconfig:"POLL_PERIOD" default:"30s"`
	Timeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
