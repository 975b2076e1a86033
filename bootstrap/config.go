package bootstrap

import (
	"github.com/kbukum/engineconnector/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) and
// implements ApplyDefaults and Validate satisfies it, config.AppConfig
// included.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
