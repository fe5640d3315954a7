// Package autoload initialises the global zerolog logger from LOG_* settings
// as a side effect of being imported.
package autoload

import (
	configx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/config"
	logx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
