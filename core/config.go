package core

import (
	"errors"
	"fmt"
	"strings"

	wstransport "github.com/isaqueDaSilva/wshandler/transport/websocket"
)

// Config describes the remote endpoint of one service instance.
type Config struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Path          string `mapstructure:"path"`
	Authorization string `mapstructure:"authorization"`
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	return nil
}

func (c Config) endpoint() wstransport.Endpoint {
	path := c.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return wstransport.Endpoint{
		Host:          c.Host,
		Port:          c.Port,
		Path:          path,
		Authorization: c.Authorization,
	}
}
