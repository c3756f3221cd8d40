package main

import (
	"errors"
	"fmt"
	"github.com/ardanlabs/conf"
)

type Config struct {
	Port  string `conf:"default:8081,env:PORT"`
	DBCon string `conf:"default:user=ps_user password=ps_password dbname=academy sslmode=disable host=localhost,env:DB_CONN,mask"`
}

func ReadConfig() (*Config, error) {
	var cfg Config
	help, err := conf.ParseOSArgs("ACADEMY", &cfg)

	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}
