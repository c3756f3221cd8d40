package main

import (
	"academy/internal/courses"
	"errors"
	"fmt"
	"github.com/ardanlabs/conf"
)

type Config struct {
	API     courses.Config
	Select  []int  `conf:"help:semicolon separated course ids to check after fetching"`
	Student string `conf:"env:STUDENT_ID,help:enroll this student to the checked courses"`
	Debug   bool   `conf:"default:false"`
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
