package main

import (
	"academy/internal/courses"
	"context"
	"fmt"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
)

func main() {
	cfg, err := ReadConfig()
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	svc := courses.NewService(cfg.API, courses.WithLogger(log.StandardLogger()))

	os.Exit(run(context.Background(), cfg, svc, os.Stdout, os.Stderr))
}

// run fetches the catalogue, checks the configured courses, prints the list
// and enrolls the student when one is configured. It returns the exit code.
func run(ctx context.Context, cfg *Config, svc *courses.Service, stdout, stderr io.Writer) int {
	log.Debugf("fetching courses from %v", cfg.API.BaseURL)
	svc.FetchCourses(ctx)

	for _, id := range cfg.Select {
		if err := svc.SetChecked(id, true); err != nil {
			fmt.Fprintln(stderr, renderError(err.Error()))
		}
	}

	fmt.Fprintln(stdout, renderCourses(svc.Courses()))

	if cfg.Student == "" {
		return 0
	}

	enrollments, err := svc.Enroll(ctx, cfg.Student)
	if err != nil {
		fmt.Fprintln(stderr, renderError(fmt.Sprintf("enrolling %s: %v", cfg.Student, err)))
		return 1
	}

	fmt.Fprintln(stdout, renderEnrollments(enrollments))
	return 0
}
