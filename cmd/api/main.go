package main

import (
	"academy/internal/database"
	"context"
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log.Println("starting academy course api")

	cfg, err := ReadConfig()
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("converting port to integer: %v", err)
	}

	db, err := database.NewClient(cfg.DBCon)
	if err != nil {
		log.Fatalf("creating database client: %v", err)
	}
	defer db.Close()

	server := NewServer(port, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serveUntilDone(ctx, server, shutdownTimeout); err != nil {
		log.Errorf("running server: %v", err)
	}

	log.Println("course api stopped")
}

// serveUntilDone runs the server until ctx is cancelled, then drains open
// requests for at most timeout.
func serveUntilDone(ctx context.Context, server *Server, timeout time.Duration) error {
	errs := make(chan error, 1)
	go func() {
		errs <- server.Run()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down course api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
