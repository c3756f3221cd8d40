package main

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/ardanlabs/conf"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBCon      string `conf:"default:user=ps_user password=ps_password dbname=academy sslmode=disable host=0.0.0.0,env:DB_CONN,mask"`
	Migrations string `conf:"default:file://./migrations,env:MIGRATIONS"`
}

func main() {
	log.SetLevel(log.InfoLevel)
	log.Println("starting migrate")

	var cfg Config
	help, err := conf.ParseOSArgs("ACADEMY", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return
		}
		log.Fatalf("reading config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBCon)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			log.Errorf("closing the db: %v", err)
		}
	}(db)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.Migrations, "postgres", driver)
	if err != nil {
		log.Fatal(err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	log.Println("migrations complete")
}
