package main

import (
	"flag"
	"log"

	"coupon_day/internal/pkg/config"
	"coupon_day/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var down bool
	flag.BoolVar(&down, "down", false, "롤백 1 스텝")
	flag.Parse()

	config.LoadConfig()

	m, err := migrate.New("file://migrations", database.DSN())
	if err != nil {
		log.Fatal(err)
	}

	if down {
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			log.Fatal(err)
		}
		log.Println("Rollback successful")
		return
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal(err)
	}

	log.Println("Migration successful")
}
