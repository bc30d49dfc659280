package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/migrations"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: migrate <up|down|version|force N>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	m, err := migrations.New(db)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	case "force":
		if len(os.Args) < 3 {
			log.Fatal("force needs a version")
		}
		v, perr := strconv.Atoi(os.Args[2])
		if perr != nil {
			log.Fatalf("force: %v", perr)
		}
		err = m.Force(v)
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
	log.Printf("%s: ok", os.Args[1])
}
