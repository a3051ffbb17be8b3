// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/config"
	"github.com/codr1/courtleague/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "config/app.yaml", "Path to the application config file")
		dbPath     = flag.String("db", "", "Path to SQLite database (overrides the config file)")
		command    = flag.String("command", "", "Command to run (up, down, version, force)")
		version    = flag.Int("version", -1, "Target version for force")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		path = cfg.Database.Filename
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	sqlDB, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		log.Fatal().Err(err).Str("db", path).Msg("Failed to open database")
	}
	defer sqlDB.Close()

	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}

	if err := run(m, *command, *version); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
}

func run(m *migrate.Migrate, command string, version int) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "force":
		if version < 0 {
			return errors.New("force requires -version")
		}
		if err := m.Force(version); err != nil {
			return err
		}
	case "version":
		current, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("Version: none")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d, Dirty: %v\n", current, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	current, dirty, _ := m.Version()
	log.Info().Uint("version", current).Bool("dirty", dirty).Msg("Migration complete")
	return nil
}
