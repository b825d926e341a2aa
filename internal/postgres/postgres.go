// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package postgres connects to PostgreSQL and applies schema migrations.
package postgres

import (
	"fmt"

	"github.com/absmach/vaultcreds/pkg/errors"
	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	errConfig    = errors.New("failed to load postgres configuration")
	errConnect   = errors.New("failed to connect to postgres database")
	errMigration = errors.New("failed to apply migrations")
)

// Config holds the connection parameters.
type Config struct {
	Host        string `env:"HOST"          envDefault:"localhost"`
	Port        string `env:"PORT"          envDefault:"5432"`
	User        string `env:"USER"          envDefault:"vaultcreds"`
	Pass        string `env:"PASS"          envDefault:"vaultcreds"`
	Name        string `env:"NAME"          envDefault:"vaultcreds"`
	SSLMode     string `env:"SSL_MODE"      envDefault:"disable"`
	SSLCert     string `env:"SSL_CERT"      envDefault:""`
	SSLKey      string `env:"SSL_KEY"       envDefault:""`
	SSLRootCert string `env:"SSL_ROOT_CERT" envDefault:""`
}

// Setup loads the configuration from environment variables with prefix,
// connects and migrates the database.
func Setup(prefix string, migrations migrate.MemoryMigrationSource) (*sqlx.DB, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return nil, errors.Wrap(errConfig, err)
	}
	return SetupWithConfig(migrations, cfg)
}

// SetupWithConfig connects with cfg and migrates the database.
func SetupWithConfig(migrations migrate.MemoryMigrationSource, cfg Config) (*sqlx.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := migrate.Exec(db.DB, "postgres", migrations, migrate.Up); err != nil {
		db.Close()
		return nil, errors.Wrap(errMigration, err)
	}

	return db, nil
}

// Connect opens and verifies a connection.
func Connect(cfg Config) (*sqlx.DB, error) {
	url := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s sslcert=%s sslkey=%s sslrootcert=%s", cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Pass, cfg.SSLMode, cfg.SSLCert, cfg.SSLKey, cfg.SSLRootCert)

	db, err := sqlx.Open("pgx", url)
	if err != nil {
		return nil, errors.Wrap(errConnect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errConnect, err)
	}

	return db, nil
}
