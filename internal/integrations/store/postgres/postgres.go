// Package postgres implements a store.Snapshotter backed by Postgres,
// serializing each state to JSON and appending it to a history table.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store persists marshaled states to a "state_history" table, one row per
// committed state, via a connection pool.
type Store[S any] struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, runs pending migrations, and returns a Store.
func Open[S any](ctx context.Context, dsn string) (*Store[S], error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("actomaton/store/postgres: connect: %w", err)
	}
	if err := migrateUp(dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("actomaton/store/postgres: migrate: %w", err)
	}
	return &Store[S]{pool: pool}, nil
}

func migrateUp(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Save persists one state as a new row in the history table.
func (s *Store[S]) Save(ctx context.Context, state S) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("actomaton/store/postgres: marshal state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO state_history (body) VALUES ($1)`, body)
	if err != nil {
		return fmt.Errorf("actomaton/store/postgres: insert: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store[S]) Close() {
	s.pool.Close()
}
