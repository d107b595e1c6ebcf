package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Driver pq para PostgreSQL
	_ "github.com/lib/pq"

	apperror "gohotel/internal/errors"
)

const (
	defaultMaxOpenConns = 25
	connectTimeout      = 5 * time.Second
)

// NewPostgresDB abre o pool de conexões com o PostgreSQL e confirma que o
// servidor responde. O *sql.DB devolvido é criado uma vez pelo binário e
// injetado em todos os repositórios.
func NewPostgresDB(dataSourceName string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("DSN inválida para o PostgreSQL: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = defaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(max(maxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperror.NewUnavailableError("PostgreSQL não respondeu ao ping inicial", err)
	}
	return db, nil
}
