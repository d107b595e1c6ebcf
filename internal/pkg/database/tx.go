package database

import (
	"context"
	"database/sql"
	"errors"

	apperror "gohotel/internal/errors"
)

// DBTX é o subconjunto comum de *sql.DB e *sql.Tx usado pelos repositórios.
// Métodos "With" dos repositórios recebem um DBTX para participar de uma
// transação aberta por outro repositório.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// ErrNoRowsAffected indica que um comando de escrita não alterou nenhuma linha.
var ErrNoRowsAffected = errors.New("nenhuma linha afetada")

// WithTx executa fn dentro de uma transação. Se fn devolver erro (ou entrar em
// pânico) a transação é desfeita; caso contrário é confirmada. Nada escrito
// por fn fica visível fora da transação antes do Commit.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.FromDB("Falha ao iniciar transação", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			// O erro original é o que interessa ao chamador; falha no rollback
			// só acontece com a conexão já perdida.
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperror.FromDB("Falha ao confirmar transação", err)
	}
	return nil
}

// CheckAffected devolve ErrNoRowsAffected quando result não alterou linhas.
func CheckAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
