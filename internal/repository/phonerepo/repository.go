package phonerepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"gohotel/internal/domain"
	"gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
)

// PhoneRepository implementa as operações da tabela TelefonoPer.
type PhoneRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPhoneRepository cria e retorna uma nova instância do Repositório de Telefones.
func NewPhoneRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PhoneRepository {
	return &PhoneRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const insertQuery = `INSERT INTO TelefonoPer (cedulaPer, telefonoPer) VALUES ($1, $2)`

// Insert grava um único telefone.
func (r *PhoneRepository) Insert(ctx context.Context, p domain.Phone) error {
	r.logger.Debug("Iniciando Insert de telefone no repositório.", map[string]interface{}{"cedula": p.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, insertQuery, p.Cedula, p.Number); err != nil {
		r.logger.Error("Falha ao inserir telefone no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir telefone da pessoa %d", p.Cedula), err)
	}

	r.logger.Info("Telefone inserido com sucesso.", map[string]interface{}{"cedula": p.Cedula})
	return nil
}

// insertAll grava os números no executor informado. Números repetidos na
// lista são gravados uma vez.
func (r *PhoneRepository) insertAll(ctx context.Context, exec database.DBTX, cedula int64, numbers []int64) error {
	for _, n := range database.Distinct(numbers) {
		if _, err := exec.ExecContext(ctx, insertQuery, cedula, n); err != nil {
			r.logger.Error("Falha ao inserir telefone no DB.", err)
			return errors.FromDB(fmt.Sprintf("Falha ao inserir telefone %d da pessoa %d", n, cedula), err)
		}
	}
	return nil
}

// InsertMultiple grava todos os telefones numa única transação.
func (r *PhoneRepository) InsertMultiple(ctx context.Context, cedula int64, numbers []int64) error {
	r.logger.Debug("Iniciando InsertMultiple de telefones no repositório.", map[string]interface{}{"cedula": cedula, "count": len(numbers)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		return r.insertAll(ctxTimeout, tx, cedula, numbers)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Telefones inseridos com sucesso.", map[string]interface{}{"cedula": cedula, "count": len(numbers)})
	return nil
}

// Replace apaga todos os telefones da pessoa e grava a nova lista na mesma
// transação.
func (r *PhoneRepository) Replace(ctx context.Context, cedula int64, numbers []int64) error {
	r.logger.Debug("Iniciando Replace de telefones no repositório.", map[string]interface{}{"cedula": cedula, "count": len(numbers)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM TelefonoPer WHERE cedulaPer = $1`, cedula); err != nil {
			r.logger.Error("Falha ao apagar telefones antigos.", err)
			return errors.FromDB("Falha ao apagar telefones antigos", err)
		}
		return r.insertAll(ctxTimeout, tx, cedula, numbers)
	})
	if err != nil {
		return err
	}

	r.logger.Info("Telefones substituídos com sucesso.", map[string]interface{}{"cedula": cedula, "count": len(numbers)})
	return nil
}

// Delete remove um telefone específico da pessoa.
func (r *PhoneRepository) Delete(ctx context.Context, cedula, number int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM TelefonoPer WHERE cedulaPer = $1 AND telefonoPer = $2`, cedula, number)
	if err != nil {
		r.logger.Error("Falha ao deletar telefone do DB.", err)
		return errors.FromDB("Falha ao deletar telefone", err)
	}

	err = database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		return errors.NewNotFoundError(fmt.Sprintf("Telefone %d da pessoa %d não encontrado para exclusão.", number, cedula))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("Telefone deletado com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// DeleteAllByPerson apaga todos os telefones da pessoa.
func (r *PhoneRepository) DeleteAllByPerson(ctx context.Context, cedula int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM TelefonoPer WHERE cedulaPer = $1`, cedula); err != nil {
		r.logger.Error("Falha ao deletar telefones da pessoa.", err)
		return errors.FromDB("Falha ao deletar telefones da pessoa", err)
	}
	return nil
}

// FindByPerson devolve os números da pessoa em ordem crescente.
func (r *PhoneRepository) FindByPerson(ctx context.Context, cedula int64) ([]int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT telefonoPer FROM TelefonoPer WHERE cedulaPer = $1 ORDER BY telefonoPer`, cedula)
	if err != nil {
		r.logger.Error("Falha ao buscar telefones da pessoa.", err)
		return nil, errors.FromDB("Falha ao buscar telefones", err)
	}
	defer rows.Close()

	numbers := make([]int64, 0)
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, errors.FromDB("Falha ao mapear telefones do DB", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de telefones", err)
	}
	return numbers, nil
}

// FindComplete devolve os registros completos de telefone da pessoa.
func (r *PhoneRepository) FindComplete(ctx context.Context, cedula int64) ([]domain.Phone, error) {
	return r.list(ctx, `SELECT cedulaPer, telefonoPer FROM TelefonoPer WHERE cedulaPer = $1 ORDER BY telefonoPer`, cedula)
}

// FindAll lista todos os telefones por cédula e número.
func (r *PhoneRepository) FindAll(ctx context.Context) ([]domain.Phone, error) {
	return r.list(ctx, `SELECT cedulaPer, telefonoPer FROM TelefonoPer ORDER BY cedulaPer, telefonoPer`)
}

// Exists informa se a pessoa já tem o número cadastrado.
func (r *PhoneRepository) Exists(ctx context.Context, cedula, number int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM TelefonoPer WHERE cedulaPer = $1 AND telefonoPer = $2)`, cedula, number,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de telefone.", err)
		return false, errors.FromDB("Falha ao verificar telefone", err)
	}
	return exists, nil
}

func (r *PhoneRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Phone, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar telefones.", err)
		return nil, errors.FromDB("Falha ao buscar telefones", err)
	}
	defer rows.Close()

	phones := make([]domain.Phone, 0)
	for rows.Next() {
		var p domain.Phone
		if err := rows.Scan(&p.Cedula, &p.Number); err != nil {
			return nil, errors.FromDB("Falha ao mapear telefones do DB", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de telefones", err)
	}
	return phones, nil
}
