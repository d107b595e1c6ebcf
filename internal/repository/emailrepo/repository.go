package emailrepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gohotel/internal/domain"
	"gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
)

// EmailRepository implementa as operações da tabela Correo. Cada linha é um
// par (cédula do cliente, endereço).
type EmailRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewEmailRepository cria e retorna uma nova instância do Repositório de E-mails.
func NewEmailRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *EmailRepository {
	return &EmailRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const insertQuery = `INSERT INTO Correo (cedulaPer, correo) VALUES ($1, $2)`

// Insert grava um único e-mail.
func (r *EmailRepository) Insert(ctx context.Context, e domain.Email) error {
	r.logger.Debug("Iniciando Insert de e-mail no repositório.", map[string]interface{}{"cedula": e.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, insertQuery, e.Cedula, e.Address); err != nil {
		r.logger.Error("Falha ao inserir e-mail no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir e-mail do cliente %d", e.Cedula), err)
	}

	r.logger.Info("E-mail inserido com sucesso.", map[string]interface{}{"cedula": e.Cedula})
	return nil
}

// InsertWith grava a lista de e-mails no executor informado, sem abrir
// transação própria. Endereços repetidos na lista são gravados uma vez.
func (r *EmailRepository) InsertWith(ctx context.Context, exec database.DBTX, cedula int64, addresses []string) error {
	for _, addr := range database.Distinct(addresses) {
		if _, err := exec.ExecContext(ctx, insertQuery, cedula, addr); err != nil {
			r.logger.Error("Falha ao inserir e-mail no DB.", err)
			return errors.FromDB(fmt.Sprintf("Falha ao inserir e-mail %q do cliente %d", addr, cedula), err)
		}
	}
	return nil
}

// InsertMultiple grava todos os e-mails numa única transação: se um falhar,
// nenhum fica gravado.
func (r *EmailRepository) InsertMultiple(ctx context.Context, cedula int64, addresses []string) error {
	r.logger.Debug("Iniciando InsertMultiple de e-mails no repositório.", map[string]interface{}{"cedula": cedula, "count": len(addresses)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		return r.InsertWith(ctxTimeout, tx, cedula, addresses)
	})
	if err != nil {
		return err
	}

	r.logger.Info("E-mails inseridos com sucesso.", map[string]interface{}{"cedula": cedula, "count": len(addresses)})
	return nil
}

// Replace substitui o conjunto de e-mails do cliente: apaga todos e grava a
// nova lista na mesma transação. Ao final o conjunto gravado é igual à lista.
func (r *EmailRepository) Replace(ctx context.Context, cedula int64, addresses []string) error {
	r.logger.Debug("Iniciando Replace de e-mails no repositório.", map[string]interface{}{"cedula": cedula, "count": len(addresses)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctxTimeout, `DELETE FROM Correo WHERE cedulaPer = $1`, cedula); err != nil {
			r.logger.Error("Falha ao apagar e-mails antigos.", err)
			return errors.FromDB("Falha ao apagar e-mails antigos", err)
		}
		return r.InsertWith(ctxTimeout, tx, cedula, addresses)
	})
	if err != nil {
		return err
	}

	r.logger.Info("E-mails substituídos com sucesso.", map[string]interface{}{"cedula": cedula, "count": len(addresses)})
	return nil
}

// Delete remove um e-mail específico do cliente.
func (r *EmailRepository) Delete(ctx context.Context, cedula int64, address string) error {
	r.logger.Debug("Iniciando Delete de e-mail no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Correo WHERE cedulaPer = $1 AND correo = $2`, cedula, address)
	if err != nil {
		r.logger.Error("Falha ao deletar e-mail do DB.", err)
		return errors.FromDB("Falha ao deletar e-mail", err)
	}

	err = database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		return errors.NewNotFoundError(fmt.Sprintf("E-mail %q do cliente %d não encontrado para exclusão.", address, cedula))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("E-mail deletado com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// DeleteAllByClient apaga todos os e-mails do cliente. Não encontrar nenhum
// não é erro.
func (r *EmailRepository) DeleteAllByClient(ctx context.Context, cedula int64) error {
	r.logger.Debug("Iniciando DeleteAllByClient de e-mails no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Correo WHERE cedulaPer = $1`, cedula); err != nil {
		r.logger.Error("Falha ao deletar e-mails do cliente.", err)
		return errors.FromDB("Falha ao deletar e-mails do cliente", err)
	}
	return nil
}

// FindByClient devolve os endereços do cliente em ordem alfabética.
func (r *EmailRepository) FindByClient(ctx context.Context, cedula int64) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT correo FROM Correo WHERE cedulaPer = $1 ORDER BY correo`, cedula)
	if err != nil {
		r.logger.Error("Falha ao buscar e-mails do cliente.", err)
		return nil, errors.FromDB("Falha ao buscar e-mails", err)
	}
	defer rows.Close()

	addresses := make([]string, 0)
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, errors.FromDB("Falha ao mapear e-mails do DB", err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de e-mails", err)
	}
	return addresses, nil
}

// FindComplete devolve os registros completos de e-mail do cliente.
func (r *EmailRepository) FindComplete(ctx context.Context, cedula int64) ([]domain.Email, error) {
	return r.list(ctx, `SELECT cedulaPer, correo FROM Correo WHERE cedulaPer = $1 ORDER BY correo`, cedula)
}

// FindAll lista todos os e-mails ordenados por cédula e endereço.
func (r *EmailRepository) FindAll(ctx context.Context) ([]domain.Email, error) {
	return r.list(ctx, `SELECT cedulaPer, correo FROM Correo ORDER BY cedulaPer, correo`)
}

// Exists informa se o cliente já tem o endereço cadastrado.
func (r *EmailRepository) Exists(ctx context.Context, cedula int64, address string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM Correo WHERE cedulaPer = $1 AND correo = $2)`, cedula, address,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de e-mail.", err)
		return false, errors.FromDB("Falha ao verificar e-mail", err)
	}
	return exists, nil
}

// FindClientsByDomain devolve as cédulas distintas com algum e-mail terminado
// em "@domain", em ordem crescente. "%" e "_" no domínio são literais.
func (r *EmailRepository) FindClientsByDomain(ctx context.Context, domainName string) ([]int64, error) {
	r.logger.Debug("Iniciando FindClientsByDomain no repositório.", map[string]interface{}{"domain": domainName})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT DISTINCT cedulaPer FROM Correo WHERE correo LIKE $1 ESCAPE '\' ORDER BY cedulaPer`, "%@"+likeEscaper.Replace(domainName))
	if err != nil {
		r.logger.Error("Falha ao buscar clientes por domínio.", err)
		return nil, errors.FromDB("Falha ao buscar clientes por domínio", err)
	}
	defer rows.Close()

	cedulas := make([]int64, 0)
	for rows.Next() {
		var c int64
		if err := rows.Scan(&c); err != nil {
			return nil, errors.FromDB("Falha ao mapear cédulas do DB", err)
		}
		cedulas = append(cedulas, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de cédulas", err)
	}
	return cedulas, nil
}

func (r *EmailRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Email, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar e-mails.", err)
		return nil, errors.FromDB("Falha ao buscar e-mails", err)
	}
	defer rows.Close()

	emails := make([]domain.Email, 0)
	for rows.Next() {
		var e domain.Email
		if err := rows.Scan(&e.Cedula, &e.Address); err != nil {
			return nil, errors.FromDB("Falha ao mapear e-mails do DB", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de e-mails", err)
	}
	return emails, nil
}
