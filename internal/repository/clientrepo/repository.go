package clientrepo

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
	"gohotel/internal/repository/personrepo"
)

// PersonWriter grava a linha de Persona dentro de uma transação aberta aqui.
type PersonWriter interface {
	InsertWith(ctx context.Context, exec database.DBTX, p domain.Person) error
}

// EmailStore é o subconjunto do repositório de e-mails usado pelo cliente.
type EmailStore interface {
	InsertWith(ctx context.Context, exec database.DBTX, cedula int64, addresses []string) error
	FindByClient(ctx context.Context, cedula int64) ([]string, error)
}

// ClientRepository implementa as operações da tabela Cliente, sempre lida em
// conjunto com Persona e Correo.
type ClientRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	persons   PersonWriter
	emails    EmailStore
	logger    logger.Logger
}

// NewClientRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewClientRepository(db *sql.DB, dbTimeout time.Duration, persons PersonWriter, emails EmailStore, logger logger.Logger) *ClientRepository {
	return &ClientRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		persons:   persons,
		emails:    emails,
		logger:    logger,
	}
}

const insertClientQuery = `INSERT INTO Cliente (cedulaPer) VALUES ($1)`

// Insert registra o papel de cliente para uma pessoa já existente. Os e-mails
// do cliente são gravados na mesma transação.
func (r *ClientRepository) Insert(ctx context.Context, c domain.Client) error {
	r.logger.Debug("Iniciando Insert de cliente no repositório.", map[string]interface{}{"cedula": c.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		return r.insertRole(ctxTimeout, tx, c)
	})
	if err != nil {
		r.logger.Error("Falha ao inserir cliente, transação desfeita.", err)
		return err
	}

	r.logger.Info("Cliente inserido com sucesso.", map[string]interface{}{"cedula": c.Cedula, "emails": len(c.Emails)})
	return nil
}

// InsertComplete grava Persona, Cliente e Correo numa única transação. Se
// qualquer passo falhar nada fica visível.
func (r *ClientRepository) InsertComplete(ctx context.Context, c domain.Client) error {
	r.logger.Debug("Iniciando InsertComplete de cliente no repositório.", map[string]interface{}{"cedula": c.Cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.WithTx(ctxTimeout, r.DB, func(tx *sql.Tx) error {
		if err := r.persons.InsertWith(ctxTimeout, tx, c.Person); err != nil {
			return err
		}
		return r.insertRole(ctxTimeout, tx, c)
	})
	if err != nil {
		r.logger.Error("Falha no insert completo de cliente, transação desfeita.", err)
		return err
	}

	r.logger.Info("Cliente completo inserido com sucesso.", map[string]interface{}{"cedula": c.Cedula, "emails": len(c.Emails)})
	return nil
}

func (r *ClientRepository) insertRole(ctx context.Context, tx *sql.Tx, c domain.Client) error {
	result, err := tx.ExecContext(ctx, insertClientQuery, c.Cedula)
	if err != nil {
		return errors.FromDB(fmt.Sprintf("Falha ao inserir cliente %d", c.Cedula), err)
	}
	if err := database.CheckAffected(result); err != nil {
		return errors.NewInternalError(fmt.Sprintf("Cliente %d não foi inserido", c.Cedula), err)
	}
	return r.emails.InsertWith(ctx, tx, c.Cedula, c.Emails)
}

// Delete remove o papel de cliente. A linha de Persona permanece.
func (r *ClientRepository) Delete(ctx context.Context, cedula int64) error {
	r.logger.Debug("Iniciando Delete de cliente no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Cliente WHERE cedulaPer = $1`, cedula)
	if err != nil {
		r.logger.Error("Falha ao deletar cliente do DB.", err)
		return errors.FromDB("Falha ao deletar cliente", err)
	}

	err = database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info("Cliente não encontrado para exclusão.", map[string]interface{}{"cedula": cedula})
		return errors.NewNotFoundError(fmt.Sprintf("Cliente com cédula %d não encontrado para exclusão.", cedula))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// FindByID busca o cliente com seus dados pessoais e e-mails.
func (r *ClientRepository) FindByID(ctx context.Context, cedula int64) (domain.Client, error) {
	r.logger.Debug("Iniciando FindByID de cliente no repositório.", map[string]interface{}{"cedula": cedula})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + personrepo.Columns("p") + `
        FROM Persona p
        INNER JOIN Cliente c ON p.cedulaPer = c.cedulaPer
        WHERE c.cedulaPer = $1`

	var c domain.Client
	err := r.DB.QueryRowContext(ctxTimeout, query, cedula).Scan(personrepo.ScanTargets(&c.Person)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Cliente não encontrado.", map[string]interface{}{"cedula": cedula})
		return domain.Client{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com cédula %d não encontrado.", cedula))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Client{}, errors.FromDB("Falha ao buscar cliente", err)
	}

	c.Emails, err = r.emails.FindByClient(ctx, cedula)
	if err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// FindAll lista os clientes ordenados pela cédula, cada um com seus e-mails.
func (r *ClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	r.logger.Debug("Iniciando FindAll de clientes no repositório.", nil)

	clients, err := r.findPersons(ctx)
	if err != nil {
		return nil, err
	}

	// Uma consulta de e-mails por cliente, feita depois de liberar o cursor
	// principal para não segurar duas conexões do pool.
	for i := range clients {
		clients[i].Emails, err = r.emails.FindByClient(ctx, clients[i].Cedula)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Info("FindAll de clientes concluído.", map[string]interface{}{"total": len(clients)})
	return clients, nil
}

func (r *ClientRepository) findPersons(ctx context.Context) ([]domain.Client, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + personrepo.Columns("p") + `
        FROM Persona p
        INNER JOIN Cliente c ON p.cedulaPer = c.cedulaPer
        ORDER BY p.cedulaPer`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de clientes.", err)
		return nil, errors.FromDB("Falha ao buscar clientes", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(personrepo.ScanTargets(&c.Person)...); err != nil {
			r.logger.Error("Falha ao mapear cliente.", err)
			return nil, errors.FromDB("Falha ao mapear clientes do DB", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de clientes", err)
	}
	return clients, nil
}
