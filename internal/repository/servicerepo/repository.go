package servicerepo

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

// ServiceRepository implementa as operações CRUD do catálogo Servicio.
type ServiceRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewServiceRepository cria e retorna uma nova instância do Repositório de Serviços.
func NewServiceRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ServiceRepository {
	return &ServiceRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const selectColumns = `idServicio, nomServicio, COALESCE(contenidoServicio, ''), costoServicio`

// Insert grava um novo serviço.
func (r *ServiceRepository) Insert(ctx context.Context, s domain.Service) error {
	r.logger.Debug("Iniciando Insert de serviço no repositório.", map[string]interface{}{"id": s.ID, "name": s.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO Servicio (idServicio, nomServicio, contenidoServicio, costoServicio)
        VALUES ($1, $2, $3, $4)`

	if _, err := r.DB.ExecContext(ctxTimeout, query, s.ID, s.Name, s.Description, s.Cost); err != nil {
		r.logger.Error("Falha ao inserir serviço no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir serviço %d", s.ID), err)
	}

	r.logger.Info("Serviço inserido com sucesso.", map[string]interface{}{"id": s.ID, "name": s.Name})
	return nil
}

// Update altera nome, conteúdo e custo do serviço.
func (r *ServiceRepository) Update(ctx context.Context, s domain.Service) error {
	r.logger.Debug("Iniciando Update de serviço no repositório.", map[string]interface{}{"id": s.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE Servicio
        SET nomServicio = $1, contenidoServicio = $2, costoServicio = $3
        WHERE idServicio = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, s.Name, s.Description, s.Cost, s.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar serviço no DB.", err)
		return errors.FromDB("Falha ao atualizar serviço", err)
	}
	return r.checkAffected(result, s.ID, "atualização")
}

// Delete remove o serviço. Falha com Conflict se houver consumos dele.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	r.logger.Debug("Iniciando Delete de serviço no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Servicio WHERE idServicio = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar serviço do DB.", err)
		return errors.FromDB("Falha ao deletar serviço", err)
	}
	return r.checkAffected(result, id, "exclusão")
}

// FindByID busca um serviço pelo id.
func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (domain.Service, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.Service
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT `+selectColumns+` FROM Servicio WHERE idServicio = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.Cost)
	if err == sql.ErrNoRows {
		r.logger.Info("Serviço não encontrado.", map[string]interface{}{"id": id})
		return domain.Service{}, errors.NewNotFoundError(fmt.Sprintf("Serviço com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar serviço no DB.", err)
		return domain.Service{}, errors.FromDB("Falha ao buscar serviço", err)
	}
	return s, nil
}

// FindAll lista os serviços por id.
func (r *ServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM Servicio ORDER BY idServicio`)
}

// FindByName busca serviços cujo nome contenha name, ordenados pelo nome.
func (r *ServiceRepository) FindByName(ctx context.Context, name string) ([]domain.Service, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM Servicio WHERE nomServicio LIKE $1 ORDER BY nomServicio`, "%"+name+"%")
}

func (r *ServiceRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Service, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar serviços.", err)
		return nil, errors.FromDB("Falha ao buscar serviços", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Cost); err != nil {
			return nil, errors.FromDB("Falha ao mapear serviços do DB", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de serviços", err)
	}
	return services, nil
}

func (r *ServiceRepository) checkAffected(result sql.Result, id int64, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Serviço não encontrado para %s.", op), map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Serviço com ID %d não encontrado para %s.", id, op))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	r.logger.Info(fmt.Sprintf("Serviço: %s concluída.", op), map[string]interface{}{"id": id})
	return nil
}
