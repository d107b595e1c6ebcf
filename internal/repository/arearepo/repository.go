package arearepo

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

// AreaRepository implementa as operações CRUD da tabela Area.
type AreaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAreaRepository cria e retorna uma nova instância do Repositório de Áreas.
func NewAreaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AreaRepository {
	return &AreaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Insert grava uma nova área. O id é informado pelo chamador.
func (r *AreaRepository) Insert(ctx context.Context, a domain.Area) error {
	r.logger.Debug("Iniciando Insert de área no repositório.", map[string]interface{}{"id": a.ID, "name": a.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout, `INSERT INTO Area (idArea, nombreArea) VALUES ($1, $2)`, a.ID, a.Name)
	if err != nil {
		r.logger.Error("Falha ao inserir área no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir área %d", a.ID), err)
	}

	r.logger.Info("Área inserida com sucesso.", map[string]interface{}{"id": a.ID, "name": a.Name})
	return nil
}

// Update altera o nome da área.
func (r *AreaRepository) Update(ctx context.Context, a domain.Area) error {
	r.logger.Debug("Iniciando Update de área no repositório.", map[string]interface{}{"id": a.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `UPDATE Area SET nombreArea = $1 WHERE idArea = $2`, a.Name, a.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar área no DB.", err)
		return errors.FromDB("Falha ao atualizar área", err)
	}
	return r.checkAffected(result, a.ID, "atualização")
}

// Delete remove a área. Falha com Conflict se houver funcionários nela.
func (r *AreaRepository) Delete(ctx context.Context, id int64) error {
	r.logger.Debug("Iniciando Delete de área no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Area WHERE idArea = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar área do DB.", err)
		return errors.FromDB("Falha ao deletar área", err)
	}
	return r.checkAffected(result, id, "exclusão")
}

// FindByID busca uma área pelo id.
func (r *AreaRepository) FindByID(ctx context.Context, id int64) (domain.Area, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var a domain.Area
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT idArea, nombreArea FROM Area WHERE idArea = $1`, id).Scan(&a.ID, &a.Name)
	if err == sql.ErrNoRows {
		r.logger.Info("Área não encontrada.", map[string]interface{}{"id": id})
		return domain.Area{}, errors.NewNotFoundError(fmt.Sprintf("Área com ID %d não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar área no DB.", err)
		return domain.Area{}, errors.FromDB("Falha ao buscar área", err)
	}
	return a, nil
}

// FindAll lista as áreas por id.
func (r *AreaRepository) FindAll(ctx context.Context) ([]domain.Area, error) {
	return r.list(ctx, `SELECT idArea, nombreArea FROM Area ORDER BY idArea`)
}

// FindByName busca áreas cujo nome contenha name, ordenadas pelo nome.
func (r *AreaRepository) FindByName(ctx context.Context, name string) ([]domain.Area, error) {
	return r.list(ctx, `SELECT idArea, nombreArea FROM Area WHERE nombreArea LIKE $1 ORDER BY nombreArea`, "%"+name+"%")
}

func (r *AreaRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Area, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar áreas.", err)
		return nil, errors.FromDB("Falha ao buscar áreas", err)
	}
	defer rows.Close()

	areas := make([]domain.Area, 0)
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, errors.FromDB("Falha ao mapear áreas do DB", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de áreas", err)
	}
	return areas, nil
}

func (r *AreaRepository) checkAffected(result sql.Result, id int64, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Área não encontrada para %s.", op), map[string]interface{}{"id": id})
		return errors.NewNotFoundError(fmt.Sprintf("Área com ID %d não encontrada para %s.", id, op))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	r.logger.Info(fmt.Sprintf("Área: %s concluída.", op), map[string]interface{}{"id": id})
	return nil
}
