package roomrepo

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

// RoomRepository implementa as operações da tabela Habitacion.
type RoomRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRoomRepository cria e retorna uma nova instância do Repositório de Quartos.
func NewRoomRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *RoomRepository {
	return &RoomRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Columns devolve as colunas de Habitacion na ordem de ScanTargets.
func Columns(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return fmt.Sprintf("%[1]snumeroHab, %[1]scategoria, %[1]sestadoHab, %[1]sprecioNoche", p)
}

// ScanTargets devolve os destinos de Scan para as colunas de Columns.
func ScanTargets(room *domain.Room) []interface{} {
	return []interface{}{&room.Number, &room.Category, &room.Status, &room.NightlyRate}
}

// Insert grava um novo quarto.
func (r *RoomRepository) Insert(ctx context.Context, room domain.Room) error {
	r.logger.Debug("Iniciando Insert de quarto no repositório.", map[string]interface{}{"number": room.Number})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO Habitacion (numeroHab, categoria, estadoHab, precioNoche)
        VALUES ($1, $2, $3, $4)`

	if _, err := r.DB.ExecContext(ctxTimeout, query, room.Number, room.Category, room.Status, room.NightlyRate); err != nil {
		r.logger.Error("Falha ao inserir quarto no DB.", err)
		return errors.FromDB(fmt.Sprintf("Falha ao inserir quarto %d", room.Number), err)
	}

	r.logger.Info("Quarto inserido com sucesso.", map[string]interface{}{"number": room.Number})
	return nil
}

// Update altera categoria, estado e preço do quarto.
func (r *RoomRepository) Update(ctx context.Context, room domain.Room) error {
	r.logger.Debug("Iniciando Update de quarto no repositório.", map[string]interface{}{"number": room.Number})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE Habitacion
        SET categoria = $1, estadoHab = $2, precioNoche = $3
        WHERE numeroHab = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, room.Category, room.Status, room.NightlyRate, room.Number)
	if err != nil {
		r.logger.Error("Falha ao atualizar quarto no DB.", err)
		return errors.FromDB("Falha ao atualizar quarto", err)
	}
	return r.checkAffected(result, room.Number, "atualização")
}

// UpdateStatus altera apenas o estado do quarto. Qualquer transição é aceita.
func (r *RoomRepository) UpdateStatus(ctx context.Context, number int32, status string) error {
	r.logger.Debug("Iniciando UpdateStatus de quarto no repositório.", map[string]interface{}{"number": number, "status": status})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `UPDATE Habitacion SET estadoHab = $1 WHERE numeroHab = $2`, status, number)
	if err != nil {
		r.logger.Error("Falha ao atualizar estado do quarto.", err)
		return errors.FromDB("Falha ao atualizar estado do quarto", err)
	}
	return r.checkAffected(result, number, "atualização de estado")
}

// Delete remove o quarto. Falha com Conflict se houver reservas dele.
func (r *RoomRepository) Delete(ctx context.Context, number int32) error {
	r.logger.Debug("Iniciando Delete de quarto no repositório.", map[string]interface{}{"number": number})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Habitacion WHERE numeroHab = $1`, number)
	if err != nil {
		r.logger.Error("Falha ao deletar quarto do DB.", err)
		return errors.FromDB("Falha ao deletar quarto", err)
	}
	return r.checkAffected(result, number, "exclusão")
}

// FindByID busca um quarto pelo número.
func (r *RoomRepository) FindByID(ctx context.Context, number int32) (domain.Room, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var room domain.Room
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT `+Columns("")+` FROM Habitacion WHERE numeroHab = $1`, number).
		Scan(ScanTargets(&room)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Quarto não encontrado.", map[string]interface{}{"number": number})
		return domain.Room{}, errors.NewNotFoundError(fmt.Sprintf("Quarto %d não encontrado.", number))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar quarto no DB.", err)
		return domain.Room{}, errors.FromDB("Falha ao buscar quarto", err)
	}
	return room, nil
}

// FindAll lista os quartos por número.
func (r *RoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, `SELECT `+Columns("")+` FROM Habitacion ORDER BY numeroHab`)
}

// FindByCategory lista os quartos de uma categoria (igualdade exata).
func (r *RoomRepository) FindByCategory(ctx context.Context, category string) ([]domain.Room, error) {
	return r.list(ctx, `SELECT `+Columns("")+` FROM Habitacion WHERE categoria = $1 ORDER BY numeroHab`, category)
}

// FindAvailable lista os quartos no estado "Disponible".
func (r *RoomRepository) FindAvailable(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, `SELECT `+Columns("")+` FROM Habitacion WHERE estadoHab = $1 ORDER BY numeroHab`, domain.RoomStatusAvailable)
}

func (r *RoomRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Room, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar quartos.", err)
		return nil, errors.FromDB("Falha ao buscar quartos", err)
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(ScanTargets(&room)...); err != nil {
			return nil, errors.FromDB("Falha ao mapear quartos do DB", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de quartos", err)
	}
	return rooms, nil
}

func (r *RoomRepository) checkAffected(result sql.Result, number int32, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Quarto não encontrado para %s.", op), map[string]interface{}{"number": number})
		return errors.NewNotFoundError(fmt.Sprintf("Quarto %d não encontrado para %s.", number, op))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	r.logger.Info(fmt.Sprintf("Quarto: %s concluída.", op), map[string]interface{}{"number": number})
	return nil
}
