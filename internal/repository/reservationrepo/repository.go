package reservationrepo

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
	"gohotel/internal/repository/roomrepo"
)

// ReservationRepository implementa as operações da tabela Reserva, cuja chave
// é (cedulaPer, numeroHab, fechaLlegada).
type ReservationRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewReservationRepository cria e retorna uma nova instância do Repositório de Reservas.
func NewReservationRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ReservationRepository {
	return &ReservationRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const (
	selectColumns = `SELECT cedulaPer, numeroHab, fechaLlegada, fechaSalida, tiempoMaxCancel FROM Reserva`
	whereKey      = ` WHERE cedulaPer = $1 AND numeroHab = $2 AND fechaLlegada = $3`
)

func scanTargets(res *domain.Reservation) []interface{} {
	return []interface{}{&res.Cedula, &res.RoomNumber, &res.ArrivalDate, &res.DepartureDate, &res.MaxCancelHours}
}

func keyFields(k domain.ReservationKey) map[string]interface{} {
	return map[string]interface{}{"cedula": k.Cedula, "room": k.RoomNumber, "arrival": k.ArrivalDate.String()}
}

// Insert grava uma nova reserva. Uma reserva com a mesma chave natural falha
// com Conflict e a existente não é alterada.
func (r *ReservationRepository) Insert(ctx context.Context, res domain.Reservation) error {
	r.logger.Debug("Iniciando Insert de reserva no repositório.", keyFields(res.ReservationKey))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO Reserva (cedulaPer, numeroHab, fechaLlegada, fechaSalida, tiempoMaxCancel)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		res.Cedula, res.RoomNumber, res.ArrivalDate, res.DepartureDate, res.MaxCancelHours)
	if err != nil {
		r.logger.Error("Falha ao inserir reserva no DB.", err)
		return errors.FromDB("Falha ao inserir reserva", err)
	}

	r.logger.Info("Reserva inserida com sucesso.", keyFields(res.ReservationKey))
	return nil
}

// Update substitui a reserva identificada por oldKey, podendo trocar a
// própria chave.
func (r *ReservationRepository) Update(ctx context.Context, oldKey domain.ReservationKey, res domain.Reservation) error {
	r.logger.Debug("Iniciando Update de reserva no repositório.", keyFields(oldKey))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE Reserva
        SET cedulaPer = $1, numeroHab = $2, fechaLlegada = $3, fechaSalida = $4, tiempoMaxCancel = $5
        WHERE cedulaPer = $6 AND numeroHab = $7 AND fechaLlegada = $8`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		res.Cedula, res.RoomNumber, res.ArrivalDate, res.DepartureDate, res.MaxCancelHours,
		oldKey.Cedula, oldKey.RoomNumber, oldKey.ArrivalDate)
	if err != nil {
		r.logger.Error("Falha ao atualizar reserva no DB.", err)
		return errors.FromDB("Falha ao atualizar reserva", err)
	}
	return r.checkAffected(result, oldKey, "atualização")
}

// UpdateDates altera apenas a data de saída e o prazo de cancelamento.
func (r *ReservationRepository) UpdateDates(ctx context.Context, key domain.ReservationKey, departure domain.Date, maxCancelHours int32) error {
	r.logger.Debug("Iniciando UpdateDates de reserva no repositório.", keyFields(key))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE Reserva
        SET fechaSalida = $1, tiempoMaxCancel = $2
        WHERE cedulaPer = $3 AND numeroHab = $4 AND fechaLlegada = $5`

	result, err := r.DB.ExecContext(ctxTimeout, query, departure, maxCancelHours, key.Cedula, key.RoomNumber, key.ArrivalDate)
	if err != nil {
		r.logger.Error("Falha ao atualizar datas da reserva.", err)
		return errors.FromDB("Falha ao atualizar datas da reserva", err)
	}
	return r.checkAffected(result, key, "atualização de datas")
}

// Delete remove a reserva. Consumos registrados para ela não são apagados.
func (r *ReservationRepository) Delete(ctx context.Context, key domain.ReservationKey) error {
	r.logger.Debug("Iniciando Delete de reserva no repositório.", keyFields(key))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM Reserva`+whereKey, key.Cedula, key.RoomNumber, key.ArrivalDate)
	if err != nil {
		r.logger.Error("Falha ao deletar reserva do DB.", err)
		return errors.FromDB("Falha ao deletar reserva", err)
	}
	return r.checkAffected(result, key, "exclusão")
}

// FindByID busca a reserva pela chave natural.
func (r *ReservationRepository) FindByID(ctx context.Context, key domain.ReservationKey) (domain.Reservation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var res domain.Reservation
	err := r.DB.QueryRowContext(ctxTimeout, selectColumns+whereKey, key.Cedula, key.RoomNumber, key.ArrivalDate).
		Scan(scanTargets(&res)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Reserva não encontrada.", keyFields(key))
		return domain.Reservation{}, errors.NewNotFoundError(fmt.Sprintf(
			"Reserva do cliente %d no quarto %d com chegada %s não encontrada.", key.Cedula, key.RoomNumber, key.ArrivalDate))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar reserva no DB.", err)
		return domain.Reservation{}, errors.FromDB("Falha ao buscar reserva", err)
	}
	return res, nil
}

// FindAll lista as reservas da chegada mais recente para a mais antiga.
func (r *ReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.list(ctx, selectColumns+` ORDER BY fechaLlegada DESC`)
}

// FindByClient lista as reservas de um cliente, mais recentes primeiro.
func (r *ReservationRepository) FindByClient(ctx context.Context, cedula int64) ([]domain.Reservation, error) {
	return r.list(ctx, selectColumns+` WHERE cedulaPer = $1 ORDER BY fechaLlegada DESC`, cedula)
}

// FindByRoom lista as reservas de um quarto, mais recentes primeiro.
func (r *ReservationRepository) FindByRoom(ctx context.Context, number int32) ([]domain.Reservation, error) {
	return r.list(ctx, selectColumns+` WHERE numeroHab = $1 ORDER BY fechaLlegada DESC`, number)
}

// FindActive lista as reservas cuja saída é hoje ou depois, pela data do
// servidor de banco, em ordem de chegada.
func (r *ReservationRepository) FindActive(ctx context.Context) ([]domain.Reservation, error) {
	return r.list(ctx, selectColumns+` WHERE fechaSalida >= CURRENT_DATE ORDER BY fechaLlegada`)
}

// FindActiveAsOf é FindActive com a data de referência explícita.
func (r *ReservationRepository) FindActiveAsOf(ctx context.Context, day domain.Date) ([]domain.Reservation, error) {
	return r.list(ctx, selectColumns+` WHERE fechaSalida >= $1 ORDER BY fechaLlegada`, day)
}

// FindAllWithDetails lista as reservas com cliente e quarto preenchidos.
func (r *ReservationRepository) FindAllWithDetails(ctx context.Context) ([]domain.Reservation, error) {
	r.logger.Debug("Iniciando FindAllWithDetails de reservas no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT r.cedulaPer, r.numeroHab, r.fechaLlegada, r.fechaSalida, r.tiempoMaxCancel,
               ` + personrepo.Columns("p") + `,
               ` + roomrepo.Columns("h") + `
        FROM Reserva r
        INNER JOIN Cliente c ON r.cedulaPer = c.cedulaPer
        INNER JOIN Persona p ON c.cedulaPer = p.cedulaPer
        INNER JOIN Habitacion h ON r.numeroHab = h.numeroHab
        ORDER BY r.fechaLlegada DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAllWithDetails de reservas.", err)
		return nil, errors.FromDB("Falha ao buscar reservas", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		client := &domain.Client{}
		room := &domain.Room{}

		targets := scanTargets(&res)
		targets = append(targets, personrepo.ScanTargets(&client.Person)...)
		targets = append(targets, roomrepo.ScanTargets(room)...)
		if err := rows.Scan(targets...); err != nil {
			return nil, errors.FromDB("Falha ao mapear reservas do DB", err)
		}

		res.Client = client
		res.Room = room
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de reservas", err)
	}

	r.logger.Info("FindAllWithDetails de reservas concluído.", map[string]interface{}{"total": len(reservations)})
	return reservations, nil
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Reservation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar reservas.", err)
		return nil, errors.FromDB("Falha ao buscar reservas", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(scanTargets(&res)...); err != nil {
			return nil, errors.FromDB("Falha ao mapear reservas do DB", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de reservas", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) checkAffected(result sql.Result, key domain.ReservationKey, op string) error {
	err := database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info(fmt.Sprintf("Reserva não encontrada para %s.", op), keyFields(key))
		return errors.NewNotFoundError(fmt.Sprintf(
			"Reserva do cliente %d no quarto %d com chegada %s não encontrada para %s.", key.Cedula, key.RoomNumber, key.ArrivalDate, op))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}
	r.logger.Info(fmt.Sprintf("Reserva: %s concluída.", op), keyFields(key))
	return nil
}
