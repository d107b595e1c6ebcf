package consumptionrepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gohotel/internal/domain"
	"gohotel/internal/errors"
	"gohotel/internal/pkg/database"
	"gohotel/internal/pkg/logger"
)

// ConsumptionRepository implementa as operações da tabela ConsumoAdicional.
// A chave tem seis colunas: instante do consumo, chave da reserva e serviço.
type ConsumptionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewConsumptionRepository cria e retorna uma nova instância do Repositório de Consumos.
func NewConsumptionRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ConsumptionRepository {
	return &ConsumptionRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const (
	columns = `fechaConsumo, horaConsumo, fechaLlegada, numeroHab, cedulaPer, idServicio`

	whereKey = ` WHERE fechaConsumo = $1 AND horaConsumo = $2 AND fechaLlegada = $3
          AND numeroHab = $4 AND cedulaPer = $5 AND idServicio = $6`

	whereReservation = ` WHERE cedulaPer = $1 AND numeroHab = $2 AND fechaLlegada = $3`
)

func scanTargets(c *domain.Consumption) []interface{} {
	return []interface{}{&c.Date, &c.Time, &c.ArrivalDate, &c.RoomNumber, &c.Cedula, &c.ServiceID}
}

func keyArgs(k domain.ConsumptionKey) []interface{} {
	return []interface{}{k.Date, k.Time, k.ArrivalDate, k.RoomNumber, k.Cedula, k.ServiceID}
}

func keyFields(k domain.ConsumptionKey) map[string]interface{} {
	return map[string]interface{}{
		"cedula":  k.Cedula,
		"room":    k.RoomNumber,
		"arrival": k.ArrivalDate.String(),
		"service": k.ServiceID,
		"at":      k.Date.String() + " " + k.Time.String(),
	}
}

// Insert registra um consumo. O mesmo serviço cobrado duas vezes da mesma
// reserva no mesmo segundo viola a chave e falha com Conflict.
func (r *ConsumptionRepository) Insert(ctx context.Context, c domain.Consumption) error {
	r.logger.Debug("Iniciando Insert de consumo no repositório.", keyFields(c.ConsumptionKey))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `INSERT INTO ConsumoAdicional (` + columns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.DB.ExecContext(ctxTimeout, query, keyArgs(c.ConsumptionKey)...); err != nil {
		r.logger.Error("Falha ao inserir consumo no DB.", err)
		return errors.FromDB("Falha ao inserir consumo", err)
	}

	r.logger.Info("Consumo inserido com sucesso.", keyFields(c.ConsumptionKey))
	return nil
}

// Delete remove o consumo pela chave completa.
func (r *ConsumptionRepository) Delete(ctx context.Context, key domain.ConsumptionKey) error {
	r.logger.Debug("Iniciando Delete de consumo no repositório.", keyFields(key))

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM ConsumoAdicional`+whereKey, keyArgs(key)...)
	if err != nil {
		r.logger.Error("Falha ao deletar consumo do DB.", err)
		return errors.FromDB("Falha ao deletar consumo", err)
	}

	err = database.CheckAffected(result)
	if stderrors.Is(err, database.ErrNoRowsAffected) {
		r.logger.Info("Consumo não encontrado para exclusão.", keyFields(key))
		return errors.NewNotFoundError(fmt.Sprintf("Consumo do serviço %d em %s %s não encontrado para exclusão.", key.ServiceID, key.Date, key.Time))
	}
	if err != nil {
		return errors.FromDB("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("Consumo deletado com sucesso.", keyFields(key))
	return nil
}

// FindByID busca o consumo pela chave completa.
func (r *ConsumptionRepository) FindByID(ctx context.Context, key domain.ConsumptionKey) (domain.Consumption, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Consumption
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT `+columns+` FROM ConsumoAdicional`+whereKey, keyArgs(key)...).
		Scan(scanTargets(&c)...)
	if err == sql.ErrNoRows {
		r.logger.Info("Consumo não encontrado.", keyFields(key))
		return domain.Consumption{}, errors.NewNotFoundError(fmt.Sprintf("Consumo do serviço %d em %s %s não encontrado.", key.ServiceID, key.Date, key.Time))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar consumo no DB.", err)
		return domain.Consumption{}, errors.FromDB("Falha ao buscar consumo", err)
	}
	return c, nil
}

// FindAll lista os consumos do mais recente para o mais antigo.
func (r *ConsumptionRepository) FindAll(ctx context.Context) ([]domain.Consumption, error) {
	return r.list(ctx, `SELECT `+columns+` FROM ConsumoAdicional ORDER BY fechaConsumo DESC, horaConsumo DESC`)
}

// FindByReservation lista os consumos de uma reserva em ordem cronológica.
func (r *ConsumptionRepository) FindByReservation(ctx context.Context, key domain.ReservationKey) ([]domain.Consumption, error) {
	return r.list(ctx, `SELECT `+columns+` FROM ConsumoAdicional`+whereReservation+` ORDER BY fechaConsumo, horaConsumo`,
		key.Cedula, key.RoomNumber, key.ArrivalDate)
}

// FindByClient lista os consumos de um cliente, mais recentes primeiro.
func (r *ConsumptionRepository) FindByClient(ctx context.Context, cedula int64) ([]domain.Consumption, error) {
	return r.list(ctx, `SELECT `+columns+` FROM ConsumoAdicional WHERE cedulaPer = $1 ORDER BY fechaConsumo DESC, horaConsumo DESC`, cedula)
}

// FindByService lista os consumos de um serviço, mais recentes primeiro.
func (r *ConsumptionRepository) FindByService(ctx context.Context, serviceID int64) ([]domain.Consumption, error) {
	return r.list(ctx, `SELECT `+columns+` FROM ConsumoAdicional WHERE idServicio = $1 ORDER BY fechaConsumo DESC, horaConsumo DESC`, serviceID)
}

// FindByDate lista os consumos de um dia pela hora.
func (r *ConsumptionRepository) FindByDate(ctx context.Context, day domain.Date) ([]domain.Consumption, error) {
	return r.list(ctx, `SELECT `+columns+` FROM ConsumoAdicional WHERE fechaConsumo = $1 ORDER BY horaConsumo`, day)
}

// FindAllWithDetails lista os consumos com o serviço preenchido.
func (r *ConsumptionRepository) FindAllWithDetails(ctx context.Context) ([]domain.Consumption, error) {
	r.logger.Debug("Iniciando FindAllWithDetails de consumos no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT c.fechaConsumo, c.horaConsumo, c.fechaLlegada, c.numeroHab, c.cedulaPer, c.idServicio,
               s.nomServicio, COALESCE(s.contenidoServicio, ''), s.costoServicio
        FROM ConsumoAdicional c
        INNER JOIN Servicio s ON c.idServicio = s.idServicio
        ORDER BY c.fechaConsumo DESC, c.horaConsumo DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAllWithDetails de consumos.", err)
		return nil, errors.FromDB("Falha ao buscar consumos", err)
	}
	defer rows.Close()

	consumptions := make([]domain.Consumption, 0)
	for rows.Next() {
		var c domain.Consumption
		s := &domain.Service{}
		targets := append(scanTargets(&c), &s.Name, &s.Description, &s.Cost)
		if err := rows.Scan(targets...); err != nil {
			return nil, errors.FromDB("Falha ao mapear consumos do DB", err)
		}
		s.ID = c.ServiceID
		c.Service = s
		consumptions = append(consumptions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de consumos", err)
	}

	r.logger.Info("FindAllWithDetails de consumos concluído.", map[string]interface{}{"total": len(consumptions)})
	return consumptions, nil
}

// ReservationTotal soma o custo dos serviços consumidos na reserva. Sem
// consumos o total é zero.
func (r *ConsumptionRepository) ReservationTotal(ctx context.Context, key domain.ReservationKey) (decimal.Decimal, error) {
	r.logger.Debug("Iniciando ReservationTotal no repositório.", map[string]interface{}{"cedula": key.Cedula, "room": key.RoomNumber})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT SUM(s.costoServicio) AS total
        FROM ConsumoAdicional c
        INNER JOIN Servicio s ON c.idServicio = s.idServicio
        WHERE c.cedulaPer = $1 AND c.numeroHab = $2 AND c.fechaLlegada = $3`

	var total decimal.NullDecimal
	if err := r.DB.QueryRowContext(ctxTimeout, query, key.Cedula, key.RoomNumber, key.ArrivalDate).Scan(&total); err != nil {
		r.logger.Error("Falha ao calcular total da reserva.", err)
		return decimal.Zero, errors.FromDB("Falha ao calcular total da reserva", err)
	}

	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Stats agrega os consumos por serviço, do mais consumido para o menos.
func (r *ConsumptionRepository) Stats(ctx context.Context) ([]domain.ConsumptionStat, error) {
	r.logger.Debug("Iniciando Stats de consumos no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT s.idServicio, s.nomServicio, COUNT(*) AS cantidad, SUM(s.costoServicio) AS total
        FROM ConsumoAdicional c
        INNER JOIN Servicio s ON c.idServicio = s.idServicio
        GROUP BY s.idServicio, s.nomServicio
        ORDER BY cantidad DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar Stats de consumos.", err)
		return nil, errors.FromDB("Falha ao calcular estatísticas de consumo", err)
	}
	defer rows.Close()

	stats := make([]domain.ConsumptionStat, 0)
	for rows.Next() {
		var st domain.ConsumptionStat
		if err := rows.Scan(&st.ServiceID, &st.ServiceName, &st.Quantity, &st.Total); err != nil {
			return nil, errors.FromDB("Falha ao mapear estatísticas do DB", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de estatísticas", err)
	}
	return stats, nil
}

func (r *ConsumptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Consumption, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar consumos.", err)
		return nil, errors.FromDB("Falha ao buscar consumos", err)
	}
	defer rows.Close()

	consumptions := make([]domain.Consumption, 0)
	for rows.Next() {
		var c domain.Consumption
		if err := rows.Scan(scanTargets(&c)...); err != nil {
			return nil, errors.FromDB("Falha ao mapear consumos do DB", err)
		}
		consumptions = append(consumptions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.FromDB("Erro após iteração de consumos", err)
	}
	return consumptions, nil
}
