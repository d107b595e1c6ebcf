package reservationservice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
)

// ReservationRepository define o contrato de reservas esperado da camada de Persistência.
type ReservationRepository interface {
	Insert(ctx context.Context, res domain.Reservation) error
	Update(ctx context.Context, oldKey domain.ReservationKey, res domain.Reservation) error
	UpdateDates(ctx context.Context, key domain.ReservationKey, departure domain.Date, maxCancelHours int32) error
	Delete(ctx context.Context, key domain.ReservationKey) error
	FindByID(ctx context.Context, key domain.ReservationKey) (domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByClient(ctx context.Context, cedula int64) ([]domain.Reservation, error)
	FindByRoom(ctx context.Context, number int32) ([]domain.Reservation, error)
	FindActive(ctx context.Context) ([]domain.Reservation, error)
	FindActiveAsOf(ctx context.Context, day domain.Date) ([]domain.Reservation, error)
	FindAllWithDetails(ctx context.Context) ([]domain.Reservation, error)
}

// ConsumptionRepository define o contrato de consumos adicionais.
type ConsumptionRepository interface {
	Insert(ctx context.Context, c domain.Consumption) error
	Delete(ctx context.Context, key domain.ConsumptionKey) error
	FindByID(ctx context.Context, key domain.ConsumptionKey) (domain.Consumption, error)
	FindAll(ctx context.Context) ([]domain.Consumption, error)
	FindByReservation(ctx context.Context, key domain.ReservationKey) ([]domain.Consumption, error)
	FindByClient(ctx context.Context, cedula int64) ([]domain.Consumption, error)
	FindByService(ctx context.Context, serviceID int64) ([]domain.Consumption, error)
	FindByDate(ctx context.Context, day domain.Date) ([]domain.Consumption, error)
	FindAllWithDetails(ctx context.Context) ([]domain.Consumption, error)
	ReservationTotal(ctx context.Context, key domain.ReservationKey) (decimal.Decimal, error)
	Stats(ctx context.Context) ([]domain.ConsumptionStat, error)
}

// ReservationFilter seleciona a consulta de ListReservations. Os critérios são
// avaliados na ordem dos campos e só o primeiro preenchido vale.
type ReservationFilter struct {
	Cedula      int64
	RoomNumber  int32
	ActiveOn    domain.Date
	Active      bool
	WithDetails bool
}

// ConsumptionFilter seleciona a consulta de ListConsumptions, com a mesma regra
// de prioridade de ReservationFilter.
type ConsumptionFilter struct {
	Reservation *domain.ReservationKey
	Cedula      int64
	ServiceID   int64
	Date        domain.Date
	WithDetails bool
}

// Service implementa as regras de negócio de reservas e consumos.
type Service struct {
	reservations ReservationRepository
	consumptions ConsumptionRepository
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Reservas.
func NewService(reservations ReservationRepository, consumptions ConsumptionRepository, logger logger.Logger) *Service {
	return &Service{reservations: reservations, consumptions: consumptions, logger: logger}
}

// --- Reservas ---

// CreateReservation valida e grava uma reserva. A saída deve ser posterior à chegada.
func (s *Service) CreateReservation(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	s.logger.Debug("Iniciando criação de reserva no serviço.", keyFields(res.ReservationKey))

	if err := validateReservation(res); err != nil {
		s.logger.Warn("Falha na validação da reserva.", map[string]interface{}{"error": err.Error()})
		return domain.Reservation{}, err
	}

	if err := s.reservations.Insert(ctx, res); err != nil {
		s.logger.Error("Falha ao criar reserva no repositório.", err)
		return domain.Reservation{}, err
	}

	s.logger.Info("Reserva criada com sucesso.", keyFields(res.ReservationKey))
	return res, nil
}

// UpdateReservation substitui a reserva identificada por oldKey, inclusive a chave.
func (s *Service) UpdateReservation(ctx context.Context, oldKey domain.ReservationKey, res domain.Reservation) (domain.Reservation, error) {
	if err := validateKey(oldKey); err != nil {
		return domain.Reservation{}, err
	}
	if err := validateReservation(res); err != nil {
		return domain.Reservation{}, err
	}

	if err := s.reservations.Update(ctx, oldKey, res); err != nil {
		s.logger.Error("Falha ao atualizar reserva no repositório.", err)
		return domain.Reservation{}, err
	}
	return res, nil
}

// Reschedule altera a data de saída e o prazo de cancelamento.
func (s *Service) Reschedule(ctx context.Context, key domain.ReservationKey, departure domain.Date, maxCancelHours int32) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := validateStay(key.ArrivalDate, departure, maxCancelHours); err != nil {
		return err
	}

	if err := s.reservations.UpdateDates(ctx, key, departure, maxCancelHours); err != nil {
		s.logger.Error("Falha ao atualizar datas da reserva.", err)
		return err
	}

	fields := keyFields(key)
	fields["departure"] = departure.String()
	s.logger.Info("Datas da reserva alteradas.", fields)
	return nil
}

// CancelReservation remove a reserva. Consumos já registrados não são apagados.
func (s *Service) CancelReservation(ctx context.Context, key domain.ReservationKey) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, key); err != nil {
		s.logger.Error("Falha ao cancelar reserva no repositório.", err)
		return err
	}
	s.logger.Info("Reserva cancelada.", keyFields(key))
	return nil
}

// GetReservation busca uma reserva pela chave natural.
func (s *Service) GetReservation(ctx context.Context, key domain.ReservationKey) (domain.Reservation, error) {
	if err := validateKey(key); err != nil {
		return domain.Reservation{}, err
	}
	return s.reservations.FindByID(ctx, key)
}

// ListReservations escolhe a consulta conforme o filtro.
func (s *Service) ListReservations(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error) {
	switch {
	case f.Cedula != 0:
		if f.Cedula < 0 {
			return nil, apperror.NewValidationError("A cédula deve ser um número positivo.")
		}
		return s.reservations.FindByClient(ctx, f.Cedula)
	case f.RoomNumber != 0:
		if f.RoomNumber < 0 {
			return nil, apperror.NewValidationError("O número do quarto deve ser positivo.")
		}
		return s.reservations.FindByRoom(ctx, f.RoomNumber)
	case !f.ActiveOn.IsZero():
		return s.reservations.FindActiveAsOf(ctx, f.ActiveOn)
	case f.Active:
		return s.reservations.FindActive(ctx)
	case f.WithDetails:
		return s.reservations.FindAllWithDetails(ctx)
	default:
		return s.reservations.FindAll(ctx)
	}
}

// --- Consumos ---

// RegisterConsumption cobra um serviço de uma reserva existente.
func (s *Service) RegisterConsumption(ctx context.Context, c domain.Consumption) (domain.Consumption, error) {
	resKey := c.ReservationKey()
	fields := keyFields(resKey)
	fields["service"] = c.ServiceID
	s.logger.Debug("Iniciando registro de consumo no serviço.", fields)

	if err := validateKey(resKey); err != nil {
		return domain.Consumption{}, err
	}
	if c.ServiceID <= 0 {
		return domain.Consumption{}, apperror.NewValidationError("serviceId: deve ser maior que 0")
	}
	if c.Date.IsZero() {
		return domain.Consumption{}, apperror.NewValidationError("date: campo obrigatório")
	}

	// A tabela de consumos não referencia Reserva; a existência é conferida aqui.
	if _, err := s.reservations.FindByID(ctx, resKey); err != nil {
		if apperror.IsNotFound(err) {
			s.logger.Warn("Consumo para reserva inexistente.", fields)
		}
		return domain.Consumption{}, err
	}

	if err := s.consumptions.Insert(ctx, c); err != nil {
		s.logger.Error("Falha ao registrar consumo no repositório.", err)
		return domain.Consumption{}, err
	}

	s.logger.Info("Consumo registrado com sucesso.", fields)
	return c, nil
}

// RemoveConsumption apaga um consumo pela chave completa.
func (s *Service) RemoveConsumption(ctx context.Context, key domain.ConsumptionKey) error {
	if err := validateKey(key.ReservationKey()); err != nil {
		return err
	}
	if err := s.consumptions.Delete(ctx, key); err != nil {
		s.logger.Error("Falha ao remover consumo no repositório.", err)
		return err
	}
	return nil
}

// GetConsumption busca um consumo pela chave completa.
func (s *Service) GetConsumption(ctx context.Context, key domain.ConsumptionKey) (domain.Consumption, error) {
	if err := validateKey(key.ReservationKey()); err != nil {
		return domain.Consumption{}, err
	}
	return s.consumptions.FindByID(ctx, key)
}

// ListConsumptions escolhe a consulta conforme o filtro.
func (s *Service) ListConsumptions(ctx context.Context, f ConsumptionFilter) ([]domain.Consumption, error) {
	switch {
	case f.Reservation != nil:
		if err := validateKey(*f.Reservation); err != nil {
			return nil, err
		}
		return s.consumptions.FindByReservation(ctx, *f.Reservation)
	case f.Cedula != 0:
		return s.consumptions.FindByClient(ctx, f.Cedula)
	case f.ServiceID != 0:
		return s.consumptions.FindByService(ctx, f.ServiceID)
	case !f.Date.IsZero():
		return s.consumptions.FindByDate(ctx, f.Date)
	case f.WithDetails:
		return s.consumptions.FindAllWithDetails(ctx)
	default:
		return s.consumptions.FindAll(ctx)
	}
}

// ReservationTotal soma o custo dos serviços consumidos na reserva. Reserva
// sem consumos totaliza zero.
func (s *Service) ReservationTotal(ctx context.Context, key domain.ReservationKey) (decimal.Decimal, error) {
	if err := validateKey(key); err != nil {
		return decimal.Zero, err
	}
	total, err := s.consumptions.ReservationTotal(ctx, key)
	if err != nil {
		s.logger.Error("Falha ao calcular total da reserva.", err)
		return decimal.Zero, err
	}
	return total, nil
}

// ConsumptionStats agrega quantidade e valor consumido por serviço.
func (s *Service) ConsumptionStats(ctx context.Context) ([]domain.ConsumptionStat, error) {
	return s.consumptions.Stats(ctx)
}

func validateKey(key domain.ReservationKey) error {
	switch {
	case key.Cedula <= 0:
		return apperror.NewValidationError("cedula: deve ser maior que 0")
	case key.RoomNumber <= 0:
		return apperror.NewValidationError("roomNumber: deve ser maior que 0")
	case key.ArrivalDate.IsZero():
		return apperror.NewValidationError("arrivalDate: campo obrigatório")
	}
	return nil
}

func validateReservation(res domain.Reservation) error {
	if err := validateKey(res.ReservationKey); err != nil {
		return err
	}
	return validateStay(res.ArrivalDate, res.DepartureDate, res.MaxCancelHours)
}

func validateStay(arrival, departure domain.Date, maxCancelHours int32) error {
	if departure.IsZero() {
		return apperror.NewValidationError("departureDate: campo obrigatório")
	}
	if !departure.After(arrival) {
		return apperror.NewValidationError(fmt.Sprintf("departureDate: %s deve ser posterior à chegada %s", departure, arrival))
	}
	if maxCancelHours < 0 {
		return apperror.NewValidationError("maxCancelHours: não pode ser negativo")
	}
	return nil
}

func keyFields(key domain.ReservationKey) map[string]interface{} {
	return map[string]interface{}{
		"cedula":  key.Cedula,
		"room":    key.RoomNumber,
		"arrival": key.ArrivalDate.String(),
	}
}
