package roomservice

import (
	"context"
	"strings"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
)

// RoomRepository define o contrato de quartos esperado da camada de Persistência.
type RoomRepository interface {
	Insert(ctx context.Context, room domain.Room) error
	Update(ctx context.Context, room domain.Room) error
	UpdateStatus(ctx context.Context, number int32, status string) error
	Delete(ctx context.Context, number int32) error
	FindByID(ctx context.Context, number int32) (domain.Room, error)
	FindAll(ctx context.Context) ([]domain.Room, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Room, error)
	FindAvailable(ctx context.Context) ([]domain.Room, error)
}

// ServiceRepository define o contrato do catálogo de serviços adicionais.
type ServiceRepository interface {
	Insert(ctx context.Context, s domain.Service) error
	Update(ctx context.Context, s domain.Service) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Service, error)
	FindAll(ctx context.Context) ([]domain.Service, error)
	FindByName(ctx context.Context, name string) ([]domain.Service, error)
}

// RoomFilter seleciona a consulta usada por ListRooms.
type RoomFilter struct {
	Category      string
	AvailableOnly bool
}

// Service implementa as regras de negócio de quartos e do catálogo.
type Service struct {
	rooms     RoomRepository
	catalog   ServiceRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Quartos.
func NewService(rooms RoomRepository, catalog ServiceRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{rooms: rooms, catalog: catalog, validator: validator, logger: logger}
}

// --- Quartos ---

// CreateRoom grava um quarto. Sem estado informado, o quarto nasce disponível.
func (s *Service) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	s.logger.Debug("Iniciando criação de quarto no serviço.", map[string]interface{}{"number": room.Number})

	room.Category = strings.TrimSpace(room.Category)
	room.Status = strings.TrimSpace(room.Status)
	if room.Status == "" {
		room.Status = domain.RoomStatusAvailable
	}
	if err := s.validateRoom(room); err != nil {
		s.logger.Warn("Falha na validação do quarto.", map[string]interface{}{"number": room.Number, "error": err.Error()})
		return domain.Room{}, err
	}

	if err := s.rooms.Insert(ctx, room); err != nil {
		s.logger.Error("Falha ao criar quarto no repositório.", err)
		return domain.Room{}, err
	}

	s.logger.Info("Quarto criado com sucesso.", map[string]interface{}{"number": room.Number, "category": room.Category})
	return room, nil
}

// UpdateRoom altera categoria, estado e tarifa do quarto.
func (s *Service) UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	room.Category = strings.TrimSpace(room.Category)
	room.Status = strings.TrimSpace(room.Status)
	if err := s.validateRoom(room); err != nil {
		return domain.Room{}, err
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		s.logger.Error("Falha ao atualizar quarto no repositório.", err)
		return domain.Room{}, err
	}
	return room, nil
}

// ChangeStatus muda só o estado do quarto. Qualquer transição é aceita.
func (s *Service) ChangeStatus(ctx context.Context, number int32, status string) error {
	if err := validateNumber(number); err != nil {
		return err
	}
	status = strings.TrimSpace(status)
	if err := s.validator.Var("status", status, "required,max=30"); err != nil {
		return err
	}

	if err := s.rooms.UpdateStatus(ctx, number, status); err != nil {
		s.logger.Error("Falha ao atualizar estado do quarto.", err)
		return err
	}
	s.logger.Info("Estado do quarto alterado.", map[string]interface{}{"number": number, "status": status})
	return nil
}

// DeleteRoom remove um quarto sem reservas.
func (s *Service) DeleteRoom(ctx context.Context, number int32) error {
	if err := validateNumber(number); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, number); err != nil {
		s.logger.Error("Falha ao deletar quarto no repositório.", err)
		return err
	}
	return nil
}

// GetRoom busca um quarto pelo número.
func (s *Service) GetRoom(ctx context.Context, number int32) (domain.Room, error) {
	if err := validateNumber(number); err != nil {
		return domain.Room{}, err
	}
	return s.rooms.FindByID(ctx, number)
}

// ListRooms lista os quartos conforme o filtro. AvailableOnly tem prioridade.
func (s *Service) ListRooms(ctx context.Context, f RoomFilter) ([]domain.Room, error) {
	category := strings.TrimSpace(f.Category)
	switch {
	case f.AvailableOnly:
		return s.rooms.FindAvailable(ctx)
	case category != "":
		return s.rooms.FindByCategory(ctx, category)
	default:
		return s.rooms.FindAll(ctx)
	}
}

func (s *Service) validateRoom(room domain.Room) error {
	if err := s.validator.Struct(room); err != nil {
		return err
	}
	if room.NightlyRate.IsNegative() {
		return apperror.NewValidationError("nightlyRate: não pode ser negativa")
	}
	return nil
}

// --- Catálogo de serviços ---

// CreateService grava um item do catálogo. O custo não pode ser negativo.
func (s *Service) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	svc = normalizeService(svc)
	if err := s.validateService(svc); err != nil {
		s.logger.Warn("Falha na validação do serviço.", map[string]interface{}{"id": svc.ID, "error": err.Error()})
		return domain.Service{}, err
	}

	if err := s.catalog.Insert(ctx, svc); err != nil {
		s.logger.Error("Falha ao criar serviço no repositório.", err)
		return domain.Service{}, err
	}

	s.logger.Info("Serviço criado com sucesso.", map[string]interface{}{"id": svc.ID, "cost": svc.Cost.String()})
	return svc, nil
}

// UpdateService altera nome, descrição e custo.
func (s *Service) UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	svc = normalizeService(svc)
	if err := s.validateService(svc); err != nil {
		return domain.Service{}, err
	}
	if err := s.catalog.Update(ctx, svc); err != nil {
		s.logger.Error("Falha ao atualizar serviço no repositório.", err)
		return domain.Service{}, err
	}
	return svc, nil
}

// DeleteService remove um serviço que não tenha consumos.
func (s *Service) DeleteService(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O id do serviço deve ser um número positivo.")
	}
	if err := s.catalog.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar serviço no repositório.", err)
		return err
	}
	return nil
}

// GetService busca um serviço pelo id.
func (s *Service) GetService(ctx context.Context, id int64) (domain.Service, error) {
	if id <= 0 {
		return domain.Service{}, apperror.NewValidationError("O id do serviço deve ser um número positivo.")
	}
	return s.catalog.FindByID(ctx, id)
}

// ListServices lista o catálogo ou os serviços cujo nome contém name.
func (s *Service) ListServices(ctx context.Context, name string) ([]domain.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.catalog.FindAll(ctx)
	}
	return s.catalog.FindByName(ctx, name)
}

func (s *Service) validateService(svc domain.Service) error {
	if err := s.validator.Struct(svc); err != nil {
		return err
	}
	if svc.Cost.IsNegative() {
		return apperror.NewValidationError("cost: não pode ser negativo")
	}
	return nil
}

func normalizeService(svc domain.Service) domain.Service {
	svc.Name = strings.TrimSpace(svc.Name)
	svc.Description = strings.TrimSpace(svc.Description)
	return svc
}

func validateNumber(number int32) error {
	if number <= 0 {
		return apperror.NewValidationError("O número do quarto deve ser positivo.")
	}
	return nil
}
