package staffservice

import (
	"context"
	"strings"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
)

// EmployeeRepository define o contrato de funcionários esperado da camada de Persistência.
type EmployeeRepository interface {
	Insert(ctx context.Context, e domain.Employee) error
	InsertComplete(ctx context.Context, e domain.Employee) error
	Update(ctx context.Context, e domain.Employee) error
	Delete(ctx context.Context, cedula int64) error
	FindByID(ctx context.Context, cedula int64) (domain.Employee, error)
	FindAll(ctx context.Context) ([]domain.Employee, error)
	FindByPosition(ctx context.Context, position string) ([]domain.Employee, error)
	FindByArea(ctx context.Context, areaID int64) ([]domain.Employee, error)
	FindAllWithDetails(ctx context.Context) ([]domain.Employee, error)
}

// AreaRepository define o contrato de áreas.
type AreaRepository interface {
	Insert(ctx context.Context, a domain.Area) error
	Update(ctx context.Context, a domain.Area) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Area, error)
	FindAll(ctx context.Context) ([]domain.Area, error)
	FindByName(ctx context.Context, name string) ([]domain.Area, error)
}

// EmployeeFilter seleciona a consulta usada por ListEmployees. Os campos são
// excludentes; Position tem prioridade sobre AreaID.
type EmployeeFilter struct {
	Position    string
	AreaID      int64
	WithDetails bool
}

// Service implementa as regras de negócio do quadro de funcionários.
type Service struct {
	employees EmployeeRepository
	areas     AreaRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Funcionários.
func NewService(employees EmployeeRepository, areas AreaRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{employees: employees, areas: areas, validator: validator, logger: logger}
}

// --- Áreas ---

// CreateArea valida e grava uma área. O id é informado pelo chamador.
func (s *Service) CreateArea(ctx context.Context, a domain.Area) (domain.Area, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := s.validator.Struct(a); err != nil {
		s.logger.Warn("Falha na validação da área.", map[string]interface{}{"id": a.ID, "error": err.Error()})
		return domain.Area{}, err
	}
	if err := s.areas.Insert(ctx, a); err != nil {
		s.logger.Error("Falha ao criar área no repositório.", err)
		return domain.Area{}, err
	}
	s.logger.Info("Área criada com sucesso.", map[string]interface{}{"id": a.ID, "name": a.Name})
	return a, nil
}

// UpdateArea renomeia uma área existente.
func (s *Service) UpdateArea(ctx context.Context, a domain.Area) (domain.Area, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := s.validator.Struct(a); err != nil {
		return domain.Area{}, err
	}
	if err := s.areas.Update(ctx, a); err != nil {
		s.logger.Error("Falha ao atualizar área no repositório.", err)
		return domain.Area{}, err
	}
	return a, nil
}

// DeleteArea remove uma área. Falha com conflito se ainda houver funcionários nela.
func (s *Service) DeleteArea(ctx context.Context, id int64) error {
	if err := validateID(id, "área"); err != nil {
		return err
	}
	if err := s.areas.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar área no repositório.", err)
		return err
	}
	s.logger.Info("Área deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// GetArea busca uma área pelo id.
func (s *Service) GetArea(ctx context.Context, id int64) (domain.Area, error) {
	if err := validateID(id, "área"); err != nil {
		return domain.Area{}, err
	}
	return s.areas.FindByID(ctx, id)
}

// ListAreas lista todas as áreas ou as que contêm name no nome.
func (s *Service) ListAreas(ctx context.Context, name string) ([]domain.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.areas.FindAll(ctx)
	}
	return s.areas.FindByName(ctx, name)
}

// --- Funcionários ---

// HireEmployee grava Persona e Empleado numa única transação.
func (s *Service) HireEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	s.logger.Debug("Iniciando cadastro completo de funcionário.", map[string]interface{}{"cedula": e.Cedula, "area": e.AreaID})

	e = normalize(e)
	if err := s.validator.Struct(e); err != nil {
		s.logger.Warn("Falha na validação do funcionário.", map[string]interface{}{"cedula": e.Cedula, "error": err.Error()})
		return domain.Employee{}, err
	}

	if err := s.employees.InsertComplete(ctx, e); err != nil {
		s.logger.Error("Falha ao cadastrar funcionário no repositório.", err)
		return domain.Employee{}, err
	}

	s.logger.Info("Funcionário cadastrado com sucesso.", map[string]interface{}{"cedula": e.Cedula, "position": e.Position})
	return e, nil
}

// AssignEmployee dá o papel de funcionário a uma pessoa que já existe.
func (s *Service) AssignEmployee(ctx context.Context, cedula int64, position string, areaID int64) (domain.Employee, error) {
	if err := validateID(cedula, "cédula"); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{Person: domain.Person{Cedula: cedula}, Position: strings.TrimSpace(position), AreaID: areaID}
	if err := s.validateRole(e); err != nil {
		return domain.Employee{}, err
	}

	if err := s.employees.Insert(ctx, e); err != nil {
		s.logger.Error("Falha ao registrar funcionário no repositório.", err)
		return domain.Employee{}, err
	}
	return s.employees.FindByID(ctx, cedula)
}

// UpdateEmployee altera cargo e área do funcionário.
func (s *Service) UpdateEmployee(ctx context.Context, cedula int64, position string, areaID int64) (domain.Employee, error) {
	if err := validateID(cedula, "cédula"); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{Person: domain.Person{Cedula: cedula}, Position: strings.TrimSpace(position), AreaID: areaID}
	if err := s.validateRole(e); err != nil {
		return domain.Employee{}, err
	}

	if err := s.employees.Update(ctx, e); err != nil {
		s.logger.Error("Falha ao atualizar funcionário no repositório.", err)
		return domain.Employee{}, err
	}
	s.logger.Info("Funcionário atualizado.", map[string]interface{}{"cedula": cedula, "position": e.Position, "area": areaID})
	return s.employees.FindByID(ctx, cedula)
}

// DismissEmployee remove o papel de funcionário. A pessoa permanece.
func (s *Service) DismissEmployee(ctx context.Context, cedula int64) error {
	if err := validateID(cedula, "cédula"); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, cedula); err != nil {
		s.logger.Error("Falha ao deletar funcionário no repositório.", err)
		return err
	}
	return nil
}

// GetEmployee busca um funcionário pela cédula.
func (s *Service) GetEmployee(ctx context.Context, cedula int64) (domain.Employee, error) {
	if err := validateID(cedula, "cédula"); err != nil {
		return domain.Employee{}, err
	}
	return s.employees.FindByID(ctx, cedula)
}

// ListEmployees escolhe a consulta conforme o filtro.
func (s *Service) ListEmployees(ctx context.Context, f EmployeeFilter) ([]domain.Employee, error) {
	position := strings.TrimSpace(f.Position)
	switch {
	case position != "":
		return s.employees.FindByPosition(ctx, position)
	case f.AreaID != 0:
		if err := validateID(f.AreaID, "área"); err != nil {
			return nil, err
		}
		return s.employees.FindByArea(ctx, f.AreaID)
	case f.WithDetails:
		return s.employees.FindAllWithDetails(ctx)
	default:
		return s.employees.FindAll(ctx)
	}
}

func (s *Service) validateRole(e domain.Employee) error {
	if err := s.validator.Var("position", e.Position, "required,max=50"); err != nil {
		return err
	}
	return s.validator.Var("areaId", e.AreaID, "gt=0")
}

func normalize(e domain.Employee) domain.Employee {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.MiddleName = strings.TrimSpace(e.MiddleName)
	e.FirstSurname = strings.TrimSpace(e.FirstSurname)
	e.SecondSurname = strings.TrimSpace(e.SecondSurname)
	e.Position = strings.TrimSpace(e.Position)
	return e
}

func validateID(id int64, name string) error {
	if id <= 0 {
		return apperror.NewValidationError("O identificador de " + name + " deve ser um número positivo.")
	}
	return nil
}
