package personservice

import (
	"context"
	"strings"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
)

// PersonRepository define o contrato que o Serviço de Pessoas espera da camada de Persistência.
type PersonRepository interface {
	Insert(ctx context.Context, p domain.Person) error
	Update(ctx context.Context, p domain.Person) error
	Delete(ctx context.Context, cedula int64) error
	FindByID(ctx context.Context, cedula int64) (domain.Person, error)
	FindAll(ctx context.Context) ([]domain.Person, error)
	FindBySurname(ctx context.Context, surname string) ([]domain.Person, error)
}

// PhoneRepository define o contrato de telefones usado pelo serviço.
type PhoneRepository interface {
	Insert(ctx context.Context, p domain.Phone) error
	Delete(ctx context.Context, cedula, number int64) error
	FindByPerson(ctx context.Context, cedula int64) ([]int64, error)
	Replace(ctx context.Context, cedula int64, numbers []int64) error
}

// Service implementa as regras de negócio de pessoas e seus telefones.
type Service struct {
	persons   PersonRepository
	phones    PhoneRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Pessoas.
func NewService(persons PersonRepository, phones PhoneRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{persons: persons, phones: phones, validator: validator, logger: logger}
}

// CreatePerson valida e grava uma nova pessoa.
func (s *Service) CreatePerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	s.logger.Debug("Iniciando criação de pessoa no serviço.", map[string]interface{}{"cedula": p.Cedula})

	p = normalize(p)
	if err := s.validator.Struct(p); err != nil {
		s.logger.Warn("Falha na validação da pessoa.", map[string]interface{}{"cedula": p.Cedula, "error": err.Error()})
		return domain.Person{}, err
	}

	if err := s.persons.Insert(ctx, p); err != nil {
		s.logger.Error("Falha ao criar pessoa no repositório.", err)
		return domain.Person{}, err
	}

	s.logger.Info("Pessoa criada com sucesso.", map[string]interface{}{"cedula": p.Cedula})
	return p, nil
}

// GetPerson busca uma pessoa pela cédula.
func (s *Service) GetPerson(ctx context.Context, cedula int64) (domain.Person, error) {
	if err := validateCedula(cedula); err != nil {
		return domain.Person{}, err
	}
	return s.persons.FindByID(ctx, cedula)
}

// ListPersons lista todas as pessoas ou, com surname preenchido, as que têm
// esse trecho em algum sobrenome.
func (s *Service) ListPersons(ctx context.Context, surname string) ([]domain.Person, error) {
	surname = strings.TrimSpace(surname)
	if surname == "" {
		return s.persons.FindAll(ctx)
	}
	return s.persons.FindBySurname(ctx, surname)
}

// UpdatePerson altera os dados de uma pessoa existente. A cédula identifica a
// linha e nunca é alterada.
func (s *Service) UpdatePerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	s.logger.Debug("Iniciando atualização de pessoa no serviço.", map[string]interface{}{"cedula": p.Cedula})

	p = normalize(p)
	if err := s.validator.Struct(p); err != nil {
		s.logger.Warn("Falha na validação da pessoa para atualização.", map[string]interface{}{"cedula": p.Cedula, "error": err.Error()})
		return domain.Person{}, err
	}

	if err := s.persons.Update(ctx, p); err != nil {
		s.logger.Error("Falha ao atualizar pessoa no repositório.", err)
		return domain.Person{}, err
	}

	s.logger.Info("Pessoa atualizada com sucesso.", map[string]interface{}{"cedula": p.Cedula})
	return p, nil
}

// DeletePerson remove a pessoa.
func (s *Service) DeletePerson(ctx context.Context, cedula int64) error {
	if err := validateCedula(cedula); err != nil {
		return err
	}
	if err := s.persons.Delete(ctx, cedula); err != nil {
		s.logger.Error("Falha ao deletar pessoa no repositório.", err)
		return err
	}
	s.logger.Info("Pessoa deletada com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// ListPhones devolve os telefones da pessoa.
func (s *Service) ListPhones(ctx context.Context, cedula int64) ([]int64, error) {
	if err := validateCedula(cedula); err != nil {
		return nil, err
	}
	return s.phones.FindByPerson(ctx, cedula)
}

// AddPhone acrescenta um telefone à pessoa.
func (s *Service) AddPhone(ctx context.Context, p domain.Phone) error {
	if err := validateCedula(p.Cedula); err != nil {
		return err
	}
	if err := validatePhone(p.Number); err != nil {
		return err
	}
	return s.phones.Insert(ctx, p)
}

// RemovePhone remove um telefone da pessoa.
func (s *Service) RemovePhone(ctx context.Context, cedula, number int64) error {
	if err := validateCedula(cedula); err != nil {
		return err
	}
	return s.phones.Delete(ctx, cedula, number)
}

// ReplacePhones substitui todos os telefones da pessoa pela lista informada.
func (s *Service) ReplacePhones(ctx context.Context, cedula int64, numbers []int64) error {
	s.logger.Debug("Iniciando substituição de telefones no serviço.", map[string]interface{}{"cedula": cedula, "count": len(numbers)})

	if err := validateCedula(cedula); err != nil {
		return err
	}
	for _, n := range numbers {
		if err := validatePhone(n); err != nil {
			s.logger.Warn("Telefone inválido na lista.", map[string]interface{}{"cedula": cedula, "number": n})
			return err
		}
	}

	if err := s.phones.Replace(ctx, cedula, numbers); err != nil {
		s.logger.Error("Falha ao substituir telefones no repositório.", err)
		return err
	}
	return nil
}

func normalize(p domain.Person) domain.Person {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.MiddleName = strings.TrimSpace(p.MiddleName)
	p.FirstSurname = strings.TrimSpace(p.FirstSurname)
	p.SecondSurname = strings.TrimSpace(p.SecondSurname)
	return p
}

func validateCedula(cedula int64) error {
	if cedula <= 0 {
		return apperror.NewValidationError("A cédula deve ser um número positivo.")
	}
	return nil
}

func validatePhone(number int64) error {
	if number <= 0 {
		return apperror.NewValidationError("O telefone deve ser um número positivo.")
	}
	return nil
}
