package clientservice

import (
	"context"
	"strings"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
)

// ClientRepository define o contrato de clientes esperado da camada de Persistência.
type ClientRepository interface {
	Insert(ctx context.Context, c domain.Client) error
	InsertComplete(ctx context.Context, c domain.Client) error
	Delete(ctx context.Context, cedula int64) error
	FindByID(ctx context.Context, cedula int64) (domain.Client, error)
	FindAll(ctx context.Context) ([]domain.Client, error)
}

// EmailRepository define o contrato de e-mails dos clientes.
type EmailRepository interface {
	Insert(ctx context.Context, e domain.Email) error
	Delete(ctx context.Context, cedula int64, address string) error
	FindByClient(ctx context.Context, cedula int64) ([]string, error)
	Replace(ctx context.Context, cedula int64, addresses []string) error
	FindClientsByDomain(ctx context.Context, domainName string) ([]int64, error)
}

// Service implementa as regras de negócio de clientes.
type Service struct {
	clients   ClientRepository
	emails    EmailRepository
	validator *validation.Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(clients ClientRepository, emails EmailRepository, validator *validation.Validator, logger logger.Logger) *Service {
	return &Service{clients: clients, emails: emails, validator: validator, logger: logger}
}

// CreateClient grava Persona, Cliente e os e-mails numa única transação.
func (s *Service) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	s.logger.Debug("Iniciando cadastro completo de cliente.", map[string]interface{}{"cedula": c.Cedula, "emails": len(c.Emails)})

	c = normalize(c)
	if err := s.validator.Struct(c); err != nil {
		s.logger.Warn("Falha na validação do cliente.", map[string]interface{}{"cedula": c.Cedula, "error": err.Error()})
		return domain.Client{}, err
	}

	if err := s.clients.InsertComplete(ctx, c); err != nil {
		s.logger.Error("Falha ao cadastrar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Cliente cadastrado com sucesso.", map[string]interface{}{"cedula": c.Cedula})
	return c, nil
}

// RegisterClient promove a cliente uma pessoa que já existe em Persona.
func (s *Service) RegisterClient(ctx context.Context, cedula int64, emails []string) (domain.Client, error) {
	if err := validateCedula(cedula); err != nil {
		return domain.Client{}, err
	}
	c := normalize(domain.Client{Person: domain.Person{Cedula: cedula}, Emails: emails})
	if err := s.validateEmails(c.Emails); err != nil {
		return domain.Client{}, err
	}

	if err := s.clients.Insert(ctx, c); err != nil {
		s.logger.Error("Falha ao registrar cliente no repositório.", err)
		return domain.Client{}, err
	}

	s.logger.Info("Pessoa registrada como cliente.", map[string]interface{}{"cedula": cedula})
	return s.clients.FindByID(ctx, cedula)
}

// GetClient busca um cliente com seus e-mails.
func (s *Service) GetClient(ctx context.Context, cedula int64) (domain.Client, error) {
	if err := validateCedula(cedula); err != nil {
		return domain.Client{}, err
	}
	return s.clients.FindByID(ctx, cedula)
}

// ListClients lista todos os clientes com seus e-mails.
func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.FindAll(ctx)
}

// DeleteClient remove o papel de cliente. A linha de Persona permanece.
func (s *Service) DeleteClient(ctx context.Context, cedula int64) error {
	if err := validateCedula(cedula); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, cedula); err != nil {
		s.logger.Error("Falha ao deletar cliente no repositório.", err)
		return err
	}
	s.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"cedula": cedula})
	return nil
}

// ListEmails devolve os e-mails do cliente.
func (s *Service) ListEmails(ctx context.Context, cedula int64) ([]string, error) {
	if err := validateCedula(cedula); err != nil {
		return nil, err
	}
	return s.emails.FindByClient(ctx, cedula)
}

// AddEmail acrescenta um e-mail ao cliente.
func (s *Service) AddEmail(ctx context.Context, e domain.Email) error {
	if err := validateCedula(e.Cedula); err != nil {
		return err
	}
	e.Address = strings.TrimSpace(e.Address)
	if err := s.validateEmails([]string{e.Address}); err != nil {
		return err
	}
	return s.emails.Insert(ctx, e)
}

// RemoveEmail remove um e-mail do cliente.
func (s *Service) RemoveEmail(ctx context.Context, cedula int64, address string) error {
	if err := validateCedula(cedula); err != nil {
		return err
	}
	return s.emails.Delete(ctx, cedula, strings.TrimSpace(address))
}

// ReplaceEmails substitui todos os e-mails do cliente pela lista informada.
func (s *Service) ReplaceEmails(ctx context.Context, cedula int64, addresses []string) error {
	s.logger.Debug("Iniciando substituição de e-mails no serviço.", map[string]interface{}{"cedula": cedula, "count": len(addresses)})

	if err := validateCedula(cedula); err != nil {
		return err
	}
	addresses = trimAll(addresses)
	if err := s.validateEmails(addresses); err != nil {
		return err
	}

	if err := s.emails.Replace(ctx, cedula, addresses); err != nil {
		s.logger.Error("Falha ao substituir e-mails no repositório.", err)
		return err
	}
	return nil
}

// FindClientsByDomain devolve as cédulas dos clientes com e-mail no domínio.
func (s *Service) FindClientsByDomain(ctx context.Context, domainName string) ([]int64, error) {
	domainName = strings.TrimPrefix(strings.TrimSpace(domainName), "@")
	if err := s.validator.Var("domain", domainName, "required,fqdn"); err != nil {
		return nil, err
	}
	return s.emails.FindClientsByDomain(ctx, domainName)
}

func (s *Service) validateEmails(addresses []string) error {
	for _, a := range addresses {
		if err := s.validator.Var("email", a, "required,email,max=100"); err != nil {
			return err
		}
	}
	return nil
}

func normalize(c domain.Client) domain.Client {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.MiddleName = strings.TrimSpace(c.MiddleName)
	c.FirstSurname = strings.TrimSpace(c.FirstSurname)
	c.SecondSurname = strings.TrimSpace(c.SecondSurname)
	c.Emails = trimAll(c.Emails)
	return c
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func validateCedula(cedula int64) error {
	if cedula <= 0 {
		return apperror.NewValidationError("A cédula deve ser um número positivo.")
	}
	return nil
}
