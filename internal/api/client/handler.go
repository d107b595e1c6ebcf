package client

import (
	"context"
	"net/http"

	"gohotel/internal/api/response"
	"gohotel/internal/domain"
	"gohotel/internal/pkg/logger"
)

// ClientService define o contrato que o Handler espera da camada de Serviço.
type ClientService interface {
	CreateClient(ctx context.Context, c domain.Client) (domain.Client, error)
	RegisterClient(ctx context.Context, cedula int64, emails []string) (domain.Client, error)
	GetClient(ctx context.Context, cedula int64) (domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	DeleteClient(ctx context.Context, cedula int64) error
	ListEmails(ctx context.Context, cedula int64) ([]string, error)
	AddEmail(ctx context.Context, e domain.Email) error
	RemoveEmail(ctx context.Context, cedula int64, address string) error
	ReplaceEmails(ctx context.Context, cedula int64, addresses []string) error
	FindClientsByDomain(ctx context.Context, domainName string) ([]int64, error)
}

// Handler agrupa todos os métodos de Handler de clientes e e-mails.
type Handler struct {
	Service ClientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ClientService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

type emailRequest struct {
	Address string `json:"address"`
}

type emailsRequest struct {
	Emails []string `json:"emails"`
}

type domainResponse struct {
	Domain  string  `json:"domain"`
	Cedulas []int64 `json:"cedulas"`
}

// Register associa as rotas de clientes ao mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/clients", h.CreateClientHandler)
	mux.HandleFunc("GET /v1/clients", h.ListClientsHandler)
	mux.HandleFunc("POST /v1/clients/{cedula}", h.RegisterClientHandler)
	mux.HandleFunc("GET /v1/clients/{cedula}", h.GetClientHandler)
	mux.HandleFunc("DELETE /v1/clients/{cedula}", h.DeleteClientHandler)

	mux.HandleFunc("GET /v1/clients/{cedula}/emails", h.ListEmailsHandler)
	mux.HandleFunc("POST /v1/clients/{cedula}/emails", h.AddEmailHandler)
	mux.HandleFunc("PUT /v1/clients/{cedula}/emails", h.ReplaceEmailsHandler)
	mux.HandleFunc("DELETE /v1/clients/{cedula}/emails/{address}", h.RemoveEmailHandler)

	mux.HandleFunc("GET /v1/email-domains/{domain}/clients", h.ClientsByDomainHandler)
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Send(w, r, h.Logger, data, err, successStatus)
}

// CreateClientHandler lida com a requisição POST /v1/clients.
// Pessoa, cliente e e-mails são gravados juntos; se algo falhar nada fica salvo.
// @Summary Cadastra um cliente completo
// @Tags clients
// @Accept json
// @Produce json
// @Param client body domain.Client true "Pessoa e e-mails do cliente"
// @Success 201 {object} domain.Client
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Cédula ou e-mail duplicado"
// @Router /clients [post]
func (h *Handler) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Client
	if err := response.Decode(r, &c); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateClient(r.Context(), c)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// RegisterClientHandler lida com POST /v1/clients/{cedula}: torna cliente uma
// pessoa já cadastrada.
func (h *Handler) RegisterClientHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req emailsRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	c, err := h.Service.RegisterClient(r.Context(), cedula, req.Emails)
	h.handleServiceResponse(w, r, c, err, http.StatusCreated)
}

func (h *Handler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients(r.Context())
	h.handleServiceResponse(w, r, clients, err, http.StatusOK)
}

// GetClientHandler lida com GET /v1/clients/{cedula}.
// @Summary Obtém um cliente com seus e-mails
// @Tags clients
// @Produce json
// @Param cedula path int true "Cédula"
// @Success 200 {object} domain.Client
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Router /clients/{cedula} [get]
func (h *Handler) GetClientHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	c, err := h.Service.GetClient(r.Context(), cedula)
	h.handleServiceResponse(w, r, c, err, http.StatusOK)
}

func (h *Handler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteClient(r.Context(), cedula)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) ListEmailsHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	emails, err := h.Service.ListEmails(r.Context(), cedula)
	h.handleServiceResponse(w, r, emails, err, http.StatusOK)
}

func (h *Handler) AddEmailHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req emailRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	e := domain.Email{Cedula: cedula, Address: req.Address}
	err = h.Service.AddEmail(r.Context(), e)
	h.handleServiceResponse(w, r, e, err, http.StatusCreated)
}

// ReplaceEmailsHandler lida com PUT /v1/clients/{cedula}/emails. Lista vazia
// remove todos os e-mails.
func (h *Handler) ReplaceEmailsHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req emailsRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.ReplaceEmails(r.Context(), cedula, req.Emails)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) RemoveEmailHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.RemoveEmail(r.Context(), cedula, r.PathValue("address"))
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// ClientsByDomainHandler lida com GET /v1/email-domains/{domain}/clients.
func (h *Handler) ClientsByDomainHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("domain")

	cedulas, err := h.Service.FindClientsByDomain(r.Context(), name)
	h.handleServiceResponse(w, r, domainResponse{Domain: name, Cedulas: cedulas}, err, http.StatusOK)
}
