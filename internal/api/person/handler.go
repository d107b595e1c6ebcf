package person

import (
	"context"
	"net/http"

	"gohotel/internal/api/response"
	"gohotel/internal/domain"
	"gohotel/internal/pkg/logger"
)

// PersonService define o contrato que o Handler espera da camada de Serviço.
type PersonService interface {
	CreatePerson(ctx context.Context, p domain.Person) (domain.Person, error)
	GetPerson(ctx context.Context, cedula int64) (domain.Person, error)
	ListPersons(ctx context.Context, surname string) ([]domain.Person, error)
	UpdatePerson(ctx context.Context, p domain.Person) (domain.Person, error)
	DeletePerson(ctx context.Context, cedula int64) error
	ListPhones(ctx context.Context, cedula int64) ([]int64, error)
	AddPhone(ctx context.Context, p domain.Phone) error
	RemovePhone(ctx context.Context, cedula, number int64) error
	ReplacePhones(ctx context.Context, cedula int64, numbers []int64) error
}

// Handler agrupa todos os métodos de Handler de pessoas e telefones.
type Handler struct {
	Service PersonService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PersonService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

type phoneRequest struct {
	Number int64 `json:"number"`
}

type phonesRequest struct {
	Numbers []int64 `json:"numbers"`
}

// Register associa as rotas de pessoas ao mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/persons", h.CreatePersonHandler)
	mux.HandleFunc("GET /v1/persons", h.ListPersonsHandler)
	mux.HandleFunc("GET /v1/persons/{cedula}", h.GetPersonHandler)
	mux.HandleFunc("PUT /v1/persons/{cedula}", h.UpdatePersonHandler)
	mux.HandleFunc("DELETE /v1/persons/{cedula}", h.DeletePersonHandler)

	mux.HandleFunc("GET /v1/persons/{cedula}/phones", h.ListPhonesHandler)
	mux.HandleFunc("POST /v1/persons/{cedula}/phones", h.AddPhoneHandler)
	mux.HandleFunc("PUT /v1/persons/{cedula}/phones", h.ReplacePhonesHandler)
	mux.HandleFunc("DELETE /v1/persons/{cedula}/phones/{number}", h.RemovePhoneHandler)
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Send(w, r, h.Logger, data, err, successStatus)
}

// CreatePersonHandler lida com a requisição POST /v1/persons.
// @Summary Cadastra uma pessoa
// @Tags persons
// @Accept json
// @Produce json
// @Param person body domain.Person true "Dados da pessoa"
// @Success 201 {object} domain.Person
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Cédula já cadastrada"
// @Router /persons [post]
func (h *Handler) CreatePersonHandler(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := response.Decode(r, &p); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreatePerson(r.Context(), p)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListPersonsHandler lida com GET /v1/persons. O parâmetro surname filtra por
// trecho de qualquer um dos sobrenomes.
func (h *Handler) ListPersonsHandler(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Service.ListPersons(r.Context(), r.URL.Query().Get("surname"))
	h.handleServiceResponse(w, r, persons, err, http.StatusOK)
}

// GetPersonHandler lida com GET /v1/persons/{cedula}.
// @Summary Obtém uma pessoa pela cédula
// @Tags persons
// @Produce json
// @Param cedula path int true "Cédula"
// @Success 200 {object} domain.Person
// @Failure 404 {object} domain.ErrorResponse "Pessoa não encontrada"
// @Router /persons/{cedula} [get]
func (h *Handler) GetPersonHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	p, err := h.Service.GetPerson(r.Context(), cedula)
	h.handleServiceResponse(w, r, p, err, http.StatusOK)
}

// UpdatePersonHandler lida com PUT /v1/persons/{cedula}. A cédula do caminho
// prevalece sobre a do corpo.
func (h *Handler) UpdatePersonHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var p domain.Person
	if err := response.Decode(r, &p); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	p.Cedula = cedula

	updated, err := h.Service.UpdatePerson(r.Context(), p)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

// DeletePersonHandler lida com DELETE /v1/persons/{cedula}.
func (h *Handler) DeletePersonHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DeletePerson(r.Context(), cedula)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) ListPhonesHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	phones, err := h.Service.ListPhones(r.Context(), cedula)
	h.handleServiceResponse(w, r, phones, err, http.StatusOK)
}

func (h *Handler) AddPhoneHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req phoneRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	phone := domain.Phone{Cedula: cedula, Number: req.Number}
	err = h.Service.AddPhone(r.Context(), phone)
	h.handleServiceResponse(w, r, phone, err, http.StatusCreated)
}

// ReplacePhonesHandler lida com PUT /v1/persons/{cedula}/phones: a lista
// enviada passa a ser o conjunto completo de telefones da pessoa.
func (h *Handler) ReplacePhonesHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req phonesRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.ReplacePhones(r.Context(), cedula, req.Numbers)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) RemovePhoneHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	number, err := response.PathInt64(r, "number")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.RemovePhone(r.Context(), cedula, number)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
