package staff

import (
	"context"
	"net/http"

	"gohotel/internal/api/response"
	"gohotel/internal/domain"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/service/staffservice"
)

// StaffService define o contrato que o Handler espera da camada de Serviço.
type StaffService interface {
	CreateArea(ctx context.Context, a domain.Area) (domain.Area, error)
	UpdateArea(ctx context.Context, a domain.Area) (domain.Area, error)
	DeleteArea(ctx context.Context, id int64) error
	GetArea(ctx context.Context, id int64) (domain.Area, error)
	ListAreas(ctx context.Context, name string) ([]domain.Area, error)

	HireEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error)
	AssignEmployee(ctx context.Context, cedula int64, position string, areaID int64) (domain.Employee, error)
	UpdateEmployee(ctx context.Context, cedula int64, position string, areaID int64) (domain.Employee, error)
	DismissEmployee(ctx context.Context, cedula int64) error
	GetEmployee(ctx context.Context, cedula int64) (domain.Employee, error)
	ListEmployees(ctx context.Context, f staffservice.EmployeeFilter) ([]domain.Employee, error)
}

// Handler agrupa os Handlers de áreas e funcionários.
type Handler struct {
	Service StaffService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StaffService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

type roleRequest struct {
	Position string `json:"position"`
	AreaID   int64  `json:"areaId"`
}

// Register associa as rotas de áreas e funcionários ao mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/areas", h.CreateAreaHandler)
	mux.HandleFunc("GET /v1/areas", h.ListAreasHandler)
	mux.HandleFunc("GET /v1/areas/{id}", h.GetAreaHandler)
	mux.HandleFunc("PUT /v1/areas/{id}", h.UpdateAreaHandler)
	mux.HandleFunc("DELETE /v1/areas/{id}", h.DeleteAreaHandler)

	mux.HandleFunc("POST /v1/employees", h.HireEmployeeHandler)
	mux.HandleFunc("GET /v1/employees", h.ListEmployeesHandler)
	mux.HandleFunc("POST /v1/employees/{cedula}", h.AssignEmployeeHandler)
	mux.HandleFunc("GET /v1/employees/{cedula}", h.GetEmployeeHandler)
	mux.HandleFunc("PUT /v1/employees/{cedula}", h.UpdateEmployeeHandler)
	mux.HandleFunc("DELETE /v1/employees/{cedula}", h.DismissEmployeeHandler)
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Send(w, r, h.Logger, data, err, successStatus)
}

// --- Áreas ---

// CreateAreaHandler lida com POST /v1/areas.
// @Summary Cria uma área
// @Tags areas
// @Accept json
// @Produce json
// @Param area body domain.Area true "Id e nome da área"
// @Success 201 {object} domain.Area
// @Failure 409 {object} domain.ErrorResponse "Id já utilizado"
// @Router /areas [post]
func (h *Handler) CreateAreaHandler(w http.ResponseWriter, r *http.Request) {
	var a domain.Area
	if err := response.Decode(r, &a); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateArea(r.Context(), a)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

func (h *Handler) ListAreasHandler(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Service.ListAreas(r.Context(), r.URL.Query().Get("name"))
	h.handleServiceResponse(w, r, areas, err, http.StatusOK)
}

func (h *Handler) GetAreaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	a, err := h.Service.GetArea(r.Context(), id)
	h.handleServiceResponse(w, r, a, err, http.StatusOK)
}

func (h *Handler) UpdateAreaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var a domain.Area
	if err := response.Decode(r, &a); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	a.ID = id

	updated, err := h.Service.UpdateArea(r.Context(), a)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

func (h *Handler) DeleteAreaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteArea(r.Context(), id)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// --- Funcionários ---

// HireEmployeeHandler lida com POST /v1/employees: grava pessoa e funcionário
// na mesma transação.
// @Summary Cadastra um funcionário completo
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body domain.Employee true "Pessoa, cargo e área"
// @Success 201 {object} domain.Employee
// @Failure 409 {object} domain.ErrorResponse "Cédula duplicada ou área inexistente"
// @Router /employees [post]
func (h *Handler) HireEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if err := response.Decode(r, &e); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.HireEmployee(r.Context(), e)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListEmployeesHandler lida com GET /v1/employees?position=&area=&details=true.
func (h *Handler) ListEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	areaID, err := response.QueryInt64(r, "area")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	f := staffservice.EmployeeFilter{
		Position:    r.URL.Query().Get("position"),
		AreaID:      areaID,
		WithDetails: response.QueryBool(r, "details"),
	}
	employees, err := h.Service.ListEmployees(r.Context(), f)
	h.handleServiceResponse(w, r, employees, err, http.StatusOK)
}

func (h *Handler) AssignEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req roleRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	e, err := h.Service.AssignEmployee(r.Context(), cedula, req.Position, req.AreaID)
	h.handleServiceResponse(w, r, e, err, http.StatusCreated)
}

func (h *Handler) GetEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	e, err := h.Service.GetEmployee(r.Context(), cedula)
	h.handleServiceResponse(w, r, e, err, http.StatusOK)
}

// UpdateEmployeeHandler lida com PUT /v1/employees/{cedula}. Só cargo e área
// mudam; dados pessoais são alterados em /v1/persons.
func (h *Handler) UpdateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req roleRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	e, err := h.Service.UpdateEmployee(r.Context(), cedula, req.Position, req.AreaID)
	h.handleServiceResponse(w, r, e, err, http.StatusOK)
}

func (h *Handler) DismissEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.PathInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DismissEmployee(r.Context(), cedula)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
