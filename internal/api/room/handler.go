package room

import (
	"context"
	"net/http"

	"gohotel/internal/api/response"
	"gohotel/internal/domain"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/service/roomservice"
)

// RoomService define o contrato que o Handler espera da camada de Serviço.
type RoomService interface {
	CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	ChangeStatus(ctx context.Context, number int32, status string) error
	DeleteRoom(ctx context.Context, number int32) error
	GetRoom(ctx context.Context, number int32) (domain.Room, error)
	ListRooms(ctx context.Context, f roomservice.RoomFilter) ([]domain.Room, error)

	CreateService(ctx context.Context, svc domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, id int64) error
	GetService(ctx context.Context, id int64) (domain.Service, error)
	ListServices(ctx context.Context, name string) ([]domain.Service, error)
}

// Handler agrupa os Handlers de quartos e do catálogo de serviços.
type Handler struct {
	Service RoomService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc RoomService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// Register associa as rotas de quartos e serviços ao mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/rooms", h.CreateRoomHandler)
	mux.HandleFunc("GET /v1/rooms", h.ListRoomsHandler)
	mux.HandleFunc("GET /v1/rooms/{number}", h.GetRoomHandler)
	mux.HandleFunc("PUT /v1/rooms/{number}", h.UpdateRoomHandler)
	mux.HandleFunc("PATCH /v1/rooms/{number}/status", h.ChangeStatusHandler)
	mux.HandleFunc("DELETE /v1/rooms/{number}", h.DeleteRoomHandler)

	mux.HandleFunc("POST /v1/services", h.CreateServiceHandler)
	mux.HandleFunc("GET /v1/services", h.ListServicesHandler)
	mux.HandleFunc("GET /v1/services/{id}", h.GetServiceHandler)
	mux.HandleFunc("PUT /v1/services/{id}", h.UpdateServiceHandler)
	mux.HandleFunc("DELETE /v1/services/{id}", h.DeleteServiceHandler)
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Send(w, r, h.Logger, data, err, successStatus)
}

// --- Quartos ---

// CreateRoomHandler lida com POST /v1/rooms.
// @Summary Cadastra um quarto
// @Tags rooms
// @Accept json
// @Produce json
// @Param room body domain.Room true "Número, categoria, estado e tarifa"
// @Success 201 {object} domain.Room
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou tarifa negativa"
// @Failure 409 {object} domain.ErrorResponse "Número já cadastrado"
// @Router /rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var room domain.Room
	if err := response.Decode(r, &room); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateRoom(r.Context(), room)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListRoomsHandler lida com GET /v1/rooms?category=&available=true.
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	f := roomservice.RoomFilter{
		Category:      r.URL.Query().Get("category"),
		AvailableOnly: response.QueryBool(r, "available"),
	}
	rooms, err := h.Service.ListRooms(r.Context(), f)
	h.handleServiceResponse(w, r, rooms, err, http.StatusOK)
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	number, err := response.PathInt32(r, "number")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	room, err := h.Service.GetRoom(r.Context(), number)
	h.handleServiceResponse(w, r, room, err, http.StatusOK)
}

func (h *Handler) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	number, err := response.PathInt32(r, "number")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var room domain.Room
	if err := response.Decode(r, &room); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	room.Number = number

	updated, err := h.Service.UpdateRoom(r.Context(), room)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

// ChangeStatusHandler lida com PATCH /v1/rooms/{number}/status.
func (h *Handler) ChangeStatusHandler(w http.ResponseWriter, r *http.Request) {
	number, err := response.PathInt32(r, "number")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.ChangeStatus(r.Context(), number, req.Status)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	number, err := response.PathInt32(r, "number")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteRoom(r.Context(), number)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// --- Catálogo de serviços ---

// CreateServiceHandler lida com POST /v1/services.
// @Summary Cadastra um serviço adicional
// @Tags services
// @Accept json
// @Produce json
// @Param service body domain.Service true "Id, nome, descrição e custo"
// @Success 201 {object} domain.Service
// @Failure 400 {object} domain.ErrorResponse "Custo negativo"
// @Router /services [post]
func (h *Handler) CreateServiceHandler(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := response.Decode(r, &svc); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateService(r.Context(), svc)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

func (h *Handler) ListServicesHandler(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListServices(r.Context(), r.URL.Query().Get("name"))
	h.handleServiceResponse(w, r, services, err, http.StatusOK)
}

func (h *Handler) GetServiceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	svc, err := h.Service.GetService(r.Context(), id)
	h.handleServiceResponse(w, r, svc, err, http.StatusOK)
}

func (h *Handler) UpdateServiceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var svc domain.Service
	if err := response.Decode(r, &svc); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	svc.ID = id

	updated, err := h.Service.UpdateService(r.Context(), svc)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

func (h *Handler) DeleteServiceHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathInt64(r, "id")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteService(r.Context(), id)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
