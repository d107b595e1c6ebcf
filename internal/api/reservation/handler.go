package reservation

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"gohotel/internal/api/response"
	"gohotel/internal/domain"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/service/reservationservice"
)

// ReservationService define o contrato que o Handler espera da camada de Serviço.
type ReservationService interface {
	CreateReservation(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	UpdateReservation(ctx context.Context, oldKey domain.ReservationKey, res domain.Reservation) (domain.Reservation, error)
	Reschedule(ctx context.Context, key domain.ReservationKey, departure domain.Date, maxCancelHours int32) error
	CancelReservation(ctx context.Context, key domain.ReservationKey) error
	GetReservation(ctx context.Context, key domain.ReservationKey) (domain.Reservation, error)
	ListReservations(ctx context.Context, f reservationservice.ReservationFilter) ([]domain.Reservation, error)

	RegisterConsumption(ctx context.Context, c domain.Consumption) (domain.Consumption, error)
	RemoveConsumption(ctx context.Context, key domain.ConsumptionKey) error
	GetConsumption(ctx context.Context, key domain.ConsumptionKey) (domain.Consumption, error)
	ListConsumptions(ctx context.Context, f reservationservice.ConsumptionFilter) ([]domain.Consumption, error)
	ReservationTotal(ctx context.Context, key domain.ReservationKey) (decimal.Decimal, error)
	ConsumptionStats(ctx context.Context) ([]domain.ConsumptionStat, error)
}

// Handler agrupa os Handlers de reservas e consumos adicionais.
type Handler struct {
	Service ReservationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ReservationService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

type datesRequest struct {
	DepartureDate  domain.Date `json:"departureDate"`
	MaxCancelHours int32       `json:"maxCancelHours"`
}

type totalResponse struct {
	domain.ReservationKey
	Total decimal.Decimal `json:"total"`
}

const reservationPath = "/v1/reservations/{cedula}/{room}/{arrival}"

// Register associa as rotas de reservas e consumos ao mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/reservations", h.CreateReservationHandler)
	mux.HandleFunc("GET /v1/reservations", h.ListReservationsHandler)
	mux.HandleFunc("GET "+reservationPath, h.GetReservationHandler)
	mux.HandleFunc("PUT "+reservationPath, h.UpdateReservationHandler)
	mux.HandleFunc("PATCH "+reservationPath+"/dates", h.RescheduleHandler)
	mux.HandleFunc("DELETE "+reservationPath, h.CancelReservationHandler)
	mux.HandleFunc("GET "+reservationPath+"/total", h.TotalHandler)
	mux.HandleFunc("GET "+reservationPath+"/consumptions", h.ReservationConsumptionsHandler)

	mux.HandleFunc("POST /v1/consumptions", h.RegisterConsumptionHandler)
	mux.HandleFunc("GET /v1/consumptions", h.ListConsumptionsHandler)
	mux.HandleFunc("GET /v1/consumptions/stats", h.StatsHandler)
	mux.HandleFunc("GET /v1/consumptions/{cedula}/{room}/{arrival}/{service}/{date}/{time}", h.GetConsumptionHandler)
	mux.HandleFunc("DELETE /v1/consumptions/{cedula}/{room}/{arrival}/{service}/{date}/{time}", h.RemoveConsumptionHandler)
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	response.Send(w, r, h.Logger, data, err, successStatus)
}

// --- Reservas ---

// CreateReservationHandler lida com POST /v1/reservations.
// @Summary Cria uma reserva
// @Description A chave é (cedula, roomNumber, arrivalDate); a saída deve ser posterior à chegada.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body domain.Reservation true "Dados da reserva"
// @Success 201 {object} domain.Reservation
// @Failure 400 {object} domain.ErrorResponse "Datas inválidas"
// @Failure 409 {object} domain.ErrorResponse "Reserva duplicada, cliente ou quarto inexistente"
// @Router /reservations [post]
func (h *Handler) CreateReservationHandler(w http.ResponseWriter, r *http.Request) {
	var res domain.Reservation
	if err := response.Decode(r, &res); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateReservation(r.Context(), res)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListReservationsHandler lida com GET /v1/reservations. Filtros aceitos:
// cedula, room, activeOn (AAAA-MM-DD), active=true e details=true.
func (h *Handler) ListReservationsHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.QueryInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	room, err := response.QueryInt64(r, "room")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	activeOn, err := response.QueryDate(r, "activeOn")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	f := reservationservice.ReservationFilter{
		Cedula:      cedula,
		RoomNumber:  int32(room),
		ActiveOn:    activeOn,
		Active:      response.QueryBool(r, "active"),
		WithDetails: response.QueryBool(r, "details"),
	}
	reservations, err := h.Service.ListReservations(r.Context(), f)
	h.handleServiceResponse(w, r, reservations, err, http.StatusOK)
}

func (h *Handler) GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	key, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	res, err := h.Service.GetReservation(r.Context(), key)
	h.handleServiceResponse(w, r, res, err, http.StatusOK)
}

// UpdateReservationHandler lida com PUT /v1/reservations/{cedula}/{room}/{arrival}.
// O corpo pode trazer uma chave nova; a do caminho identifica a reserva atual.
func (h *Handler) UpdateReservationHandler(w http.ResponseWriter, r *http.Request) {
	oldKey, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var res domain.Reservation
	if err := response.Decode(r, &res); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	updated, err := h.Service.UpdateReservation(r.Context(), oldKey, res)
	h.handleServiceResponse(w, r, updated, err, http.StatusOK)
}

func (h *Handler) RescheduleHandler(w http.ResponseWriter, r *http.Request) {
	key, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	var req datesRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.Reschedule(r.Context(), key, req.DepartureDate, req.MaxCancelHours)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func (h *Handler) CancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	key, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.CancelReservation(r.Context(), key)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// TotalHandler lida com GET .../total: soma dos serviços consumidos.
// @Summary Total de consumos da reserva
// @Tags reservations
// @Produce json
// @Success 200 {object} totalResponse
// @Router /reservations/{cedula}/{room}/{arrival}/total [get]
func (h *Handler) TotalHandler(w http.ResponseWriter, r *http.Request) {
	key, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	total, err := h.Service.ReservationTotal(r.Context(), key)
	h.handleServiceResponse(w, r, totalResponse{ReservationKey: key, Total: total}, err, http.StatusOK)
}

func (h *Handler) ReservationConsumptionsHandler(w http.ResponseWriter, r *http.Request) {
	key, err := response.ReservationKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	consumptions, err := h.Service.ListConsumptions(r.Context(), reservationservice.ConsumptionFilter{Reservation: &key})
	h.handleServiceResponse(w, r, consumptions, err, http.StatusOK)
}

// --- Consumos ---

// RegisterConsumptionHandler lida com POST /v1/consumptions.
// @Summary Registra um consumo adicional
// @Tags consumptions
// @Accept json
// @Produce json
// @Param consumption body domain.Consumption true "Chave da reserva, serviço, data e hora"
// @Success 201 {object} domain.Consumption
// @Failure 404 {object} domain.ErrorResponse "Reserva inexistente"
// @Failure 409 {object} domain.ErrorResponse "Consumo repetido no mesmo segundo"
// @Router /consumptions [post]
func (h *Handler) RegisterConsumptionHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Consumption
	if err := response.Decode(r, &c); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.RegisterConsumption(r.Context(), c)
	h.handleServiceResponse(w, r, created, err, http.StatusCreated)
}

// ListConsumptionsHandler lida com GET /v1/consumptions?cedula=&service=&date=&details=true.
func (h *Handler) ListConsumptionsHandler(w http.ResponseWriter, r *http.Request) {
	cedula, err := response.QueryInt64(r, "cedula")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	serviceID, err := response.QueryInt64(r, "service")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}
	day, err := response.QueryDate(r, "date")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	f := reservationservice.ConsumptionFilter{
		Cedula:      cedula,
		ServiceID:   serviceID,
		Date:        day,
		WithDetails: response.QueryBool(r, "details"),
	}
	consumptions, err := h.Service.ListConsumptions(r.Context(), f)
	h.handleServiceResponse(w, r, consumptions, err, http.StatusOK)
}

func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ConsumptionStats(r.Context())
	h.handleServiceResponse(w, r, stats, err, http.StatusOK)
}

func (h *Handler) GetConsumptionHandler(w http.ResponseWriter, r *http.Request) {
	key, err := consumptionKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	c, err := h.Service.GetConsumption(r.Context(), key)
	h.handleServiceResponse(w, r, c, err, http.StatusOK)
}

func (h *Handler) RemoveConsumptionHandler(w http.ResponseWriter, r *http.Request) {
	key, err := consumptionKey(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusBadRequest)
		return
	}

	err = h.Service.RemoveConsumption(r.Context(), key)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

func consumptionKey(r *http.Request) (domain.ConsumptionKey, error) {
	resKey, err := response.ReservationKey(r)
	if err != nil {
		return domain.ConsumptionKey{}, err
	}
	serviceID, err := response.PathInt64(r, "service")
	if err != nil {
		return domain.ConsumptionKey{}, err
	}
	day, err := response.PathDate(r, "date")
	if err != nil {
		return domain.ConsumptionKey{}, err
	}
	at, err := response.PathClock(r, "time")
	if err != nil {
		return domain.ConsumptionKey{}, err
	}
	return domain.ConsumptionKey{
		Date:        day,
		Time:        at,
		ArrivalDate: resKey.ArrivalDate,
		RoomNumber:  resKey.RoomNumber,
		Cedula:      resKey.Cedula,
		ServiceID:   serviceID,
	}, nil
}
