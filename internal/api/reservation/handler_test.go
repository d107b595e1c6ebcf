package reservation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gohotel/internal/api/reservation"
	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/service/reservationservice"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	args := m.Called(ctx, res)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, oldKey domain.ReservationKey, res domain.Reservation) (domain.Reservation, error) {
	args := m.Called(ctx, oldKey, res)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockReservationService) Reschedule(ctx context.Context, key domain.ReservationKey, departure domain.Date, maxCancelHours int32) error {
	return m.Called(ctx, key, departure, maxCancelHours).Error(0)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, key domain.ReservationKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockReservationService) GetReservation(ctx context.Context, key domain.ReservationKey) (domain.Reservation, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservations(ctx context.Context, f reservationservice.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) RegisterConsumption(ctx context.Context, c domain.Consumption) (domain.Consumption, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Consumption), args.Error(1)
}

func (m *MockReservationService) RemoveConsumption(ctx context.Context, key domain.ConsumptionKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockReservationService) GetConsumption(ctx context.Context, key domain.ConsumptionKey) (domain.Consumption, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Consumption), args.Error(1)
}

func (m *MockReservationService) ListConsumptions(ctx context.Context, f reservationservice.ConsumptionFilter) ([]domain.Consumption, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Consumption), args.Error(1)
}

func (m *MockReservationService) ReservationTotal(ctx context.Context, key domain.ReservationKey) (decimal.Decimal, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReservationService) ConsumptionStats(ctx context.Context) ([]domain.ConsumptionStat, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ConsumptionStat), args.Error(1)
}

func setup() (*http.ServeMux, *MockReservationService) {
	svc := new(MockReservationService)
	mux := http.NewServeMux()
	reservation.NewHandler(svc, logger.NewNopLogger()).Register(mux)
	return mux, svc
}

func key() domain.ReservationKey {
	return domain.ReservationKey{Cedula: 12345678, RoomNumber: 101, ArrivalDate: domain.NewDate(2025, time.March, 10)}
}

func TestCreateReservationHandler_Created(t *testing.T) {
	mux, svc := setup()

	want := domain.Reservation{
		ReservationKey: key(),
		DepartureDate:  domain.NewDate(2025, time.March, 15),
		MaxCancelHours: 48,
	}
	svc.On("CreateReservation", mock.Anything, mock.MatchedBy(func(res domain.Reservation) bool {
		return res.Key() == want.Key() && res.DepartureDate.Equal(want.DepartureDate) && res.MaxCancelHours == 48
	})).Return(want, nil)

	body := `{"cedula":12345678,"roomNumber":101,"arrivalDate":"2025-03-10","departureDate":"2025-03-15","maxCancelHours":48}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"arrivalDate":"2025-03-10"`)
	svc.AssertExpectations(t)
}

func TestCreateReservationHandler_ValidationError(t *testing.T) {
	mux, svc := setup()

	svc.On("CreateReservation", mock.Anything, mock.Anything).
		Return(domain.Reservation{}, apperror.NewValidationError("departureDate: deve ser posterior à chegada"))

	body := `{"cedula":12345678,"roomNumber":101,"arrivalDate":"2025-03-10","departureDate":"2025-03-10"}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetReservationHandler_InvalidArrival(t *testing.T) {
	mux, svc := setup()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reservations/12345678/101/ontem", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "GetReservation", mock.Anything, mock.Anything)
}

func TestCancelReservationHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("CancelReservation", mock.Anything, key()).Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/reservations/12345678/101/2025-03-10", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestRescheduleHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("Reschedule", mock.Anything, key(), domain.NewDate(2025, time.March, 20), int32(24)).Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/v1/reservations/12345678/101/2025-03-10/dates",
		strings.NewReader(`{"departureDate":"2025-03-20","maxCancelHours":24}`)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestTotalHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("ReservationTotal", mock.Anything, key()).Return(decimal.NewFromInt(300000), nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reservations/12345678/101/2025-03-10/total", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Cedula int64           `json:"cedula"`
		Total  decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(12345678), got.Cedula)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(300000)))
}

func TestListReservationsHandler_Filter(t *testing.T) {
	mux, svc := setup()

	want := reservationservice.ReservationFilter{
		ActiveOn: domain.NewDate(2025, time.March, 12),
		Active:   true,
	}
	svc.On("ListReservations", mock.Anything, want).Return([]domain.Reservation{}, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/reservations?activeOn=2025-03-12&active=true", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestRegisterConsumptionHandler_ReservationMissing(t *testing.T) {
	mux, svc := setup()

	svc.On("RegisterConsumption", mock.Anything, mock.Anything).
		Return(domain.Consumption{}, apperror.NewNotFoundError("Reserva"))

	body := `{"date":"2025-03-11","time":"10:00:00","arrivalDate":"2025-03-10","roomNumber":101,"cedula":12345678,"serviceId":100}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/consumptions", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemoveConsumptionHandler_ParsesFullKey(t *testing.T) {
	mux, svc := setup()

	svc.On("RemoveConsumption", mock.Anything, mock.MatchedBy(func(k domain.ConsumptionKey) bool {
		return k.ReservationKey() == key() && k.ServiceID == 100 &&
			k.Date.String() == "2025-03-11" && k.Time.String() == "18:30:00"
	})).Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/consumptions/12345678/101/2025-03-10/100/2025-03-11/18:30:00", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestStatsHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("ConsumptionStats", mock.Anything).Return([]domain.ConsumptionStat{
		{ServiceID: 100, ServiceName: "Spa", Quantity: 2, Total: decimal.NewFromInt(300000)},
	}, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/consumptions/stats", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"serviceName":"Spa"`)
}
