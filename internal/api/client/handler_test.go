package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gohotel/internal/api/client"
	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
)

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockClientService) RegisterClient(ctx context.Context, cedula int64, emails []string) (domain.Client, error) {
	args := m.Called(ctx, cedula, emails)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockClientService) GetClient(ctx context.Context, cedula int64) (domain.Client, error) {
	args := m.Called(ctx, cedula)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) DeleteClient(ctx context.Context, cedula int64) error {
	return m.Called(ctx, cedula).Error(0)
}

func (m *MockClientService) ListEmails(ctx context.Context, cedula int64) ([]string, error) {
	args := m.Called(ctx, cedula)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockClientService) AddEmail(ctx context.Context, e domain.Email) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockClientService) RemoveEmail(ctx context.Context, cedula int64, address string) error {
	return m.Called(ctx, cedula, address).Error(0)
}

func (m *MockClientService) ReplaceEmails(ctx context.Context, cedula int64, addresses []string) error {
	return m.Called(ctx, cedula, addresses).Error(0)
}

func (m *MockClientService) FindClientsByDomain(ctx context.Context, domainName string) ([]int64, error) {
	args := m.Called(ctx, domainName)
	return args.Get(0).([]int64), args.Error(1)
}

func setup() (*http.ServeMux, *MockClientService) {
	svc := new(MockClientService)
	mux := http.NewServeMux()
	client.NewHandler(svc, logger.NewNopLogger()).Register(mux)
	return mux, svc
}

func TestCreateClientHandler_Created(t *testing.T) {
	mux, svc := setup()

	want := domain.Client{
		Person: domain.Person{Cedula: 12345678, FirstName: "Ana", FirstSurname: "Gomez"},
		Emails: []string{"ana@mail.com"},
	}
	svc.On("CreateClient", mock.Anything, want).Return(want, nil)

	body := `{"cedula":12345678,"firstName":"Ana","firstSurname":"Gomez","emails":["ana@mail.com"]}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/clients", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.Client
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"ana@mail.com"}, got.Emails)
	svc.AssertExpectations(t)
}

func TestGetClientHandler_NotFound(t *testing.T) {
	mux, svc := setup()

	svc.On("GetClient", mock.Anything, int64(1)).Return(domain.Client{}, apperror.NewNotFoundError("Cliente 1"))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/clients/1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteClientHandler_ConflictWithReservations(t *testing.T) {
	mux, svc := setup()

	svc.On("DeleteClient", mock.Anything, int64(12345678)).Return(apperror.NewConflictError("referência inválida (reserva_cedulaper_fkey)"))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/clients/12345678", nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestReplaceEmailsHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("ReplaceEmails", mock.Anything, int64(12345678), []string{"a@mail.com", "b@mail.com"}).Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/clients/12345678/emails",
		strings.NewReader(`{"emails":["a@mail.com","b@mail.com"]}`)))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestRemoveEmailHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("RemoveEmail", mock.Anything, int64(12345678), "a@mail.com").Return(nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/clients/12345678/emails/a@mail.com", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}

func TestClientsByDomainHandler(t *testing.T) {
	mux, svc := setup()

	svc.On("FindClientsByDomain", mock.Anything, "mail.com").Return([]int64{11111111, 12345678}, nil)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/email-domains/mail.com/clients", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"domain":"mail.com","cedulas":[11111111,12345678]}`, rr.Body.String())
}
