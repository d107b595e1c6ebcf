package roomservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
	"gohotel/internal/service/roomservice"
)

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Insert(ctx context.Context, room domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, room domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) UpdateStatus(ctx context.Context, number int32, status string) error {
	return m.Called(ctx, number, status).Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, number int32) error {
	return m.Called(ctx, number).Error(0)
}

func (m *MockRoomRepository) FindByID(ctx context.Context, number int32) (domain.Room, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByCategory(ctx context.Context, category string) ([]domain.Room, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAvailable(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Insert(ctx context.Context, s domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) Update(ctx context.Context, s domain.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id int64) (domain.Service, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByName(ctx context.Context, name string) ([]domain.Service, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]domain.Service), args.Error(1)
}

func newService() (*roomservice.Service, *MockRoomRepository, *MockServiceRepository) {
	rooms := new(MockRoomRepository)
	catalog := new(MockServiceRepository)
	return roomservice.NewService(rooms, catalog, validation.New(), logger.NewNopLogger()), rooms, catalog
}

// --- Quartos ---

func TestCreateRoom_DefaultsToAvailable(t *testing.T) {
	svc, rooms, _ := newService()

	input := domain.Room{Number: 101, Category: "Suite", NightlyRate: decimal.NewFromInt(250000)}
	want := input
	want.Status = domain.RoomStatusAvailable
	rooms.On("Insert", mock.Anything, want).Return(nil)

	result, err := svc.CreateRoom(context.Background(), input)

	assert.NoError(t, err)
	assert.True(t, result.IsAvailable())
	rooms.AssertExpectations(t)
}

func TestCreateRoom_Fail_NegativeRate(t *testing.T) {
	svc, rooms, _ := newService()

	_, err := svc.CreateRoom(context.Background(), domain.Room{Number: 101, Category: "Suite", NightlyRate: decimal.NewFromInt(-1)})

	assert.IsType(t, &apperror.ValidationError{}, err)
	rooms.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateRoom_Fail_DuplicateNumber(t *testing.T) {
	svc, rooms, _ := newService()

	room := domain.Room{Number: 101, Category: "Suite", Status: "Ocupada", NightlyRate: decimal.NewFromInt(250000)}
	rooms.On("Insert", mock.Anything, room).Return(apperror.NewConflictError("Quarto 101 já existe"))

	_, err := svc.CreateRoom(context.Background(), room)

	assert.True(t, apperror.IsConflict(err))
}

func TestChangeStatus_AnyTransition(t *testing.T) {
	svc, rooms, _ := newService()

	rooms.On("UpdateStatus", mock.Anything, int32(101), "Mantenimiento").Return(nil)

	assert.NoError(t, svc.ChangeStatus(context.Background(), 101, " Mantenimiento "))
	rooms.AssertExpectations(t)
}

func TestChangeStatus_Fail_Empty(t *testing.T) {
	svc, rooms, _ := newService()

	err := svc.ChangeStatus(context.Background(), 101, "")

	assert.IsType(t, &apperror.ValidationError{}, err)
	rooms.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_NotFound(t *testing.T) {
	svc, rooms, _ := newService()

	rooms.On("UpdateStatus", mock.Anything, int32(999), "Ocupada").Return(apperror.NewNotFoundError("Quarto 999"))

	err := svc.ChangeStatus(context.Background(), 999, "Ocupada")

	assert.True(t, apperror.IsNotFound(err))
}

func TestListRooms_Filters(t *testing.T) {
	svc, rooms, _ := newService()

	rooms.On("FindAvailable", mock.Anything).Return([]domain.Room{}, nil).Once()
	rooms.On("FindByCategory", mock.Anything, "Doble").Return([]domain.Room{}, nil).Once()
	rooms.On("FindAll", mock.Anything).Return([]domain.Room{}, nil).Once()

	ctx := context.Background()
	_, err := svc.ListRooms(ctx, roomservice.RoomFilter{AvailableOnly: true, Category: "Doble"})
	assert.NoError(t, err)
	_, err = svc.ListRooms(ctx, roomservice.RoomFilter{Category: "Doble"})
	assert.NoError(t, err)
	_, err = svc.ListRooms(ctx, roomservice.RoomFilter{})
	assert.NoError(t, err)

	rooms.AssertExpectations(t)
}

// --- Catálogo ---

func TestCreateService_Success(t *testing.T) {
	svc, _, catalog := newService()

	spa := domain.Service{ID: 100, Name: "Spa", Description: "Masaje", Cost: decimal.NewFromInt(150000)}
	catalog.On("Insert", mock.Anything, spa).Return(nil)

	result, err := svc.CreateService(context.Background(), spa)

	assert.NoError(t, err)
	assert.True(t, result.Cost.Equal(decimal.NewFromInt(150000)))
	catalog.AssertExpectations(t)
}

func TestCreateService_ZeroCostAllowed(t *testing.T) {
	svc, _, catalog := newService()

	wifi := domain.Service{ID: 7, Name: "WiFi", Cost: decimal.Zero}
	catalog.On("Insert", mock.Anything, wifi).Return(nil)

	_, err := svc.CreateService(context.Background(), wifi)

	assert.NoError(t, err)
}

func TestCreateService_Fail_NegativeCost(t *testing.T) {
	svc, _, catalog := newService()

	_, err := svc.CreateService(context.Background(), domain.Service{ID: 100, Name: "Spa", Cost: decimal.NewFromInt(-10)})

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "cost")
	catalog.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUpdateService_Fail_NegativeCost(t *testing.T) {
	svc, _, catalog := newService()

	_, err := svc.UpdateService(context.Background(), domain.Service{ID: 100, Name: "Spa", Cost: decimal.RequireFromString("-0.01")})

	assert.IsType(t, &apperror.ValidationError{}, err)
	catalog.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListServices_ByName(t *testing.T) {
	svc, _, catalog := newService()

	catalog.On("FindByName", mock.Anything, "Spa").Return([]domain.Service{{ID: 100, Name: "Spa"}}, nil)

	result, err := svc.ListServices(context.Background(), "Spa")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestDeleteService_InvalidID(t *testing.T) {
	svc, _, catalog := newService()

	err := svc.DeleteService(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
	catalog.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
