package personservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/pkg/validation"
	"gohotel/internal/service/personservice"
)

// MockPersonRepository é uma implementação mock da interface PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Insert(ctx context.Context, p domain.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepository) Update(ctx context.Context, p domain.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, cedula int64) error {
	return m.Called(ctx, cedula).Error(0)
}

func (m *MockPersonRepository) FindByID(ctx context.Context, cedula int64) (domain.Person, error) {
	args := m.Called(ctx, cedula)
	return args.Get(0).(domain.Person), args.Error(1)
}

func (m *MockPersonRepository) FindAll(ctx context.Context) ([]domain.Person, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Person), args.Error(1)
}

func (m *MockPersonRepository) FindBySurname(ctx context.Context, surname string) ([]domain.Person, error) {
	args := m.Called(ctx, surname)
	return args.Get(0).([]domain.Person), args.Error(1)
}

// MockPhoneRepository é uma implementação mock da interface PhoneRepository
type MockPhoneRepository struct {
	mock.Mock
}

func (m *MockPhoneRepository) Insert(ctx context.Context, p domain.Phone) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPhoneRepository) Delete(ctx context.Context, cedula, number int64) error {
	return m.Called(ctx, cedula, number).Error(0)
}

func (m *MockPhoneRepository) FindByPerson(ctx context.Context, cedula int64) ([]int64, error) {
	args := m.Called(ctx, cedula)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPhoneRepository) Replace(ctx context.Context, cedula int64, numbers []int64) error {
	return m.Called(ctx, cedula, numbers).Error(0)
}

func newService() (*personservice.Service, *MockPersonRepository, *MockPhoneRepository) {
	persons := new(MockPersonRepository)
	phones := new(MockPhoneRepository)
	return personservice.NewService(persons, phones, validation.New(), logger.NewNopLogger()), persons, phones
}

func ana() domain.Person {
	return domain.Person{Cedula: 12345678, FirstName: "Ana", FirstSurname: "Gomez", Street: "Calle 10"}
}

// --- Testes para CreatePerson ---

func TestCreatePerson_Success(t *testing.T) {
	svc, persons, _ := newService()

	p := ana()
	persons.On("Insert", mock.Anything, p).Return(nil)

	result, err := svc.CreatePerson(context.Background(), p)

	assert.NoError(t, err)
	assert.Equal(t, p, result)
	persons.AssertExpectations(t)
}

func TestCreatePerson_TrimsNames(t *testing.T) {
	svc, persons, _ := newService()

	input := ana()
	input.FirstName = "  Ana "
	persons.On("Insert", mock.Anything, ana()).Return(nil)

	result, err := svc.CreatePerson(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "Ana", result.FirstName)
	persons.AssertExpectations(t)
}

func TestCreatePerson_Fail_MissingFirstName(t *testing.T) {
	svc, persons, _ := newService()

	p := ana()
	p.FirstName = "   "

	_, err := svc.CreatePerson(context.Background(), p)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "firstName")
	persons.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreatePerson_Fail_DuplicateCedula(t *testing.T) {
	svc, persons, _ := newService()

	p := ana()
	persons.On("Insert", mock.Anything, p).Return(apperror.NewConflictError("Pessoa 12345678 já existe"))

	_, err := svc.CreatePerson(context.Background(), p)

	assert.True(t, apperror.IsConflict(err))
	persons.AssertExpectations(t)
}

// --- Testes para consultas ---

func TestGetPerson_InvalidCedula(t *testing.T) {
	svc, persons, _ := newService()

	_, err := svc.GetPerson(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
	persons.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestListPersons_UsesSurnameFilter(t *testing.T) {
	svc, persons, _ := newService()

	persons.On("FindBySurname", mock.Anything, "Gom").Return([]domain.Person{ana()}, nil)

	result, err := svc.ListPersons(context.Background(), " Gom ")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	persons.AssertNotCalled(t, "FindAll", mock.Anything)
	persons.AssertExpectations(t)
}

func TestListPersons_WithoutFilter(t *testing.T) {
	svc, persons, _ := newService()

	persons.On("FindAll", mock.Anything).Return([]domain.Person{}, nil)

	result, err := svc.ListPersons(context.Background(), "")

	assert.NoError(t, err)
	assert.Empty(t, result)
	persons.AssertExpectations(t)
}

// --- Testes para UpdatePerson e DeletePerson ---

func TestUpdatePerson_NotFound(t *testing.T) {
	svc, persons, _ := newService()

	p := ana()
	persons.On("Update", mock.Anything, p).Return(apperror.NewNotFoundError("Pessoa 12345678"))

	_, err := svc.UpdatePerson(context.Background(), p)

	assert.True(t, apperror.IsNotFound(err))
	persons.AssertExpectations(t)
}

func TestDeletePerson_Success(t *testing.T) {
	svc, persons, _ := newService()

	persons.On("Delete", mock.Anything, int64(12345678)).Return(nil)

	assert.NoError(t, svc.DeletePerson(context.Background(), 12345678))
	persons.AssertExpectations(t)
}

// --- Testes para telefones ---

func TestReplacePhones_Success(t *testing.T) {
	svc, _, phones := newService()

	numbers := []int64{3001234567, 3109876543}
	phones.On("Replace", mock.Anything, int64(12345678), numbers).Return(nil)

	assert.NoError(t, svc.ReplacePhones(context.Background(), 12345678, numbers))
	phones.AssertExpectations(t)
}

func TestReplacePhones_Fail_InvalidNumber(t *testing.T) {
	svc, _, phones := newService()

	err := svc.ReplacePhones(context.Background(), 12345678, []int64{3001234567, -1})

	assert.IsType(t, &apperror.ValidationError{}, err)
	phones.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddPhone_PassesRepositoryError(t *testing.T) {
	svc, _, phones := newService()

	phone := domain.Phone{Cedula: 12345678, Number: 3001234567}
	phones.On("Insert", mock.Anything, phone).Return(apperror.NewConflictError("referência inválida"))

	err := svc.AddPhone(context.Background(), phone)

	assert.True(t, apperror.IsConflict(err))
	phones.AssertExpectations(t)
}

func TestListPhones_Success(t *testing.T) {
	svc, _, phones := newService()

	phones.On("FindByPerson", mock.Anything, int64(12345678)).Return([]int64{3001234567}, nil)

	result, err := svc.ListPhones(context.Background(), 12345678)

	assert.NoError(t, err)
	assert.Equal(t, []int64{3001234567}, result)
}
