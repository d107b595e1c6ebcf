package clientrepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/repository/clientrepo"
	"gohotel/internal/repository/emailrepo"
	"gohotel/internal/repository/personrepo"
)

var personCols = []string{"cedulaPer", "primerNom", "segundoNom", "primerApell", "segundoApell", "calle", "carrera", "numero", "complemento"}

func newRepo(t *testing.T) (*clientrepo.ClientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNopLogger()
	persons := personrepo.NewPersonRepository(db, 2*time.Second, log)
	emails := emailrepo.NewEmailRepository(db, 2*time.Second, log)
	return clientrepo.NewClientRepository(db, 2*time.Second, persons, emails, log), mock
}

func sampleClient() domain.Client {
	return domain.Client{
		Person: domain.Person{Cedula: 87654321, FirstName: "Luis", FirstSurname: "Pérez"},
		Emails: []string{"luis@hotel.com", "luis.perez@gmail.com"},
	}
}

func TestInsertComplete_CommitsPersonClientAndEmails(t *testing.T) {
	repo, mock := newRepo(t)
	c := sampleClient()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Persona")).
		WithArgs(c.Cedula, "Luis", "", "Pérez", "", "", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Cliente (cedulaPer) VALUES ($1)")).
		WithArgs(c.Cedula).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Correo")).
		WithArgs(c.Cedula, "luis@hotel.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Correo")).
		WithArgs(c.Cedula, "luis.perez@gmail.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InsertComplete(context.Background(), c)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertComplete_RoleFailureRollsBackPerson(t *testing.T) {
	repo, mock := newRepo(t)
	c := sampleClient()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Persona")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Cliente")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "cliente_pkey"})
	mock.ExpectRollback()

	err := repo.InsertComplete(context.Background(), c)

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertComplete_ZeroRowsRollsBack(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Persona")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Cliente")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.InsertComplete(context.Background(), sampleClient())

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_EmailsShareTheRoleTransaction(t *testing.T) {
	repo, mock := newRepo(t)
	c := sampleClient()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Cliente")).
		WithArgs(c.Cedula).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Correo")).
		WithArgs(c.Cedula, "luis@hotel.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Correo")).
		WithArgs(c.Cedula, "luis.perez@gmail.com").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "correo_pkey"})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), c)

	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_MissingPersonIsConflict(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Cliente")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "cliente_cedulaper_fkey"})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), domain.Client{Person: domain.Person{Cedula: 5}})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestFindByID_LoadsEmails(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN Cliente c ON p.cedulaPer = c.cedulaPer")).
		WithArgs(int64(87654321)).
		WillReturnRows(sqlmock.NewRows(personCols).AddRow(int64(87654321), "Luis", "", "Pérez", "", "", "", "", ""))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT correo FROM Correo")).
		WithArgs(int64(87654321)).
		WillReturnRows(sqlmock.NewRows([]string{"correo"}).AddRow("luis@hotel.com"))

	got, err := repo.FindByID(context.Background(), 87654321)

	require.NoError(t, err)
	assert.Equal(t, "Luis", got.FirstName)
	assert.Equal(t, []string{"luis@hotel.com"}, got.Emails)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN Cliente")).
		WillReturnRows(sqlmock.NewRows(personCols))

	_, err := repo.FindByID(context.Background(), 1)

	assert.True(t, apperror.IsNotFound(err))
}

func TestFindAll_EachClientGetsItsEmails(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.cedulaPer")).
		WillReturnRows(sqlmock.NewRows(personCols).
			AddRow(int64(1), "A", "", "Uno", "", "", "", "", "").
			AddRow(int64(2), "B", "", "Dos", "", "", "", "", ""))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT correo FROM Correo")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"correo"}).AddRow("a@x.com"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT correo FROM Correo")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"correo"}))

	got, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a@x.com"}, got[0].Emails)
	assert.Empty(t, got[1].Emails)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Cliente WHERE cedulaPer = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, apperror.IsNotFound(repo.Delete(context.Background(), 3)))
}
