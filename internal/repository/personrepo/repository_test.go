package personrepo_test

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
	"gohotel/internal/repository/personrepo"
)

var personCols = []string{"cedulaPer", "primerNom", "segundoNom", "primerApell", "segundoApell", "calle", "carrera", "numero", "complemento"}

func newRepo(t *testing.T) (*personrepo.PersonRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return personrepo.NewPersonRepository(db, 2*time.Second, logger.NewNopLogger()), mock
}

func samplePerson() domain.Person {
	return domain.Person{
		Cedula: 12345678, FirstName: "Ana", MiddleName: "María", FirstSurname: "Gómez", SecondSurname: "Ruiz",
		Street: "10", Avenue: "5", Number: "20-30", Complement: "Apto 301",
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock := newRepo(t)
	p := samplePerson()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Persona")).
		WithArgs(p.Cedula, "Ana", "María", "Gómez", "Ruiz", "10", "5", "20-30", "Apto 301").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), p)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateCedulaIsConflict(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Persona")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "persona_pkey"})

	err := repo.Insert(context.Background(), samplePerson())

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_RoundTrip(t *testing.T) {
	repo, mock := newRepo(t)
	p := samplePerson()

	mock.ExpectQuery(regexp.QuoteMeta("FROM Persona WHERE cedulaPer = $1")).
		WithArgs(p.Cedula).
		WillReturnRows(sqlmock.NewRows(personCols).
			AddRow(p.Cedula, p.FirstName, p.MiddleName, p.FirstSurname, p.SecondSurname, p.Street, p.Avenue, p.Number, p.Complement))

	got, err := repo.FindByID(context.Background(), p.Cedula)

	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM Persona WHERE cedulaPer = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(personCols))

	_, err := repo.FindByID(context.Background(), 1)

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestUpdate_ChangesNonKeyFields(t *testing.T) {
	repo, mock := newRepo(t)
	p := samplePerson()
	p.Street = "11"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Persona")).
		WithArgs("Ana", "María", "Gómez", "Ruiz", "11", "5", "20-30", "Apto 301", p.Cedula).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_UnknownCedulaIsNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Persona")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), samplePerson())

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestDelete_ReferencedPersonIsConflict(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Persona WHERE cedulaPer = $1")).
		WithArgs(int64(12345678)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "cliente_cedulaper_fkey"})

	err := repo.Delete(context.Background(), 12345678)

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestFindBySurname_UsesSubstringPattern(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE primerApell LIKE $1 OR segundoApell LIKE $1")).
		WithArgs("%Góm%").
		WillReturnRows(sqlmock.NewRows(personCols).
			AddRow(int64(12345678), "Ana", "", "Gómez", "", "", "", "", ""))

	got, err := repo.FindBySurname(context.Background(), "Góm")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gómez", got[0].FirstSurname)
}

func TestFindAll_EmptyIsNonNil(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM Persona ORDER BY cedulaPer")).
		WillReturnRows(sqlmock.NewRows(personCols))

	got, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestColumns_WithAlias(t *testing.T) {
	cols := personrepo.Columns("p")

	assert.Contains(t, cols, "p.cedulaPer")
	assert.Contains(t, cols, "COALESCE(p.segundoNom, '')")
}
