package reservationrepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohotel/internal/domain"
	apperror "gohotel/internal/errors"
	"gohotel/internal/pkg/logger"
	"gohotel/internal/repository/reservationrepo"
)

var reservationCols = []string{"cedulaPer", "numeroHab", "fechaLlegada", "fechaSalida", "tiempoMaxCancel"}

func newRepo(t *testing.T) (*reservationrepo.ReservationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return reservationrepo.NewReservationRepository(db, 2*time.Second, logger.NewNopLogger()), mock
}

func sampleReservation() domain.Reservation {
	return domain.Reservation{
		ReservationKey: domain.ReservationKey{Cedula: 87654321, RoomNumber: 101, ArrivalDate: domain.NewDate(2025, time.March, 10)},
		DepartureDate:  domain.NewDate(2025, time.March, 14),
		MaxCancelHours: 48,
	}
}

func TestInsert_SendsDatesAsText(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Reserva")).
		WithArgs(int64(87654321), int64(101), "2025-03-10", "2025-03-14", int64(48)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Insert(context.Background(), sampleReservation()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateKeyIsConflict(t *testing.T) {
	repo, mock := newRepo(t)
	res := sampleReservation()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Reserva")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Reserva")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reserva_pkey"})
	mock.ExpectQuery(regexp.QuoteMeta("FROM Reserva WHERE cedulaPer = $1 AND numeroHab = $2 AND fechaLlegada = $3")).
		WithArgs(res.Cedula, res.RoomNumber, res.ArrivalDate).
		WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(res.Cedula, int64(101), "2025-03-10", "2025-03-14", int64(48)))

	require.NoError(t, repo.Insert(context.Background(), res))

	second := res
	second.DepartureDate = domain.NewDate(2025, time.March, 20)
	err := repo.Insert(context.Background(), second)
	assert.IsType(t, &apperror.ConflictError{}, err)

	stored, err := repo.FindByID(context.Background(), res.Key())
	require.NoError(t, err)
	assert.True(t, stored.DepartureDate.Equal(res.DepartureDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_ScansDates(t *testing.T) {
	repo, mock := newRepo(t)
	res := sampleReservation()

	mock.ExpectQuery(regexp.QuoteMeta("FROM Reserva WHERE")).
		WithArgs(res.Cedula, res.RoomNumber, res.ArrivalDate).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(res.Cedula, int64(101), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "2025-03-14", int64(48)))

	got, err := repo.FindByID(context.Background(), res.Key())

	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestUpdate_CanChangeKey(t *testing.T) {
	repo, mock := newRepo(t)
	old := sampleReservation().Key()
	moved := sampleReservation()
	moved.RoomNumber = 202

	mock.ExpectExec(regexp.QuoteMeta("UPDATE Reserva")).
		WithArgs(int64(87654321), int64(202), "2025-03-10", "2025-03-14", int64(48), int64(87654321), int64(101), "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), old, moved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDates_UnknownKeyIsNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("SET fechaSalida = $1, tiempoMaxCancel = $2")).
		WithArgs("2025-03-16", int64(24), int64(87654321), int64(101), "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDates(context.Background(), sampleReservation().Key(), domain.NewDate(2025, time.March, 16), 24)

	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM Reserva WHERE cedulaPer = $1 AND numeroHab = $2 AND fechaLlegada = $3")).
		WithArgs(int64(87654321), int64(101), "2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), sampleReservation().Key()))
}

func TestFindActiveAsOf(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE fechaSalida >= $1 ORDER BY fechaLlegada")).
		WithArgs("2025-03-12").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(int64(87654321), int64(101), "2025-03-10", "2025-03-14", int64(48)))

	got, err := repo.FindActiveAsOf(context.Background(), domain.NewDate(2025, time.March, 12))

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindActive_UsesServerDate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE fechaSalida >= CURRENT_DATE")).
		WillReturnRows(sqlmock.NewRows(reservationCols))

	got, err := repo.FindActive(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestFindByClient_NewestFirst(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cedulaPer = $1 ORDER BY fechaLlegada DESC")).
		WithArgs(int64(87654321)).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(int64(87654321), int64(101), "2025-05-01", "2025-05-03", int64(24)).
			AddRow(int64(87654321), int64(101), "2025-03-10", "2025-03-14", int64(48)))

	got, err := repo.FindByClient(context.Background(), 87654321)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].ArrivalDate.After(got[1].ArrivalDate))
}

func TestFindAllWithDetails_FillsClientAndRoom(t *testing.T) {
	repo, mock := newRepo(t)

	cols := append(append([]string{}, reservationCols...),
		"cedulaPer", "primerNom", "segundoNom", "primerApell", "segundoApell", "calle", "carrera", "numero", "complemento",
		"numeroHab", "categoria", "estadoHab", "precioNoche")
	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN Habitacion h ON r.numeroHab = h.numeroHab")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(87654321), int64(101), "2025-03-10", "2025-03-14", int64(48),
			int64(87654321), "Luis", "", "Pérez", "", "", "", "", "",
			int64(101), "Suite", "Ocupada", "250000.00"))

	got, err := repo.FindAllWithDetails(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Luis", got[0].Client.FirstName)
	assert.Equal(t, "Suite", got[0].Room.Category)
	assert.True(t, got[0].Room.NightlyRate.Equal(decimal.NewFromInt(250000)))
}
