package consumptionrepo_test

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
	"gohotel/internal/repository/consumptionrepo"
)

var consumptionCols = []string{"fechaConsumo", "horaConsumo", "fechaLlegada", "numeroHab", "cedulaPer", "idServicio"}

func newRepo(t *testing.T) (*consumptionrepo.ConsumptionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return consumptionrepo.NewConsumptionRepository(db, 2*time.Second, logger.NewNopLogger()), mock
}

func reservationKey() domain.ReservationKey {
	return domain.ReservationKey{Cedula: 87654321, RoomNumber: 101, ArrivalDate: domain.NewDate(2025, time.March, 10)}
}

func spaAt(h, m, s int) domain.Consumption {
	k := reservationKey()
	return domain.Consumption{ConsumptionKey: domain.ConsumptionKey{
		Date: domain.NewDate(2025, time.March, 11), Time: domain.NewClockTime(h, m, s),
		ArrivalDate: k.ArrivalDate, RoomNumber: k.RoomNumber, Cedula: k.Cedula, ServiceID: 100,
	}}
}

func TestInsert_SendsKeyColumns(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ConsumoAdicional")).
		WithArgs("2025-03-11", "10:00:00", "2025-03-10", int64(101), int64(87654321), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Insert(context.Background(), spaAt(10, 0, 0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_SameSecondIsConflict(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ConsumoAdicional")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ConsumoAdicional")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "consumoadicional_pkey"})

	require.NoError(t, repo.Insert(context.Background(), spaAt(10, 0, 0)))
	err := repo.Insert(context.Background(), spaAt(10, 0, 0))

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestReservationTotal_TwoSpaSessions(t *testing.T) {
	repo, mock := newRepo(t)
	k := reservationKey()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(s.costoServicio) AS total")).
		WithArgs(k.Cedula, k.RoomNumber, k.ArrivalDate).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("300000.00"))

	total, err := repo.ReservationTotal(context.Background(), k)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(300000)), "total = %s", total)
}

func TestReservationTotal_NoConsumptionsIsZero(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(s.costoServicio) AS total")).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(nil))

	total, err := repo.ReservationTotal(context.Background(), reservationKey())

	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestStats_OrderedByQuantity(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY s.idServicio, s.nomServicio")).
		WillReturnRows(sqlmock.NewRows([]string{"idServicio", "nomServicio", "cantidad", "total"}).
			AddRow(int64(100), "Spa", int64(2), "300000.00").
			AddRow(int64(101), "Lavandería", int64(1), "20000.00"))

	stats, err := repo.Stats(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, domain.ConsumptionStat{ServiceID: 100, ServiceName: "Spa", Quantity: 2, Total: stats[0].Total}, stats[0])
	assert.True(t, stats[0].Total.Equal(decimal.NewFromInt(300000)))
}

func TestFindByReservation_Chronological(t *testing.T) {
	repo, mock := newRepo(t)
	k := reservationKey()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cedulaPer = $1 AND numeroHab = $2 AND fechaLlegada = $3 ORDER BY fechaConsumo, horaConsumo")).
		WithArgs(k.Cedula, k.RoomNumber, k.ArrivalDate).
		WillReturnRows(sqlmock.NewRows(consumptionCols).
			AddRow("2025-03-11", "10:00:00", "2025-03-10", int64(101), int64(87654321), int64(100)).
			AddRow("2025-03-11", "16:30:00", "2025-03-10", int64(101), int64(87654321), int64(100)))

	got, err := repo.FindByReservation(context.Background(), k)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, spaAt(10, 0, 0), got[0])
	assert.Equal(t, 16, got[1].Time.Hour())
	assert.Equal(t, k, got[1].ReservationKey())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ConsumoAdicional")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), spaAt(9, 0, 0).Key())

	assert.True(t, apperror.IsNotFound(err))
}

func TestFindAllWithDetails_FillsService(t *testing.T) {
	repo, mock := newRepo(t)

	cols := append(append([]string{}, consumptionCols...), "nomServicio", "contenidoServicio", "costoServicio")
	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN Servicio s ON c.idServicio = s.idServicio")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("2025-03-11", "10:00:00", "2025-03-10", int64(101), int64(87654321), int64(100), "Spa", "Masaje", "150000.00"))

	got, err := repo.FindAllWithDetails(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Service)
	assert.Equal(t, int64(100), got[0].Service.ID)
	assert.Equal(t, "Spa", got[0].Service.Name)
}

func TestFindByDate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE fechaConsumo = $1 ORDER BY horaConsumo")).
		WithArgs("2025-03-11").
		WillReturnRows(sqlmock.NewRows(consumptionCols))

	got, err := repo.FindByDate(context.Background(), domain.NewDate(2025, time.March, 11))

	require.NoError(t, err)
	assert.Empty(t, got)
}
