package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

func newMockRepo(t *testing.T, lockTimeout time.Duration) (*ScheduleGormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewScheduleGormRepository(gdb, lockTimeout), mock
}

func TestInSchedule_LockTimeoutMapsToReservationTimeout(t *testing.T) {
	repo, mock := newMockRepo(t, 250*time.Millisecond)
	key := domain.ScheduleKey{ProviderID: uuid.New(), Date: "2030-01-07"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '250ms'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs(key.String()).
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})
	mock.ExpectRollback()

	called := false
	err := repo.InSchedule(context.Background(), []domain.ScheduleKey{key}, func(context.Context, domain.ScheduleTx) error {
		called = true
		return nil
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeReservationTimeout), "got %v", err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInSchedule_LocksKeysInSortedOrder(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)
	providerID := uuid.New()
	later := domain.ScheduleKey{ProviderID: providerID, Date: "2030-01-09"}
	earlier := domain.ScheduleKey{ProviderID: providerID, Date: "2030-01-08"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '1000ms'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs(earlier.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs(later.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.InSchedule(context.Background(), []domain.ScheduleKey{later, earlier}, func(context.Context, domain.ScheduleTx) error {
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInSchedule_BusinessErrorRollsBackUnchanged(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)
	key := domain.ScheduleKey{ProviderID: uuid.New(), Date: "2030-01-07"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.InSchedule(context.Background(), []domain.ScheduleKey{key}, func(context.Context, domain.ScheduleTx) error {
		return httperr.ErrSlotTaken("booked")
	})

	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotNoLongerAvailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapErr(t *testing.T) {
	assert.Nil(t, mapErr(nil, "x"))
	assert.True(t, httperr.IsBusiness(mapErr(gorm.ErrRecordNotFound, "appointment"), httperr.CodeNotFound))
	assert.True(t, httperr.IsBusiness(mapErr(&pgconn.PgError{Code: "57014"}, "x"), httperr.CodeReservationTimeout))

	raw := errors.New("connection refused")
	wrapped := mapErr(raw, "appointment")
	assert.ErrorIs(t, wrapped, raw)
	_, isBusiness := httperr.AsBusiness(wrapped)
	assert.False(t, isBusiness)
}
