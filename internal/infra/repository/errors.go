package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const (
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
)

// mapErr turns driver errors into engine errors. Lock waits that hit
// lock_timeout surface as reservation_timeout.
func mapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(entity)
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgQueryCanceled:
			return httperr.ErrReservationTimeout()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return httperr.ErrReservationTimeout()
	}

	return fmt.Errorf("repository: %s: %w", entity, err)
}
