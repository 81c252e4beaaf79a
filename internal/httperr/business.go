package httperr

import (
	"errors"
	"fmt"
)

const (
	CodeSlotNoLongerAvailable = "slot_no_longer_available"
	CodeReservationTimeout    = "reservation_timeout"
	CodeIllegalTransition     = "illegal_transition"
	CodeForbidden             = "forbidden"
	CodeUpstreamPayment       = "upstream_payment_failure"
	CodeValidation            = "validation_error"
	CodeNotFound              = "not_found"
)

type BusinessError struct {
	Code   string
	Detail string
}

func (e BusinessError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessDetail(code, detail string) error {
	return BusinessError{Code: code, Detail: detail}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extracts the BusinessError carried by err, if any.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

func ErrSlotTaken(detail string) error {
	return ErrBusinessDetail(CodeSlotNoLongerAvailable, detail)
}

func ErrValidation(detail string) error {
	return ErrBusinessDetail(CodeValidation, detail)
}

func ErrIllegalTransition(detail string) error {
	return ErrBusinessDetail(CodeIllegalTransition, detail)
}

func ErrForbidden() error {
	return ErrBusiness(CodeForbidden)
}

func ErrNotFound(entity string) error {
	return ErrBusinessDetail(CodeNotFound, entity)
}

func ErrReservationTimeout() error {
	return ErrBusiness(CodeReservationTimeout)
}

func ErrUpstreamPayment(detail string) error {
	return ErrBusinessDetail(CodeUpstreamPayment, detail)
}
