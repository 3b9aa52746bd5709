package ledger

import "errors"

var (
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrSalaryNotFound     = errors.New("calculated salary not found")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrInvalidPeriod      = errors.New("period end must not be before period start")
	ErrInvalidRange       = errors.New("range end must not be before range start")
	ErrBackdateNotAllowed = errors.New("actor may not set custom timestamps")
)
