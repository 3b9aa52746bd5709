package accounting

import "errors"

var (
	ErrShiftNotClosed         = errors.New("shift must be closed before reconciliation")
	ErrAlreadyReconciled      = errors.New("shift already has a reconciliation")
	ErrReconciliationNotFound = errors.New("reconciliation not found")
	ErrNegativeDenomination   = errors.New("denomination counts must not be negative")
	ErrNegativeAmount         = errors.New("amount must not be negative")
)
