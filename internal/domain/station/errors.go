package station

import "errors"

var (
	ErrAssignmentNotFound  = errors.New("nozzle assignment not found")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrNozzleInUse         = errors.New("nozzle already has an open assignment")
	ErrAssignmentClosed    = errors.New("nozzle assignment already closed")
	ErrNegativeOpening     = errors.New("opening balance must not be negative")
	ErrClosingBelowOpening = errors.New("closing balance must not be below opening balance")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrShiftHasOpenNozzles = errors.New("shift has open nozzle assignments")
	ErrShiftAlreadyClosed  = errors.New("shift already closed")
	ErrShiftReconciled     = errors.New("shift accounting already done")
	ErrPriceNotFound       = errors.New("no unit price in force for product")
	ErrBackdateNotAllowed  = errors.New("actor may not set custom timestamps")
)
