package accounting

import (
	"context"

	"fueldesk/internal/domain/station"
)

type StoreAPI interface {
	// CreateReconciliation inserts the record and marks the shift's
	// accounting flag in one transaction. A duplicate shift id must
	// surface as ErrAlreadyReconciled.
	CreateReconciliation(ctx context.Context, tenantID string, rec ShiftReconciliation) (string, error)
	GetReconciliationByShift(ctx context.Context, tenantID, shiftID string) (ShiftReconciliation, error)
	UpdateReconciliation(ctx context.Context, tenantID string, rec ShiftReconciliation) error
	// DeleteReconciliation removes the record and clears the shift's
	// accounting flag in one transaction.
	DeleteReconciliation(ctx context.Context, tenantID, shiftID string) error
}

// ShiftSource supplies the live shift state and aggregates; implemented
// by the station service.
type ShiftSource interface {
	GetShift(ctx context.Context, tenantID, shiftID string) (station.Shift, error)
	Totals(ctx context.Context, tenantID, shiftID string) (station.ShiftTotals, error)
}
