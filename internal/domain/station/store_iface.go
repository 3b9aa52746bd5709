package station

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	FindOpenAssignmentByNozzle(ctx context.Context, tenantID, nozzleID string) (*NozzleAssignment, error)
	GetAssignment(ctx context.Context, tenantID, assignmentID string) (NozzleAssignment, error)
	CreateAssignment(ctx context.Context, tenantID string, assignment NozzleAssignment) (string, error)
	CloseAssignment(ctx context.Context, tenantID, assignmentID string, endTime time.Time, closing, dispensed, total, unitPrice decimal.Decimal) error
	ListAssignmentsForShift(ctx context.Context, tenantID, shiftID string) ([]NozzleAssignment, error)

	GetShift(ctx context.Context, tenantID, shiftID string) (Shift, error)
	CreateShift(ctx context.Context, tenantID string, shift Shift) (string, error)
	SetShiftEndTime(ctx context.Context, tenantID, shiftID string, endTime time.Time) error

	ListNozzleTestsForShift(ctx context.Context, tenantID, shiftID string) ([]NozzleTest, error)
	CreateNozzleTest(ctx context.Context, tenantID string, test NozzleTest) (string, error)
	ListCreditBillsForShift(ctx context.Context, tenantID, shiftID string) ([]CreditBill, error)
	CreateCreditBill(ctx context.Context, tenantID string, bill CreditBill) (string, error)
	ListPaymentsForShift(ctx context.Context, tenantID, shiftID string) ([]ShiftPayment, error)
	CreatePayment(ctx context.Context, tenantID string, payment ShiftPayment) (string, error)
	ListExpensesForShift(ctx context.Context, tenantID, shiftID string) ([]ShiftExpense, error)
	CreateExpense(ctx context.Context, tenantID string, expense ShiftExpense) (string, error)

	NozzleProductID(ctx context.Context, tenantID, nozzleID string) (string, error)
	ResolveUnitPrice(ctx context.Context, tenantID, productID string, at time.Time) (decimal.Decimal, error)
}
