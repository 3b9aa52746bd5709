package station

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fueldesk/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type OpenAssignmentInput struct {
	NozzleID       string
	WorkerID       string
	ShiftID        string
	StartTime      time.Time // zero value means server clock
	OpeningBalance decimal.Decimal
}

// OpenAssignment hands a nozzle to a worker. The per-nozzle at-most-one
// OPEN invariant is checked here and backed by a partial unique index,
// so two concurrent opens on the same nozzle cannot both commit.
func (s *Service) OpenAssignment(ctx context.Context, actor auth.Actor, in OpenAssignmentInput) (string, error) {
	if in.OpeningBalance.IsNegative() {
		return "", ErrNegativeOpening
	}
	startTime, err := resolveTimestamp(actor, in.StartTime)
	if err != nil {
		return "", err
	}

	shift, err := s.store.GetShift(ctx, actor.TenantID, in.ShiftID)
	if err != nil {
		return "", err
	}
	if shift.EndTime != nil {
		return "", ErrShiftAlreadyClosed
	}

	open, err := s.store.FindOpenAssignmentByNozzle(ctx, actor.TenantID, in.NozzleID)
	if err != nil {
		return "", err
	}
	if open != nil {
		return "", ErrNozzleInUse
	}

	productID, err := s.store.NozzleProductID(ctx, actor.TenantID, in.NozzleID)
	if err != nil {
		return "", err
	}

	return s.store.CreateAssignment(ctx, actor.TenantID, NozzleAssignment{
		NozzleID:       in.NozzleID,
		ProductID:      productID,
		WorkerID:       in.WorkerID,
		ShiftID:        in.ShiftID,
		StartTime:      startTime,
		OpeningBalance: in.OpeningBalance.Round(VolumeScale),
		Status:         AssignmentOpen,
	})
}

// CloseAssignment transitions OPEN -> CLOSED exactly once. The unit
// price is resolved at close time and the dispensed/total amounts are
// frozen on the row; later price changes never touch them.
func (s *Service) CloseAssignment(ctx context.Context, actor auth.Actor, assignmentID string, endTime time.Time, closingBalance decimal.Decimal) (AssignmentSummary, error) {
	assignment, err := s.store.GetAssignment(ctx, actor.TenantID, assignmentID)
	if err != nil {
		return AssignmentSummary{}, err
	}
	if assignment.Status == AssignmentClosed {
		return AssignmentSummary{}, ErrAssignmentClosed
	}
	if closingBalance.LessThan(assignment.OpeningBalance) {
		return AssignmentSummary{}, ErrClosingBelowOpening
	}
	resolvedEnd, err := resolveTimestamp(actor, endTime)
	if err != nil {
		return AssignmentSummary{}, err
	}

	unitPrice, err := s.store.ResolveUnitPrice(ctx, actor.TenantID, assignment.ProductID, resolvedEnd)
	if err != nil {
		return AssignmentSummary{}, err
	}

	closing := closingBalance.Round(VolumeScale)
	dispensed := DispensedVolume(assignment.OpeningBalance, closing)
	total := SaleValue(dispensed, unitPrice)

	if err := s.store.CloseAssignment(ctx, actor.TenantID, assignmentID, resolvedEnd, closing, dispensed, total, unitPrice); err != nil {
		return AssignmentSummary{}, err
	}

	return AssignmentSummary{
		AssignmentID:    assignmentID,
		EndTime:         resolvedEnd,
		DispensedAmount: dispensed,
		TotalAmount:     total,
		UnitPrice:       unitPrice,
	}, nil
}

type CreateShiftInput struct {
	WorkerID     string
	WorkPeriodID string
	Date         time.Time
	StartTime    time.Time // zero value means server clock
	OpeningCash  decimal.Decimal
}

func (s *Service) CreateShift(ctx context.Context, actor auth.Actor, in CreateShiftInput) (string, error) {
	if in.OpeningCash.IsNegative() {
		return "", ErrNegativeAmount
	}
	startTime, err := resolveTimestamp(actor, in.StartTime)
	if err != nil {
		return "", err
	}
	date := in.Date
	if date.IsZero() {
		date = startTime
	}
	return s.store.CreateShift(ctx, actor.TenantID, Shift{
		WorkerID:     in.WorkerID,
		WorkPeriodID: in.WorkPeriodID,
		Date:         date,
		StartTime:    startTime,
		OpeningCash:  in.OpeningCash.Round(MoneyScale),
	})
}

// CloseShift records the end time once every nozzle assignment is
// closed. It does not freeze financials; bills and payments stay
// correctable until reconciliation runs.
func (s *Service) CloseShift(ctx context.Context, actor auth.Actor, shiftID string, endTime time.Time) error {
	shift, err := s.store.GetShift(ctx, actor.TenantID, shiftID)
	if err != nil {
		return err
	}
	if shift.EndTime != nil {
		return ErrShiftAlreadyClosed
	}

	assignments, err := s.store.ListAssignmentsForShift(ctx, actor.TenantID, shiftID)
	if err != nil {
		return err
	}
	if OpenNozzleCount(assignments) > 0 {
		return ErrShiftHasOpenNozzles
	}

	resolvedEnd, err := resolveTimestamp(actor, endTime)
	if err != nil {
		return err
	}
	return s.store.SetShiftEndTime(ctx, actor.TenantID, shiftID, resolvedEnd)
}

func (s *Service) GetShift(ctx context.Context, tenantID, shiftID string) (Shift, error) {
	return s.store.GetShift(ctx, tenantID, shiftID)
}

// Totals derives the shift aggregates fresh from its children. Nozzle
// tests are valued at the unit price in force at shift end (or now for
// a still-open shift) and deducted from fuel sales.
func (s *Service) Totals(ctx context.Context, tenantID, shiftID string) (ShiftTotals, error) {
	shift, err := s.store.GetShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}

	assignments, err := s.store.ListAssignmentsForShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}
	tests, err := s.store.ListNozzleTestsForShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}
	bills, err := s.store.ListCreditBillsForShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}
	payments, err := s.store.ListPaymentsForShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}
	expenses, err := s.store.ListExpensesForShift(ctx, tenantID, shiftID)
	if err != nil {
		return ShiftTotals{}, err
	}

	priceAt := time.Now()
	if shift.EndTime != nil {
		priceAt = *shift.EndTime
	}
	prices := map[string]decimal.Decimal{}
	var priceErr error
	priceOf := func(productID string) decimal.Decimal {
		if price, ok := prices[productID]; ok {
			return price
		}
		price, err := s.store.ResolveUnitPrice(ctx, tenantID, productID, priceAt)
		if err != nil {
			priceErr = err
			price = decimal.Zero
		}
		prices[productID] = price
		return price
	}

	fuelSales := SumClosedSales(assignments).Sub(TestDeduction(tests, priceOf))
	if priceErr != nil {
		return ShiftTotals{}, priceErr
	}

	open := OpenNozzleCount(assignments)
	return ShiftTotals{
		FuelSales:         fuelSales.Round(MoneyScale),
		Credit:            SumCreditBills(bills).Round(MoneyScale),
		Payments:          SumPayments(payments).Round(MoneyScale),
		Expenses:          SumExpenses(expenses).Round(MoneyScale),
		OpenAssignments:   open,
		ClosedAssignments: len(assignments) - open,
	}, nil
}

func (s *Service) ListAssignments(ctx context.Context, tenantID, shiftID string) ([]NozzleAssignment, error) {
	return s.store.ListAssignmentsForShift(ctx, tenantID, shiftID)
}

func (s *Service) RecordNozzleTest(ctx context.Context, actor auth.Actor, shiftID, nozzleID string, quantity decimal.Decimal, testedAt time.Time) (string, error) {
	if quantity.IsNegative() {
		return "", ErrNegativeAmount
	}
	if err := s.requireUnreconciled(ctx, actor.TenantID, shiftID); err != nil {
		return "", err
	}
	at, err := resolveTimestamp(actor, testedAt)
	if err != nil {
		return "", err
	}
	productID, err := s.store.NozzleProductID(ctx, actor.TenantID, nozzleID)
	if err != nil {
		return "", err
	}
	return s.store.CreateNozzleTest(ctx, actor.TenantID, NozzleTest{
		ShiftID:   shiftID,
		NozzleID:  nozzleID,
		ProductID: productID,
		Quantity:  quantity.Round(VolumeScale),
		TestedAt:  at,
	})
}

func (s *Service) AddCreditBill(ctx context.Context, actor auth.Actor, bill CreditBill) (string, error) {
	if bill.NetAmount.IsNegative() {
		return "", ErrNegativeAmount
	}
	if err := s.requireUnreconciled(ctx, actor.TenantID, bill.ShiftID); err != nil {
		return "", err
	}
	at, err := resolveTimestamp(actor, bill.BilledAt)
	if err != nil {
		return "", err
	}
	bill.BilledAt = at
	bill.NetAmount = bill.NetAmount.Round(MoneyScale)
	return s.store.CreateCreditBill(ctx, actor.TenantID, bill)
}

func (s *Service) AddPayment(ctx context.Context, actor auth.Actor, payment ShiftPayment) (string, error) {
	if payment.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	if err := s.requireUnreconciled(ctx, actor.TenantID, payment.ShiftID); err != nil {
		return "", err
	}
	at, err := resolveTimestamp(actor, payment.ReceivedAt)
	if err != nil {
		return "", err
	}
	payment.ReceivedAt = at
	payment.Amount = payment.Amount.Round(MoneyScale)
	return s.store.CreatePayment(ctx, actor.TenantID, payment)
}

func (s *Service) AddExpense(ctx context.Context, actor auth.Actor, expense ShiftExpense) (string, error) {
	if expense.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	if err := s.requireUnreconciled(ctx, actor.TenantID, expense.ShiftID); err != nil {
		return "", err
	}
	at, err := resolveTimestamp(actor, expense.SpentAt)
	if err != nil {
		return "", err
	}
	expense.SpentAt = at
	expense.Amount = expense.Amount.Round(MoneyScale)
	return s.store.CreateExpense(ctx, actor.TenantID, expense)
}

// requireUnreconciled blocks late corrections once the shift's
// reconciliation froze its totals.
func (s *Service) requireUnreconciled(ctx context.Context, tenantID, shiftID string) error {
	shift, err := s.store.GetShift(ctx, tenantID, shiftID)
	if err != nil {
		return err
	}
	if shift.AccountingDone {
		return ErrShiftReconciled
	}
	return nil
}

func resolveTimestamp(actor auth.Actor, supplied time.Time) (time.Time, error) {
	if supplied.IsZero() {
		return time.Now(), nil
	}
	if !auth.CanBackdate(actor) {
		return time.Time{}, ErrBackdateNotAllowed
	}
	return supplied, nil
}
