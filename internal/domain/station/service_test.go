package station

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fueldesk/internal/domain/auth"
)

type fakeStore struct {
	assignments    map[string]NozzleAssignment
	shifts         map[string]Shift
	tests          []NozzleTest
	bills          []CreditBill
	payments       []ShiftPayment
	expenses       []ShiftExpense
	prices         map[string]decimal.Decimal
	nozzleProducts map[string]string
	nextID         int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assignments:    map[string]NozzleAssignment{},
		shifts:         map[string]Shift{},
		prices:         map[string]decimal.Decimal{},
		nozzleProducts: map[string]string{},
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) FindOpenAssignmentByNozzle(_ context.Context, _, nozzleID string) (*NozzleAssignment, error) {
	for _, a := range f.assignments {
		if a.NozzleID == nozzleID && a.Status == AssignmentOpen {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAssignment(_ context.Context, _, assignmentID string) (NozzleAssignment, error) {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return NozzleAssignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, _ string, a NozzleAssignment) (string, error) {
	a.ID = f.id("assignment")
	f.assignments[a.ID] = a
	return a.ID, nil
}

func (f *fakeStore) CloseAssignment(_ context.Context, _, assignmentID string, endTime time.Time, closing, dispensed, total, unitPrice decimal.Decimal) error {
	a, ok := f.assignments[assignmentID]
	if !ok {
		return ErrAssignmentNotFound
	}
	if a.Status != AssignmentOpen {
		return ErrAssignmentClosed
	}
	a.Status = AssignmentClosed
	a.EndTime = &endTime
	a.ClosingBalance = &closing
	a.DispensedAmount = &dispensed
	a.TotalAmount = &total
	a.UnitPrice = &unitPrice
	f.assignments[assignmentID] = a
	return nil
}

func (f *fakeStore) ListAssignmentsForShift(_ context.Context, _, shiftID string) ([]NozzleAssignment, error) {
	var out []NozzleAssignment
	for _, a := range f.assignments {
		if a.ShiftID == shiftID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetShift(_ context.Context, _, shiftID string) (Shift, error) {
	shift, ok := f.shifts[shiftID]
	if !ok {
		return Shift{}, ErrShiftNotFound
	}
	return shift, nil
}

func (f *fakeStore) CreateShift(_ context.Context, _ string, shift Shift) (string, error) {
	shift.ID = f.id("shift")
	f.shifts[shift.ID] = shift
	return shift.ID, nil
}

func (f *fakeStore) SetShiftEndTime(_ context.Context, _, shiftID string, endTime time.Time) error {
	shift, ok := f.shifts[shiftID]
	if !ok {
		return ErrShiftNotFound
	}
	if shift.EndTime != nil {
		return ErrShiftAlreadyClosed
	}
	shift.EndTime = &endTime
	f.shifts[shiftID] = shift
	return nil
}

func (f *fakeStore) ListNozzleTestsForShift(_ context.Context, _, shiftID string) ([]NozzleTest, error) {
	var out []NozzleTest
	for _, test := range f.tests {
		if test.ShiftID == shiftID {
			out = append(out, test)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateNozzleTest(_ context.Context, _ string, test NozzleTest) (string, error) {
	test.ID = f.id("test")
	f.tests = append(f.tests, test)
	return test.ID, nil
}

func (f *fakeStore) ListCreditBillsForShift(_ context.Context, _, shiftID string) ([]CreditBill, error) {
	var out []CreditBill
	for _, bill := range f.bills {
		if bill.ShiftID == shiftID {
			out = append(out, bill)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateCreditBill(_ context.Context, _ string, bill CreditBill) (string, error) {
	bill.ID = f.id("bill")
	f.bills = append(f.bills, bill)
	return bill.ID, nil
}

func (f *fakeStore) ListPaymentsForShift(_ context.Context, _, shiftID string) ([]ShiftPayment, error) {
	var out []ShiftPayment
	for _, payment := range f.payments {
		if payment.ShiftID == shiftID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePayment(_ context.Context, _ string, payment ShiftPayment) (string, error) {
	payment.ID = f.id("payment")
	f.payments = append(f.payments, payment)
	return payment.ID, nil
}

func (f *fakeStore) ListExpensesForShift(_ context.Context, _, shiftID string) ([]ShiftExpense, error) {
	var out []ShiftExpense
	for _, expense := range f.expenses {
		if expense.ShiftID == shiftID {
			out = append(out, expense)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateExpense(_ context.Context, _ string, expense ShiftExpense) (string, error) {
	expense.ID = f.id("expense")
	f.expenses = append(f.expenses, expense)
	return expense.ID, nil
}

func (f *fakeStore) NozzleProductID(_ context.Context, _, nozzleID string) (string, error) {
	productID, ok := f.nozzleProducts[nozzleID]
	if !ok {
		return "", ErrAssignmentNotFound
	}
	return productID, nil
}

func (f *fakeStore) ResolveUnitPrice(_ context.Context, _, productID string, _ time.Time) (decimal.Decimal, error) {
	price, ok := f.prices[productID]
	if !ok {
		return decimal.Zero, ErrPriceNotFound
	}
	return price, nil
}

var manager = auth.Actor{UserID: "user-1", TenantID: "tenant-1", Role: auth.RoleManager}

func setupShift(t *testing.T, store *fakeStore) string {
	t.Helper()
	store.nozzleProducts["nozzle-1"] = "petrol"
	store.nozzleProducts["nozzle-2"] = "petrol"
	store.prices["petrol"] = dec("100.00")
	shiftID, err := store.CreateShift(context.Background(), "tenant-1", Shift{
		WorkerID:    "worker-1",
		StartTime:   time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
		OpeningCash: dec("500.00"),
	})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return shiftID
}

func TestOpenAssignmentRejectsNegativeOpening(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	_, err := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID:       "nozzle-1",
		WorkerID:       "worker-1",
		ShiftID:        shiftID,
		OpeningBalance: dec("-1"),
	})
	if !errors.Is(err, ErrNegativeOpening) {
		t.Fatalf("expected ErrNegativeOpening, got %v", err)
	}
}

func TestOpenAssignmentConflictsOnBusyNozzle(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	input := OpenAssignmentInput{
		NozzleID:       "nozzle-1",
		WorkerID:       "worker-1",
		ShiftID:        shiftID,
		OpeningBalance: dec("1000.000"),
	}
	if _, err := service.OpenAssignment(context.Background(), manager, input); err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if _, err := service.OpenAssignment(context.Background(), manager, input); !errors.Is(err, ErrNozzleInUse) {
		t.Fatalf("expected ErrNozzleInUse, got %v", err)
	}
}

func TestCloseAssignmentFreezesAmounts(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	id, err := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID:       "nozzle-1",
		WorkerID:       "worker-1",
		ShiftID:        shiftID,
		OpeningBalance: dec("1000.000"),
	})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	endTime := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	summary, err := service.CloseAssignment(context.Background(), manager, id, endTime, dec("1500.500"))
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !summary.DispensedAmount.Equal(dec("500.500")) {
		t.Fatalf("expected dispensed 500.500, got %s", summary.DispensedAmount)
	}
	if !summary.TotalAmount.Equal(dec("50050.00")) {
		t.Fatalf("expected total 50050.00, got %s", summary.TotalAmount)
	}

	// Price changes after close must not touch the frozen amounts.
	store.prices["petrol"] = dec("120.00")
	stored, _ := store.GetAssignment(context.Background(), "tenant-1", id)
	if !TotalAmount(stored).Equal(dec("50050.00")) {
		t.Fatalf("frozen total changed: %s", TotalAmount(stored))
	}
}

func TestCloseAssignmentTwiceIsInvalidState(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	id, _ := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID: "nozzle-1", WorkerID: "worker-1", ShiftID: shiftID, OpeningBalance: dec("100.000"),
	})
	endTime := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	if _, err := service.CloseAssignment(context.Background(), manager, id, endTime, dec("200.000")); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	_, err := service.CloseAssignment(context.Background(), manager, id, endTime.Add(time.Hour), dec("300.000"))
	if !errors.Is(err, ErrAssignmentClosed) {
		t.Fatalf("expected ErrAssignmentClosed, got %v", err)
	}
	stored, _ := store.GetAssignment(context.Background(), "tenant-1", id)
	if !stored.ClosingBalance.Equal(dec("200.000")) {
		t.Fatalf("failed close mutated state: %s", stored.ClosingBalance)
	}
}

func TestCloseAssignmentRejectsClosingBelowOpening(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	id, _ := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID: "nozzle-1", WorkerID: "worker-1", ShiftID: shiftID, OpeningBalance: dec("500.000"),
	})
	_, err := service.CloseAssignment(context.Background(), manager, id, time.Now(), dec("499.999"))
	if !errors.Is(err, ErrClosingBelowOpening) {
		t.Fatalf("expected ErrClosingBelowOpening, got %v", err)
	}
	stored, _ := store.GetAssignment(context.Background(), "tenant-1", id)
	if stored.Status != AssignmentOpen {
		t.Fatalf("assignment must remain OPEN after rejected close, got %s", stored.Status)
	}
}

func TestCloseShiftRequiresAllNozzlesClosed(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	id, _ := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID: "nozzle-1", WorkerID: "worker-1", ShiftID: shiftID, OpeningBalance: dec("100.000"),
	})

	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	if err := service.CloseShift(context.Background(), manager, shiftID, end); !errors.Is(err, ErrShiftHasOpenNozzles) {
		t.Fatalf("expected ErrShiftHasOpenNozzles, got %v", err)
	}

	if _, err := service.CloseAssignment(context.Background(), manager, id, end, dec("150.000")); err != nil {
		t.Fatalf("close assignment: %v", err)
	}
	if err := service.CloseShift(context.Background(), manager, shiftID, end); err != nil {
		t.Fatalf("close shift: %v", err)
	}
	if err := service.CloseShift(context.Background(), manager, shiftID, end); !errors.Is(err, ErrShiftAlreadyClosed) {
		t.Fatalf("expected ErrShiftAlreadyClosed, got %v", err)
	}
}

func TestTotalsDeductsTestFuel(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	id, _ := service.OpenAssignment(context.Background(), manager, OpenAssignmentInput{
		NozzleID: "nozzle-1", WorkerID: "worker-1", ShiftID: shiftID, OpeningBalance: dec("0.000"),
	})
	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	if _, err := service.CloseAssignment(context.Background(), manager, id, end, dec("100.000")); err != nil {
		t.Fatalf("close assignment: %v", err)
	}
	if _, err := service.RecordNozzleTest(context.Background(), manager, shiftID, "nozzle-1", dec("5.000"), end); err != nil {
		t.Fatalf("record test: %v", err)
	}
	if _, err := service.AddCreditBill(context.Background(), manager, CreditBill{ShiftID: shiftID, CustomerID: "customer-1", NetAmount: dec("1200.00"), BilledAt: end}); err != nil {
		t.Fatalf("add bill: %v", err)
	}
	if _, err := service.AddExpense(context.Background(), manager, ShiftExpense{ShiftID: shiftID, Amount: dec("200.00"), Description: "tea", SpentAt: end}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	totals, err := service.Totals(context.Background(), "tenant-1", shiftID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	// 100 litres sold minus 5 litres of test draws, both at 100.00.
	if !totals.FuelSales.Equal(dec("9500.00")) {
		t.Fatalf("expected fuel sales 9500.00, got %s", totals.FuelSales)
	}
	if !totals.Credit.Equal(dec("1200.00")) {
		t.Fatalf("expected credit 1200.00, got %s", totals.Credit)
	}
	if !totals.Expenses.Equal(dec("200.00")) {
		t.Fatalf("expected expenses 200.00, got %s", totals.Expenses)
	}
	if !totals.Complete() {
		t.Fatal("expected complete shift")
	}
}

func TestAttendantCannotBackdate(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	attendant := auth.Actor{UserID: "user-2", TenantID: "tenant-1", Role: auth.RoleAttendant}
	_, err := service.OpenAssignment(context.Background(), attendant, OpenAssignmentInput{
		NozzleID:       "nozzle-1",
		WorkerID:       "worker-1",
		ShiftID:        shiftID,
		StartTime:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		OpeningBalance: dec("0.000"),
	})
	if !errors.Is(err, ErrBackdateNotAllowed) {
		t.Fatalf("expected ErrBackdateNotAllowed, got %v", err)
	}
}

func TestMutationsBlockedAfterReconciliation(t *testing.T) {
	store := newFakeStore()
	shiftID := setupShift(t, store)
	service := NewService(store)

	shift := store.shifts[shiftID]
	shift.AccountingDone = true
	store.shifts[shiftID] = shift

	_, err := service.AddPayment(context.Background(), manager, ShiftPayment{ShiftID: shiftID, Amount: dec("100.00"), ReceivedAt: time.Now()})
	if !errors.Is(err, ErrShiftReconciled) {
		t.Fatalf("expected ErrShiftReconciled, got %v", err)
	}
}
