package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"fueldesk/internal/domain/auth"
	"fueldesk/internal/domain/station"
)

type fakeStore struct {
	recs   map[string]ShiftReconciliation // keyed by shift id
	flags  map[string]bool                // shift id -> accounting done
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{recs: map[string]ShiftReconciliation{}, flags: map[string]bool{}}
}

func (f *fakeStore) CreateReconciliation(_ context.Context, _ string, rec ShiftReconciliation) (string, error) {
	if _, exists := f.recs[rec.ShiftID]; exists {
		return "", ErrAlreadyReconciled
	}
	f.nextID++
	rec.ID = "rec-1"
	rec.CreatedAt = time.Now()
	f.recs[rec.ShiftID] = rec
	f.flags[rec.ShiftID] = true
	return rec.ID, nil
}

func (f *fakeStore) GetReconciliationByShift(_ context.Context, _, shiftID string) (ShiftReconciliation, error) {
	rec, ok := f.recs[shiftID]
	if !ok {
		return ShiftReconciliation{}, ErrReconciliationNotFound
	}
	return rec, nil
}

func (f *fakeStore) UpdateReconciliation(_ context.Context, _ string, rec ShiftReconciliation) error {
	if _, ok := f.recs[rec.ShiftID]; !ok {
		return ErrReconciliationNotFound
	}
	f.recs[rec.ShiftID] = rec
	return nil
}

func (f *fakeStore) DeleteReconciliation(_ context.Context, _, shiftID string) error {
	if _, ok := f.recs[shiftID]; !ok {
		return ErrReconciliationNotFound
	}
	delete(f.recs, shiftID)
	f.flags[shiftID] = false
	return nil
}

type fakeShifts struct {
	shift  station.Shift
	totals station.ShiftTotals
	store  *fakeStore
}

func (f *fakeShifts) GetShift(_ context.Context, _, shiftID string) (station.Shift, error) {
	if shiftID != f.shift.ID {
		return station.Shift{}, station.ErrShiftNotFound
	}
	shift := f.shift
	shift.AccountingDone = f.store.flags[shiftID]
	return shift, nil
}

func (f *fakeShifts) Totals(_ context.Context, _, _ string) (station.ShiftTotals, error) {
	return f.totals, nil
}

var manager = auth.Actor{UserID: "user-1", TenantID: "tenant-1", Role: auth.RoleManager}

func closedShiftFixture(store *fakeStore) *fakeShifts {
	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	return &fakeShifts{
		shift: station.Shift{
			ID:          "shift-1",
			WorkerID:    "worker-1",
			EndTime:     &end,
			OpeningCash: dec("500"),
		},
		totals: station.ShiftTotals{
			FuelSales: dec("10000"),
			Credit:    dec("0"),
			Payments:  dec("0"),
			Expenses:  dec("200"),
		},
		store: store,
	}
}

func TestCreateReconciliationShortage(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, closedShiftFixture(store))

	rec, err := service.Create(context.Background(), manager, "shift-1",
		ElectronicTotals{UPI: dec("3000"), Card: dec("2000"), FleetCard: dec("0")},
		DenominationCounts{Notes2000: 2, Notes500: 2, Notes100: 2},
	)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !rec.ExpectedCash.Equal(dec("5300")) {
		t.Fatalf("expected cash 5300, got %s", rec.ExpectedCash)
	}
	if !rec.CashInHand.Equal(dec("5200")) {
		t.Fatalf("cash in hand 5200, got %s", rec.CashInHand)
	}
	if !rec.Balance.Equal(dec("-100")) {
		t.Fatalf("balance -100, got %s", rec.Balance)
	}
	if !rec.Balance.Equal(rec.CashInHand.Sub(rec.ExpectedCash)) {
		t.Fatal("balance must equal cashInHand - expectedCash")
	}
	if !store.flags["shift-1"] {
		t.Fatal("accounting flag must be set after create")
	}
}

func TestCreateRequiresClosedShift(t *testing.T) {
	store := newFakeStore()
	shifts := closedShiftFixture(store)
	shifts.shift.EndTime = nil
	service := NewService(store, shifts)

	_, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{})
	if !errors.Is(err, ErrShiftNotClosed) {
		t.Fatalf("expected ErrShiftNotClosed, got %v", err)
	}
}

func TestCreateIsGuardedAgainstDuplicates(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, closedShiftFixture(store))

	if _, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{})
	if !errors.Is(err, ErrAlreadyReconciled) {
		t.Fatalf("expected ErrAlreadyReconciled, got %v", err)
	}
}

func TestFrozenTotalsSurviveShiftChanges(t *testing.T) {
	store := newFakeStore()
	shifts := closedShiftFixture(store)
	service := NewService(store, shifts)

	created, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{Notes2000: 5})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A late change to the shift's bills must not alter the record.
	shifts.totals.Credit = dec("9999")

	reread, err := service.GetByShift(context.Background(), "tenant-1", "shift-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !reread.Credit.Equal(created.Credit) || !reread.FuelSales.Equal(created.FuelSales) {
		t.Fatalf("frozen totals changed: %+v vs %+v", reread, created)
	}
	if !reread.ExpectedCash.Equal(created.ExpectedCash) {
		t.Fatal("expected cash must stay frozen")
	}
}

func TestUpdateRecomputesFromLiveShift(t *testing.T) {
	store := newFakeStore()
	shifts := closedShiftFixture(store)
	service := NewService(store, shifts)

	if _, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// An update is a correction: it re-reads the live aggregates.
	shifts.totals.Expenses = dec("700")

	updated, err := service.Update(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{Notes500: 10})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Expenses.Equal(dec("700")) {
		t.Fatalf("expected re-frozen expenses 700, got %s", updated.Expenses)
	}
	if !updated.CashInHand.Equal(dec("5000")) {
		t.Fatalf("expected cash in hand 5000, got %s", updated.CashInHand)
	}
}

func TestDeleteRevertsAccountingFlag(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, closedShiftFixture(store))

	if _, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := service.Delete(context.Background(), manager, "shift-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.flags["shift-1"] {
		t.Fatal("accounting flag must be cleared after delete")
	}
	// Recreate succeeds after delete.
	if _, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{}); err != nil {
		t.Fatalf("recreate failed: %v", err)
	}
	if err := service.Delete(context.Background(), manager, "shift-1"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if err := service.Delete(context.Background(), manager, "shift-1"); !errors.Is(err, ErrReconciliationNotFound) {
		t.Fatalf("expected ErrReconciliationNotFound, got %v", err)
	}
}

func TestCreateRejectsNegativeDenominations(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, closedShiftFixture(store))

	_, err := service.Create(context.Background(), manager, "shift-1", ElectronicTotals{}, DenominationCounts{Notes10: -2})
	if !errors.Is(err, ErrNegativeDenomination) {
		t.Fatalf("expected ErrNegativeDenomination, got %v", err)
	}
}
