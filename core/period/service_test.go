package period_test

import (
	"context"
	"testing"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/period"
	inmemdb "github.com/unidigital/academia/storage/database/inmem"
)

func newService() *period.Service {
	return period.NewService(inmemdb.NewPeriodRepository(inmemdb.NewDB()))
}

func strPtr(s string) *string { return &s }

func TestService_Create_dateRange(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, period.NewPeriod{
		Code: "2025-1", Name: "First Term", StartDate: "2025-06-15", EndDate: "2025-01-15",
	})
	if !core.IsKind(err, core.KindConflict) {
		t.Errorf("Create() error = %v; want Conflict", err)
	}

	per, err := svc.Create(ctx, period.NewPeriod{
		Code: "2025-1", Name: "First Term", StartDate: "2025-01-15", EndDate: "2025-06-15",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !per.IsActive {
		t.Error("new periods start active")
	}
	if per.EndDate.Before(per.StartDate) {
		t.Error("end date precedes start date")
	}

	// single-day terms are allowed
	if _, err = svc.Create(ctx, period.NewPeriod{
		Code: "2025-X", Name: "Exam Day", StartDate: "2025-07-01", EndDate: "2025-07-01",
	}); err != nil {
		t.Errorf("Create() failed on equal dates: %v", err)
	}
}

func TestService_Create_duplicateCode(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	np := period.NewPeriod{Code: "2025-1", Name: "First Term", StartDate: "2025-01-15", EndDate: "2025-06-15"}
	if _, err := svc.Create(ctx, np); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := svc.Create(ctx, np); !core.IsKind(err, core.KindConflict) {
		t.Errorf("Create() error = %v; want Conflict", err)
	}
}

func TestService_Update_partialDates(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	per, err := svc.Create(ctx, period.NewPeriod{
		Code: "2025-1", Name: "First Term", StartDate: "2025-01-15", EndDate: "2025-06-15",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// a new start date is checked against the stored end date
	if _, err = svc.Update(ctx, per.ID, period.UpdatePeriod{StartDate: strPtr("2025-07-01")}); !core.IsKind(err, core.KindConflict) {
		t.Errorf("Update() error = %v; want Conflict", err)
	}

	// a new end date is checked against the stored start date
	if _, err = svc.Update(ctx, per.ID, period.UpdatePeriod{EndDate: strPtr("2025-01-01")}); !core.IsKind(err, core.KindConflict) {
		t.Errorf("Update() error = %v; want Conflict", err)
	}

	// moving both together past the old window is fine
	updated, err := svc.Update(ctx, per.ID, period.UpdatePeriod{
		StartDate: strPtr("2025-07-01"), EndDate: strPtr("2025-12-15"),
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if updated.StartDate.Format(period.DateLayout) != "2025-07-01" {
		t.Errorf("start date = %v", updated.StartDate)
	}

	// a name-only update never touches the dates
	if _, err = svc.Update(ctx, per.ID, period.UpdatePeriod{Name: strPtr("Renamed Term")}); err != nil {
		t.Errorf("Update() failed: %v", err)
	}
}

func TestService_Deactivate(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	per, err := svc.Create(ctx, period.NewPeriod{
		Code: "2025-1", Name: "First Term", StartDate: "2025-01-15", EndDate: "2025-06-15",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	per, err = svc.Deactivate(ctx, per.ID)
	if err != nil {
		t.Fatalf("Deactivate() failed: %v", err)
	}
	if per.IsActive {
		t.Error("period still active after Deactivate()")
	}

	if _, err = svc.Deactivate(ctx, 999); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("Deactivate() error = %v; want NotFound", err)
	}
}
