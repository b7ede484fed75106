package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/student"
	dummydb "github.com/almapaid/backend/storage/database/dummy"
	testutil "github.com/almapaid/backend/tests"
)

func setup(t *testing.T, now time.Time) (*billing.Service, *dummydb.DB) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := testutil.NewTestConfig().Billing
	repo := dummydb.NewBillingRepository(db, conf.ActiveStatus)
	svc := billing.NewService(repo, conf, func() time.Time { return now })
	return svc, db
}

var (
	beforeCutoff = time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)
	afterCutoff  = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
)

func TestService_CurrentDue(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		fees          []float64
		wantSubtotal  float64
		wantSurcharge float64
		wantTotal     float64
	}{
		{name: "before cutoff", now: beforeCutoff, fees: []float64{15000, 8000}, wantSubtotal: 23000, wantSurcharge: 0, wantTotal: 23000},
		{name: "on/after cutoff", now: afterCutoff, fees: []float64{15000, 8000}, wantSubtotal: 23000, wantSurcharge: 2000, wantTotal: 25000},
		{name: "no enrollments before cutoff", now: beforeCutoff, wantSubtotal: 0, wantSurcharge: 0, wantTotal: 0},
		{name: "no enrollments after cutoff", now: afterCutoff, wantSubtotal: 0, wantSurcharge: 2000, wantTotal: 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setup(t, tt.now)
			repo := dummydb.NewBillingRepository(db, student.StatusActive)

			stu := testutil.CreateStudent(t, repo, "Ana García", "30111222", "ana@test.ar")
			for _, fee := range tt.fees {
				crs := testutil.CreateCourse(t, repo, "Curso", fee)
				testutil.Enroll(t, repo, stu, crs)
			}

			due, err := svc.CurrentDue(context.Background(), stu.ID)
			if err != nil {
				t.Fatalf("CurrentDue() failed: %v", err)
			}
			if due.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %v; want %v", due.Subtotal, tt.wantSubtotal)
			}
			if due.Surcharge != tt.wantSurcharge {
				t.Errorf("Surcharge = %v; want %v", due.Surcharge, tt.wantSurcharge)
			}
			if due.Total != tt.wantTotal {
				t.Errorf("Total = %v; want %v", due.Total, tt.wantTotal)
			}
			if due.Total != due.Subtotal+due.Surcharge {
				t.Errorf("Total = %v; want Subtotal+Surcharge = %v", due.Total, due.Subtotal+due.Surcharge)
			}
		})
	}
}

func TestService_CurrentDue_inactiveEnrollmentsDoNotCount(t *testing.T) {
	svc, db := setup(t, afterCutoff)
	repo := dummydb.NewBillingRepository(db, student.StatusActive)

	stu := testutil.CreateStudent(t, repo, "Bruno Díaz", "28999888", "")
	active := testutil.CreateCourse(t, repo, "Guitarra", 12000)
	dropped := testutil.CreateCourse(t, repo, "Canto", 9000)
	testutil.Enroll(t, repo, stu, active)
	testutil.Enroll(t, repo, stu, dropped, "baja")

	courses, subtotal, err := svc.Ledger(context.Background(), stu.ID)
	if err != nil {
		t.Fatalf("Ledger() failed: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("len(courses) = %d; want 1", len(courses))
	}
	if courses[0].ID != active.ID {
		t.Errorf("courses[0].ID = %s; want %s", courses[0].ID, active.ID)
	}
	if subtotal != 12000 {
		t.Errorf("subtotal = %v; want 12000", subtotal)
	}
}

func TestService_CurrentDue_unknownStudent(t *testing.T) {
	svc, _ := setup(t, afterCutoff)

	if _, err := svc.CurrentDue(context.Background(), "nope"); err != student.ErrNotFound {
		t.Errorf("CurrentDue() error = %v; want %v", err, student.ErrNotFound)
	}
}

func TestService_NextDue_matchesCurrentDue(t *testing.T) {
	svc, db := setup(t, afterCutoff)
	repo := dummydb.NewBillingRepository(db, student.StatusActive)

	stu := testutil.CreateStudent(t, repo, "Carla Pérez", "31222333", "")
	crs := testutil.CreateCourse(t, repo, "Piano", 18000)
	testutil.Enroll(t, repo, stu, crs)

	current, err := svc.CurrentDue(context.Background(), stu.ID)
	if err != nil {
		t.Fatalf("CurrentDue() failed: %v", err)
	}
	next, err := svc.NextDue(context.Background(), stu.ID)
	if err != nil {
		t.Fatalf("NextDue() failed: %v", err)
	}
	if next != current {
		t.Errorf("NextDue() = %+v; want %+v", next, current)
	}
}

func TestService_PaymentsSummary(t *testing.T) {
	now := afterCutoff
	cycleStart := student.CycleStart(now)

	svc, db := setup(t, now)
	repo := dummydb.NewBillingRepository(db, student.StatusActive)

	crs := testutil.CreateCourse(t, repo, "Teatro", 10000)
	other := testutil.CreateCourse(t, repo, "Danza", 8000)

	paid := testutil.CreateStudent(t, repo, "Paga", "1", "", cycleStart.Add(48*time.Hour))
	unpaidOld := testutil.CreateStudent(t, repo, "Atrasada", "2", "", cycleStart.Add(-time.Hour))
	unpaidNever := testutil.CreateStudent(t, repo, "Nueva", "3", "")
	outsider := testutil.CreateStudent(t, repo, "Otra", "4", "", cycleStart.Add(24*time.Hour))

	testutil.Enroll(t, repo, paid, crs)
	testutil.Enroll(t, repo, unpaidOld, crs)
	testutil.Enroll(t, repo, unpaidNever, crs)
	testutil.Enroll(t, repo, outsider, other)

	t.Run("all students", func(t *testing.T) {
		summary, err := svc.PaymentsSummary(context.Background(), "")
		if err != nil {
			t.Fatalf("PaymentsSummary() failed: %v", err)
		}
		if got := summary[billing.BucketPaid]; got != 2 {
			t.Errorf("paid = %d; want 2", got)
		}
		if got := summary[billing.BucketUnpaid]; got != 2 {
			t.Errorf("unpaid = %d; want 2", got)
		}
	})

	t.Run("course filter", func(t *testing.T) {
		summary, err := svc.PaymentsSummary(context.Background(), crs.ID)
		if err != nil {
			t.Fatalf("PaymentsSummary() failed: %v", err)
		}
		if got := summary[billing.BucketPaid]; got != 1 {
			t.Errorf("paid = %d; want 1", got)
		}
		if got := summary[billing.BucketUnpaid]; got != 2 {
			t.Errorf("unpaid = %d; want 2", got)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		if _, err := svc.PaymentsSummary(context.Background(), "nope"); err != course.ErrNotFound {
			t.Errorf("PaymentsSummary() error = %v; want %v", err, course.ErrNotFound)
		}
	})
}

func TestService_Invoices(t *testing.T) {
	svc, db := setup(t, afterCutoff)
	repo := dummydb.NewBillingRepository(db, student.StatusActive)

	stu1 := testutil.CreateStudent(t, repo, "Uno", "1", "")
	stu2 := testutil.CreateStudent(t, repo, "Dos", "2", "")
	crs := testutil.CreateCourse(t, repo, "Violín", 20000)
	testutil.Enroll(t, repo, stu1, crs)

	invoices, err := svc.Invoices(context.Background())
	if err != nil {
		t.Fatalf("Invoices() failed: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("len(invoices) = %d; want 2", len(invoices))
	}

	byID := make(map[string]billing.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.Student.ID] = inv
	}
	if got := byID[stu1.ID].Current.Total; got != 22000 {
		t.Errorf("stu1 Current.Total = %v; want 22000", got)
	}
	if got := byID[stu2.ID].Current.Total; got != 2000 {
		t.Errorf("stu2 Current.Total = %v; want 2000", got)
	}
	if _, ok := byID[stu2.ID]; !ok {
		t.Error("stu2 missing from invoices")
	}
}
