package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/student"
	dummydb "github.com/almapaid/backend/storage/database/dummy"
	testutil "github.com/almapaid/backend/tests"
)

var now = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*student.Service, *dummydb.DB) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewStudentRepository(db, student.StatusActive)
	svc := student.NewService(repo, func() time.Time { return now })
	return svc, db
}

func ids(students []student.Student) []string {
	out := make([]string, 0, len(students))
	for _, stu := range students {
		out = append(out, stu.ID)
	}
	return out
}

func TestService_Search(t *testing.T) {
	svc, db := setup(t)
	repo := dummydb.NewStudentRepository(db, student.StatusActive)

	ana := testutil.CreateStudent(t, repo, "Ana García", "30111222", "ana@test.ar")
	anabella := testutil.CreateStudent(t, repo, "Anabella López", "28555444", "anabella@test.ar")
	bruno := testutil.CreateStudent(t, repo, "Bruno Díaz", "30111299", "bruno@test.ar")

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "name prefix, case-insensitive", term: "ana", wantIDs: []string{ana.ID, anabella.ID}},
		{name: "name fragment, upper", term: "GARC", wantIDs: []string{ana.ID}},
		{name: "dni fragment", term: "301112", wantIDs: []string{ana.ID, bruno.ID}},
		{name: "email", term: "bruno@test.ar", wantIDs: []string{bruno.ID}},
		{name: "no match", term: "zzz", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, err := svc.Search(context.Background(), tt.term, "", nil)
			if err != nil {
				t.Fatalf("Search() failed: %v", err)
			}
			if students == nil {
				t.Fatal("Search() = nil; want empty slice")
			}
			got := ids(students)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search() ids = %v; want %v", got, tt.wantIDs)
			}
			want := make(map[string]bool, len(tt.wantIDs))
			for _, id := range tt.wantIDs {
				want[id] = true
			}
			for _, id := range got {
				if !want[id] {
					t.Errorf("Search() returned unexpected id %s", id)
				}
			}
		})
	}
}

func TestService_Search_emptyTerm(t *testing.T) {
	svc, _ := setup(t)

	for _, term := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), term, "", nil)
		if err == nil {
			t.Fatalf("Search(%q) expected error", term)
		}
		vErr, ok := err.(*core.ValidationError)
		if !ok {
			t.Fatalf("Search(%q) error = %T; want *core.ValidationError", term, err)
		}
		if len(vErr.Fields) == 0 || vErr.Fields[0].Field != "search" {
			t.Errorf("Search(%q) fields = %+v; want search field error", term, vErr.Fields)
		}
	}
}

func TestService_Resolve(t *testing.T) {
	svc, db := setup(t)
	repo := dummydb.NewStudentRepository(db, student.StatusActive)

	testutil.CreateStudent(t, repo, "Ana García", "30111222", "ana@test.ar")
	testutil.CreateStudent(t, repo, "Anabella López", "28555444", "anabella@test.ar")
	bruno := testutil.CreateStudent(t, repo, "Bruno Díaz", "27123456", "bruno@test.ar")

	t.Run("none", func(t *testing.T) {
		match, err := svc.Resolve(context.Background(), "zzz")
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if !match.None() || match.Ambiguous() {
			t.Errorf("match = %+v; want none", match)
		}
		if _, ok := match.Unique(); ok {
			t.Error("Unique() = true; want false")
		}
	})

	t.Run("unique", func(t *testing.T) {
		match, err := svc.Resolve(context.Background(), "bruno")
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		stu, ok := match.Unique()
		if !ok {
			t.Fatalf("match = %+v; want unique", match)
		}
		if stu.ID != bruno.ID {
			t.Errorf("stu.ID = %s; want %s", stu.ID, bruno.ID)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		match, err := svc.Resolve(context.Background(), "ana")
		if err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if !match.Ambiguous() {
			t.Errorf("match = %+v; want ambiguous", match)
		}
	})
}

func TestService_Filter_paid(t *testing.T) {
	svc, db := setup(t)
	repo := dummydb.NewStudentRepository(db, student.StatusActive)

	cycleStart := student.CycleStart(now)
	paid := testutil.CreateStudent(t, repo, "Paga", "1", "", cycleStart.Add(24*time.Hour))
	unpaid := testutil.CreateStudent(t, repo, "Debe", "2", "", cycleStart.Add(-24*time.Hour))
	never := testutil.CreateStudent(t, repo, "Nueva", "3", "")

	bPtr := func(b bool) *bool { return &b }

	t.Run("paid=true", func(t *testing.T) {
		students, err := svc.Filter(context.Background(), student.QueryFilter{Paid: bPtr(true)})
		if err != nil {
			t.Fatalf("Filter() failed: %v", err)
		}
		if len(students) != 1 || students[0].ID != paid.ID {
			t.Errorf("Filter() ids = %v; want [%s]", ids(students), paid.ID)
		}
	})

	t.Run("paid=false", func(t *testing.T) {
		students, err := svc.Filter(context.Background(), student.QueryFilter{Paid: bPtr(false)})
		if err != nil {
			t.Fatalf("Filter() failed: %v", err)
		}
		if len(students) != 2 {
			t.Fatalf("len = %d; want 2", len(students))
		}
		got := map[string]bool{students[0].ID: true, students[1].ID: true}
		if !got[unpaid.ID] || !got[never.ID] {
			t.Errorf("Filter() ids = %v; want [%s %s]", ids(students), unpaid.ID, never.ID)
		}
	})

	t.Run("empty filter returns all", func(t *testing.T) {
		students, err := svc.Filter(context.Background(), student.QueryFilter{})
		if err != nil {
			t.Fatalf("Filter() failed: %v", err)
		}
		if len(students) != 3 {
			t.Errorf("len = %d; want 3", len(students))
		}
	})
}

func TestStudent_PaidAsOf(t *testing.T) {
	cycleStart := student.CycleStart(now)

	tests := []struct {
		name       string
		lastPaidAt time.Time
		want       bool
	}{
		{name: "never paid", want: false},
		{name: "paid last cycle", lastPaidAt: cycleStart.Add(-time.Second), want: false},
		{name: "paid at cycle start", lastPaidAt: cycleStart, want: true},
		{name: "paid this cycle", lastPaidAt: cycleStart.Add(72 * time.Hour), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stu := student.Student{LastPaidAt: tt.lastPaidAt}
			if got := stu.PaidAsOf(now); got != tt.want {
				t.Errorf("PaidAsOf() = %v; want %v", got, tt.want)
			}
		})
	}
}
