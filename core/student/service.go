package student

import (
	"context"
	"errors"
	"time"

	"github.com/almapaid/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
	errNoSearch = errors.New("a search term is required")
	searchField = "search"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive substring match on one of
		// Student.Name, Student.DNI, Student.Email or Student.Status.
		// Results are ordered by Student.ID ascending.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdateStudent(ctx context.Context, stu Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	tstamp := svc.now().UTC()
	stu := Student{
		Name:      ns.Name,
		DNI:       ns.DNI,
		Email:     ns.Email,
		Status:    ns.Status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	return svc.repo.CreateStudent(ctx, stu)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(orig); err != nil {
		return Student{}, err
	}

	orig.Name = us.Name
	orig.DNI = us.DNI
	orig.Email = us.Email
	orig.Status = us.Status
	if us.LastPaidAt != nil {
		orig.LastPaidAt = us.LastPaidAt.UTC()
	}
	orig.UpdatedAt = svc.now().UTC()
	return svc.repo.UpdateStudent(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

// Filter returns the students matching filter. An empty filter returns all
// students. The Paid filter is evaluated against the current billing cycle.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllStudents(ctx)
	}
	if filter.Paid != nil {
		filter.PaidSince = CycleStart(svc.now())
	}
	return svc.repo.FilterStudents(ctx, filter)
}

// Search returns the students whose name, dni, email or status contains term
// as a case-insensitive substring, intersected with the optional course and
// paid filters. An empty term is rejected; a term matching nothing returns an
// empty slice.
func (svc *Service) Search(ctx context.Context, term, courseID string, paid *bool) ([]Student, error) {
	term = core.CleanString(term)
	if term == "" {
		return nil, core.NewValidationError(errNoSearch, core.FieldError{Field: searchField, Error: errNoSearch.Error()})
	}
	return svc.Filter(ctx, QueryFilter{Search: term, CourseID: courseID, Paid: paid})
}

// Resolve searches for term and reports whether it identified no student,
// exactly one, or several. Callers branch on the explicit variant instead of
// inspecting result lengths.
func (svc *Service) Resolve(ctx context.Context, term string) (Match, error) {
	students, err := svc.Search(ctx, term, "", nil)
	if err != nil {
		return Match{}, err
	}
	return Match{Students: students}, nil
}
