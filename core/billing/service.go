package billing

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/student"
)

type (
	// Repository is the read-only view of the store the billing
	// computations need. Implementations return fully materialized
	// slices so the service can be tested against fixtures.
	Repository interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
		QueryAllStudents(ctx context.Context) ([]student.Student, error)
		QueryAllCourses(ctx context.Context) ([]course.Course, error)
		// CoursesForStudent returns the courses the student is actively
		// enrolled in, ordered by course ID ascending.
		CoursesForStudent(ctx context.Context, studentID string) ([]course.Course, error)
		QueryAllEnrollments(ctx context.Context) ([]course.Enrollment, error)
	}

	Service struct {
		repo Repository
		conf core.BillingConfig
		now  func() time.Time
	}
)

func NewService(repo Repository, conf core.BillingConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, conf: conf, now: now}
}

// Ledger resolves the student and returns their active courses along with the
// fee subtotal. A resolvable student with no active enrollments yields an
// empty slice and subtotal 0, not an error.
func (svc *Service) Ledger(ctx context.Context, studentID string) ([]course.Course, float64, error) {
	if _, err := svc.repo.GetStudentByID(ctx, studentID); err != nil {
		return nil, 0, err
	}
	courses, err := svc.repo.CoursesForStudent(ctx, studentID)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying student courses")
	}
	var subtotal float64
	for _, crs := range courses {
		subtotal += crs.MonthlyFee
	}
	return courses, subtotal, nil
}

// surcharge is the flat amount owed on top of the subtotal for a cycle whose
// effective date is asOf. It is fully applied or fully waived, never prorated.
func (svc *Service) surcharge(asOf time.Time) float64 {
	if asOf.Before(svc.conf.SurchargeCutoff) {
		return 0
	}
	return svc.conf.SurchargeAmount
}

func (svc *Service) due(ctx context.Context, studentID string, asOf time.Time) (DuePeriod, error) {
	_, subtotal, err := svc.Ledger(ctx, studentID)
	if err != nil {
		return DuePeriod{}, err
	}
	sur := svc.surcharge(asOf)
	return DuePeriod{Subtotal: subtotal, Surcharge: sur, Total: subtotal + sur}, nil
}

// CurrentDue computes what the student owes for the current cycle,
// evaluating the surcharge cutoff against today.
func (svc *Service) CurrentDue(ctx context.Context, studentID string) (DuePeriod, error) {
	return svc.due(ctx, studentID, svc.now())
}

// NextDue computes what the student will owe next cycle. It deliberately runs
// the same date check as CurrentDue instead of projecting the cutoff a month
// forward; the operation stays separate so the period logic can diverge
// without changing the calling contract.
func (svc *Service) NextDue(ctx context.Context, studentID string) (DuePeriod, error) {
	return svc.due(ctx, studentID, svc.now())
}

// PaymentsSummary counts students paid vs unpaid for the current cycle.
// When courseID is given, only students with an active enrollment in that
// course are counted; an unknown courseID fails with course.ErrNotFound.
func (svc *Service) PaymentsSummary(ctx context.Context, courseID string) (Summary, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	if courseID != "" {
		if err := svc.checkCourse(ctx, courseID); err != nil {
			return nil, err
		}
		enrollments, err := svc.repo.QueryAllEnrollments(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "querying enrollments")
		}
		enrolled := make(map[string]bool)
		for _, enr := range enrollments {
			if enr.CourseID == courseID && enr.Status == svc.conf.ActiveStatus {
				enrolled[enr.StudentID] = true
			}
		}
		filtered := make([]student.Student, 0, len(enrolled))
		for _, stu := range students {
			if enrolled[stu.ID] {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}

	now := svc.now()
	summary := Summary{BucketPaid: 0, BucketUnpaid: 0}
	for _, stu := range students {
		if stu.PaidAsOf(now) {
			summary[BucketPaid]++
		} else {
			summary[BucketUnpaid]++
		}
	}
	return summary, nil
}

// Invoices computes the current and next dues for every student, for the
// back-office billing report.
func (svc *Service) Invoices(ctx context.Context) ([]Invoice, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	invoices := make([]Invoice, 0, len(students))
	for _, stu := range students {
		current, err := svc.due(ctx, stu.ID, svc.now())
		if err != nil {
			return nil, err
		}
		next, err := svc.NextDue(ctx, stu.ID)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, Invoice{Student: stu, Current: current, Next: next})
	}
	return invoices, nil
}

func (svc *Service) checkCourse(ctx context.Context, courseID string) error {
	courses, err := svc.repo.QueryAllCourses(ctx)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	for _, crs := range courses {
		if crs.ID == courseID {
			return nil
		}
	}
	return course.ErrNotFound
}
