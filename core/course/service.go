package course

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryAllEnrollments(ctx context.Context) ([]Enrollment, error)
		DeleteEnrollmentsByID(ctx context.Context, ids ...string) error
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

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	tstamp := svc.now().UTC()
	crs := Course{
		Title:      nc.Title,
		MonthlyFee: nc.MonthlyFee,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	orig, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if err := uc.Validate(orig); err != nil {
		return Course{}, err
	}

	orig.Title = uc.Title
	if uc.MonthlyFee != nil {
		orig.MonthlyFee = *uc.MonthlyFee
	}
	orig.UpdatedAt = svc.now().UTC()
	return svc.repo.UpdateCourse(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	enr := Enrollment{
		StudentID: ne.StudentID,
		CourseID:  ne.CourseID,
		Status:    ne.Status,
		CreatedAt: svc.now().UTC(),
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) QueryAllEnrollments(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments(ctx)
}

func (svc *Service) Unenroll(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEnrollmentsByID(ctx, ids...)
}
