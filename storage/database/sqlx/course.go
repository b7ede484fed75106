package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/almapaid/backend/core/course"
)

type dbCourse struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	MonthlyFee float64   `db:"monthly_fee"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (c dbCourse) toCore() course.Course {
	return course.Course{
		ID:         c.ID,
		Title:      c.Title,
		MonthlyFee: c.MonthlyFee,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

type dbEnrollment struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	CourseID  string    `db:"course_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func (e dbEnrollment) toCore() course.Enrollment {
	return course.Enrollment{
		ID:        e.ID,
		StudentID: e.StudentID,
		CourseID:  e.CourseID,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

type courseRepository struct {
	db           *sqlx.DB
	activeStatus string
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB, activeStatus string) *courseRepository {
	return &courseRepository{db: db, activeStatus: activeStatus}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	q := `
	INSERT INTO course (id, title, monthly_fee, created_at, updated_at)
	VALUES (:id, :title, :monthly_fee, :created_at, :updated_at)`
	row := dbCourse{ID: crs.ID, Title: crs.Title, MonthlyFee: crs.MonthlyFee, CreatedAt: crs.CreatedAt, UpdatedAt: crs.UpdatedAt}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []dbCourse
	q := `SELECT * FROM course ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return toCoreCourses(rows), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row dbCourse
	q := `SELECT * FROM course WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return row.toCore(), nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	q := `
	UPDATE course
	SET title = :title, monthly_fee = :monthly_fee, updated_at = :updated_at
	WHERE id = :id`
	row := dbCourse{ID: crs.ID, Title: crs.Title, MonthlyFee: crs.MonthlyFee, UpdatedAt: crs.UpdatedAt}
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	enr.ID = uuid.New().String()
	q := `
	INSERT INTO enrollment (id, student_id, course_id, status, created_at)
	VALUES (:id, :student_id, :course_id, :status, :created_at)`
	row := dbEnrollment{ID: enr.ID, StudentID: enr.StudentID, CourseID: enr.CourseID, Status: enr.Status, CreatedAt: enr.CreatedAt}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo courseRepository) QueryAllEnrollments(ctx context.Context) ([]course.Enrollment, error) {
	var rows []dbEnrollment
	q := `SELECT * FROM enrollment ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrollments := make([]course.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toCore())
	}
	return enrollments, nil
}

func (repo courseRepository) DeleteEnrollmentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM enrollment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}

// CoursesForStudent returns the courses the student is actively enrolled in,
// ordered by course ID.
func (repo courseRepository) CoursesForStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	var rows []dbCourse
	q := `
	SELECT c.* FROM course c
	JOIN enrollment e ON e.course_id = c.id
	WHERE e.student_id = $1 AND e.status = $2
	ORDER BY c.id`
	if err := repo.db.SelectContext(ctx, &rows, q, studentID, repo.activeStatus); err != nil {
		return nil, errors.Wrap(err, "querying student courses")
	}
	return toCoreCourses(rows), nil
}

func toCoreCourses(rows []dbCourse) []course.Course {
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCore())
	}
	return courses
}
