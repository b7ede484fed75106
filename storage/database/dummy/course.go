package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/almapaid/backend/core/course"
)

type courseRepository struct {
	db           *courseTable
	enrollments  *enrollmentTable
	activeStatus string
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB, activeStatus string) *courseRepository {
	return &courseRepository{db: db.course, enrollments: db.enrollment, activeStatus: activeStatus}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()

	enr.ID = uuid.New().String()
	repo.enrollments.table[enr.ID] = &enr
	return enr, nil
}

func (repo *courseRepository) QueryAllEnrollments(ctx context.Context) ([]course.Enrollment, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	enrollments := make([]course.Enrollment, 0, len(repo.enrollments.table))
	for _, enr := range repo.enrollments.table {
		enrollments = append(enrollments, *enr)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (repo *courseRepository) DeleteEnrollmentsByID(ctx context.Context, ids ...string) error {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()
	for _, id := range ids {
		delete(repo.enrollments.table, id)
	}
	return nil
}

// CoursesForStudent returns the courses the student is actively enrolled in,
// ordered by course ID.
func (repo *courseRepository) CoursesForStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	repo.enrollments.RLock()
	enrolled := make(map[string]bool)
	for _, enr := range repo.enrollments.table {
		if enr.StudentID == studentID && enr.Status == repo.activeStatus {
			enrolled[enr.CourseID] = true
		}
	}
	repo.enrollments.RUnlock()

	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(enrolled))
	for _, crs := range repo.query() {
		if enrolled[crs.ID] {
			courses = append(courses, crs)
		}
	}
	return courses, nil
}
