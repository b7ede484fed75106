package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/almapaid/backend/core/student"
)

type studentRepository struct {
	db           *studentTable
	enrollments  *enrollmentTable
	activeStatus string
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB, activeStatus string) *studentRepository {
	return &studentRepository{db: db.student, enrollments: db.enrollment, activeStatus: activeStatus}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, stu := range repo.db.table {
		students = append(students, *stu)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (repo *studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stu.ID = uuid.New().String()
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu, ok := repo.db.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	// students with search keyword matching any Name, DNI, Email or Status ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		filtered := make([]student.Student, 0, len(students))
		for _, stu := range students {
			if strings.Contains(strings.ToLower(stu.Name), search) ||
				strings.Contains(strings.ToLower(stu.DNI), search) ||
				strings.Contains(strings.ToLower(stu.Email), search) ||
				strings.Contains(strings.ToLower(stu.Status), search) {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}
	if filter.CourseID != "" {
		enrolled := repo.enrolledSet(filter.CourseID)
		filtered := make([]student.Student, 0, len(students))
		for _, stu := range students {
			if enrolled[stu.ID] {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}
	if filter.Paid != nil {
		filtered := make([]student.Student, 0, len(students))
		for _, stu := range students {
			paid := !stu.LastPaidAt.IsZero() && !stu.LastPaidAt.Before(filter.PaidSince)
			if paid == *filter.Paid {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}

	return students, nil
}

func (repo *studentRepository) enrolledSet(courseID string) map[string]bool {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	enrolled := make(map[string]bool)
	for _, enr := range repo.enrollments.table {
		if enr.CourseID == courseID && enr.Status == repo.activeStatus {
			enrolled[enr.StudentID] = true
		}
	}
	return enrolled
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
