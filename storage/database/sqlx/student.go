package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/almapaid/backend/core/student"
)

type dbStudent struct {
	ID         string       `db:"id"`
	Name       string       `db:"name"`
	DNI        string       `db:"dni"`
	Email      string       `db:"email"`
	Status     string       `db:"status"`
	LastPaidAt sql.NullTime `db:"last_paid_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

func (s dbStudent) toCore() student.Student {
	stu := student.Student{
		ID:        s.ID,
		Name:      s.Name,
		DNI:       s.DNI,
		Email:     s.Email,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.LastPaidAt.Valid {
		stu.LastPaidAt = s.LastPaidAt.Time
	}
	return stu
}

func toDBStudent(stu student.Student) dbStudent {
	s := dbStudent{
		ID:        stu.ID,
		Name:      stu.Name,
		DNI:       stu.DNI,
		Email:     stu.Email,
		Status:    stu.Status,
		CreatedAt: stu.CreatedAt,
		UpdatedAt: stu.UpdatedAt,
	}
	if !stu.LastPaidAt.IsZero() {
		s.LastPaidAt = sql.NullTime{Time: stu.LastPaidAt, Valid: true}
	}
	return s
}

type studentRepository struct {
	db           *sqlx.DB
	activeStatus string
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB, activeStatus string) *studentRepository {
	return &studentRepository{db: db, activeStatus: activeStatus}
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	stu.ID = uuid.New().String()
	q := `
	INSERT INTO student (id, name, dni, email, status, last_paid_at, created_at, updated_at)
	VALUES (:id, :name, :dni, :email, :status, :last_paid_at, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toDBStudent(stu)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return stu, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []dbStudent
	q := `SELECT * FROM student ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return toCoreStudents(rows), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row dbStudent
	q := `SELECT * FROM student WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return row.toCore(), nil
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	q := `SELECT DISTINCT s.* FROM student s`
	var where []string
	var args []interface{}

	if filter.CourseID != "" {
		q += ` JOIN enrollment e ON e.student_id = s.id`
		where = append(where, `e.course_id = ?`, `e.status = ?`)
		args = append(args, filter.CourseID, repo.activeStatus)
	}
	if filter.Search != "" {
		where = append(where, `(s.name ILIKE ? OR s.dni ILIKE ? OR s.email ILIKE ? OR s.status ILIKE ?)`)
		pat := "%" + filter.Search + "%"
		args = append(args, pat, pat, pat, pat)
	}
	if filter.Paid != nil {
		if *filter.Paid {
			where = append(where, `s.last_paid_at >= ?`)
		} else {
			where = append(where, `(s.last_paid_at IS NULL OR s.last_paid_at < ?)`)
		}
		args = append(args, filter.PaidSince)
	}

	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY s.id`

	var rows []dbStudent
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return toCoreStudents(rows), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	q := `
	UPDATE student
	SET name = :name, dni = :dni, email = :email, status = :status,
	    last_paid_at = :last_paid_at, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toDBStudent(stu))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return stu, nil
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func toCoreStudents(rows []dbStudent) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toCore())
	}
	return students
}
