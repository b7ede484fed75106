package course

import (
	"time"

	"github.com/almapaid/backend/core"
)

// StatusActive marks an enrollment as currently billable.
const StatusActive = "activo"

type Course struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	MonthlyFee float64   `json:"monthly_fee"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// Enrollment bridges a Student and a Course. The student owes the course's
// monthly fee while the enrollment status is active.
type Enrollment struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title      string  `json:"title" validate:"required"`
	MonthlyFee float64 `json:"monthly_fee" validate:"gte=0"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title      string   `json:"title"`
	MonthlyFee *float64 `json:"monthly_fee" validate:"omitempty,gte=0"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	return core.Validate.Struct(uc)
}

// NewEnrollment contains information needed to enroll a student in a course.
type NewEnrollment struct {
	StudentID string `json:"student_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	Status    string `json:"status"`
}

func (ne *NewEnrollment) Validate() error {
	ne.StudentID = core.CleanString(ne.StudentID)
	ne.CourseID = core.CleanString(ne.CourseID)
	ne.Status = core.CleanString(ne.Status, true /* lower */)
	if ne.Status == "" {
		ne.Status = StatusActive
	}
	return core.Validate.Struct(ne)
}
