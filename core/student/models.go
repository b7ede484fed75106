package student

import (
	"time"

	"github.com/almapaid/backend/core"
)

// StatusActive is the default lifecycle tag for new students.
const StatusActive = "activo"

type Student struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DNI        string    `json:"dni,omitempty"`
	Email      string    `json:"email,omitempty"`
	Status     string    `json:"status"`
	LastPaidAt time.Time `json:"last_paid_at,omitempty"` // zero value: no payment on record
	CreatedAt  time.Time `json:"created_at"`             // UTC
	UpdatedAt  time.Time `json:"updated_at"`             // UTC
}

// CycleStart returns the start of the billing cycle containing t.
// Billing cycles are calendar months.
func CycleStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PaidAsOf reports whether the student's last recorded payment falls within
// the billing cycle containing t. A student with no payment on record is
// always unpaid.
func (s Student) PaidAsOf(t time.Time) bool {
	return !s.LastPaidAt.IsZero() && !s.LastPaidAt.Before(CycleStart(t))
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name   string `json:"name" validate:"required"`
	DNI    string `json:"dni" validate:"omitempty,dni"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.DNI = core.CleanString(ns.DNI)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Status = core.CleanString(ns.Status, true /* lower */)
	if ns.Status == "" {
		ns.Status = StatusActive
	}
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name       string     `json:"name"`
	DNI        string     `json:"dni" validate:"omitempty,dni"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Status     string     `json:"status"`
	LastPaidAt *time.Time `json:"last_paid_at"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if dni := core.CleanString(us.DNI); dni != "" {
		us.DNI = dni
	} else {
		us.DNI = orig.DNI
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	if status := core.CleanString(us.Status, true /* lower */); status != "" {
		us.Status = status
	} else {
		us.Status = orig.Status
	}
	return core.Validate.Struct(us)
}

// QueryFilter narrows a student query. All set fields are ANDed together.
type QueryFilter struct {
	Search   string `query:"search"`
	CourseID string `query:"course_id"`
	Paid     *bool  `query:"paid"`

	// PaidSince is the cycle start the Paid filter is evaluated against.
	// Set by the service, not bound from requests.
	PaidSince time.Time `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CourseID == "" && qf.Paid == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.CourseID = core.CleanString(qf.CourseID)
}

// Match is the outcome of resolving a free-text term to a single student
// for the payment entry flow.
type Match struct {
	Students []Student `json:"students"`
}

func (m Match) None() bool { return len(m.Students) == 0 }

func (m Match) Ambiguous() bool { return len(m.Students) > 1 }

// Unique returns the matched student when the term resolved to exactly one.
func (m Match) Unique() (Student, bool) {
	if len(m.Students) == 1 {
		return m.Students[0], true
	}
	return Student{}, false
}
