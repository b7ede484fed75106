package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/student"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	CheckoutSearchRequest struct {
		Search string `json:"search" validate:"required"`
	}

	CheckoutPayRequest struct {
		StudentID string `json:"student_id" validate:"required"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}

func (r *CheckoutSearchRequest) Validate() error {
	r.Search = core.CleanString(r.Search)
	return core.Validate.Struct(r)
}

func (r *CheckoutPayRequest) Validate() error {
	r.StudentID = core.CleanString(r.StudentID)
	return core.Validate.Struct(r)
}

// bindStudentFilter binds the student list query params. The paid param is
// parsed by hand: the echo binder does not handle *bool.
func bindStudentFilter(ctx echo.Context) (student.QueryFilter, error) {
	filter := student.QueryFilter{
		Search:   ctx.QueryParam("search"),
		CourseID: ctx.QueryParam("course_id"),
	}
	if p := ctx.QueryParam("paid"); p != "" {
		paid, err := strconv.ParseBool(p)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "paid", Error: "must be a boolean"})
		}
		filter.Paid = &paid
	}
	return filter, nil
}
