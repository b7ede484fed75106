package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/payment"
	"github.com/almapaid/backend/core/student"
)

var errNoStudentMatch = echo.NewHTTPError(http.StatusNotFound, "no student matches the search")

// checkoutApi is the public payment entry flow: a payer identifies the
// student, reviews the dues and gets redirected to the gateway checkout.
type checkoutApi struct {
	students *student.Service
	billing  *billing.Service
	payments *payment.Service
}

func registerCheckoutAPI(g *echo.Group, stuSvc *student.Service, billSvc *billing.Service, paySvc *payment.Service) {
	api := checkoutApi{students: stuSvc, billing: billSvc, payments: paySvc}

	cg := g.Group("/checkout")
	cg.POST("/search", api.checkoutSearch)
	cg.POST("/pay", api.checkoutPay)
}

type (
	checkoutStudent struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		DNI   string `json:"dni,omitempty"`
		Email string `json:"email,omitempty"`
	}

	// checkoutCandidates is returned when the search term matched several
	// students; the payer picks one and searches again.
	checkoutCandidates struct {
		Students []checkoutStudent `json:"students"`
	}

	checkoutDetail struct {
		Student checkoutStudent   `json:"student"`
		Courses []course.Course   `json:"courses"`
		Current billing.DuePeriod `json:"current_due"`
		Next    billing.DuePeriod `json:"next_due"`
	}
)

func toCheckoutStudent(stu student.Student) checkoutStudent {
	return checkoutStudent{ID: stu.ID, Name: stu.Name, DNI: stu.DNI, Email: stu.Email}
}

// Handlers

func (api *checkoutApi) checkoutSearch(ctx echo.Context) error {
	data := new(CheckoutSearchRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	match, err := api.students.Resolve(reqCtx, data.Search)
	if err != nil {
		return err
	}

	if match.None() {
		return errNoStudentMatch
	}
	if match.Ambiguous() {
		candidates := checkoutCandidates{Students: make([]checkoutStudent, 0, len(match.Students))}
		for _, stu := range match.Students {
			candidates.Students = append(candidates.Students, toCheckoutStudent(stu))
		}
		return ctx.JSON(http.StatusOK, candidates)
	}

	stu, _ := match.Unique()
	courses, _, err := api.billing.Ledger(reqCtx, stu.ID)
	if err != nil {
		return err
	}
	current, err := api.billing.CurrentDue(reqCtx, stu.ID)
	if err != nil {
		return err
	}
	next, err := api.billing.NextDue(reqCtx, stu.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, checkoutDetail{
		Student: toCheckoutStudent(stu),
		Courses: courses,
		Current: current,
		Next:    next,
	})
}

func (api *checkoutApi) checkoutPay(ctx echo.Context) error {
	data := new(CheckoutPayRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	redirectURL, err := api.payments.CreatePreference(ctx.Request().Context(), data.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"redirect_url": redirectURL})
}
