package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/student"
)

// reportsApi serves the back-office dashboards and billing reports.
type reportsApi struct {
	students *student.Service
	courses  *course.Service
	billing  *billing.Service
}

func registerReportsAPI(g *echo.Group, stuSvc *student.Service, crsSvc *course.Service, billSvc *billing.Service) {
	api := reportsApi{students: stuSvc, courses: crsSvc, billing: billSvc}

	g.GET("/dashboard", api.dashboard)
	g.GET("/invoices", api.invoices)
	g.GET("/payments-summary", api.paymentsSummary)
}

type dashboardResponse struct {
	Students int             `json:"students"`
	Courses  int             `json:"courses"`
	Payments billing.Summary `json:"payments"`
}

// Handlers

func (api *reportsApi) dashboard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	students, err := api.students.QueryAll(reqCtx)
	if err != nil {
		return err
	}
	courses, err := api.courses.QueryAll(reqCtx)
	if err != nil {
		return err
	}
	summary, err := api.billing.PaymentsSummary(reqCtx, "")
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dashboardResponse{
		Students: len(students),
		Courses:  len(courses),
		Payments: summary,
	})
}

func (api *reportsApi) invoices(ctx echo.Context) error {
	invoices, err := api.billing.Invoices(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, invoices)
}

func (api *reportsApi) paymentsSummary(ctx echo.Context) error {
	summary, err := api.billing.PaymentsSummary(ctx.Request().Context(), ctx.QueryParam("course_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}
