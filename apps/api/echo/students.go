package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/almapaid/backend/core/student"
)

type studentApi struct {
	service *student.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{service: svc}

	sg := g.Group("/students")
	sg.POST("", api.studentCreate)
	sg.GET("", api.studentQuery)
	sg.GET("/search", api.studentSearch)
	sg.GET("/:id", api.studentRetrieve)
	sg.PUT("/:id", api.studentUpdate)
	sg.DELETE("/:id", api.studentDestroy)
}

// Handlers

func (api *studentApi) studentCreate(ctx echo.Context) error {
	data := new(student.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	stu, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) studentQuery(ctx echo.Context) error {
	filter, err := bindStudentFilter(ctx)
	if err != nil {
		return err
	}

	students, err := api.service.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) studentSearch(ctx echo.Context) error {
	filter, err := bindStudentFilter(ctx)
	if err != nil {
		return err
	}

	students, err := api.service.Search(ctx.Request().Context(), filter.Search, filter.CourseID, filter.Paid)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) studentRetrieve(ctx echo.Context) error {
	stu, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) studentUpdate(ctx echo.Context) error {
	data := new(student.UpdateStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	stu, err := api.service.Update(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) studentDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
