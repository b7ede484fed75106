package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/almapaid/backend/core/course"
)

type courseApi struct {
	service *course.Service
}

func registerCourseAPI(g *echo.Group, svc *course.Service) {
	api := courseApi{service: svc}

	cg := g.Group("/courses")
	cg.POST("", api.courseCreate)
	cg.GET("", api.courseQuery)
	cg.GET("/:id", api.courseRetrieve)
	cg.PUT("/:id", api.courseUpdate)
	cg.DELETE("/:id", api.courseDestroy)

	eg := g.Group("/enrollments")
	eg.POST("", api.enrollmentCreate)
	eg.GET("", api.enrollmentQuery)
	eg.DELETE("/:id", api.enrollmentDestroy)
}

// Handlers

func (api *courseApi) courseCreate(ctx echo.Context) error {
	data := new(course.NewCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) courseQuery(ctx echo.Context) error {
	courses, err := api.service.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) courseRetrieve(ctx echo.Context) error {
	crs, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseUpdate(ctx echo.Context) error {
	data := new(course.UpdateCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	crs, err := api.service.Update(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) enrollmentCreate(ctx echo.Context) error {
	data := new(course.NewEnrollment)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	enr, err := api.service.Enroll(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *courseApi) enrollmentQuery(ctx echo.Context) error {
	enrollments, err := api.service.QueryAllEnrollments(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *courseApi) enrollmentDestroy(ctx echo.Context) error {
	if err := api.service.Unenroll(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
