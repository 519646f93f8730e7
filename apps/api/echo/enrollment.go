package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/user"
)

type enrollmentApi struct {
	opts *Options
}

func registerEnrollmentAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := enrollmentApi{opts: opts}

	eg := g.Group("/enrollments", authed)

	// reads are ownership-filtered inside the service
	anyRole := rolesMiddleware(user.RoleAdmin, user.RoleTeacher, user.RoleStudent)
	eg.GET("", api.query, anyRole)
	eg.GET("/:id", api.retrieve, anyRole)

	admin := rolesMiddleware(user.RoleAdmin)
	eg.POST("", api.create, admin)
	eg.PUT("/:id", api.update, admin)
	eg.DELETE("/:id", api.destroy, admin)
}

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enr, err := api.opts.EnrollmentSvc.Create(ctx.Request().Context(), data, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enrs, err := api.opts.EnrollmentSvc.Query(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	if enrs == nil {
		enrs = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enr, err := api.opts.EnrollmentSvc.Get(ctx.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data enrollment.UpdateEnrollment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEnrollment")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enr, err := api.opts.EnrollmentSvc.Update(ctx.Request().Context(), id, data, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if _, err = api.opts.EnrollmentSvc.Deactivate(ctx.Request().Context(), id, actor); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
