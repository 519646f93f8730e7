package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/user"
)

type gradeApi struct {
	opts *Options
}

func registerGradeAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := gradeApi{opts: opts}

	gg := g.Group("/grades", authed)

	anyRole := rolesMiddleware(user.RoleAdmin, user.RoleTeacher, user.RoleStudent)
	gg.GET("", api.query, anyRole)
	gg.GET("/:id", api.retrieve, anyRole)

	staff := rolesMiddleware(user.RoleAdmin, user.RoleTeacher)
	gg.POST("", api.create, staff)
	gg.PUT("/:id", api.update, staff)
	gg.DELETE("/:id", api.destroy, staff)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	grd, err := api.opts.GradeSvc.Create(ctx.Request().Context(), data, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, grd)
}

func (api *gradeApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	grds, err := api.opts.GradeSvc.Query(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grds == nil {
		grds = []grade.GradeInfo{}
	}
	return ctx.JSON(http.StatusOK, grds)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	grd, err := api.opts.GradeSvc.Get(ctx.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradeApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data grade.UpdateGrade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	grd, err := api.opts.GradeSvc.Update(ctx.Request().Context(), id, data, actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.GradeSvc.Delete(ctx.Request().Context(), id, actor); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
