package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/user"
)

type periodApi struct {
	opts *Options
}

func registerPeriodAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := periodApi{opts: opts}

	pg := g.Group("/periods", authed)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)

	// writes are admin-only
	admin := rolesMiddleware(user.RoleAdmin)
	pg.POST("", api.create, admin)
	pg.PUT("/:id", api.update, admin)
	pg.DELETE("/:id", api.destroy, admin)
}

func (api *periodApi) create(ctx echo.Context) error {
	var data period.NewPeriod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPeriod")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	per, err := api.opts.PeriodSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, per)
}

func (api *periodApi) query(ctx echo.Context) error {
	pers, err := api.opts.PeriodSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying periods")
	}
	if pers == nil {
		pers = []period.AcademicPeriod{}
	}
	return ctx.JSON(http.StatusOK, pers)
}

func (api *periodApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	per, err := api.opts.PeriodSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, per)
}

func (api *periodApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data period.UpdatePeriod
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePeriod")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	per, err := api.opts.PeriodSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, per)
}

func (api *periodApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if _, err = api.opts.PeriodSvc.Deactivate(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
