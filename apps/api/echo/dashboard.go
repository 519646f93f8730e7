package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unidigital/academia/core/user"
)

type dashboardApi struct {
	opts *Options
}

func registerDashboardAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := dashboardApi{opts: opts}

	dg := g.Group("/dashboard", authed)
	dg.GET("/admin", api.admin, rolesMiddleware(user.RoleAdmin))
	dg.GET("/teacher", api.teacher, rolesMiddleware(user.RoleTeacher))
	dg.GET("/student", api.student, rolesMiddleware(user.RoleStudent))
}

func (api *dashboardApi) admin(ctx echo.Context) error {
	stats, err := api.opts.DashboardSvc.Admin(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *dashboardApi) teacher(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	stats, err := api.opts.DashboardSvc.Teacher(ctx.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *dashboardApi) student(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	stats, err := api.opts.DashboardSvc.Student(ctx.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}
