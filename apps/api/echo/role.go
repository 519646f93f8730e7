package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/user"
)

type roleApi struct {
	opts *Options
}

func registerRoleAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := roleApi{opts: opts}

	rg := g.Group("/roles", authed, rolesMiddleware(user.RoleAdmin))
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.GET("/:id", api.retrieve)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
}

func (api *roleApi) create(ctx echo.Context) error {
	var data user.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	role, err := api.opts.UserSvc.CreateRole(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, role)
}

func (api *roleApi) query(ctx echo.Context) error {
	roles, err := api.opts.UserSvc.QueryAllRoles(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	if roles == nil {
		roles = []user.Role{}
	}
	return ctx.JSON(http.StatusOK, roles)
}

func (api *roleApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	role, err := api.opts.UserSvc.GetRoleByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, role)
}

func (api *roleApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data user.UpdateRole
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRole")
	}
	if err = data.Validate(api.opts.Validate); err != nil {
		return err
	}

	role, err := api.opts.UserSvc.UpdateRole(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, role)
}

// destroy hard-deletes a role; memberships go with it.
func (api *roleApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.opts.UserSvc.DeleteRole(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
