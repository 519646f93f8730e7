package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
)

type authApi struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, opts *Options) {
	api := authApi{opts: opts}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me, authed)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	usr, err := api.opts.AuthSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}
	token, _, expiresAt, err := api.opts.AuthSvc.IssueToken(usr)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}

	setTokenCookie(ctx, api.opts.Conf, token, expiresAt)
	return ctx.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// logout revokes the cookie token when one is present and decodable. An
// absent or garbage cookie still logs out cleanly.
func (api *authApi) logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(api.opts.Conf.Server.CookieName); err == nil && cookie.Value != "" {
		jti, expiresAt, err := api.opts.AuthSvc.ExtractTokenData(cookie.Value)
		if err == nil {
			if err = api.opts.AuthSvc.Revoke(ctx.Request().Context(), jti, expiresAt); err != nil {
				return errors.Wrap(err, "revoking token")
			}
		} else if !core.IsKind(err, core.KindUnauthorized) {
			return errors.Wrap(err, "extracting token data")
		}
	}

	clearTokenCookie(ctx, api.opts.Conf)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	TokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
