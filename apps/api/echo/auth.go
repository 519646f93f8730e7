package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/user"
)

const contextUserKey = "user"

var errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")

const bearerPrefix = "bearer "

// extractToken pulls the raw token off the request: the Authorization bearer
// header wins over the auth cookie. The scheme is matched case-insensitively.
func extractToken(ctx echo.Context, cookieName string) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	if cookie, err := ctx.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// authMiddleware resolves the acting user from the request token and stashes
// it in the echo.Context for handlers downstream.
func authMiddleware(svc *auth.Service, conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := extractToken(ctx, conf.Server.CookieName)
			if token == "" {
				return errHTTPUnauthorized
			}
			usr, err := svc.ResolveActor(ctx.Request().Context(), token)
			if err != nil {
				return err
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// rolesMiddleware gates a route group to users holding any of the given roles.
func rolesMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if err = user.RequireRoles(usr, roles...); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errors.Wrap(errUsrNotFoundInCtx, "getting context user")
}

func cookieSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func setTokenCookie(ctx echo.Context, conf *core.Config, token string, expiresAt time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   conf.Server.CookieSecure,
		SameSite: cookieSameSite(conf.Server.CookieSameSite),
	})
}

func clearTokenCookie(ctx echo.Context, conf *core.Config) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Server.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   conf.Server.CookieSecure,
		SameSite: cookieSameSite(conf.Server.CookieSameSite),
	})
}

// intParam parses a numeric path parameter.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
