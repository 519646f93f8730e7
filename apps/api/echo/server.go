package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/dashboard"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
	"github.com/unidigital/academia/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       *user.Service
		AuthSvc       *auth.Service
		SubjectSvc    *subject.Service
		PeriodSvc     *period.Service
		EnrollmentSvc *enrollment.Service
		GradeSvc      *grade.Service
		DashboardSvc  *dashboard.Service

		// SignalShutdown initiates a graceful server stop; wired to the
		// boundary's shutdown-error handling.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if len(conf.Server.CORSOrigins) > 0 {
		s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     conf.Server.CORSOrigins,
			AllowCredentials: true, // cookie auth
		}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	authed := authMiddleware(s.opts.AuthSvc, conf)

	registerAuthAPI(v1, authed, s.opts)
	registerUserAPI(v1, authed, s.opts)
	registerRoleAPI(v1, authed, s.opts)
	registerSubjectAPI(v1, authed, s.opts)
	registerPeriodAPI(v1, authed, s.opts)
	registerEnrollmentAPI(v1, authed, s.opts)
	registerGradeAPI(v1, authed, s.opts)
	registerDashboardAPI(v1, authed, s.opts)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"app":   s.opts.Conf.AppName,
		"build": s.opts.Conf.Build,
	})
}
