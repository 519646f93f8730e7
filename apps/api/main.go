package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	echoapi "github.com/unidigital/academia/apps/api/echo"
	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/dashboard"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
	"github.com/unidigital/academia/core/user"
	emailsvc "github.com/unidigital/academia/services/email"
	logsvc "github.com/unidigital/academia/services/logger"
	"github.com/unidigital/academia/storage/database"
	postgresrepos "github.com/unidigital/academia/storage/database/postgres"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)
	if err := run(std); err != nil {
		std.Fatalf("%+v", err)
	}
}

func run(std *log.Logger) error {
	conf, err := core.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	// database
	if conf.Database.AutoCreateSchema {
		if err = database.CreateIfNotExist(conf); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if conf.Database.AutoCreateSchema {
		if err = database.Migrate(db); err != nil {
			return err
		}
	}

	// services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := postgresrepos.NewUserRepository(db)
	enrRepo := postgresrepos.NewEnrollmentRepository(db)
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	authSvc := auth.NewService(conf, postgresrepos.NewAuthRepository(db), usrSvc)
	subjectSvc := subject.NewService(postgresrepos.NewSubjectRepository(db))
	periodSvc := period.NewService(postgresrepos.NewPeriodRepository(db))
	enrollmentSvc := enrollment.NewService(enrRepo)
	gradeSvc := grade.NewService(postgresrepos.NewGradeRepository(db), enrRepo)
	dashboardSvc := dashboard.NewService(postgresrepos.NewDashboardRepository(db))

	ctx := context.Background()
	if err = usrSvc.EnsureDefaultRoles(ctx); err != nil {
		return errors.Wrap(err, "seeding default roles")
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:           conf.Server.Addr,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		AuthSvc:        authSvc,
		SubjectSvc:     subjectSvc,
		PeriodSvc:      periodSvc,
		EnrollmentSvc:  enrollmentSvc,
		GradeSvc:       gradeSvc,
		DashboardSvc:   dashboardSvc,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	serverErrs := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + conf.Server.Addr)
		serverErrs <- app.Start()
	}()

	select {
	case err = <-serverErrs:
		return errors.Wrap(err, "server error")
	case sig := <-shutdown:
		logger.Info("shutdown started", sig)

		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()
		if err = app.Stop(ctx); err != nil {
			return errors.Wrap(err, "stopping server")
		}
	}
	return nil
}
