package main

import (
	"log"
	"os"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/user"
	emailsvc "github.com/unidigital/academia/services/email"
	"github.com/unidigital/academia/storage/database"
	postgresrepos "github.com/unidigital/academia/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	usrSvc := user.NewService(conf, postgresrepos.NewUserRepository(db), emailsvc.NewConsoleService(conf))
	authSvc := auth.NewService(conf, postgresrepos.NewAuthRepository(db), usrSvc)

	cli := commandLine{
		db:      db,
		usrSvc:  usrSvc,
		authSvc: authSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
