package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose/v3"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/user"
	logsvc "github.com/gradefinalboss/gradeboss/services/logger"
	"github.com/gradefinalboss/gradeboss/storage/database"
	inmemdb "github.com/gradefinalboss/gradeboss/storage/database/inmem"
	sqlxrepos "github.com/gradefinalboss/gradeboss/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	cli := commandLine{
		out:        os.Stdout,
		validate:   validate,
		translator: translator,
	}

	// the engine commands need no storage
	if needsStorage(os.Args) {
		if conf.Storage == "memory" {
			cli.usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
		} else {
			db, err := database.Open(conf)
			if err != nil {
				logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
			}
			defer func() { _ = db.Close() }()
			if err = goose.SetDialect(conf.Database.Engine); err != nil {
				logger.Fatal(fmt.Sprintf("setting goose dialect: %v", err), err)
			}
			cli.db = db.DB
			cli.usrRepo = sqlxrepos.NewUserRepository(db)
		}
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("\nerror: %s\n", err), err)
		}
		exit(cli.db, 1)
	}
}

func needsStorage(args []string) bool {
	return len(args) > 1 && args[1] != "calc"
}

func exit(db *sql.DB, code int) {
	if db != nil {
		_ = db.Close()
	}
	os.Exit(code)
}
