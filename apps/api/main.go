package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	stdlog "log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/scitech-butterfly/aasira/apps/api/echo"
	"github.com/scitech-butterfly/aasira/core"
	"github.com/scitech-butterfly/aasira/core/course"
	"github.com/scitech-butterfly/aasira/core/glossary"
	"github.com/scitech-butterfly/aasira/core/org"
	"github.com/scitech-butterfly/aasira/core/user"
	appfs "github.com/scitech-butterfly/aasira/fs"
	contentsvc "github.com/scitech-butterfly/aasira/services/content"
	emailsvc "github.com/scitech-butterfly/aasira/services/email"
	logsvc "github.com/scitech-butterfly/aasira/services/logger"
	"github.com/scitech-butterfly/aasira/storage/database"
	inmemdb "github.com/scitech-butterfly/aasira/storage/database/inmem"
	sqlxrepos "github.com/scitech-butterfly/aasira/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig(".")
	if err != nil {
		stdlog.Fatalf("loading configuration: %v", err)
	}

	// set up logger
	var logger core.Logger
	std := stdlog.New(os.Stdout, "API : ", stdlog.LstdFlags|stdlog.Lmicroseconds|stdlog.Lshortfile)
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	logger.Enable(!conf.Debug)

	// set up storage: postgres when configured, in-memory otherwise
	var (
		userRepo     user.Repository
		progressRepo course.ProgressRepository
		orgRepo      org.Repository
		kvStore      core.KeyValueStore
	)
	if conf.Database.User != "" {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()

		xdb := sqlx.NewDb(db, conf.Database.Engine)
		userRepo = sqlxrepos.NewUserRepository(xdb)
		progressRepo = sqlxrepos.NewProgressRepository(xdb)
		orgRepo = sqlxrepos.NewOrgRepository(xdb)
		kvStore = sqlxrepos.NewKeyValueStore(xdb)
	} else {
		userRepo = inmemdb.NewUserRepository()
		progressRepo = inmemdb.NewProgressRepository()
		orgRepo = inmemdb.NewOrgRepository()
		kvStore = inmemdb.NewKeyValueStore()
	}

	// set up mailer
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// set up course content
	content, err := contentsvc.NewFileProvider(conf.Course.ContentPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading course content: %v", err), err)
	}

	// set up services
	usrSvc := user.NewService(conf, userRepo, mailSvc, logger)
	progressSvc := course.NewProgressService(content, progressRepo, logger)
	bridge := course.NewSessionBridge(kvStore, logger)
	engine := course.NewEngine(content, progressSvc, bridge, logger, conf.Course.QuizDuration)
	glossarySvc := glossary.NewService(content)
	orgSvc := org.NewService(orgRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	if err = core.InitMailTemplates(appfs.FS, conf); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			ProgressSvc: progressSvc,
			QuizEngine:  engine,
			Content:     content,
			GlossarySvc: glossarySvc,
			OrgSvc:      orgSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
