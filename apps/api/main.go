package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/almapaid/backend/apps/api/echo"
	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/payment"
	"github.com/almapaid/backend/core/student"
	emailsvc "github.com/almapaid/backend/services/email"
	logsvc "github.com/almapaid/backend/services/logger"
	"github.com/almapaid/backend/services/mercadopago"
	"github.com/almapaid/backend/storage/database"
	sqlxrepos "github.com/almapaid/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("loading config: %v", err)
	}

	// set up logger
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	activeStatus := conf.Billing.ActiveStatus
	billRepo := sqlxrepos.NewBillingRepository(dbx, activeStatus)

	stuSvc := student.NewService(sqlxrepos.NewStudentRepository(dbx, activeStatus), nil)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(dbx, activeStatus), nil)
	billSvc := billing.NewService(billRepo, conf.Billing, nil)
	gateway := mercadopago.NewClient(conf, logger)
	paySvc := payment.NewService(billRepo, billSvc, gateway, mailSvc, logger, conf, nil)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:    conf.Server.Host + ":" + conf.Server.Port,
			Conf:       conf,
			Logger:     logger,
			StudentSvc: stuSvc,
			CourseSvc:  crsSvc,
			BillingSvc: billSvc,
			PaymentSvc: paySvc,
		},
	)
	server.Start()
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
