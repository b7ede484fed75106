package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/almapaid/backend/core"
	"github.com/almapaid/backend/core/billing"
	"github.com/almapaid/backend/core/course"
	"github.com/almapaid/backend/core/payment"
	"github.com/almapaid/backend/core/student"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		StudentSvc *student.Service
		CourseSvc  *course.Service
		BillingSvc *billing.Service
		PaymentSvc *payment.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
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

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	auth := newAuthenticator(conf)
	jwt := auth.middleware()

	registerCheckoutAPI(v1, s.opts.StudentSvc, s.opts.BillingSvc, s.opts.PaymentSvc)

	admin := v1.Group("/admin")
	admin.POST("/login", auth.login)
	admin.POST("/token-refresh", auth.tokenRefresh, jwt)

	ag := admin.Group("", jwt, adminMiddleware())
	registerStudentAPI(ag, s.opts.StudentSvc)
	registerCourseAPI(ag, s.opts.CourseSvc)
	registerReportsAPI(ag, s.opts.StudentSvc, s.opts.CourseSvc, s.opts.BillingSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Start(s.opts.Address)
	}()

	select {
	case err := <-errc:
		s.app.Logger.Fatal(err)
	case sig := <-s.shutdown:
		s.opts.Logger.Info("shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			_ = s.app.Close()
			s.app.Logger.Fatal(err)
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown initiates a graceful shutdown when an unrecoverable error is caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AlmaPaid API!")
}
