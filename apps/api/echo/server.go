package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/payrate"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/core/studyplan"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/core/user"
)

// ServerDeps holds everything the API needs.
type ServerDeps struct {
	Conf         *core.Config
	Logger       core.Logger
	Validate     *validator.Validate
	Translator   ut.Translator
	UserSvc      user.ServiceInterface
	CareerSvc    career.ServiceInterface
	StudyPlanSvc studyplan.ServiceInterface
	SubjectSvc   subject.ServiceInterface
	ProfessorSvc professor.ServiceInterface
	PayRateSvc   payrate.ServiceInterface
}

type Server struct {
	conf     *core.Config
	app      *echo.Echo
	metrics  *metrics
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:     deps.Conf,
		app:      echo.New(),
		metrics:  newMetrics(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps ServerDeps) {
	conf := deps.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())
	s.app.Use(s.metrics.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(conf, deps.Logger, deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(jwtConfig(conf))

	registerUserAPI(v1, jwt, conf, deps.UserSvc, deps.Validate)
	registerCatalogAPI(v1, jwt)
	registerCareerAPI(v1, jwt, deps.CareerSvc, deps.StudyPlanSvc, deps.Validate)
	registerStudyPlanAPI(v1, jwt, deps.StudyPlanSvc, deps.Validate)
	registerSubjectAPI(v1, jwt, deps.SubjectSvc, deps.Validate)
	registerProfessorAPI(v1, jwt, deps.ProfessorSvc, deps.Validate)
	registerPayRateAPI(v1, jwt, deps.PayRateSvc, deps.Validate)
}

// Start serves the API until Shutdown; failures are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the app to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

// MetricsHandler serves the request metrics of the Server in the Prometheus format.
func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.handler()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Registrar API!")
}
