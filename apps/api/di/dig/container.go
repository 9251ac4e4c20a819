package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/payrate"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/core/studyplan"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/core/user"
	logsvc "github.com/trezcool/registrar/services/logger"
	"github.com/trezcool/registrar/storage/database"
	sqlxrepos "github.com/trezcool/registrar/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// ServerParams lists what the API server is built from.
type ServerParams struct {
	dig.In

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

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
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

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newStudyPlanService(
	repo studyplan.Repository,
	careers career.ServiceInterface,
	subjects subject.ServiceInterface,
) studyplan.ServiceInterface {
	return studyplan.NewService(repo, careers, subjects)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		UserSvc:      p.UserSvc,
		CareerSvc:    p.CareerSvc,
		StudyPlanSvc: p.StudyPlanSvc,
		SubjectSvc:   p.SubjectSvc,
		ProfessorSvc: p.ProfessorSvc,
		PayRateSvc:   p.PayRateSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewCareerRepository, dig.As(new(career.Repository))))
	must(c.Provide(sqlxrepos.NewStudyPlanRepository, dig.As(new(studyplan.Repository))))
	must(c.Provide(sqlxrepos.NewSubjectRepository, dig.As(new(subject.Repository))))
	must(c.Provide(sqlxrepos.NewProfessorRepository, dig.As(new(professor.Repository))))
	must(c.Provide(sqlxrepos.NewPayRateRepository, dig.As(new(payrate.Repository))))

	// services
	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface))))
	must(c.Provide(career.NewService, dig.As(new(career.ServiceInterface))))
	must(c.Provide(subject.NewService, dig.As(new(subject.ServiceInterface))))
	must(c.Provide(professor.NewService, dig.As(new(professor.ServiceInterface))))
	must(c.Provide(payrate.NewService, dig.As(new(payrate.ServiceInterface))))
	must(c.Provide(newStudyPlanService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
