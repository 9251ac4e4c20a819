package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/payrate"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/core/studyplan"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/core/user"
	"github.com/trezcool/registrar/storage/database"
)

// PrepareDB opens a fresh, migrated in-memory database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(core.NewTestConfig())
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

// NewValidator returns a validator with every app validator & translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func timestamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

func CreateUser(t *testing.T, repo user.Repository, uname, pwd string, active bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Username:  uname,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCareer(
	t *testing.T,
	repo career.Repository,
	name, code string,
	level core.AcademicLevel,
	active bool,
	createdAt ...time.Time,
) career.Career {
	t.Helper()

	tstamp := timestamp(createdAt)
	c, err := repo.CreateCareer(context.Background(), career.Career{
		Name:          name,
		CareerCode:    code,
		AcademicLevel: level,
		Active:        active,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCareer() failed: %v", err)
	}
	return c
}

func CreateSubject(
	t *testing.T,
	repo subject.Repository,
	name, key string,
	period int,
	active bool,
	createdAt ...time.Time,
) subject.Subject {
	t.Helper()

	tstamp := timestamp(createdAt)
	s, err := repo.CreateSubject(context.Background(), subject.Subject{
		Name:           name,
		Key:            key,
		Period:         period,
		ScheduledHours: 40,
		Active:         active,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return s
}

func CreateProfessor(
	t *testing.T,
	repo professor.Repository,
	name, rfc string,
	cls core.Classification,
	active bool,
	createdAt ...time.Time,
) professor.Professor {
	t.Helper()

	tstamp := timestamp(createdAt)
	p, err := repo.CreateProfessor(context.Background(), professor.Professor{
		Name:           name,
		RFC:            rfc,
		Classification: cls,
		Active:         active,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateProfessor() failed: %v", err)
	}
	return p
}

func CreatePayRate(t *testing.T, repo payrate.Repository, cls core.Classification, rates payrate.Rates) payrate.PayRate {
	t.Helper()

	now := time.Now().UTC()
	pr, err := repo.CreatePayRate(context.Background(), payrate.PayRate{
		Classification: cls,
		Rates:          rates,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreatePayRate() failed: %v", err)
	}
	return pr
}

func CreateStudyPlan(
	t *testing.T,
	repo studyplan.Repository,
	careerID, name, code string,
	denom core.PeriodDenomination,
	active bool,
	subjectIDs ...string,
) studyplan.StudyPlan {
	t.Helper()

	now := time.Now().UTC()
	if subjectIDs == nil {
		subjectIDs = []string{}
	}
	sp, err := repo.CreateStudyPlan(context.Background(), studyplan.StudyPlan{
		CareerID:           careerID,
		Name:               name,
		Code:               code,
		PeriodDenomination: denom,
		SubjectIDs:         subjectIDs,
		Active:             active,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		t.Fatalf("CreateStudyPlan() failed: %v", err)
	}
	return sp
}
