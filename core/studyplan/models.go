package studyplan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/subject"
)

// Search targets
const (
	SearchByName = "name"
	SearchByCode = "code"
)

// StudyPlan is the ordered set of Subjects taught for a Career.
// SubjectIDs is always loaded; Subjects is only set once the plan has been populated.
type StudyPlan struct {
	ID                 string                  `json:"id"`
	CareerID           string                  `json:"careerId"`
	Name               string                  `json:"name"`
	Code               string                  `json:"code"`
	PeriodDenomination core.PeriodDenomination `json:"periodDenomination"`
	SubjectIDs         []string                `json:"-"`
	Subjects           []subject.Subject       `json:"-"`
	Active             bool                    `json:"active"`
	CreatedAt          time.Time               `json:"createdAt"` // UTC
	UpdatedAt          time.Time               `json:"updatedAt"` // UTC
}

func (sp StudyPlan) IsPopulated() bool {
	return sp.Subjects != nil
}

// MarshalJSON renders `subjects` as full records when populated, as bare ids otherwise.
func (sp StudyPlan) MarshalJSON() ([]byte, error) {
	type plan StudyPlan
	var subjects interface{}
	if sp.IsPopulated() {
		subjects = sp.Subjects
	} else if sp.SubjectIDs != nil {
		subjects = sp.SubjectIDs
	} else {
		subjects = []string{}
	}
	return json.Marshal(struct {
		plan
		Subjects interface{} `json:"subjects"`
	}{plan(sp), subjects})
}

// NewStudyPlan contains information needed to create a new StudyPlan.
type NewStudyPlan struct {
	CareerID           string                  `json:"careerId" validate:"required"`
	Name               string                  `json:"name" validate:"required,max=100"`
	Code               string                  `json:"code" validate:"required,max=20"`
	PeriodDenomination core.PeriodDenomination `json:"periodDenomination" validate:"required,enum"`
}

func (ns *NewStudyPlan) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	ns.CareerID = core.CleanString(ns.CareerID)
	ns.Name = core.CleanString(ns.Name, true /* lower */)
	ns.Code = core.CleanCode(ns.Code)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := svc.CheckCareer(ctx, ns.CareerID); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Name, ns.Code)
}

// UpdateStudyPlan defines what information may be provided to modify an existing StudyPlan.
// Empty fields are left untouched; a non-nil Subjects replaces the whole subject set.
type UpdateStudyPlan struct {
	Name               string                  `json:"name" validate:"omitempty,max=100"`
	Code               string                  `json:"code" validate:"omitempty,max=20"`
	PeriodDenomination core.PeriodDenomination `json:"periodDenomination" validate:"omitempty,enum"`
	Active             *bool                   `json:"active"`
	Subjects           []string                `json:"subjects"`
}

func (us *UpdateStudyPlan) Validate(ctx context.Context, orig StudyPlan, validate *validator.Validate, svc ServiceInterface) error {
	us.Name = core.CleanString(us.Name, true /* lower */)
	us.Code = core.CleanCode(us.Code)

	if err := validate.Struct(us); err != nil {
		return err
	}

	var name, code string
	if us.Name != orig.Name {
		name = us.Name
	}
	if us.Code != orig.Code {
		code = us.Code
	}
	if name == "" && code == "" {
		return nil
	}
	return svc.CheckUniqueness(ctx, name, code, orig)
}

func (us UpdateStudyPlan) Changes() core.Changeset {
	var cs core.Changeset
	cs.Set("name", us.Name, core.SkipIfEmpty)
	cs.Set("code", us.Code, core.SkipIfEmpty)
	cs.Set("period_denomination", string(us.PeriodDenomination), core.SkipIfEmpty)
	cs.Set("active", us.Active, core.SkipIfEmpty)
	return cs
}

// ReplaceSubjects is the body of a subject set replacement.
type ReplaceSubjects struct {
	Subjects []string `json:"subjects" validate:"required"`
}

func (rs *ReplaceSubjects) Validate(validate *validator.Validate) error {
	return validate.Struct(rs)
}

type QueryFilter struct {
	CareerID         string `query:"careerId"`
	Active           string `query:"active"`
	Filter           string `query:"filter"`
	Search           string `query:"search"`
	PopulateSubjects string `query:"populate_subjects"`
}

// Clean normalizes the raw parameters; unknown values are dropped.
func (qf *QueryFilter) Clean() {
	qf.CareerID = core.CleanString(qf.CareerID)
	qf.Search = core.CleanString(qf.Search)
	if qf.Filter != SearchByCode {
		qf.Filter = SearchByName
	}
}

func (qf *QueryFilter) IsActive() *bool {
	return core.ParseActive(qf.Active)
}

func (qf *QueryFilter) Populate() bool {
	return core.ParseFlag(qf.PopulateSubjects)
}
