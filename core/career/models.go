package career

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registrar/core"
)

// Search targets
const (
	SearchByName = "name"
	SearchByCode = "careerCode"
)

type Career struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CareerCode    string             `json:"careerCode"`
	AcademicLevel core.AcademicLevel `json:"academicLevel"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"createdAt"` // UTC
	UpdatedAt     time.Time          `json:"updatedAt"` // UTC
}

// NewCareer contains information needed to create a new Career.
type NewCareer struct {
	Name          string             `json:"name" validate:"required,max=100"`
	CareerCode    string             `json:"careerCode" validate:"required,max=20"`
	AcademicLevel core.AcademicLevel `json:"academicLevel" validate:"required,enum"`
}

func (nc *NewCareer) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nc.Name = core.CleanString(nc.Name, true /* lower */)
	nc.CareerCode = core.CleanCode(nc.CareerCode)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nc.Name, nc.AcademicLevel, nc.CareerCode)
}

// UpdateCareer defines what information may be provided to modify an existing Career.
// Empty fields are left untouched.
type UpdateCareer struct {
	Name          string             `json:"name" validate:"omitempty,max=100"`
	CareerCode    string             `json:"careerCode" validate:"omitempty,max=20"`
	AcademicLevel core.AcademicLevel `json:"academicLevel" validate:"omitempty,enum"`
	Active        *bool              `json:"active"`
}

func (uc *UpdateCareer) Validate(ctx context.Context, orig Career, validate *validator.Validate, svc ServiceInterface) error {
	uc.Name = core.CleanString(uc.Name, true /* lower */)
	uc.CareerCode = core.CleanCode(uc.CareerCode)

	if err := validate.Struct(uc); err != nil {
		return err
	}
	if uc.Name == "" && uc.AcademicLevel == "" && uc.CareerCode == "" {
		return nil
	}

	// name is unique within the resulting academic level
	name, lvl, code := orig.Name, orig.AcademicLevel, ""
	if uc.Name != "" {
		name = uc.Name
	}
	if uc.AcademicLevel != "" {
		lvl = uc.AcademicLevel
	}
	if uc.CareerCode != "" && uc.CareerCode != orig.CareerCode {
		code = uc.CareerCode
	}
	if name == orig.Name && lvl == orig.AcademicLevel {
		name = ""
	}
	return svc.CheckUniqueness(ctx, name, lvl, code, orig)
}

func (uc UpdateCareer) Changes() core.Changeset {
	var cs core.Changeset
	cs.Set("name", uc.Name, core.SkipIfEmpty)
	cs.Set("career_code", uc.CareerCode, core.SkipIfEmpty)
	cs.Set("academic_level", string(uc.AcademicLevel), core.SkipIfEmpty)
	cs.Set("active", uc.Active, core.SkipIfEmpty)
	return cs
}

type QueryFilter struct {
	Active        string `query:"active"`
	AcademicLevel string `query:"academicLevel"`
	Filter        string `query:"filter"`
	Search        string `query:"search"`
}

// Clean normalizes the raw parameters; unknown values are dropped.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if lvl, ok := core.ParseAcademicLevel(qf.AcademicLevel); ok {
		qf.AcademicLevel = string(lvl)
	} else {
		qf.AcademicLevel = ""
	}
	if qf.Filter != SearchByCode {
		qf.Filter = SearchByName
	}
}

func (qf *QueryFilter) IsActive() *bool {
	return core.ParseActive(qf.Active)
}
