package subject

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registrar/core"
)

// Search targets
const (
	SearchByName = "name"
	SearchByKey  = "key"
)

type Subject struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Key            string    `json:"key"`
	ShortName      string    `json:"shortName"`
	Methodology    string    `json:"methodology"`
	Description    string    `json:"description"`
	Period         int       `json:"period"`
	ScheduledHours int       `json:"scheduledHours"`
	Credits        *int      `json:"credits"`
	Expertise      string    `json:"expertise"`
	Formula        string    `json:"formula"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"` // UTC
	UpdatedAt      time.Time `json:"updatedAt"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name           string `json:"name" validate:"required,max=100"`
	Key            string `json:"key" validate:"required,max=20"`
	ShortName      string `json:"shortName" validate:"max=50"`
	Methodology    string `json:"methodology" validate:"max=500"`
	Description    string `json:"description" validate:"max=2000"`
	Period         int    `json:"period" validate:"required,min=1,max=9"`
	ScheduledHours int    `json:"scheduledHours" validate:"required,min=1"`
	Credits        *int   `json:"credits" validate:"omitempty,min=0"`
	Expertise      string `json:"expertise" validate:"max=500"`
	Formula        string `json:"formula" validate:"max=500"`
}

func (ns *NewSubject) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	ns.Name = core.CleanString(ns.Name, true /* lower */)
	ns.Key = core.CleanCode(ns.Key)
	ns.ShortName = core.CleanString(ns.ShortName)
	ns.Methodology = core.CleanString(ns.Methodology)
	ns.Description = core.CleanString(ns.Description)
	ns.Expertise = core.CleanString(ns.Expertise)
	ns.Formula = core.CleanString(ns.Formula)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Name, ns.Key)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
// Empty fields are left untouched.
type UpdateSubject struct {
	Name           string `json:"name" validate:"omitempty,max=100"`
	Key            string `json:"key" validate:"omitempty,max=20"`
	ShortName      string `json:"shortName" validate:"omitempty,max=50"`
	Methodology    string `json:"methodology" validate:"omitempty,max=500"`
	Description    string `json:"description" validate:"omitempty,max=2000"`
	Period         *int   `json:"period" validate:"omitempty,min=1,max=9"`
	ScheduledHours *int   `json:"scheduledHours" validate:"omitempty,min=1"`
	Credits        *int   `json:"credits" validate:"omitempty,min=0"`
	Expertise      string `json:"expertise" validate:"omitempty,max=500"`
	Formula        string `json:"formula" validate:"omitempty,max=500"`
	Active         *bool  `json:"active"`
}

func (us *UpdateSubject) Validate(ctx context.Context, orig Subject, validate *validator.Validate, svc ServiceInterface) error {
	us.Name = core.CleanString(us.Name, true /* lower */)
	us.Key = core.CleanCode(us.Key)
	us.ShortName = core.CleanString(us.ShortName)
	us.Methodology = core.CleanString(us.Methodology)
	us.Description = core.CleanString(us.Description)
	us.Expertise = core.CleanString(us.Expertise)
	us.Formula = core.CleanString(us.Formula)

	if err := validate.Struct(us); err != nil {
		return err
	}

	var name, key string
	if us.Name != orig.Name {
		name = us.Name
	}
	if us.Key != orig.Key {
		key = us.Key
	}
	if name == "" && key == "" {
		return nil
	}
	return svc.CheckUniqueness(ctx, name, key, orig)
}

func (us UpdateSubject) Changes() core.Changeset {
	var cs core.Changeset
	cs.Set("name", us.Name, core.SkipIfEmpty)
	cs.Set("subject_key", us.Key, core.SkipIfEmpty)
	cs.Set("short_name", us.ShortName, core.SkipIfEmpty)
	cs.Set("methodology", us.Methodology, core.SkipIfEmpty)
	cs.Set("description", us.Description, core.SkipIfEmpty)
	cs.Set("period", us.Period, core.SkipIfEmpty)
	cs.Set("scheduled_hours", us.ScheduledHours, core.SkipIfEmpty)
	cs.Set("credits", us.Credits, core.SkipIfEmpty)
	cs.Set("expertise", us.Expertise, core.SkipIfEmpty)
	cs.Set("formula", us.Formula, core.SkipIfEmpty)
	cs.Set("active", us.Active, core.SkipIfEmpty)
	return cs
}

type QueryFilter struct {
	Active string `query:"active"`
	Filter string `query:"filter"`
	Search string `query:"search"`
	Period string `query:"period"`
}

// Clean normalizes the raw parameters; unknown values are dropped.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Filter != SearchByKey {
		qf.Filter = SearchByName
	}
	if qf.PeriodNumber() == 0 {
		qf.Period = ""
	}
}

func (qf *QueryFilter) IsActive() *bool {
	return core.ParseActive(qf.Active)
}

// PeriodNumber returns the requested period, or 0 when absent or out of [core.MinPeriod, core.MaxPeriod].
func (qf *QueryFilter) PeriodNumber() int {
	n, err := strconv.Atoi(core.CleanString(qf.Period))
	if err != nil || n < core.MinPeriod || n > core.MaxPeriod {
		return 0
	}
	return n
}
