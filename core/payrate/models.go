package payrate

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registrar/core"
)

// Rates holds the hourly pay of each academic level.
type Rates struct {
	Primaria     float64 `json:"primaria"`
	Secundaria   float64 `json:"secundaria"`
	Bachillerato float64 `json:"bachillerato"`
	Universidad  float64 `json:"universidad"`
	Posgrado     float64 `json:"posgrado"`
	Nocturna     float64 `json:"nocturna"`
	Virtual      float64 `json:"virtual"`
	Taller       float64 `json:"taller"`
}

// Of returns the rate of `level`, 0 for unknown levels.
func (r Rates) Of(level core.AcademicLevel) float64 {
	switch level {
	case core.LevelPrimaria:
		return r.Primaria
	case core.LevelSecundaria:
		return r.Secundaria
	case core.LevelBachillerato:
		return r.Bachillerato
	case core.LevelUniversidad:
		return r.Universidad
	case core.LevelPosgrado:
		return r.Posgrado
	case core.LevelNocturna:
		return r.Nocturna
	case core.LevelVirtual:
		return r.Virtual
	case core.LevelTaller:
		return r.Taller
	default:
		return 0
	}
}

type PayRate struct {
	ID             string              `json:"id"`
	Classification core.Classification `json:"clasificacion"`
	Rates          Rates               `json:"rates"`
	CreatedAt      time.Time           `json:"createdAt"` // UTC
	UpdatedAt      time.Time           `json:"updatedAt"` // UTC
}

// RatesInput is the user supplied version of Rates; nil rates are missing.
type RatesInput struct {
	Primaria     *float64 `json:"primaria" validate:"omitempty,min=0"`
	Secundaria   *float64 `json:"secundaria" validate:"omitempty,min=0"`
	Bachillerato *float64 `json:"bachillerato" validate:"omitempty,min=0"`
	Universidad  *float64 `json:"universidad" validate:"omitempty,min=0"`
	Posgrado     *float64 `json:"posgrado" validate:"omitempty,min=0"`
	Nocturna     *float64 `json:"nocturna" validate:"omitempty,min=0"`
	Virtual      *float64 `json:"virtual" validate:"omitempty,min=0"`
	Taller       *float64 `json:"taller" validate:"omitempty,min=0"`
}

func (ri RatesInput) columns() []struct {
	col string
	val *float64
} {
	return []struct {
		col string
		val *float64
	}{
		{"rate_primaria", ri.Primaria},
		{"rate_secundaria", ri.Secundaria},
		{"rate_bachillerato", ri.Bachillerato},
		{"rate_universidad", ri.Universidad},
		{"rate_posgrado", ri.Posgrado},
		{"rate_nocturna", ri.Nocturna},
		{"rate_virtual", ri.Virtual},
		{"rate_taller", ri.Taller},
	}
}

// Rates fills the missing rates with 0.
func (ri RatesInput) Rates() Rates {
	val := func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	}
	return Rates{
		Primaria:     val(ri.Primaria),
		Secundaria:   val(ri.Secundaria),
		Bachillerato: val(ri.Bachillerato),
		Universidad:  val(ri.Universidad),
		Posgrado:     val(ri.Posgrado),
		Nocturna:     val(ri.Nocturna),
		Virtual:      val(ri.Virtual),
		Taller:       val(ri.Taller),
	}
}

// NewPayRate contains information needed to create a new PayRate.
type NewPayRate struct {
	Classification core.Classification `json:"clasificacion" validate:"required,enum"`
	Rates          RatesInput          `json:"rates"`
}

func (np *NewPayRate) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, np.Classification)
}

// UpdatePayRate defines the rates that may be modified on an existing PayRate. Missing rates are left untouched.
type UpdatePayRate struct {
	Rates RatesInput `json:"rates"`
}

func (up *UpdatePayRate) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

func (up UpdatePayRate) Changes() core.Changeset {
	var cs core.Changeset
	for _, c := range up.Rates.columns() {
		cs.Set(c.col, c.val, core.SkipIfEmpty)
	}
	return cs
}

type QueryFilter struct {
	Classification string `query:"clasificacion"`
}

// Clean normalizes the raw parameters; unknown values are dropped.
func (qf *QueryFilter) Clean() {
	if cls, ok := core.ParseClassification(qf.Classification); ok {
		qf.Classification = string(cls)
	} else {
		qf.Classification = ""
	}
}
