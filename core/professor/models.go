package professor

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/registrar/core"
)

type Professor struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	RFC            string              `json:"rfc"`
	Classification core.Classification `json:"classification"`
	Active         bool                `json:"active"`
	CreatedAt      time.Time           `json:"createdAt"` // UTC
	UpdatedAt      time.Time           `json:"updatedAt"` // UTC
}

// NewProfessor contains information needed to create a new Professor.
type NewProfessor struct {
	Name           string              `json:"name" validate:"required,max=50"`
	RFC            string              `json:"rfc" validate:"max=13"`
	Classification core.Classification `json:"classification" validate:"required,enum"`
}

func (np *NewProfessor) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	np.Name = core.CleanString(np.Name, true /* lower */)
	np.RFC = core.CleanCode(np.RFC)

	if err := validate.Struct(np); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, np.Name, np.RFC)
}

// UpdateProfessor defines what information may be provided to modify an existing Professor.
// Empty fields are left untouched, except RFC which is always written: an empty RFC clears it.
type UpdateProfessor struct {
	Name           string              `json:"name" validate:"omitempty,max=50"`
	RFC            string              `json:"rfc" validate:"max=13"`
	Classification core.Classification `json:"classification" validate:"omitempty,enum"`
	Active         *bool               `json:"active"`
}

// updatePolicies lists the fields that do not follow core.SkipIfEmpty.
var updatePolicies = map[string]core.UpdatePolicy{
	"rfc": core.AlwaysSet,
}

func policyOf(col string) core.UpdatePolicy {
	if p, ok := updatePolicies[col]; ok {
		return p
	}
	return core.SkipIfEmpty
}

func (up *UpdateProfessor) Validate(ctx context.Context, orig Professor, validate *validator.Validate, svc ServiceInterface) error {
	up.Name = core.CleanString(up.Name, true /* lower */)
	up.RFC = core.CleanCode(up.RFC)

	if err := validate.Struct(up); err != nil {
		return err
	}

	var name, rfc string
	if up.Name != orig.Name {
		name = up.Name
	}
	if up.RFC != orig.RFC {
		rfc = up.RFC
	}
	if name == "" && rfc == "" {
		return nil
	}
	return svc.CheckUniqueness(ctx, name, rfc, orig)
}

func (up UpdateProfessor) Changes() core.Changeset {
	var cs core.Changeset
	cs.Set("name", up.Name, policyOf("name"))
	cs.Set("rfc", up.RFC, policyOf("rfc"))
	cs.Set("classification", string(up.Classification), policyOf("classification"))
	cs.Set("active", up.Active, policyOf("active"))
	return cs
}

type QueryFilter struct {
	Active         string `query:"active"`
	Classification string `query:"classification"`
	Search         string `query:"search"`
}

// Clean normalizes the raw parameters; unknown values are dropped.
func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if cls, ok := core.ParseClassification(qf.Classification); ok {
		qf.Classification = string(cls)
	} else {
		qf.Classification = ""
	}
}

func (qf *QueryFilter) IsActive() *bool {
	return core.ParseActive(qf.Active)
}
