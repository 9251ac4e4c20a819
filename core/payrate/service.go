package payrate

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound             = core.NewNotFoundError("pay rate")
	ErrClassificationExists = errors.New("a pay rate with this classification already exists")

	DefaultOrdering = []core.DBOrdering{{Field: "classification", Ascending: true}}
)

type (
	Repository interface {
		CheckPayRateUniqueness(ctx context.Context, cls core.Classification, excluded ...PayRate) error
		CreatePayRate(ctx context.Context, pr PayRate) (PayRate, error)
		QueryPayRates(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]PayRate, error)
		GetPayRate(ctx context.Context, id string) (PayRate, error)
		UpdatePayRate(ctx context.Context, id string, changes core.Changeset) (PayRate, error)
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, cls core.Classification, excluded ...PayRate) error
		Create(ctx context.Context, np NewPayRate) (PayRate, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]PayRate, error)
		GetByID(ctx context.Context, id string) (PayRate, error)
		Update(ctx context.Context, id string, up UpdatePayRate) (PayRate, error)
		Reset(ctx context.Context, id string) (PayRate, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, cls core.Classification, excluded ...PayRate) error {
	if err := svc.repo.CheckPayRateUniqueness(ctx, cls, excluded...); err != nil {
		if err == ErrClassificationExists {
			return core.NewFieldValidationError("clasificacion", err)
		}
		return errors.Wrap(err, "checking pay rate uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewPayRate) (PayRate, error) {
	now := time.Now().UTC()
	pr := PayRate{
		Classification: np.Classification,
		Rates:          np.Rates.Rates(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreatePayRate(ctx, pr)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]PayRate, error) {
	return svc.repo.QueryPayRates(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (PayRate, error) {
	return svc.repo.GetPayRate(ctx, id)
}

// Update overwrites the supplied rates. Concurrent updates are last-write-wins.
func (svc *Service) Update(ctx context.Context, id string, up UpdatePayRate) (PayRate, error) {
	changes := up.Changes()
	changes.Set("updated_at", time.Now().UTC(), core.AlwaysSet)
	return svc.repo.UpdatePayRate(ctx, id, changes)
}

// Reset sets every rate to 0. PayRates are never removed.
func (svc *Service) Reset(ctx context.Context, id string) (PayRate, error) {
	zero := 0.0
	return svc.Update(ctx, id, UpdatePayRate{Rates: RatesInput{
		Primaria: &zero, Secundaria: &zero, Bachillerato: &zero, Universidad: &zero,
		Posgrado: &zero, Nocturna: &zero, Virtual: &zero, Taller: &zero,
	}})
}
