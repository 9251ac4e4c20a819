package career

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("career")
	ErrNameExists = errors.New("a career with this name already exists at this academic level")
	ErrCodeExists = errors.New("a career with this code already exists")

	DefaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}
)

type (
	Repository interface {
		// CheckCareerUniqueness returns ErrNameExists if (name, level) is taken, then ErrCodeExists if code is.
		// Empty values are not checked.
		CheckCareerUniqueness(ctx context.Context, name string, level core.AcademicLevel, code string, excluded ...Career) error
		CreateCareer(ctx context.Context, c Career) (Career, error)
		QueryCareers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Career, error)
		GetCareer(ctx context.Context, id string) (Career, error)
		UpdateCareer(ctx context.Context, id string, changes core.Changeset) (Career, error)
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, name string, level core.AcademicLevel, code string, excluded ...Career) error
		Create(ctx context.Context, nc NewCareer) (Career, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Career, error)
		GetByID(ctx context.Context, id string) (Career, error)
		Update(ctx context.Context, id string, uc UpdateCareer) (Career, error)
		Archive(ctx context.Context, id string) (Career, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, name string, level core.AcademicLevel, code string, excluded ...Career) error {
	if err := svc.repo.CheckCareerUniqueness(ctx, name, level, code, excluded...); err != nil {
		switch err {
		case ErrNameExists:
			return core.NewFieldValidationError("name", err)
		case ErrCodeExists:
			return core.NewFieldValidationError("careerCode", err)
		default:
			return errors.Wrap(err, "checking career uniqueness")
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCareer) (Career, error) {
	now := time.Now().UTC()
	c := Career{
		Name:          nc.Name,
		CareerCode:    nc.CareerCode,
		AcademicLevel: nc.AcademicLevel,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateCareer(ctx, c)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Career, error) {
	return svc.repo.QueryCareers(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Career, error) {
	return svc.repo.GetCareer(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCareer) (Career, error) {
	changes := uc.Changes()
	changes.Set("updated_at", time.Now().UTC(), core.AlwaysSet)
	return svc.repo.UpdateCareer(ctx, id, changes)
}

// Archive soft-deletes the Career.
func (svc *Service) Archive(ctx context.Context, id string) (Career, error) {
	inactive := false
	return svc.Update(ctx, id, UpdateCareer{Active: &inactive})
}
