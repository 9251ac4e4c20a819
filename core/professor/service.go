package professor

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("professor")
	ErrNameExists = errors.New("a professor with this name already exists")
	ErrRFCExists  = errors.New("a professor with this RFC already exists")

	DefaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
)

type (
	Repository interface {
		// CheckProfessorUniqueness returns ErrNameExists, then ErrRFCExists. Empty values are not checked.
		CheckProfessorUniqueness(ctx context.Context, name, rfc string, excluded ...Professor) error
		CreateProfessor(ctx context.Context, p Professor) (Professor, error)
		QueryProfessors(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Professor, error)
		GetProfessor(ctx context.Context, id string) (Professor, error)
		UpdateProfessor(ctx context.Context, id string, changes core.Changeset) (Professor, error)
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, name, rfc string, excluded ...Professor) error
		Create(ctx context.Context, np NewProfessor) (Professor, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Professor, error)
		GetByID(ctx context.Context, id string) (Professor, error)
		Update(ctx context.Context, id string, up UpdateProfessor) (Professor, error)
		Archive(ctx context.Context, id string) (Professor, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, name, rfc string, excluded ...Professor) error {
	if err := svc.repo.CheckProfessorUniqueness(ctx, name, rfc, excluded...); err != nil {
		switch err {
		case ErrNameExists:
			return core.NewFieldValidationError("name", err)
		case ErrRFCExists:
			return core.NewFieldValidationError("rfc", err)
		default:
			return errors.Wrap(err, "checking professor uniqueness")
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewProfessor) (Professor, error) {
	now := time.Now().UTC()
	p := Professor{
		Name:           np.Name,
		RFC:            np.RFC,
		Classification: np.Classification,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateProfessor(ctx, p)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Professor, error) {
	return svc.repo.QueryProfessors(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Professor, error) {
	return svc.repo.GetProfessor(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProfessor) (Professor, error) {
	changes := up.Changes()
	changes.Set("updated_at", time.Now().UTC(), core.AlwaysSet)
	return svc.repo.UpdateProfessor(ctx, id, changes)
}

// Archive soft-deletes the Professor. The RFC is kept.
func (svc *Service) Archive(ctx context.Context, id string) (Professor, error) {
	inactive := false
	changes := core.Changeset{}
	changes.Set("active", &inactive, core.SkipIfEmpty)
	changes.Set("updated_at", time.Now().UTC(), core.AlwaysSet)
	return svc.repo.UpdateProfessor(ctx, id, changes)
}
