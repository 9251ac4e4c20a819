package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("subject")
	ErrNameExists = errors.New("a subject with this name already exists")
	ErrKeyExists  = errors.New("a subject with this key already exists")

	DefaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}
)

type (
	Repository interface {
		// CheckSubjectUniqueness returns ErrNameExists, then ErrKeyExists. Empty values are not checked.
		CheckSubjectUniqueness(ctx context.Context, name, key string, excluded ...Subject) error
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		QuerySubjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		// GetSubjectsByIDs returns the Subjects found among `ids`, in no particular order. Unknown ids are skipped.
		GetSubjectsByIDs(ctx context.Context, ids []string) ([]Subject, error)
		UpdateSubject(ctx context.Context, id string, changes core.Changeset) (Subject, error)
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, name, key string, excluded ...Subject) error
		Create(ctx context.Context, ns NewSubject) (Subject, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error)
		GetByID(ctx context.Context, id string) (Subject, error)
		GetByIDs(ctx context.Context, ids []string) ([]Subject, error)
		Update(ctx context.Context, id string, us UpdateSubject) (Subject, error)
		Archive(ctx context.Context, id string) (Subject, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, name, key string, excluded ...Subject) error {
	if err := svc.repo.CheckSubjectUniqueness(ctx, name, key, excluded...); err != nil {
		switch err {
		case ErrNameExists:
			return core.NewFieldValidationError("name", err)
		case ErrKeyExists:
			return core.NewFieldValidationError("key", err)
		default:
			return errors.Wrap(err, "checking subject uniqueness")
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	s := Subject{
		Name:           ns.Name,
		Key:            ns.Key,
		ShortName:      ns.ShortName,
		Methodology:    ns.Methodology,
		Description:    ns.Description,
		Period:         ns.Period,
		ScheduledHours: ns.ScheduledHours,
		Credits:        ns.Credits,
		Expertise:      ns.Expertise,
		Formula:        ns.Formula,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateSubject(ctx, s)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) GetByIDs(ctx context.Context, ids []string) ([]Subject, error) {
	if len(ids) == 0 {
		return []Subject{}, nil
	}
	return svc.repo.GetSubjectsByIDs(ctx, ids)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	changes := us.Changes()
	changes.Set("updated_at", time.Now().UTC(), core.AlwaysSet)
	return svc.repo.UpdateSubject(ctx, id, changes)
}

// Archive soft-deletes the Subject. StudyPlans referencing it keep it.
func (svc *Service) Archive(ctx context.Context, id string) (Subject, error) {
	inactive := false
	return svc.Update(ctx, id, UpdateSubject{Active: &inactive})
}
