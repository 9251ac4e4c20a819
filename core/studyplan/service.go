package studyplan

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/subject"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("study plan")
	ErrNameExists     = errors.New("a study plan with this name already exists")
	ErrCodeExists     = errors.New("a study plan with this code already exists")
	ErrCareerNotFound = errors.New("career not found")

	DefaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}

	nowUTC = func() time.Time { return time.Now().UTC() } // mockable
)

type (
	Repository interface {
		// CheckStudyPlanUniqueness returns ErrNameExists, then ErrCodeExists. Empty values are not checked.
		CheckStudyPlanUniqueness(ctx context.Context, name, code string, excluded ...StudyPlan) error
		CreateStudyPlan(ctx context.Context, sp StudyPlan) (StudyPlan, error)
		QueryStudyPlans(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]StudyPlan, error)
		GetStudyPlan(ctx context.Context, id string) (StudyPlan, error)
		// UpdateStudyPlan applies `changes` and, when subjectIDs is not nil, replaces the subject set, in one transaction.
		UpdateStudyPlan(ctx context.Context, id string, changes core.Changeset, subjectIDs []string) (StudyPlan, error)
	}

	// CareerFinder is the part of the Career service study plans need.
	CareerFinder interface {
		GetByID(ctx context.Context, id string) (career.Career, error)
	}

	ServiceInterface interface {
		CheckCareer(ctx context.Context, careerID string) error
		CheckUniqueness(ctx context.Context, name, code string, excluded ...StudyPlan) error
		Create(ctx context.Context, ns NewStudyPlan) (StudyPlan, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]StudyPlan, error)
		GetByID(ctx context.Context, id string, populate bool) (StudyPlan, error)
		Update(ctx context.Context, id string, us UpdateStudyPlan) (StudyPlan, error)
		Archive(ctx context.Context, id string) (StudyPlan, error)
		Restore(ctx context.Context, id string) (StudyPlan, error)
		ReplaceSubjects(ctx context.Context, id string, subjectIDs []string) (StudyPlan, error)
		Periods(ctx context.Context, id string) ([]PeriodBucket, error)
		Candidates(ctx context.Context, id string, cf CandidateFilter) ([]subject.Subject, error)
	}

	Service struct {
		repo    Repository
		careers CareerFinder
		assoc   *Associations
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, careers CareerFinder, subjects SubjectFinder) *Service {
	return &Service{
		repo:    repo,
		careers: careers,
		assoc:   NewAssociations(repo, subjects),
	}
}

// CheckCareer reports a validation error when `careerID` does not reference an existing Career.
func (svc *Service) CheckCareer(ctx context.Context, careerID string) error {
	if _, err := svc.careers.GetByID(ctx, careerID); err != nil {
		if core.IsNotFound(err) {
			return core.NewFieldValidationError("careerId", ErrCareerNotFound)
		}
		return errors.Wrap(err, "finding career")
	}
	return nil
}

func (svc *Service) CheckUniqueness(ctx context.Context, name, code string, excluded ...StudyPlan) error {
	if err := svc.repo.CheckStudyPlanUniqueness(ctx, name, code, excluded...); err != nil {
		switch err {
		case ErrNameExists:
			return core.NewFieldValidationError("name", err)
		case ErrCodeExists:
			return core.NewFieldValidationError("code", err)
		default:
			return errors.Wrap(err, "checking study plan uniqueness")
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudyPlan) (StudyPlan, error) {
	now := nowUTC()
	sp := StudyPlan{
		CareerID:           ns.CareerID,
		Name:               ns.Name,
		Code:               ns.Code,
		PeriodDenomination: ns.PeriodDenomination,
		SubjectIDs:         []string{},
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return svc.repo.CreateStudyPlan(ctx, sp)
}

// Query lists StudyPlans; subjects are expanded only when the filter asks for it.
func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]StudyPlan, error) {
	plans, err := svc.repo.QueryStudyPlans(ctx, filter, ordering)
	if err != nil {
		return nil, err
	}
	if filter != nil && filter.Populate() {
		if err = svc.assoc.PopulateAll(ctx, plans); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (svc *Service) GetByID(ctx context.Context, id string, populate bool) (StudyPlan, error) {
	sp, err := svc.repo.GetStudyPlan(ctx, id)
	if err != nil {
		return StudyPlan{}, err
	}
	if populate {
		if err = svc.assoc.Populate(ctx, &sp); err != nil {
			return StudyPlan{}, err
		}
	}
	return sp, nil
}

// Update applies a partial update. A non-nil us.Subjects replaces the subject set in the same write.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudyPlan) (StudyPlan, error) {
	var ids []string
	if us.Subjects != nil {
		ids = Dedupe(us.Subjects)
		if err := svc.assoc.checkSubjects(ctx, ids); err != nil {
			return StudyPlan{}, err
		}
	}
	changes := us.Changes()
	changes.Set("updated_at", nowUTC(), core.AlwaysSet)
	return svc.repo.UpdateStudyPlan(ctx, id, changes, ids)
}

// Archive moves the StudyPlan to the archived state. Its subject set is kept.
func (svc *Service) Archive(ctx context.Context, id string) (StudyPlan, error) {
	return svc.setActive(ctx, id, false)
}

// Restore moves an archived StudyPlan back to the active state.
func (svc *Service) Restore(ctx context.Context, id string) (StudyPlan, error) {
	return svc.setActive(ctx, id, true)
}

func (svc *Service) setActive(ctx context.Context, id string, active bool) (StudyPlan, error) {
	return svc.Update(ctx, id, UpdateStudyPlan{Active: &active})
}

func (svc *Service) ReplaceSubjects(ctx context.Context, id string, subjectIDs []string) (StudyPlan, error) {
	if subjectIDs == nil {
		subjectIDs = []string{}
	}
	return svc.assoc.ReplaceSubjects(ctx, id, subjectIDs)
}

// Periods returns the period buckets of a StudyPlan.
func (svc *Service) Periods(ctx context.Context, id string) ([]PeriodBucket, error) {
	sp, err := svc.GetByID(ctx, id, true /* populate */)
	if err != nil {
		return nil, err
	}
	return Buckets(sp), nil
}

// Candidates returns the Subjects offered for selection on a StudyPlan.
func (svc *Service) Candidates(ctx context.Context, id string, cf CandidateFilter) ([]subject.Subject, error) {
	sp, err := svc.repo.GetStudyPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	cf.Clean()
	return svc.assoc.Candidates(ctx, sp, cf)
}
