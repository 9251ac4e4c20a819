package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/studyplan"
)

const studyPlanColumns = "id, career_id, name, code, period_denomination, active, created_at, updated_at"

var studyPlanOrderings = map[string]string{
	"name":               "name",
	"code":               "code",
	"periodDenomination": "period_denomination",
	"createdAt":          "created_at",
	"updatedAt":          "updated_at",
}

type studyPlanRow struct {
	ID                 string    `db:"id"`
	CareerID           string    `db:"career_id"`
	Name               string    `db:"name"`
	Code               string    `db:"code"`
	PeriodDenomination string    `db:"period_denomination"`
	Active             bool      `db:"active"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r studyPlanRow) unwrap(subjectIDs []string) studyplan.StudyPlan {
	if subjectIDs == nil {
		subjectIDs = []string{}
	}
	return studyplan.StudyPlan{
		ID:                 r.ID,
		CareerID:           r.CareerID,
		Name:               r.Name,
		Code:               r.Code,
		PeriodDenomination: core.PeriodDenomination(r.PeriodDenomination),
		SubjectIDs:         subjectIDs,
		Active:             r.Active,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}
}

type planSubjectRow struct {
	StudyPlanID string `db:"study_plan_id"`
	SubjectID   string `db:"subject_id"`
}

type studyPlanRepository struct {
	db *sqlx.DB
}

var _ studyplan.Repository = (*studyPlanRepository)(nil) // interface compliance check

func NewStudyPlanRepository(db *sqlx.DB) *studyPlanRepository {
	return &studyPlanRepository{db: db}
}

// subjectIDs loads the subject sets of the plans `planIDs`, in position order.
func (repo studyPlanRepository) subjectIDs(ctx context.Context, planIDs ...string) (map[string][]string, error) {
	sets := make(map[string][]string, len(planIDs))
	if len(planIDs) == 0 {
		return sets, nil
	}
	q, args, err := sqlx.In(
		"SELECT study_plan_id, subject_id FROM study_plan_subject WHERE study_plan_id IN (?) ORDER BY study_plan_id, position",
		planIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "building study plan subjects query")
	}

	var rows []planSubjectRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "loading study plan subjects")
	}
	for _, r := range rows {
		sets[r.StudyPlanID] = append(sets[r.StudyPlanID], r.SubjectID)
	}
	return sets, nil
}

// replaceSubjects overwrites the subject set of the plan `planID` within `tx`.
func replaceSubjects(ctx context.Context, tx *sqlx.Tx, planID string, subjectIDs []string) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM study_plan_subject WHERE study_plan_id = ?"), planID); err != nil {
		return errors.Wrap(err, "clearing study plan subjects")
	}
	insert := tx.Rebind("INSERT INTO study_plan_subject (study_plan_id, position, subject_id) VALUES (?, ?, ?)")
	for pos, id := range subjectIDs {
		if _, err := tx.ExecContext(ctx, insert, planID, pos, id); err != nil {
			return errors.Wrap(err, "inserting study plan subject")
		}
	}
	return nil
}

func (repo studyPlanRepository) CheckStudyPlanUniqueness(ctx context.Context, name, code string, excluded ...studyplan.StudyPlan) error {
	excl := excludedIDs(excluded, func(sp studyplan.StudyPlan) string { return sp.ID })

	if name != "" {
		w := &where{}
		w.add("name = ?", name)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "study_plan", w)
		if err != nil {
			return errors.Wrap(err, "checking study plan name uniqueness")
		}
		if found {
			return studyplan.ErrNameExists
		}
	}
	if code != "" {
		w := &where{}
		w.add("code = ?", code)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "study_plan", w)
		if err != nil {
			return errors.Wrap(err, "checking study plan code uniqueness")
		}
		if found {
			return studyplan.ErrCodeExists
		}
	}
	return nil
}

func (repo studyPlanRepository) CreateStudyPlan(ctx context.Context, sp studyplan.StudyPlan) (studyplan.StudyPlan, error) {
	sp.ID = uuid.New().String()
	if sp.SubjectIDs == nil {
		sp.SubjectIDs = []string{}
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return studyplan.StudyPlan{}, errors.Wrap(err, "beginning transaction")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer tx.Rollback()

	q := tx.Rebind(`INSERT INTO study_plan (` + studyPlanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(
		ctx, q,
		sp.ID, sp.CareerID, sp.Name, sp.Code, string(sp.PeriodDenomination), sp.Active, sp.CreatedAt.UTC(), sp.UpdatedAt.UTC(),
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return studyplan.StudyPlan{}, err
		}
		return studyplan.StudyPlan{}, errors.Wrap(err, "inserting study plan")
	}
	if err = replaceSubjects(ctx, tx, sp.ID, sp.SubjectIDs); err != nil {
		return studyplan.StudyPlan{}, err
	}
	if err = tx.Commit(); err != nil {
		return studyplan.StudyPlan{}, errors.Wrap(err, "committing study plan")
	}
	return sp, nil
}

func (repo studyPlanRepository) QueryStudyPlans(ctx context.Context, filter *studyplan.QueryFilter, ordering []core.DBOrdering) ([]studyplan.StudyPlan, error) {
	w := &where{}
	if filter != nil {
		if filter.CareerID != "" {
			w.add("career_id = ?", filter.CareerID)
		}
		if active := filter.IsActive(); active != nil {
			w.add("active = ?", *active)
		}
		if filter.Search != "" {
			col := "name"
			if filter.Filter == studyplan.SearchByCode {
				col = "code"
			}
			w.contains(col, filter.Search)
		}
	}
	ordering = core.CleanOrdering(ordering, studyPlanOrderings, studyplan.DefaultOrdering...)

	var rows []studyPlanRow
	q := repo.db.Rebind("SELECT " + studyPlanColumns + " FROM study_plan" + w.String() + orderBy(ordering))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying study plans")
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	sets, err := repo.subjectIDs(ctx, ids...)
	if err != nil {
		return nil, err
	}

	plans := make([]studyplan.StudyPlan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.unwrap(sets[r.ID]))
	}
	return plans, nil
}

func (repo studyPlanRepository) GetStudyPlan(ctx context.Context, id string) (studyplan.StudyPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return studyplan.StudyPlan{}, studyplan.ErrNotFound
	}
	var row studyPlanRow
	q := repo.db.Rebind("SELECT " + studyPlanColumns + " FROM study_plan WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return studyplan.StudyPlan{}, trapNoRowsErr(err, studyplan.ErrNotFound, "finding study plan")
	}

	sets, err := repo.subjectIDs(ctx, id)
	if err != nil {
		return studyplan.StudyPlan{}, err
	}
	return row.unwrap(sets[id]), nil
}

func (repo studyPlanRepository) UpdateStudyPlan(ctx context.Context, id string, changes core.Changeset, subjectIDs []string) (studyplan.StudyPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return studyplan.StudyPlan{}, studyplan.ErrNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return studyplan.StudyPlan{}, errors.Wrap(err, "beginning transaction")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer tx.Rollback()

	found, err := updateByID(ctx, tx, "study_plan", id, changes)
	if err != nil {
		if err == ErrConflict {
			return studyplan.StudyPlan{}, err
		}
		return studyplan.StudyPlan{}, errors.Wrap(err, "updating study plan")
	}
	if !found {
		return studyplan.StudyPlan{}, studyplan.ErrNotFound
	}
	if subjectIDs != nil {
		if err = replaceSubjects(ctx, tx, id, subjectIDs); err != nil {
			return studyplan.StudyPlan{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return studyplan.StudyPlan{}, errors.Wrap(err, "committing study plan")
	}
	return repo.GetStudyPlan(ctx, id)
}
