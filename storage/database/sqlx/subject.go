package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/subject"
)

const subjectColumns = "id, name, subject_key, short_name, methodology, description, period, scheduled_hours, " +
	"credits, expertise, formula, active, created_at, updated_at"

var subjectOrderings = map[string]string{
	"name":           "name",
	"key":            "subject_key",
	"period":         "period",
	"scheduledHours": "scheduled_hours",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type subjectRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Key            string      `db:"subject_key"`
	ShortName      null.String `db:"short_name"`
	Methodology    null.String `db:"methodology"`
	Description    null.String `db:"description"`
	Period         int         `db:"period"`
	ScheduledHours int         `db:"scheduled_hours"`
	Credits        null.Int    `db:"credits"`
	Expertise      null.String `db:"expertise"`
	Formula        null.String `db:"formula"`
	Active         bool        `db:"active"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r subjectRow) unwrap() subject.Subject {
	return subject.Subject{
		ID:             r.ID,
		Name:           r.Name,
		Key:            r.Key,
		ShortName:      r.ShortName.String,
		Methodology:    r.Methodology.String,
		Description:    r.Description.String,
		Period:         r.Period,
		ScheduledHours: r.ScheduledHours,
		Credits:        r.Credits.Ptr(),
		Expertise:      r.Expertise.String,
		Formula:        r.Formula.String,
		Active:         r.Active,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func unwrapSubjects(rows []subjectRow) []subject.Subject {
	subjects := make([]subject.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.unwrap())
	}
	return subjects
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo subjectRepository) CheckSubjectUniqueness(ctx context.Context, name, key string, excluded ...subject.Subject) error {
	excl := excludedIDs(excluded, func(s subject.Subject) string { return s.ID })

	checks := []struct {
		col, val string
		err      error
	}{
		{"name", name, subject.ErrNameExists},
		{"subject_key", key, subject.ErrKeyExists},
	}
	for _, c := range checks {
		if c.val == "" {
			continue
		}
		w := &where{}
		w.add(c.col+" = ?", c.val)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "subject", w)
		if err != nil {
			return errors.Wrap(err, "checking subject uniqueness")
		}
		if found {
			return c.err
		}
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	s.ID = uuid.New().String()
	q := repo.db.Rebind(`INSERT INTO subject (` + subjectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, q,
		s.ID, s.Name, s.Key, nullString(s.ShortName), nullString(s.Methodology), nullString(s.Description),
		s.Period, s.ScheduledHours, null.IntFromPtr(s.Credits), nullString(s.Expertise), nullString(s.Formula),
		s.Active, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return subject.Subject{}, err
		}
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	w := &where{}
	if filter != nil {
		if active := filter.IsActive(); active != nil {
			w.add("active = ?", *active)
		}
		if period := filter.PeriodNumber(); period != 0 {
			w.add("period = ?", period)
		}
		if filter.Search != "" {
			col := "name"
			if filter.Filter == subject.SearchByKey {
				col = "subject_key"
			}
			w.contains(col, filter.Search)
		}
	}
	ordering = core.CleanOrdering(ordering, subjectOrderings, subject.DefaultOrdering...)

	var rows []subjectRow
	q := repo.db.Rebind("SELECT " + subjectColumns + " FROM subject" + w.String() + orderBy(ordering))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	return unwrapSubjects(rows), nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, id string) (subject.Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return subject.Subject{}, subject.ErrNotFound
	}
	var row subjectRow
	q := repo.db.Rebind("SELECT " + subjectColumns + " FROM subject WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return subject.Subject{}, trapNoRowsErr(err, subject.ErrNotFound, "finding subject")
	}
	return row.unwrap(), nil
}

func (repo subjectRepository) GetSubjectsByIDs(ctx context.Context, ids []string) ([]subject.Subject, error) {
	if len(ids) == 0 {
		return []subject.Subject{}, nil
	}
	q, args, err := sqlx.In("SELECT "+subjectColumns+" FROM subject WHERE id IN (?)", ids)
	if err != nil {
		return nil, errors.Wrap(err, "building subjects query")
	}

	var rows []subjectRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "finding subjects by ids")
	}
	return unwrapSubjects(rows), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, id string, changes core.Changeset) (subject.Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return subject.Subject{}, subject.ErrNotFound
	}
	found, err := updateByID(ctx, repo.db, "subject", id, changes)
	if err != nil {
		if err == ErrConflict {
			return subject.Subject{}, err
		}
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	if !found {
		return subject.Subject{}, subject.ErrNotFound
	}
	return repo.GetSubject(ctx, id)
}
