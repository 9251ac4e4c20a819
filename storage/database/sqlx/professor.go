package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/professor"
)

const professorColumns = "id, name, rfc, classification, active, created_at, updated_at"

var professorOrderings = map[string]string{
	"name":           "name",
	"rfc":            "rfc",
	"classification": "classification",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type professorRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	RFC            null.String `db:"rfc"`
	Classification string      `db:"classification"`
	Active         bool        `db:"active"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r professorRow) unwrap() professor.Professor {
	return professor.Professor{
		ID:             r.ID,
		Name:           r.Name,
		RFC:            r.RFC.String,
		Classification: core.Classification(r.Classification),
		Active:         r.Active,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type professorRepository struct {
	db *sqlx.DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *sqlx.DB) *professorRepository {
	return &professorRepository{db: db}
}

func (repo professorRepository) CheckProfessorUniqueness(ctx context.Context, name, rfc string, excluded ...professor.Professor) error {
	excl := excludedIDs(excluded, func(p professor.Professor) string { return p.ID })

	if name != "" {
		w := &where{}
		w.add("name = ?", name)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "professor", w)
		if err != nil {
			return errors.Wrap(err, "checking professor name uniqueness")
		}
		if found {
			return professor.ErrNameExists
		}
	}
	if rfc != "" {
		w := &where{}
		w.add("rfc = ?", rfc)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "professor", w)
		if err != nil {
			return errors.Wrap(err, "checking professor rfc uniqueness")
		}
		if found {
			return professor.ErrRFCExists
		}
	}
	return nil
}

func (repo professorRepository) CreateProfessor(ctx context.Context, p professor.Professor) (professor.Professor, error) {
	p.ID = uuid.New().String()
	q := repo.db.Rebind(`INSERT INTO professor (` + professorColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, q,
		p.ID, p.Name, nullString(p.RFC), string(p.Classification), p.Active, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return professor.Professor{}, err
		}
		return professor.Professor{}, errors.Wrap(err, "inserting professor")
	}
	return p, nil
}

func (repo professorRepository) QueryProfessors(ctx context.Context, filter *professor.QueryFilter, ordering []core.DBOrdering) ([]professor.Professor, error) {
	w := &where{}
	if filter != nil {
		if active := filter.IsActive(); active != nil {
			w.add("active = ?", *active)
		}
		if filter.Classification != "" {
			w.add("classification = ?", filter.Classification)
		}
		if filter.Search != "" {
			w.contains("name", filter.Search)
		}
	}
	ordering = core.CleanOrdering(ordering, professorOrderings, professor.DefaultOrdering...)

	var rows []professorRow
	q := repo.db.Rebind("SELECT " + professorColumns + " FROM professor" + w.String() + orderBy(ordering))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying professors")
	}

	professors := make([]professor.Professor, 0, len(rows))
	for _, r := range rows {
		professors = append(professors, r.unwrap())
	}
	return professors, nil
}

func (repo professorRepository) GetProfessor(ctx context.Context, id string) (professor.Professor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return professor.Professor{}, professor.ErrNotFound
	}
	var row professorRow
	q := repo.db.Rebind("SELECT " + professorColumns + " FROM professor WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return professor.Professor{}, trapNoRowsErr(err, professor.ErrNotFound, "finding professor")
	}
	return row.unwrap(), nil
}

func (repo professorRepository) UpdateProfessor(ctx context.Context, id string, changes core.Changeset) (professor.Professor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return professor.Professor{}, professor.ErrNotFound
	}
	found, err := updateByID(ctx, repo.db, "professor", id, changes)
	if err != nil {
		if err == ErrConflict {
			return professor.Professor{}, err
		}
		return professor.Professor{}, errors.Wrap(err, "updating professor")
	}
	if !found {
		return professor.Professor{}, professor.ErrNotFound
	}
	return repo.GetProfessor(ctx, id)
}
