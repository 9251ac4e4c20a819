package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
)

const careerColumns = "id, name, career_code, academic_level, active, created_at, updated_at"

var careerOrderings = map[string]string{
	"name":          "name",
	"careerCode":    "career_code",
	"academicLevel": "academic_level",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

type careerRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	CareerCode    string    `db:"career_code"`
	AcademicLevel string    `db:"academic_level"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r careerRow) unwrap() career.Career {
	return career.Career{
		ID:            r.ID,
		Name:          r.Name,
		CareerCode:    r.CareerCode,
		AcademicLevel: core.AcademicLevel(r.AcademicLevel),
		Active:        r.Active,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type careerRepository struct {
	db *sqlx.DB
}

var _ career.Repository = (*careerRepository)(nil) // interface compliance check

func NewCareerRepository(db *sqlx.DB) *careerRepository {
	return &careerRepository{db: db}
}

func (repo careerRepository) CheckCareerUniqueness(ctx context.Context, name string, level core.AcademicLevel, code string, excluded ...career.Career) error {
	excl := excludedIDs(excluded, func(c career.Career) string { return c.ID })

	if name != "" {
		w := &where{}
		w.add("name = ? AND academic_level = ?", name, string(level))
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "career", w)
		if err != nil {
			return errors.Wrap(err, "checking career name uniqueness")
		}
		if found {
			return career.ErrNameExists
		}
	}
	if code != "" {
		w := &where{}
		w.add("career_code = ?", code)
		w.excludeIDs(excl)
		found, err := exists(ctx, repo.db, "career", w)
		if err != nil {
			return errors.Wrap(err, "checking career code uniqueness")
		}
		if found {
			return career.ErrCodeExists
		}
	}
	return nil
}

func (repo careerRepository) CreateCareer(ctx context.Context, c career.Career) (career.Career, error) {
	c.ID = uuid.New().String()
	q := repo.db.Rebind(`INSERT INTO career (` + careerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, q,
		c.ID, c.Name, c.CareerCode, string(c.AcademicLevel), c.Active, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return career.Career{}, err
		}
		return career.Career{}, errors.Wrap(err, "inserting career")
	}
	return c, nil
}

func (repo careerRepository) QueryCareers(ctx context.Context, filter *career.QueryFilter, ordering []core.DBOrdering) ([]career.Career, error) {
	w := &where{}
	if filter != nil {
		if active := filter.IsActive(); active != nil {
			w.add("active = ?", *active)
		}
		if filter.AcademicLevel != "" {
			w.add("academic_level = ?", filter.AcademicLevel)
		}
		if filter.Search != "" {
			col := "name"
			if filter.Filter == career.SearchByCode {
				col = "career_code"
			}
			w.contains(col, filter.Search)
		}
	}
	ordering = core.CleanOrdering(ordering, careerOrderings, career.DefaultOrdering...)

	var rows []careerRow
	q := repo.db.Rebind("SELECT " + careerColumns + " FROM career" + w.String() + orderBy(ordering))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying careers")
	}

	careers := make([]career.Career, 0, len(rows))
	for _, r := range rows {
		careers = append(careers, r.unwrap())
	}
	return careers, nil
}

func (repo careerRepository) GetCareer(ctx context.Context, id string) (career.Career, error) {
	if _, err := uuid.Parse(id); err != nil {
		return career.Career{}, career.ErrNotFound
	}
	var row careerRow
	q := repo.db.Rebind("SELECT " + careerColumns + " FROM career WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return career.Career{}, trapNoRowsErr(err, career.ErrNotFound, "finding career")
	}
	return row.unwrap(), nil
}

func (repo careerRepository) UpdateCareer(ctx context.Context, id string, changes core.Changeset) (career.Career, error) {
	if _, err := uuid.Parse(id); err != nil {
		return career.Career{}, career.ErrNotFound
	}
	found, err := updateByID(ctx, repo.db, "career", id, changes)
	if err != nil {
		if err == ErrConflict {
			return career.Career{}, err
		}
		return career.Career{}, errors.Wrap(err, "updating career")
	}
	if !found {
		return career.Career{}, career.ErrNotFound
	}
	return repo.GetCareer(ctx, id)
}
