package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/payrate"
)

const payRateColumns = "id, classification, rate_primaria, rate_secundaria, rate_bachillerato, rate_universidad, " +
	"rate_posgrado, rate_nocturna, rate_virtual, rate_taller, created_at, updated_at"

var payRateOrderings = map[string]string{
	"clasificacion": "classification",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

type payRateRow struct {
	ID             string    `db:"id"`
	Classification string    `db:"classification"`
	Primaria       float64   `db:"rate_primaria"`
	Secundaria     float64   `db:"rate_secundaria"`
	Bachillerato   float64   `db:"rate_bachillerato"`
	Universidad    float64   `db:"rate_universidad"`
	Posgrado       float64   `db:"rate_posgrado"`
	Nocturna       float64   `db:"rate_nocturna"`
	Virtual        float64   `db:"rate_virtual"`
	Taller         float64   `db:"rate_taller"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r payRateRow) unwrap() payrate.PayRate {
	return payrate.PayRate{
		ID:             r.ID,
		Classification: core.Classification(r.Classification),
		Rates: payrate.Rates{
			Primaria:     r.Primaria,
			Secundaria:   r.Secundaria,
			Bachillerato: r.Bachillerato,
			Universidad:  r.Universidad,
			Posgrado:     r.Posgrado,
			Nocturna:     r.Nocturna,
			Virtual:      r.Virtual,
			Taller:       r.Taller,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type payRateRepository struct {
	db *sqlx.DB
}

var _ payrate.Repository = (*payRateRepository)(nil) // interface compliance check

func NewPayRateRepository(db *sqlx.DB) *payRateRepository {
	return &payRateRepository{db: db}
}

func (repo payRateRepository) CheckPayRateUniqueness(ctx context.Context, cls core.Classification, excluded ...payrate.PayRate) error {
	if cls == "" {
		return nil
	}
	w := &where{}
	w.add("classification = ?", string(cls))
	w.excludeIDs(excludedIDs(excluded, func(pr payrate.PayRate) string { return pr.ID }))

	found, err := exists(ctx, repo.db, "pay_rate", w)
	if err != nil {
		return errors.Wrap(err, "checking pay rate uniqueness")
	}
	if found {
		return payrate.ErrClassificationExists
	}
	return nil
}

func (repo payRateRepository) CreatePayRate(ctx context.Context, pr payrate.PayRate) (payrate.PayRate, error) {
	pr.ID = uuid.New().String()
	r := pr.Rates
	q := repo.db.Rebind(`INSERT INTO pay_rate (` + payRateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, q,
		pr.ID, string(pr.Classification),
		r.Primaria, r.Secundaria, r.Bachillerato, r.Universidad, r.Posgrado, r.Nocturna, r.Virtual, r.Taller,
		pr.CreatedAt.UTC(), pr.UpdatedAt.UTC(),
	)
	if err != nil {
		return payrate.PayRate{}, errors.Wrap(err, "inserting pay rate")
	}
	return pr, nil
}

func (repo payRateRepository) QueryPayRates(ctx context.Context, filter *payrate.QueryFilter, ordering []core.DBOrdering) ([]payrate.PayRate, error) {
	w := &where{}
	if filter != nil && filter.Classification != "" {
		w.add("classification = ?", filter.Classification)
	}
	ordering = core.CleanOrdering(ordering, payRateOrderings, payrate.DefaultOrdering...)

	var rows []payRateRow
	q := repo.db.Rebind("SELECT " + payRateColumns + " FROM pay_rate" + w.String() + orderBy(ordering))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying pay rates")
	}

	rates := make([]payrate.PayRate, 0, len(rows))
	for _, r := range rows {
		rates = append(rates, r.unwrap())
	}
	return rates, nil
}

func (repo payRateRepository) GetPayRate(ctx context.Context, id string) (payrate.PayRate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payrate.PayRate{}, payrate.ErrNotFound
	}
	var row payRateRow
	q := repo.db.Rebind("SELECT " + payRateColumns + " FROM pay_rate WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return payrate.PayRate{}, trapNoRowsErr(err, payrate.ErrNotFound, "finding pay rate")
	}
	return row.unwrap(), nil
}

func (repo payRateRepository) UpdatePayRate(ctx context.Context, id string, changes core.Changeset) (payrate.PayRate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payrate.PayRate{}, payrate.ErrNotFound
	}
	found, err := updateByID(ctx, repo.db, "pay_rate", id, changes)
	if err != nil {
		return payrate.PayRate{}, errors.Wrap(err, "updating pay rate")
	}
	if !found {
		return payrate.PayRate{}, payrate.ErrNotFound
	}
	return repo.GetPayRate(ctx, id)
}
