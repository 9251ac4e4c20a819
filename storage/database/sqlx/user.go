package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core/user"
)

const userColumns = "id, username, password_hash, active, created_at, updated_at, last_login"

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) unwrap() user.User {
	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		Active:       r.Active,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...user.User) error {
	w := &where{}
	w.add("username = ?", username)
	w.excludeIDs(excludedIDs(excludedUsers, func(u user.User) string { return u.ID }))

	found, err := exists(ctx, repo.db, "app_user", w)
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if found {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	q := repo.db.Rebind(`INSERT INTO app_user (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(
		ctx, q,
		usr.ID, usr.Username, usr.PasswordHash, usr.Active, usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
		null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return user.User{}, err
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	w := &where{}
	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		w.add("id = ?", filter.ID)
	case filter.Username != "":
		w.add("username = ?", filter.Username)
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	q := repo.db.Rebind("SELECT " + userColumns + " FROM app_user" + w.String())
	if err := repo.db.GetContext(ctx, &row, q, w.args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return row.unwrap(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := repo.db.Rebind(`UPDATE app_user
		SET username = ?, password_hash = ?, active = ?, updated_at = ?, last_login = ?
		WHERE id = ?`)
	res, err := repo.db.ExecContext(
		ctx, q,
		usr.Username, usr.PasswordHash, usr.Active, usr.UpdatedAt.UTC(),
		null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()), usr.ID,
	)
	if err != nil {
		if err = trapUniqueViolation(err); err == ErrConflict {
			return user.User{}, err
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
