package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/registrar/core"
)

const pgUniqueViolation = "23505"

// ErrConflict is returned when a write breaks a uniqueness constraint that the uniqueness checks let through (race).
var ErrConflict = core.NewValidationError(errors.New("a record with the same unique values already exists"))

// where accumulates the conditions & arguments of a SELECT.
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// contains matches `val` as a case-insensitive substring of `col`.
func (w *where) contains(col, val string) {
	w.add(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col), "%"+core.EscapeLike(strings.ToLower(val))+"%")
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

// excludeIDs adds an `id NOT IN (...)` condition for the ids of excluded rows.
func (w *where) excludeIDs(ids []string) {
	if len(ids) == 0 {
		return
	}
	w.add("id NOT IN (?"+strings.Repeat(", ?", len(ids)-1)+")", toArgs(ids)...)
}

func toArgs(ids []string) []interface{} {
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// exists reports whether `table` holds a row matching `w`.
func exists(ctx context.Context, db sqlx.ExtContext, table string, w *where) (bool, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, w)
	var count int
	if err := sqlx.GetContext(ctx, db, &count, db.Rebind(q), w.args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateByID applies `changes` to the row `id` of `table` and reports whether it exists.
func updateByID(ctx context.Context, db sqlx.ExtContext, table, id string, changes core.Changeset) (bool, error) {
	if changes.IsEmpty() {
		w := &where{}
		w.add("id = ?", id)
		return exists(ctx, db, table, w)
	}

	sets := make([]string, 0, len(changes.Columns()))
	for _, col := range changes.Columns() {
		sets = append(sets, col+" = ?")
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	args := append(append([]interface{}{}, changes.Values()...), id)

	res, err := db.ExecContext(ctx, db.Rebind(q), args...)
	if err != nil {
		return false, trapUniqueViolation(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// trapNoRowsErr maps "no rows" errors to `notFound`.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueViolation maps unique constraint violations of either engine to ErrConflict.
func trapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) &&
		liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(liteErr.Error(), "UNIQUE") {
		return ErrConflict
	}
	return err
}

// excludedIDs collects the ids of the `excluded` records.
func excludedIDs[T any](excluded []T, id func(T) string) []string {
	ids := make([]string, 0, len(excluded))
	for _, e := range excluded {
		if i := id(e); i != "" {
			ids = append(ids, i)
		}
	}
	return ids
}
