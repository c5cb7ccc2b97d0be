package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// CreateSchema creates the tables and indexes the package needs if they are
// missing. The unique index on (user_id, symbol) backs the duplicate
// favorite detection; the unique column on users.email backs duplicate
// email detection.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Favorite)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create table")
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*Favorite)(nil)).
		Index("ux_favorites_user_symbol").
		IfNotExists().
		Unique().
		Column("user_id", "symbol").
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create favorites index")
	}

	return nil
}
