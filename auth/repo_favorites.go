package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Favorites stores the per-user watched symbols. It stays a plain bun
// repository: records are created and deleted, never updated, so the
// generic repository machinery buys nothing here.
type Favorites interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error)
	Add(ctx context.Context, fav *Favorite) (*Favorite, error)
	Remove(ctx context.Context, userID uuid.UUID, symbol string) (bool, error)
	RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error)
	RemoveAllTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int64, error)
	IsFavorite(ctx context.Context, userID uuid.UUID, symbol string) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]*Favorite, error)
}

type favorites struct {
	db *bun.DB
}

var _ Favorites = (*favorites)(nil)

func NewFavoritesRepository(db *bun.DB) Favorites {
	return &favorites{db: db}
}

// ListByUser returns the user's favorites, most recently added first.
func (r *favorites) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Favorite, error) {
	var records []*Favorite
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("added_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Favorite{}, nil
		}
		return nil, err
	}

	if records == nil {
		records = []*Favorite{}
	}

	return records, nil
}

// Add inserts the favorite. The (user_id, symbol) unique index is the
// authority on duplicates; a conflict maps to ErrDuplicateFavorite.
func (r *favorites) Add(ctx context.Context, fav *Favorite) (*Favorite, error) {
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	fav.Symbol = NormalizeSymbol(fav.Symbol)

	_, err := r.db.NewInsert().
		Model(fav).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateFavorite
		}
		return nil, err
	}

	return fav, nil
}

// Remove deletes the (user, symbol) pair and reports whether a row existed.
func (r *favorites) Remove(ctx context.Context, userID uuid.UUID, symbol string) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*Favorite)(nil)).
		Where("?TableAlias.user_id = ? AND ?TableAlias.symbol = ?", userID, NormalizeSymbol(symbol)).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *favorites) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.RemoveAllTx(ctx, r.db, userID)
}

func (r *favorites) RemoveAllTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int64, error) {
	res, err := tx.NewDelete().
		Model((*Favorite)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *favorites) IsFavorite(ctx context.Context, userID uuid.UUID, symbol string) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*Favorite)(nil)).
		Where("?TableAlias.user_id = ? AND ?TableAlias.symbol = ?", userID, NormalizeSymbol(symbol)).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *favorites) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*Favorite)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Count(ctx)
}

// Search matches against the symbol and company name, case-insensitively.
func (r *favorites) Search(ctx context.Context, userID uuid.UUID, query string) ([]*Favorite, error) {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(query)) + "%"

	var records []*Favorite
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Where("(upper(?TableAlias.symbol) LIKE ? OR upper(?TableAlias.company_name) LIKE ?)", pattern, pattern).
		Order("added_at DESC").
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return []*Favorite{}, nil
		}
		return nil, err
	}

	if records == nil {
		records = []*Favorite{}
	}

	return records, nil
}

// NormalizeSymbol uppercases and trims a ticker so storage and lookups agree.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
