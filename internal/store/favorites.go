package store

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// ToggleFavorite removes the (user, product) pair if present, otherwise
// adds it. It reports whether the pair exists afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	var added bool

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		err := tx.GetContext(ctx, &id,
			"DELETE FROM favorites WHERE user_id = $1 AND product_id = $2 RETURNING id",
			userID, productID)
		if err == nil {
			added = false
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return translate(err)
		}

		// A concurrent toggle may have inserted the pair already; the
		// unique constraint keeps it to a single row either way.
		_, err = tx.ExecContext(ctx,
			"INSERT INTO favorites (user_id, product_id) VALUES ($1, $2) ON CONFLICT (user_id, product_id) DO NOTHING",
			userID, productID)
		if err != nil {
			return translate(err)
		}
		added = true
		return nil
	})
	return added, err
}

// IsFavorite reports whether the user has favorited the product
func (s *Store) IsFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)",
		userID, productID)
	return exists, err
}

// ListFavoriteProducts returns the user's favorite products, latest first
func (s *Store) ListFavoriteProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, `
		SELECT p.*, c.name AS category_name
		FROM favorites f
		JOIN products p ON f.product_id = p.id
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC`, userID)
	return products, err
}
