package service

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Toggle outcomes
const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)

// FavoriteStore persists the user ↔ product favorite pairs
type FavoriteStore interface {
	ToggleFavorite(ctx context.Context, userID, productID int64) (bool, error)
	IsFavorite(ctx context.Context, userID, productID int64) (bool, error)
	ListFavoriteProducts(ctx context.Context, userID int64) ([]models.Product, error)
}

// FavoriteService manages customer favorites
type FavoriteService struct {
	store  FavoriteStore
	logger *zap.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(store FavoriteStore) *FavoriteService {
	return &FavoriteService{
		store:  store,
		logger: util.ComponentLogger("favorites"),
	}
}

// Toggle flips the membership of productID in the user's favorites and
// returns FavoriteAdded or FavoriteRemoved.
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID int64) (string, error) {
	ctx, span := util.StartSpan(ctx, "FavoriteService.Toggle",
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID))
	defer span.End()

	if userID <= 0 {
		return "", unauthorized("login required")
	}
	if productID <= 0 {
		return "", invalid("product_id is required")
	}

	added, err := s.store.ToggleFavorite(ctx, userID, productID)
	if err != nil {
		util.RecordError(span, err)
		return "", fromStore(err, "toggle favorite", "product")
	}

	status := FavoriteRemoved
	if added {
		status = FavoriteAdded
	}
	util.FavoritesToggledTotal.WithLabelValues(status).Inc()
	s.logger.Debug("Favorite toggled",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.String("status", status))
	return status, nil
}

// List returns the user's favorite products, latest first
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "FavoriteService.List", attribute.Int64("user_id", userID))
	defer span.End()

	if userID <= 0 {
		return nil, unauthorized("login required")
	}
	products, err := s.store.ListFavoriteProducts(ctx, userID)
	return products, fromStore(err, "list favorites", "favorite")
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	ok, err := s.store.IsFavorite(ctx, userID, productID)
	return ok, fromStore(err, "check favorite", "favorite")
}
