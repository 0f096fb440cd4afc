package store

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListActiveCategories returns active categories with live product counts
func (s *Store) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.*,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = TRUE) AS product_count
		FROM categories c
		WHERE c.is_active = TRUE
		ORDER BY c.sort_order, c.id`)
	return categories, err
}

// ListActiveVehicleBrands returns active brands with the number of active
// products compatible with any of their models
func (s *Store) ListActiveVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error) {
	brands := []models.VehicleBrand{}
	err := s.db.SelectContext(ctx, &brands, `
		SELECT b.*,
			(SELECT COUNT(DISTINCT pv.product_id)
				FROM product_vehicles pv
				JOIN vehicle_models vm ON pv.vehicle_model_id = vm.id
				JOIN products p ON p.id = pv.product_id
				WHERE vm.brand_id = b.id AND p.is_active = TRUE) AS product_count
		FROM vehicle_brands b
		WHERE b.is_active = TRUE
		ORDER BY b.sort_order, b.name`)
	return brands, err
}

// ListActiveVehicleModels returns the active models of a brand
func (s *Store) ListActiveVehicleModels(ctx context.Context, brandID int64) ([]models.VehicleModel, error) {
	vehicleModels := []models.VehicleModel{}
	err := s.db.SelectContext(ctx, &vehicleModels,
		"SELECT * FROM vehicle_models WHERE brand_id = $1 AND is_active = TRUE ORDER BY name",
		brandID)
	return vehicleModels, err
}

// ListProducts returns active products matching the filter
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query, args := filter.Build()

	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductDetail returns a product with its compatible vehicles
func (s *Store) GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var detail models.ProductDetail

	err := s.withConn(ctx, func(q querier) error {
		if err := sqlx.GetContext(ctx, q, &detail.Product, productSelect+" WHERE p.id = $1", id); err != nil {
			return translate(err)
		}

		vehicles, err := productVehicles(ctx, q, id)
		if err != nil {
			return err
		}
		detail.Vehicles = vehicles
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func productVehicles(ctx context.Context, q querier, productID int64) ([]models.VehicleModel, error) {
	vehicles := []models.VehicleModel{}
	err := sqlx.SelectContext(ctx, q, &vehicles, `
		SELECT vm.*, vb.name AS brand_name
		FROM product_vehicles pv
		JOIN vehicle_models vm ON pv.vehicle_model_id = vm.id
		JOIN vehicle_brands vb ON vm.brand_id = vb.id
		WHERE pv.product_id = $1
		ORDER BY vb.name, vm.name`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product vehicles: %w", err)
	}
	return vehicles, nil
}

// RelatedProducts returns other active products of the same category
func (s *Store) RelatedProducts(ctx context.Context, productID int64, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, productSelect+`
		WHERE p.category_id = (SELECT category_id FROM products WHERE id = $1)
			AND p.id <> $1 AND p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $2`, productID, limit)
	return products, err
}

// NewestProducts returns the most recently added active products
func (s *Store) NewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, productSelect+`
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1`, limit)
	return products, err
}

// DiscountedProducts returns active products whose old price exceeds the
// current price
func (s *Store) DiscountedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, productSelect+`
		WHERE p.old_price IS NOT NULL AND p.old_price > p.price AND p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1`, limit)
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs; missing ids are
// simply absent from the result
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}
