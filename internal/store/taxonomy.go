package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// ListAllCategories returns every category for the back-office
func (s *Store) ListAllCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.*,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
		FROM categories c
		ORDER BY c.sort_order, c.id`)
	return categories, err
}

// CreateCategory inserts a category and fills in its id
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	err := s.db.GetContext(ctx, &c.ID, `
		INSERT INTO categories (name, icon, sort_order, is_active)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Icon, c.SortOrder, c.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", translate(err))
	}
	return nil
}

// UpdateCategory overwrites a category
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	return expectAffected(s.db.ExecContext(ctx, `
		UPDATE categories SET name = $1, icon = $2, sort_order = $3, is_active = $4
		WHERE id = $5`,
		c.Name, c.Icon, c.SortOrder, c.IsActive, c.ID))
}

// DeleteCategory removes a category; its products become uncategorized
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return expectAffected(s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id))
}

// ListAllVehicleBrands returns every brand for the back-office
func (s *Store) ListAllVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error) {
	brands := []models.VehicleBrand{}
	err := s.db.SelectContext(ctx, &brands, "SELECT * FROM vehicle_brands ORDER BY sort_order, name")
	return brands, err
}

// ListAllVehicleModels returns every model with its brand name
func (s *Store) ListAllVehicleModels(ctx context.Context) ([]models.VehicleModel, error) {
	vehicleModels := []models.VehicleModel{}
	err := s.db.SelectContext(ctx, &vehicleModels, `
		SELECT vm.*, vb.name AS brand_name
		FROM vehicle_models vm
		JOIN vehicle_brands vb ON vm.brand_id = vb.id
		ORDER BY vb.name, vm.name`)
	return vehicleModels, err
}

// CreateVehicleBrand inserts a brand and fills in its id
func (s *Store) CreateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error {
	err := s.db.GetContext(ctx, &b.ID, `
		INSERT INTO vehicle_brands (name, sort_order, is_active)
		VALUES ($1, $2, $3) RETURNING id`,
		b.Name, b.SortOrder, b.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create vehicle brand: %w", translate(err))
	}
	return nil
}

// UpdateVehicleBrand overwrites a brand
func (s *Store) UpdateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error {
	return expectAffected(s.db.ExecContext(ctx,
		"UPDATE vehicle_brands SET name = $1, sort_order = $2, is_active = $3 WHERE id = $4",
		b.Name, b.SortOrder, b.IsActive, b.ID))
}

// DeleteVehicleBrand removes a brand together with its models
func (s *Store) DeleteVehicleBrand(ctx context.Context, id int64) error {
	return expectAffected(s.db.ExecContext(ctx, "DELETE FROM vehicle_brands WHERE id = $1", id))
}

// CreateVehicleModel inserts a model; an unknown brand yields ErrNotFound
func (s *Store) CreateVehicleModel(ctx context.Context, m *models.VehicleModel) error {
	err := s.db.GetContext(ctx, &m.ID, `
		INSERT INTO vehicle_models (brand_id, name, year_start, year_end, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.BrandID, m.Name, m.YearStart, m.YearEnd, m.IsActive)
	if err != nil {
		return fmt.Errorf("failed to create vehicle model: %w", translate(err))
	}
	return nil
}

// UpdateVehicleModel overwrites a model
func (s *Store) UpdateVehicleModel(ctx context.Context, m *models.VehicleModel) error {
	return expectAffected(s.db.ExecContext(ctx, `
		UPDATE vehicle_models SET brand_id = $1, name = $2, year_start = $3, year_end = $4, is_active = $5
		WHERE id = $6`,
		m.BrandID, m.Name, m.YearStart, m.YearEnd, m.IsActive, m.ID))
}

// DeleteVehicleModel removes a model and its product links
func (s *Store) DeleteVehicleModel(ctx context.Context, id int64) error {
	return expectAffected(s.db.ExecContext(ctx, "DELETE FROM vehicle_models WHERE id = $1", id))
}
