package store

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductInput is the admin-editable product payload. A nil image keeps the
// stored one on update.
type ProductInput struct {
	Name            string
	CategoryID      *int64
	Brand           string
	OEMNo           string
	Price           decimal.Decimal
	OldPrice        decimal.NullDecimal
	Stock           int
	Description     string
	Badge           string
	IsActive        bool
	Images          [3]*string
	VehicleModelIDs []int64
}

// VehicleSetChange describes how a compatibility set was reconciled
type VehicleSetChange struct {
	Added   []int64 `json:"added"`
	Removed []int64 `json:"removed"`
}

// ProductUpdate reports what an edit changed
type ProductUpdate struct {
	Vehicles VehicleSetChange
	// ReplacedImages are the stored image paths overwritten by new uploads
	ReplacedImages []string
}

type productImages struct {
	Image  *string `db:"image"`
	Image2 *string `db:"image2"`
	Image3 *string `db:"image3"`
}

func (p productImages) slots() [3]*string {
	return [3]*string{p.Image, p.Image2, p.Image3}
}

func (p productImages) paths() []string {
	var out []string
	for _, img := range p.slots() {
		if img != nil && *img != "" {
			out = append(out, *img)
		}
	}
	return out
}

// ListAllProducts returns every product, active or not, newest first
func (s *Store) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, productSelect+" ORDER BY p.created_at DESC, p.id DESC")
	return products, err
}

// CreateProduct inserts a product with its vehicle compatibility set
func (s *Store) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	var id int64

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &id, `
			INSERT INTO products (name, category_id, brand, oem_no, price, old_price, stock,
				description, image, image2, image3, badge, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`,
			in.Name, in.CategoryID, in.Brand, in.OEMNo, in.Price, in.OldPrice, in.Stock,
			in.Description, in.Images[0], in.Images[1], in.Images[2], in.Badge, in.IsActive)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", translate(err))
		}

		return addProductVehicles(ctx, tx, id, uniqueIDs(in.VehicleModelIDs))
	})
	return id, err
}

// UpdateProduct overwrites the product fields and reconciles its vehicle
// set against in.VehicleModelIDs, inside one transaction.
func (s *Store) UpdateProduct(ctx context.Context, id int64, in ProductInput) (ProductUpdate, error) {
	var result ProductUpdate

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var stored productImages
		err := tx.GetContext(ctx, &stored,
			"SELECT image, image2, image3 FROM products WHERE id = $1 FOR UPDATE", id)
		if err != nil {
			return translate(err)
		}

		err = expectAffected(tx.ExecContext(ctx, `
			UPDATE products SET
				name = $1, category_id = $2, brand = $3, oem_no = $4, price = $5, old_price = $6,
				stock = $7, description = $8, badge = $9, is_active = $10,
				image = COALESCE($11, image), image2 = COALESCE($12, image2), image3 = COALESCE($13, image3),
				updated_at = NOW()
			WHERE id = $14`,
			in.Name, in.CategoryID, in.Brand, in.OEMNo, in.Price, in.OldPrice,
			in.Stock, in.Description, in.Badge, in.IsActive,
			in.Images[0], in.Images[1], in.Images[2], id))
		if err != nil {
			return err
		}

		for i, old := range stored.slots() {
			if in.Images[i] != nil && old != nil && *old != "" && *old != *in.Images[i] {
				result.ReplacedImages = append(result.ReplacedImages, *old)
			}
		}

		var current []int64
		err = tx.SelectContext(ctx, &current,
			"SELECT vehicle_model_id FROM product_vehicles WHERE product_id = $1 FOR UPDATE", id)
		if err != nil {
			return fmt.Errorf("failed to load vehicle set: %w", err)
		}

		change := &result.Vehicles
		change.Added, change.Removed = DiffIDSet(current, in.VehicleModelIDs)

		if len(change.Removed) > 0 {
			_, err = tx.ExecContext(ctx,
				"DELETE FROM product_vehicles WHERE product_id = $1 AND vehicle_model_id = ANY($2)",
				id, pq.Array(change.Removed))
			if err != nil {
				return fmt.Errorf("failed to remove vehicles: %w", translate(err))
			}
		}

		return addProductVehicles(ctx, tx, id, change.Added)
	})
	if err != nil {
		return ProductUpdate{}, err
	}
	return result, nil
}

func addProductVehicles(ctx context.Context, tx *sqlx.Tx, productID int64, modelIDs []int64) error {
	if len(modelIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO product_vehicles (product_id, vehicle_model_id)
		SELECT $1::int, unnest($2::int[])
		ON CONFLICT (product_id, vehicle_model_id) DO NOTHING`,
		productID, pq.Array(modelIDs))
	if err != nil {
		return fmt.Errorf("failed to add vehicles: %w", translate(err))
	}
	return nil
}

// DeleteProduct removes a product and returns its image paths; order lines
// keep their snapshot
func (s *Store) DeleteProduct(ctx context.Context, id int64) ([]string, error) {
	var stored productImages
	err := s.db.GetContext(ctx, &stored,
		"DELETE FROM products WHERE id = $1 RETURNING image, image2, image3", id)
	if err != nil {
		return nil, translate(err)
	}
	return stored.paths(), nil
}

// DiffIDSet computes which ids must be inserted and deleted to turn current
// into desired. Both results are sorted and free of duplicates.
func DiffIDSet(current, desired []int64) (added, removed []int64) {
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	for id := range want {
		if !have[id] {
			added = append(added, id)
		}
	}
	for id := range have {
		if !want[id] {
			removed = append(removed, id)
		}
	}

	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

func uniqueIDs(ids []int64) []int64 {
	added, _ := DiffIDSet(nil, ids)
	return added
}
