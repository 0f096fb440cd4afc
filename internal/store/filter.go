package store

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// SortOrder selects the ordering of a product listing
type SortOrder int

const (
	SortNewest SortOrder = iota
	SortPriceAsc
	SortPriceDesc
	SortName
)

// ParseSort maps the public sort parameter; anything unknown is newest-first.
func ParseSort(s string) SortOrder {
	switch s {
	case "price-asc":
		return SortPriceAsc
	case "price-desc":
		return SortPriceDesc
	case "name":
		return SortName
	default:
		return SortNewest
	}
}

func (o SortOrder) clause() string {
	switch o {
	case SortPriceAsc:
		return "p.price ASC, p.id ASC"
	case SortPriceDesc:
		return "p.price DESC, p.id ASC"
	case SortName:
		return "p.name ASC, p.id ASC"
	default:
		return "p.created_at DESC, p.id DESC"
	}
}

// ProductFilter is the set of predicates of a public product listing.
// Zero values mean "not supplied".
type ProductFilter struct {
	Query          string
	CategoryID     int64
	VehicleModelID int64
	VehicleBrandID int64
	Sort           SortOrder
}

const productSelect = `SELECT p.*, c.name AS category_name
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id`

// Build renders the filter as a parameterized PostgreSQL query.
func (f ProductFilter) Build() (string, []interface{}) {
	where := []string{"p.is_active = TRUE"}
	var args []interface{}

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = append(where, "(p.name ILIKE ? OR p.brand ILIKE ? OR p.oem_no ILIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if f.CategoryID > 0 {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}

	// A model is more specific than a brand, so it wins when both are given.
	switch {
	case f.VehicleModelID > 0:
		where = append(where, "p.id IN (SELECT product_id FROM product_vehicles WHERE vehicle_model_id = ?)")
		args = append(args, f.VehicleModelID)
	case f.VehicleBrandID > 0:
		where = append(where, `p.id IN (SELECT pv.product_id FROM product_vehicles pv
			JOIN vehicle_models vm ON pv.vehicle_model_id = vm.id WHERE vm.brand_id = ?)`)
		args = append(args, f.VehicleBrandID)
	}

	query := productSelect +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY " + f.Sort.clause()

	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the user query a literal substring for ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
