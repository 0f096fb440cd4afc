package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// AdminSeed is the admin account created when the admins table is empty.
type AdminSeed struct {
	Email        string
	Name         string
	PasswordHash string
}

var defaultCategories = []struct {
	Name string
	Icon string
}{
	{"Engine & Parts", "⚙️"},
	{"Brake System", "🛑"},
	{"Suspension", "🔧"},
	{"Electrical & Lighting", "💡"},
	{"Body", "🚗"},
	{"Accessories", "🎯"},
	{"Exhaust System", "💨"},
	{"Transmission & Clutch", "⚡"},
	{"Cooling System", "❄️"},
	{"Interior", "🪑"},
}

var defaultVehicleBrands = []string{
	"Audi", "BMW", "Chevrolet", "Citroën", "Dacia", "Fiat", "Ford", "Honda", "Hyundai", "Kia",
	"Mercedes-Benz", "Nissan", "Opel", "Peugeot", "Renault", "Seat", "Skoda", "Toyota", "Volkswagen", "Volvo",
}

var defaultSettings = [][2]string{
	{"company_name", "Auto Parts Store"},
	{"iban", "TR00 0000 0000 0000 0000 0000 00"},
	{"iban_holder", "Auto Parts Store Ltd."},
	{"iban_bank", ""},
	{"iban_note", "Please put your order number and full name in the transfer description."},
	{"phone", ""},
	{"email", "info@example.com"},
	{"address", ""},
	{"whatsapp", ""},
	{"instagram", ""},
	{"meta_description", "Automotive spare parts and accessories. Fast supply, clear prices, secure payment."},
}

// PublicSettingKeys are the settings exposed without authentication.
var PublicSettingKeys = []string{
	"company_name", "iban", "iban_holder", "iban_bank", "iban_note",
	"phone", "email", "address", "whatsapp", "instagram", "meta_description",
}

// Bootstrap creates missing tables and seeds default rows into empty ones.
// It is safe to run on every start.
func (s *Store) Bootstrap(ctx context.Context, admin AdminSeed) error {
	return s.withConn(ctx, func(q querier) error {
		for _, stmt := range splitStatements(schemaSQL) {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}

		if err := seedAdmin(ctx, q, admin); err != nil {
			return err
		}
		if err := seedCategories(ctx, q); err != nil {
			return err
		}
		if err := seedVehicleBrands(ctx, q); err != nil {
			return err
		}
		return seedSettings(ctx, q)
	})
}

func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func isEmpty(ctx context.Context, q querier, table string) (bool, error) {
	var n int
	if err := q.QueryRowxContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n == 0, nil
}

func seedAdmin(ctx context.Context, q querier, admin AdminSeed) error {
	empty, err := isEmpty(ctx, q, "admins")
	if err != nil || !empty {
		return err
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO admins (email, password, name) VALUES ($1, $2, $3)",
		admin.Email, admin.PasswordHash, admin.Name)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

func seedCategories(ctx context.Context, q querier) error {
	empty, err := isEmpty(ctx, q, "categories")
	if err != nil || !empty {
		return err
	}
	for i, c := range defaultCategories {
		_, err := q.ExecContext(ctx,
			"INSERT INTO categories (name, icon, sort_order) VALUES ($1, $2, $3)",
			c.Name, c.Icon, i+1)
		if err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	return nil
}

func seedVehicleBrands(ctx context.Context, q querier) error {
	empty, err := isEmpty(ctx, q, "vehicle_brands")
	if err != nil || !empty {
		return err
	}
	for i, name := range defaultVehicleBrands {
		_, err := q.ExecContext(ctx,
			"INSERT INTO vehicle_brands (name, sort_order) VALUES ($1, $2)",
			name, i+1)
		if err != nil {
			return fmt.Errorf("failed to seed vehicle brands: %w", err)
		}
	}
	return nil
}

func seedSettings(ctx context.Context, q querier) error {
	empty, err := isEmpty(ctx, q, "settings")
	if err != nil || !empty {
		return err
	}
	for _, kv := range defaultSettings {
		_, err := q.ExecContext(ctx,
			"INSERT INTO settings (setting_key, setting_value) VALUES ($1, $2)",
			kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}
	return nil
}
