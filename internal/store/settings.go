package store

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetSettings returns all settings as a map
func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.SelectContext(ctx, &rows, "SELECT setting_key, setting_value FROM settings"); err != nil {
		return nil, err
	}
	return settingsMap(rows), nil
}

// GetSettingsByKeys returns the listed settings that exist
func (s *Store) GetSettingsByKeys(ctx context.Context, keys []string) (map[string]string, error) {
	query, args, err := sqlx.In("SELECT setting_key, setting_value FROM settings WHERE setting_key IN (?)", keys)
	if err != nil {
		return nil, err
	}

	var rows []models.Setting
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return settingsMap(rows), nil
}

// SaveSettings upserts every pair in one transaction
func (s *Store) SaveSettings(ctx context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, k := range keys {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO settings (setting_key, setting_value) VALUES ($1, $2)
				ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()`,
				k, values[k])
			if err != nil {
				return fmt.Errorf("failed to save setting %q: %w", k, err)
			}
		}
		return nil
	})
}

func settingsMap(rows []models.Setting) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out
}
