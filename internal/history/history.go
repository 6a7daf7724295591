package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SavedMenu is one stored generation result together with the preferences
// that produced it.
type SavedMenu struct {
	ID           int64
	ClientID     string
	TimeToMake   string
	PriceRange   string
	Restrictions []string
	Model        string
	MenuData     []byte // Raw JSON of the validated menu
	CreatedAt    time.Time
}

// Repository is a database-backed store for generated menus.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a generated menu.
func (r *Repository) Save(ctx context.Context, m SavedMenu) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saved_menus (client_id, time_to_make, price_range, restrictions, model, menu_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ClientID, m.TimeToMake, m.PriceRange, strings.Join(m.Restrictions, ","), m.Model, m.MenuData, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}
	return nil
}

// ListRecent retrieves the N most recent menus for a client identifier.
func (r *Repository) ListRecent(ctx context.Context, clientID string, limit int) ([]SavedMenu, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, time_to_make, price_range, restrictions, model, menu_data, created_at
		 FROM saved_menus
		 WHERE client_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		clientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent menus for client %s: %w", clientID, err)
	}
	defer rows.Close()

	var menus []SavedMenu
	for rows.Next() {
		var m SavedMenu
		var restrictions string
		if err := rows.Scan(&m.ID, &m.ClientID, &m.TimeToMake, &m.PriceRange, &restrictions, &m.Model, &m.MenuData, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved menu row: %w", err)
		}
		if restrictions != "" {
			m.Restrictions = strings.Split(restrictions, ",")
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}
