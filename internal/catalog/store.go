package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Store loads the status catalog from the configuration store. Failures are
// fatal for the current request; the caller aborts and shows a generic
// message.
type Store interface {
	LoadAll(ctx context.Context) ([]StatusEntry, error)
}

// PostgresStore reads the status table seeded by migrations.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const loadAllQuery = `
SELECT status_code,
       admin_name, client_name,
       COALESCE(admin_tab, ''), COALESCE(client_tab, ''),
       COALESCE(admin_action, ''),
       COALESCE(admin_email_subject, ''), COALESCE(admin_email_content, ''),
       COALESCE(client_email_subject, ''), COALESCE(client_email_content, ''),
       COALESCE(toast_admin, ''), COALESCE(toast_client, ''),
       notify_roles
FROM status_catalog
ORDER BY status_code`

func (s *PostgresStore) LoadAll(ctx context.Context) ([]StatusEntry, error) {
	rows, err := s.db.QueryContext(ctx, loadAllQuery)
	if err != nil {
		return nil, fmt.Errorf("load status catalog: %w", err)
	}
	defer rows.Close()

	var entries []StatusEntry
	for rows.Next() {
		var e StatusEntry
		var roles pq.StringArray
		if err := rows.Scan(
			&e.StatusCode,
			&e.AdminName, &e.ClientName,
			&e.AdminTab, &e.ClientTab,
			&e.AdminAction,
			&e.AdminEmailSubject, &e.AdminEmailContent,
			&e.ClientEmailSubject, &e.ClientEmailContent,
			&e.ToastAdmin, &e.ToastClient,
			&roles,
		); err != nil {
			return nil, fmt.Errorf("scan status entry: %w", err)
		}
		for _, r := range roles {
			if role, ok := ParseRole(r); ok {
				e.NotifyRoles = append(e.NotifyRoles, role)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status entries: %w", err)
	}

	return entries, nil
}

// Load builds a Catalog from the store, falling back to the builtin seed when
// the store holds no rows (fresh install before the admin screen ran).
func Load(ctx context.Context, store Store) (*Catalog, error) {
	entries, err := store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		entries = Builtin()
	}
	return New(entries)
}
