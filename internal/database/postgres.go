package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/models"
	"time"

	"github.com/lib/pq"
)

// DB stores each property as a JSONB document next to the columns used
// for ordering and status.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname, sslmode string) (*DB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return NewDBFromConn(conn), nil
}

// NewDBFromConn wraps an already opened connection
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the properties table if it doesn't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS properties (
		id VARCHAR(32) PRIMARY KEY,
		position INTEGER NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		removed_at TIMESTAMP,
		data JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_properties_status_position ON properties(status, position);
	CREATE INDEX IF NOT EXISTS idx_properties_tags ON properties USING GIN ((data->'tags'));
	`
	_, err := db.conn.Exec(query)
	return err
}

const upsertPropertyQuery = `
	INSERT INTO properties (id, position, status, removed_at, data, created_at, updated_at)
	VALUES ($1, $2, $3, NULL, $4, $5, $5)
	ON CONFLICT (id) DO UPDATE SET
		position = EXCLUDED.position,
		status = EXCLUDED.status,
		removed_at = NULL,
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at
`

// savePropertyQuery appends a new property after the last position and
// leaves the position of an existing one untouched.
const savePropertyQuery = `
	INSERT INTO properties (id, position, status, removed_at, data, created_at, updated_at)
	VALUES ($1, (SELECT COALESCE(MAX(position), -1) + 1 FROM properties), $2, NULL, $3, $4, $4)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		removed_at = NULL,
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// encodeProperty marks p active and returns its JSONB document
func encodeProperty(p *models.Property) ([]byte, error) {
	p.Status = models.PropertyStatusActive
	p.RemovedAt = nil
	if p.Comps == nil {
		p.Comps = []models.Comp{}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode property %s: %w", p.ID, err)
	}
	return data, nil
}

func upsertProperty(ctx context.Context, ex execer, p *models.Property) error {
	data, err := encodeProperty(p)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, upsertPropertyQuery, p.ID, p.Position, p.Status, data, time.Now())
	return err
}

// SaveProperty saves a property to the database
func (db *DB) SaveProperty(ctx context.Context, p *models.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := encodeProperty(p)
	if err != nil {
		return err
	}
	_, err = db.conn.ExecContext(ctx, savePropertyQuery, p.ID, p.Status, data, time.Now())
	return err
}

// scanProperty decodes the JSONB document and overlays the columns that
// are authoritative outside of it.
func scanProperty(scan func(dest ...interface{}) error) (models.Property, error) {
	var (
		p         models.Property
		data      []byte
		position  int
		status    string
		removedAt sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)
	if err := scan(&data, &position, &status, &removedAt, &createdAt, &updatedAt); err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	p.Position = position
	p.Status = models.PropertyStatus(status)
	if removedAt.Valid {
		t := removedAt.Time
		p.RemovedAt = &t
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	if p.Comps == nil {
		p.Comps = []models.Comp{}
	}
	return p, nil
}

// ListProperties retrieves active properties in catalog order
func (db *DB) ListProperties(ctx context.Context) ([]models.Property, error) {
	query := `
		SELECT data, position, status, removed_at, created_at, updated_at
		FROM properties
		WHERE status = $1
		ORDER BY position ASC, id ASC
	`

	rows, err := db.conn.QueryContext(ctx, query, models.PropertyStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// GetProperty retrieves an active property by ID
func (db *DB) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	query := `
		SELECT data, position, status, removed_at, created_at, updated_at
		FROM properties
		WHERE id = $1 AND status = $2
	`

	p, err := scanProperty(db.conn.QueryRowContext(ctx, query, id, models.PropertyStatusActive).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkPropertiesAsRemoved marks multiple properties as removed
func (db *DB) MarkPropertiesAsRemoved(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return markRemoved(ctx, db.conn, ids)
}

func markRemoved(ctx context.Context, ex execer, ids []string) error {
	_, err := ex.ExecContext(ctx,
		`UPDATE properties SET status = $1, removed_at = $2 WHERE id = ANY($3) AND status = $4`,
		models.PropertyStatusRemoved, time.Now(), pq.Array(ids), models.PropertyStatusActive)
	return err
}

// Sync stores the incoming catalog in one transaction and marks missing
// properties as removed.
func (db *DB) Sync(ctx context.Context, props []models.Property) (*catalog.SyncResult, error) {
	if err := catalog.Validate(props); err != nil {
		return nil, err
	}

	active, err := db.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	newIDs, removedIDs, updated := catalog.Diff(active, props)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for i := range props {
		p := props[i]
		p.Position = i
		if err := upsertProperty(ctx, tx, &p); err != nil {
			return nil, fmt.Errorf("save property %s: %w", p.ID, err)
		}
	}
	if len(removedIDs) > 0 {
		if err := markRemoved(ctx, tx, removedIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updatedIDs := make([]string, len(updated))
	for i, p := range updated {
		updatedIDs[i] = p.ID
	}
	return &catalog.SyncResult{
		NewIDs:     newIDs,
		RemovedIDs: removedIDs,
		UpdatedIDs: updatedIDs,
		Total:      len(props),
	}, nil
}

// CountByStatus returns property counts by status
func (db *DB) CountByStatus(ctx context.Context) (active, removed int64, err error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT status, COUNT(*) FROM properties GROUP BY status`)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return 0, 0, err
		}
		switch models.PropertyStatus(status) {
		case models.PropertyStatusActive:
			active = n
		case models.PropertyStatusRemoved:
			removed = n
		}
	}
	return active, removed, rows.Err()
}
