package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"trendmoni/models"
	"trendmoni/utils"
)

// PostgresStore persists profile documents as JSONB rows keyed by
// (app_id, user_id).
type PostgresStore struct {
	db    *sql.DB
	appID string
}

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn, appID string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	ps := &PostgresStore{db: db, appID: appID}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			app_id      TEXT        NOT NULL,
			user_id     TEXT        NOT NULL,
			doc         JSONB       NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (app_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_profiles_notifications
			ON profiles ((doc->>'emailNotifications'));
	`)
	return err
}

func (ps *PostgresStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := DocumentPath(ps.appID, userID)
	if userID == "" {
		return nil, &models.StoreError{Op: "get", Key: key, Err: errEmptyUserID}
	}

	var raw []byte
	err := ps.db.QueryRowContext(ctx,
		`SELECT doc FROM profiles WHERE app_id = $1 AND user_id = $2`,
		ps.appID, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StoreError{Op: "get", Key: key, Err: err}
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &models.StoreError{Op: "get", Key: key, Err: fmt.Errorf("decode document: %w", err)}
	}
	return &p, nil
}

func (ps *PostgresStore) PutProfile(ctx context.Context, userID string, p models.Profile) error {
	return ps.upsert(ctx, "put", userID, p, `doc = EXCLUDED.doc`)
}

func (ps *PostgresStore) MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) error {
	return ps.upsert(ctx, "merge", userID, patch, `doc = profiles.doc || EXCLUDED.doc`)
}

func (ps *PostgresStore) upsert(ctx context.Context, op, userID string, doc any, set string) error {
	key := DocumentPath(ps.appID, userID)
	if userID == "" {
		return &models.StoreError{Op: op, Key: key, Err: errEmptyUserID}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return &models.StoreError{Op: op, Key: key, Err: fmt.Errorf("encode document: %w", err)}
	}

	query := fmt.Sprintf(`
		INSERT INTO profiles (app_id, user_id, doc)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (app_id, user_id) DO UPDATE SET %s, updated_at = NOW()
	`, set)

	if _, err := ps.db.ExecContext(ctx, query, ps.appID, userID, string(raw)); err != nil {
		return &models.StoreError{Op: op, Key: key, Err: err}
	}
	return nil
}

// ListProfiles retrieves every stored profile of the application, used by
// the digest service.
func (ps *PostgresStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT doc
		FROM profiles
		WHERE app_id = $1
		ORDER BY created_at, user_id
	`, ps.appID)
	if err != nil {
		return nil, &models.StoreError{Op: "list", Key: ps.appID, Err: err}
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, &models.StoreError{Op: "list", Key: ps.appID, Err: fmt.Errorf("scan row: %w", err)}
		}
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &models.StoreError{Op: "list", Key: ps.appID, Err: fmt.Errorf("decode document: %w", err)}
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: "list", Key: ps.appID, Err: err}
	}
	return profiles, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
