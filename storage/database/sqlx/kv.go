package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/scitech-butterfly/aasira/core"
)

type keyValueStore struct {
	db *sqlx.DB
}

var _ core.KeyValueStore = (*keyValueStore)(nil)

func NewKeyValueStore(db *sqlx.DB) *keyValueStore {
	return &keyValueStore{db: db}
}

func (store *keyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := store.db.GetContext(ctx, &value, `SELECT value FROM keyvalue WHERE key = $1`, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "getting value")
	}
	return value, nil
}

func (store *keyValueStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
INSERT INTO keyvalue (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := store.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return errors.Wrap(err, "setting value")
}

func (store *keyValueStore) Remove(ctx context.Context, key string) error {
	_, err := store.db.ExecContext(ctx, `DELETE FROM keyvalue WHERE key = $1`, key)
	return errors.Wrap(err, "removing value")
}
