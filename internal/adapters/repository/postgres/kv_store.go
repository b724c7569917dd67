package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	pgdb "github.com/ogurasousui/facility-admission/internal/platform/db/postgres"
)

// KVStore は kv_entries テーブルを利用した共有ストアの実装です。
// コンテキストにトランザクションがあればそれを利用します。
type KVStore struct {
	pool pgdb.Queryer
	now  func() time.Time
}

// NewKVStore は KVStore を生成します。
func NewKVStore(pool pgdb.Queryer) *KVStore {
	return &KVStore{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// Put はキーの値を上書きします。
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE
           SET value = EXCLUDED.value,
               updated_at = EXCLUDED.updated_at
    `, key, value, s.now()); err != nil {
		return fmt.Errorf("postgres: put %s: %w", key, err)
	}
	return nil
}

// Get はキーの値を取得します。
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	row := exec.QueryRow(ctx, `
        SELECT value
          FROM kv_entries
         WHERE key = $1
         LIMIT 1
    `, key)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("postgres: get %s: %w", key, err)
	}
	return value, true, nil
}

// Remove はキーを削除します。
func (s *KVStore) Remove(ctx context.Context, key string) error {
	exec := pgdb.QueryerFromContext(ctx, s.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: remove %s: %w", key, err)
	}
	return nil
}
