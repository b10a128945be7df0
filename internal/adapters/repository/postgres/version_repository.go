package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/version"
	pgdb "github.com/ogurasousui/staffdir-clean-arch/internal/platform/db/postgres"
)

// versionKey は app_version テーブルを単一行に保つための固定キーです。
const versionKey = "app"

// VersionRepository は PostgreSQL を利用したバージョンレコードの実装です。
type VersionRepository struct {
	pool pgdb.Queryer
}

// NewVersionRepository は VersionRepository を生成します。
func NewVersionRepository(pool pgdb.Queryer) *VersionRepository {
	return &VersionRepository{pool: pool}
}

// Get は現在のバージョンレコードを取得します。
func (r *VersionRepository) Get(ctx context.Context) (*version.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT version, updated_at
          FROM app_version
         WHERE key = $1
         LIMIT 1
    `, versionKey)

	record, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, version.ErrVersionNotSet
		}
		return nil, err
	}
	return record, nil
}

// Set はバージョンレコードを固定キーで upsert します。
func (r *VersionRepository) Set(ctx context.Context, record *version.Record) (*version.Record, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO app_version (key, version, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE
           SET version = EXCLUDED.version,
               updated_at = EXCLUDED.updated_at
        RETURNING version, updated_at
    `, versionKey, record.Version, record.UpdatedAt)

	return scanVersion(row)
}

func scanVersion(row pgx.Row) (*version.Record, error) {
	var (
		v         string
		updatedAt time.Time
	)

	if err := row.Scan(&v, &updatedAt); err != nil {
		return nil, err
	}

	return &version.Record{Version: v, UpdatedAt: updatedAt}, nil
}
