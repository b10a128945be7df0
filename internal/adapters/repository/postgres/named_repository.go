package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/named"
	pgdb "github.com/ogurasousui/staffdir-clean-arch/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// NamedRepository は PostgreSQL を利用した名前付きエンティティ永続化の実装です。
// テーブル名だけが異なる 4 種別で共有します。
type NamedRepository struct {
	pool pgdb.Queryer

	insertQuery     string
	updateQuery     string
	deleteQuery     string
	findByIDQuery   string
	findByNameQuery string
	listQuery       string
}

// NewGroupRepository は groups テーブルを扱う NamedRepository を生成します。
func NewGroupRepository(pool pgdb.Queryer) *NamedRepository {
	return newNamedRepository(pool, "groups")
}

// NewDivisionRepository は divisions テーブルを扱う NamedRepository を生成します。
func NewDivisionRepository(pool pgdb.Queryer) *NamedRepository {
	return newNamedRepository(pool, "divisions")
}

// NewDepartmentRepository は departments テーブルを扱う NamedRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *NamedRepository {
	return newNamedRepository(pool, "departments")
}

// NewLocationRepository は locations テーブルを扱う NamedRepository を生成します。
func NewLocationRepository(pool pgdb.Queryer) *NamedRepository {
	return newNamedRepository(pool, "locations")
}

func newNamedRepository(pool pgdb.Queryer, table string) *NamedRepository {
	return &NamedRepository{
		pool: pool,
		insertQuery: fmt.Sprintf(`
        INSERT INTO %s (name, created_at, updated_at)
        VALUES ($1, $2, $3)
        RETURNING id, name, created_at, updated_at
    `, table),
		updateQuery: fmt.Sprintf(`
        UPDATE %s
           SET name = $1,
               updated_at = $2
         WHERE id = $3
        RETURNING id, name, created_at, updated_at
    `, table),
		deleteQuery: fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table),
		findByIDQuery: fmt.Sprintf(`
        SELECT id, name, created_at, updated_at
          FROM %s
         WHERE id = $1
         LIMIT 1
    `, table),
		findByNameQuery: fmt.Sprintf(`
        SELECT id, name, created_at, updated_at
          FROM %s
         WHERE name = $1
         LIMIT 1
    `, table),
		listQuery: fmt.Sprintf(`
        SELECT id, name, created_at, updated_at
          FROM %s
         ORDER BY name ASC
    `, table),
	}
}

// Create はエンティティを新規作成します。整合性違反は ErrCreateFailed に翻訳します。
func (r *NamedRepository) Create(ctx context.Context, e *named.Entity) (*named.Entity, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, r.insertQuery, e.Name, e.CreatedAt, e.UpdatedAt)

	created, err := scanNamed(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("%w: %s", named.ErrCreateFailed, pgErr.Message)
		}
		return nil, err
	}
	return created, nil
}

// Update はエンティティを更新します。
func (r *NamedRepository) Update(ctx context.Context, e *named.Entity) (*named.Entity, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, r.updateQuery, e.Name, e.UpdatedAt, e.ID)

	updated, err := scanNamed(row)
	if err != nil {
		return nil, translateNamedPgError(err)
	}
	return updated, nil
}

// Delete はエンティティを削除します。
func (r *NamedRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, r.deleteQuery, id)
	if err != nil {
		return translateNamedPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return named.ErrNotFound
	}
	return nil
}

// FindByID は ID でエンティティを取得します。
func (r *NamedRepository) FindByID(ctx context.Context, id int64) (*named.Entity, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, r.findByIDQuery, id)

	found, err := scanNamed(row)
	if err != nil {
		return nil, translateNamedPgError(err)
	}
	return found, nil
}

// FindByName は名前でエンティティを取得します。
func (r *NamedRepository) FindByName(ctx context.Context, name string) (*named.Entity, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, r.findByNameQuery, name)

	found, err := scanNamed(row)
	if err != nil {
		return nil, translateNamedPgError(err)
	}
	return found, nil
}

// List は全エンティティを名前の昇順で返します。
func (r *NamedRepository) List(ctx context.Context) ([]*named.Entity, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, r.listQuery)
	if err != nil {
		return nil, translateNamedPgError(err)
	}
	defer rows.Close()

	entities := make([]*named.Entity, 0)
	for rows.Next() {
		entity, err := scanNamed(rows)
		if err != nil {
			return nil, translateNamedPgError(err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, translateNamedPgError(err)
	}

	return entities, nil
}

func scanNamed(row pgx.Row) (*named.Entity, error) {
	var (
		id        int64
		name      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &named.Entity{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateNamedPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return named.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return named.ErrNameAlreadyExists
	}

	return err
}
