package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
	pgdb "github.com/ogurasousui/staffdir-clean-arch/internal/platform/db/postgres"
)

// HolidayRepository は PostgreSQL を利用した祝日永続化の実装です。
type HolidayRepository struct {
	pool pgdb.Queryer
}

// NewHolidayRepository は HolidayRepository を生成します。
func NewHolidayRepository(pool pgdb.Queryer) *HolidayRepository {
	return &HolidayRepository{pool: pool}
}

// Create は祝日を新規作成します。整合性違反は ErrCreateFailed に翻訳します。
func (r *HolidayRepository) Create(ctx context.Context, h *holiday.Holiday) (*holiday.Holiday, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO holidays (name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
    `,
		h.Name,
		string(h.RuleType),
		string(h.ObservedRule),
		nullableInt(h.Month),
		nullableInt(h.Day),
		nullableInt(h.Weekday),
		nullableInt(h.Week),
		h.CreatedAt,
		h.UpdatedAt,
	)

	created, err := scanHoliday(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("%w: %s", holiday.ErrCreateFailed, pgErr.Message)
		}
		return nil, err
	}
	return created, nil
}

// Update は祝日を更新します。
func (r *HolidayRepository) Update(ctx context.Context, h *holiday.Holiday) (*holiday.Holiday, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE holidays
           SET name = $1,
               rule_type = $2,
               observed_rule = $3,
               month = $4,
               day = $5,
               weekday = $6,
               week = $7,
               updated_at = $8
         WHERE id = $9
        RETURNING id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
    `,
		h.Name,
		string(h.RuleType),
		string(h.ObservedRule),
		nullableInt(h.Month),
		nullableInt(h.Day),
		nullableInt(h.Weekday),
		nullableInt(h.Week),
		h.UpdatedAt,
		h.ID,
	)

	updated, err := scanHoliday(row)
	if err != nil {
		return nil, translateHolidayPgError(err)
	}
	return updated, nil
}

// Delete は祝日を削除します。
func (r *HolidayRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return translateHolidayPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

// FindByID は ID で祝日を取得します。
func (r *HolidayRepository) FindByID(ctx context.Context, id int64) (*holiday.Holiday, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
          FROM holidays
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanHoliday(row)
	if err != nil {
		return nil, translateHolidayPgError(err)
	}
	return found, nil
}

// FindByName は名前で祝日を取得します。
func (r *HolidayRepository) FindByName(ctx context.Context, name string) (*holiday.Holiday, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
          FROM holidays
         WHERE name = $1
         LIMIT 1
    `, name)

	found, err := scanHoliday(row)
	if err != nil {
		return nil, translateHolidayPgError(err)
	}
	return found, nil
}

// List は全祝日を名前の昇順で返します。
func (r *HolidayRepository) List(ctx context.Context) ([]*holiday.Holiday, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
          FROM holidays
         ORDER BY name ASC
    `)
	if err != nil {
		return nil, translateHolidayPgError(err)
	}
	defer rows.Close()

	holidays := make([]*holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, translateHolidayPgError(err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, translateHolidayPgError(err)
	}

	return holidays, nil
}

func scanHoliday(row pgx.Row) (*holiday.Holiday, error) {
	var (
		id           int64
		name         string
		ruleType     string
		observedRule string
		month        sql.NullInt64
		day          sql.NullInt64
		weekday      sql.NullInt64
		week         sql.NullInt64
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&ruleType,
		&observedRule,
		&month,
		&day,
		&weekday,
		&week,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, holiday.ErrHolidayNotFound
		}
		return nil, err
	}

	return &holiday.Holiday{
		ID:           id,
		Name:         name,
		RuleType:     holiday.RuleType(ruleType),
		ObservedRule: holiday.ObservedRule(observedRule),
		Month:        intPtr(month),
		Day:          intPtr(day),
		Weekday:      intPtr(weekday),
		Week:         intPtr(week),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translateHolidayPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return holiday.ErrHolidayNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return holiday.ErrNameAlreadyExists
	}

	return err
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
