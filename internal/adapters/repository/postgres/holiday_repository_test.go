package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/holiday"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanHoliday_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...any) error {
		if len(dest) != 10 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 5
		*(dest[1].(*string)) = "New Year's Day"
		*(dest[2].(*string)) = string(holiday.RuleFixedDate)
		*(dest[3].(*string)) = string(holiday.ObservedNearestWeekday)

		m := dest[4].(*sql.NullInt64)
		m.Int64 = 1
		m.Valid = true

		d := dest[5].(*sql.NullInt64)
		d.Int64 = 1
		d.Valid = true

		*(dest[8].(*time.Time)) = createdAt
		*(dest[9].(*time.Time)) = createdAt
		return nil
	}}

	h, err := scanHoliday(row)
	if err != nil {
		t.Fatalf("scanHoliday returned error: %v", err)
	}

	if h.ID != 5 || h.RuleType != holiday.RuleFixedDate {
		t.Fatalf("unexpected holiday: %+v", h)
	}
	if h.Month == nil || *h.Month != 1 {
		t.Fatalf("expected month 1, got %v", h.Month)
	}
	if h.Weekday != nil || h.Week != nil {
		t.Fatalf("expected nil weekday/week, got %+v", h)
	}
}

func TestScanHoliday_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	_, err := scanHoliday(row)
	if !errors.Is(err, holiday.ErrHolidayNotFound) {
		t.Fatalf("expected ErrHolidayNotFound, got %v", err)
	}
}

func TestTranslateHolidayPgError(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateHolidayPgError(pgErr), holiday.ErrNameAlreadyExists) {
		t.Fatalf("expected name already exists mapping for unique violation")
	}

	otherErr := errors.New("random")
	if translateHolidayPgError(otherErr) != otherErr {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestHolidayRepository_Create_IntegrityViolation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHolidayRepository(mock)

	mock.ExpectQuery("INSERT INTO holidays").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, Message: "duplicate key value"})

	now := time.Now().UTC()
	_, err = repo.Create(context.Background(), &holiday.Holiday{
		Name:         "New Year's Day",
		RuleType:     holiday.RuleFixedDate,
		ObservedRule: holiday.ObservedNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if !errors.Is(err, holiday.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHolidayRepository_List_OrderedByName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewHolidayRepository(mock)

	query := regexp.QuoteMeta(`
        SELECT id, name, rule_type, observed_rule, month, day, weekday, week, created_at, updated_at
          FROM holidays
         ORDER BY name ASC
    `)

	now := time.Now().UTC()
	columns := []string{"id", "name", "rule_type", "observed_rule", "month", "day", "weekday", "week", "created_at", "updated_at"}
	rows := pgxmock.NewRows(columns).
		AddRow(int64(2), "Alpha Day", string(holiday.RuleCustom), string(holiday.ObservedNone), nil, nil, nil, nil, now, now).
		AddRow(int64(1), "Beta Day", string(holiday.RuleCustom), string(holiday.ObservedNone), nil, nil, nil, nil, now, now)

	mock.ExpectQuery(query).WillReturnRows(rows)

	holidays, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(holidays) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(holidays))
	}
	if holidays[0].Name != "Alpha Day" {
		t.Fatalf("unexpected order: %+v", holidays)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
