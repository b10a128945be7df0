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
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	row := stubRow{scanFn: func(dest ...any) error {
		if len(dest) != 17 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 10
		*(dest[1].(*string)) = "Taro"
		*(dest[2].(*string)) = "Yamada"
		*(dest[3].(*string)) = "taro@example.com"
		*(dest[4].(*int64)) = 1
		*(dest[5].(*int64)) = 2
		*(dest[6].(*int64)) = 3

		s := dest[7].(*sql.NullTime)
		s.Time = start
		s.Valid = true

		*(dest[9].(*time.Time)) = createdAt
		*(dest[10].(*time.Time)) = createdAt
		*(dest[11].(*int64)) = 1
		*(dest[12].(*string)) = "Engineering"
		*(dest[13].(*int64)) = 2
		*(dest[14].(*string)) = "Backend"
		*(dest[15].(*int64)) = 3
		*(dest[16].(*string)) = "Tokyo"
		return nil
	}}

	e, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}

	if e.ID != 10 || e.Email != "taro@example.com" {
		t.Fatalf("unexpected employee: %+v", e)
	}
	if e.StartDate == nil || !e.StartDate.Equal(start) {
		t.Fatalf("expected start date %v, got %v", start, e.StartDate)
	}
	if e.EndDate != nil {
		t.Fatalf("expected nil end date, got %v", e.EndDate)
	}
	if e.Division == nil || e.Division.Name != "Engineering" {
		t.Fatalf("expected division snapshot, got %+v", e.Division)
	}
	if e.Location == nil || e.Location.Name != "Tokyo" {
		t.Fatalf("expected location snapshot, got %+v", e.Location)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...any) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateEmployeePgError(pgx.ErrNoRows), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected not found mapping for ErrNoRows")
	}

	pgErr := &pgconn.PgError{Code: uniqueViolationCode}
	if !errors.Is(translateEmployeePgError(pgErr), employee.ErrEmailAlreadyExists) {
		t.Fatalf("expected email already exists mapping for unique violation")
	}

	otherErr := errors.New("random")
	if translateEmployeePgError(otherErr) != otherErr {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_Create_ForeignKeyViolation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO employees").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{
			Code:           foreignKeyViolationCode,
			ConstraintName: "employees_division_id_fkey",
			Message:        "violates foreign key constraint",
		})

	_, err = repo.Create(context.Background(), &employee.Employee{
		FirstName:  "Taro",
		LastName:   "Yamada",
		Email:      "taro@example.com",
		DivisionID: 999,
		GroupID:    2,
		LocationID: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if !errors.Is(err, employee.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed for dangling reference, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM employees WHERE id = $1`)).
		WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), 999)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_List(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	now := time.Now().UTC()
	columns := []string{
		"id", "first_name", "last_name", "email",
		"division_id", "group_id", "location_id",
		"start_date", "end_date", "created_at", "updated_at",
		"d_id", "d_name", "g_id", "g_name", "l_id", "l_name",
	}
	rows := pgxmock.NewRows(columns).
		AddRow(int64(2), "Amy", "Adams", "adams@example.com", int64(1), int64(2), int64(3), nil, nil, now, now, int64(1), "Engineering", int64(2), "Backend", int64(3), "Tokyo").
		AddRow(int64(3), "Carl", "Cooke", "cooke@example.com", int64(1), int64(2), int64(3), nil, nil, now, now, int64(1), "Engineering", int64(2), "Backend", int64(3), "Tokyo").
		AddRow(int64(1), "Sam", "Smith", "smith@example.com", int64(1), int64(2), int64(3), nil, nil, now, now, int64(1), "Engineering", int64(2), "Backend", int64(3), "Tokyo")

	mock.ExpectQuery("ORDER BY e.last_name ASC, e.first_name ASC, e.id ASC").
		WillReturnRows(rows)

	employees, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(employees))
	}
	if employees[0].LastName != "Adams" || employees[2].LastName != "Smith" {
		t.Fatalf("unexpected order: %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
