package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffdir-clean-arch/internal/core/employee"
	pgdb "github.com/ogurasousui/staffdir-clean-arch/internal/platform/db/postgres"
)

// EmployeeRepository は PostgreSQL を利用した従業員永続化の実装です。
// 読み取りは常に部門・グループ・拠点のスナップショットを JOIN で解決します。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeSelectColumns = `
               e.id,
               e.first_name,
               e.last_name,
               e.email,
               e.division_id,
               e.group_id,
               e.location_id,
               e.start_date,
               e.end_date,
               e.created_at,
               e.updated_at,
               d.id,
               d.name,
               g.id,
               g.name,
               l.id,
               l.name`

const employeeJoins = `
          JOIN divisions d ON d.id = e.division_id
          JOIN groups g ON g.id = e.group_id
          JOIN locations l ON l.id = e.location_id`

// Create は従業員を新規作成します。存在しない参照や一意制約違反は
// ErrCreateFailed に翻訳します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO employees (first_name, last_name, email, division_id, group_id, location_id, start_date, end_date, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING id, first_name, last_name, email, division_id, group_id, location_id, start_date, end_date, created_at, updated_at
        )
        SELECT`+employeeSelectColumns+`
          FROM inserted e`+employeeJoins+`
    `,
		e.FirstName,
		e.LastName,
		e.Email,
		e.DivisionID,
		e.GroupID,
		e.LocationID,
		nullableDate(e.StartDate),
		nullableDate(e.EndDate),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("%w: %s", employee.ErrCreateFailed, pgErr.Message)
		}
		return nil, err
	}
	return created, nil
}

// Update は従業員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE employees
               SET first_name = $1,
                   last_name = $2,
                   email = $3,
                   division_id = $4,
                   group_id = $5,
                   location_id = $6,
                   start_date = $7,
                   end_date = $8,
                   updated_at = $9
             WHERE id = $10
            RETURNING id, first_name, last_name, email, division_id, group_id, location_id, start_date, end_date, created_at, updated_at
        )
        SELECT`+employeeSelectColumns+`
          FROM updated e`+employeeJoins+`
    `,
		e.FirstName,
		e.LastName,
		e.Email,
		e.DivisionID,
		e.GroupID,
		e.LocationID,
		nullableDate(e.StartDate),
		nullableDate(e.EndDate),
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は従業員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeSelectColumns+`
          FROM employees e`+employeeJoins+`
         WHERE e.id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスで従業員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeSelectColumns+`
          FROM employees e`+employeeJoins+`
         WHERE e.email = $1
         LIMIT 1
    `, email)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は全従業員を姓・名・ID の昇順で返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+employeeSelectColumns+`
          FROM employees e`+employeeJoins+`
         ORDER BY e.last_name ASC, e.first_name ASC, e.id ASC
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id           int64
		firstName    string
		lastName     string
		email        string
		divisionID   int64
		groupID      int64
		locationID   int64
		startDate    sql.NullTime
		endDate      sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		divisionName string
		groupName    string
		locationName string
		divJoinedID  int64
		grpJoinedID  int64
		locJoinedID  int64
	)

	if err := row.Scan(
		&id,
		&firstName,
		&lastName,
		&email,
		&divisionID,
		&groupID,
		&locationID,
		&startDate,
		&endDate,
		&createdAt,
		&updatedAt,
		&divJoinedID,
		&divisionName,
		&grpJoinedID,
		&groupName,
		&locJoinedID,
		&locationName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &employee.Employee{
		ID:         id,
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		DivisionID: divisionID,
		GroupID:    groupID,
		LocationID: locationID,
		StartDate:  datePtr(startDate),
		EndDate:    datePtr(endDate),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		Division:   &employee.RefSnapshot{ID: divJoinedID, Name: divisionName},
		Group:      &employee.RefSnapshot{ID: grpJoinedID, Name: groupName},
		Location:   &employee.RefSnapshot{ID: locJoinedID, Name: locationName},
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return employee.ErrEmailAlreadyExists
	}

	return err
}

func datePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
