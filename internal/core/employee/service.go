package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service は従業員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は従業員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateEmployeeInput は従業員作成時の入力です。
type CreateEmployeeInput struct {
	FirstName  string
	LastName   string
	Email      string
	DivisionID int64
	GroupID    int64
	LocationID int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// UpdateEmployeeInput は従業員更新時の入力です。nil のフィールドは変更されません。
// 日付は Set フラグが真のときのみ反映され、nil と組み合わせると解除になります。
type UpdateEmployeeInput struct {
	ID           int64
	FirstName    *string
	LastName     *string
	Email        *string
	DivisionID   *int64
	GroupID      *int64
	LocationID   *int64
	StartDate    *time.Time
	StartDateSet bool
	EndDate      *time.Time
	EndDateSet   bool
}

// GetEmployeeInput は従業員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// DeleteEmployeeInput は従業員削除時の入力です。
type DeleteEmployeeInput struct {
	ID int64
}

// CreateEmployee は新しい従業員を作成します。メールアドレスが既に使われている
// 場合は ErrEmailAlreadyExists、参照先が存在しない場合は ErrCreateFailed を返します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	firstName, err := normalizeRequired(in.FirstName, ErrInvalidFirstName)
	if err != nil {
		return nil, err
	}

	lastName, err := normalizeRequired(in.LastName, ErrInvalidLastName)
	if err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if in.DivisionID <= 0 {
		return nil, ErrInvalidDivisionID
	}
	if in.GroupID <= 0 {
		return nil, ErrInvalidGroupID
	}
	if in.LocationID <= 0 {
		return nil, ErrInvalidLocationID
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailNotExists(txCtx, email, 0); err != nil {
			return err
		}

		now := s.clock.Now()
		emp := &Employee{
			FirstName:  firstName,
			LastName:   lastName,
			Email:      email,
			DivisionID: in.DivisionID,
			GroupID:    in.GroupID,
			LocationID: in.LocationID,
			StartDate:  normalizeDate(in.StartDate),
			EndDate:    normalizeDate(in.EndDate),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は従業員情報を更新します。重複チェックでは更新対象自身を除外します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.FirstName != nil {
			firstName, err := normalizeRequired(*in.FirstName, ErrInvalidFirstName)
			if err != nil {
				return err
			}
			existing.FirstName = firstName
		}

		if in.LastName != nil {
			lastName, err := normalizeRequired(*in.LastName, ErrInvalidLastName)
			if err != nil {
				return err
			}
			existing.LastName = lastName
		}

		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			if email != existing.Email {
				if err := s.ensureEmailNotExists(txCtx, email, existing.ID); err != nil {
					return err
				}
				existing.Email = email
			}
		}

		if in.DivisionID != nil {
			if *in.DivisionID <= 0 {
				return ErrInvalidDivisionID
			}
			existing.DivisionID = *in.DivisionID
		}

		if in.GroupID != nil {
			if *in.GroupID <= 0 {
				return ErrInvalidGroupID
			}
			existing.GroupID = *in.GroupID
		}

		if in.LocationID != nil {
			if *in.LocationID <= 0 {
				return ErrInvalidLocationID
			}
			existing.LocationID = *in.LocationID
		}

		if in.StartDateSet {
			existing.StartDate = normalizeDate(in.StartDate)
		}

		if in.EndDateSet {
			existing.EndDate = normalizeDate(in.EndDate)
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は従業員を参照先スナップショット込みで取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は全従業員を姓・名・ID の昇順で返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

// DeleteEmployee は従業員を削除し、削除前の "姓, 名" を返します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) (string, error) {
	if in.ID <= 0 {
		return "", fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var name string
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}

		name = existing.DisplayName()

		if err := s.repo.Delete(txCtx, existing.ID); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return "", err
	}

	return name, nil
}

func (s *Service) findByIDOrNotFound(ctx context.Context, id int64) (*Employee, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, fmt.Errorf("id %d: %w", id, ErrEmployeeNotFound)
		}
		return nil, err
	}
	return found, nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email string, excludeID int64) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("%q: %w", email, ErrEmailAlreadyExists)
	}
	return nil
}

func normalizeRequired(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(trimmed) {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

// normalizeDate は日付を UTC の 0 時に正規化します。開始日と終了日の前後関係は
// あえて検証しません。
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}
