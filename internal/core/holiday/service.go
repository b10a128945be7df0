package holiday

import (
	"context"
	"errors"
	"fmt"
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

// Service は祝日に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は祝日ユースケースの公開インターフェースです。
type UseCase interface {
	CreateHoliday(ctx context.Context, in CreateHolidayInput) (*Holiday, error)
	GetHoliday(ctx context.Context, in GetHolidayInput) (*Holiday, error)
	ListHolidays(ctx context.Context) ([]*Holiday, error)
	UpdateHoliday(ctx context.Context, in UpdateHolidayInput) (*Holiday, error)
	DeleteHoliday(ctx context.Context, in DeleteHolidayInput) (string, error)
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

// CreateHolidayInput は祝日作成時の入力です。ObservedRule が nil の場合は
// none が採用されます。数値フィールドは rule_type と突き合わせて検証しません。
type CreateHolidayInput struct {
	Name         string
	RuleType     RuleType
	ObservedRule *ObservedRule
	Month        *int
	Day          *int
	Weekday      *int
	Week         *int
}

// UpdateHolidayInput は祝日更新時の入力です。nil のフィールドは変更されません。
type UpdateHolidayInput struct {
	ID           int64
	Name         *string
	RuleType     *RuleType
	ObservedRule *ObservedRule
	Month        *int
	Day          *int
	Weekday      *int
	Week         *int
}

// GetHolidayInput は祝日取得時の入力です。
type GetHolidayInput struct {
	ID int64
}

// DeleteHolidayInput は祝日削除時の入力です。
type DeleteHolidayInput struct {
	ID int64
}

// CreateHoliday は新しい祝日を作成します。
func (s *Service) CreateHoliday(ctx context.Context, in CreateHolidayInput) (*Holiday, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if !isValidRuleType(in.RuleType) {
		return nil, ErrInvalidRuleType
	}

	observed := ObservedNone
	if in.ObservedRule != nil {
		if !isValidObservedRule(*in.ObservedRule) {
			return nil, ErrInvalidObservedRule
		}
		observed = *in.ObservedRule
	}

	var created *Holiday
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameNotExists(txCtx, name, 0); err != nil {
			return err
		}

		now := s.clock.Now()
		h := &Holiday{
			Name:         name,
			RuleType:     in.RuleType,
			ObservedRule: observed,
			Month:        cloneInt(in.Month),
			Day:          cloneInt(in.Day),
			Weekday:      cloneInt(in.Weekday),
			Week:         cloneInt(in.Week),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := s.repo.Create(txCtx, h)
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

// UpdateHoliday は祝日を更新します。重複チェックでは更新対象自身を除外します。
func (s *Service) UpdateHoliday(ctx context.Context, in UpdateHolidayInput) (*Holiday, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var updated *Holiday
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			if name != existing.Name {
				if err := s.ensureNameNotExists(txCtx, name, existing.ID); err != nil {
					return err
				}
				existing.Name = name
			}
		}

		if in.RuleType != nil {
			if !isValidRuleType(*in.RuleType) {
				return ErrInvalidRuleType
			}
			existing.RuleType = *in.RuleType
		}

		if in.ObservedRule != nil {
			if !isValidObservedRule(*in.ObservedRule) {
				return ErrInvalidObservedRule
			}
			existing.ObservedRule = *in.ObservedRule
		}

		if in.Month != nil {
			existing.Month = cloneInt(in.Month)
		}

		if in.Day != nil {
			existing.Day = cloneInt(in.Day)
		}

		if in.Weekday != nil {
			existing.Weekday = cloneInt(in.Weekday)
		}

		if in.Week != nil {
			existing.Week = cloneInt(in.Week)
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

// GetHoliday は祝日を取得します。
func (s *Service) GetHoliday(ctx context.Context, in GetHolidayInput) (*Holiday, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var result *Holiday
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

// ListHolidays は全祝日を名前の昇順で返します。
func (s *Service) ListHolidays(ctx context.Context) ([]*Holiday, error) {
	var holidays []*Holiday
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		holidays = result
		return nil
	}); err != nil {
		return nil, err
	}

	return holidays, nil
}

// DeleteHoliday は祝日を削除し、削除前の名前を返します。
func (s *Service) DeleteHoliday(ctx context.Context, in DeleteHolidayInput) (string, error) {
	if in.ID <= 0 {
		return "", fmt.Errorf("id %d: %w", in.ID, ErrInvalidID)
	}

	var name string
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}

		name = existing.Name

		if err := s.repo.Delete(txCtx, existing.ID); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return "", err
	}

	return name, nil
}

func (s *Service) findByIDOrNotFound(ctx context.Context, id int64) (*Holiday, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrHolidayNotFound) {
			return nil, fmt.Errorf("id %d: %w", id, ErrHolidayNotFound)
		}
		return nil, err
	}
	return found, nil
}

func (s *Service) ensureNameNotExists(ctx context.Context, name string, excludeID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrHolidayNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("%q: %w", name, ErrNameAlreadyExists)
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func isValidRuleType(rule RuleType) bool {
	switch rule {
	case RuleFixedDate, RuleNthWeekday, RuleLastWeekday, RuleCustom:
		return true
	default:
		return false
	}
}

func isValidObservedRule(rule ObservedRule) bool {
	switch rule {
	case ObservedNone, ObservedNextBusinessDay, ObservedNearestWeekday:
		return true
	default:
		return false
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
