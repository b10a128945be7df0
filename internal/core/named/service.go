package named

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

// Service は名前付きエンティティの CRUD ユースケースをまとめます。
// グループ・部門・事業部・拠点は同一の契約を持つため、種別ごとに
// インスタンス化して使い回します。
type Service struct {
	kind  Kind
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は名前付きエンティティユースケースの公開インターフェースです。
type UseCase interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	Get(ctx context.Context, in GetInput) (*Entity, error)
	List(ctx context.Context) ([]*Entity, error)
	Update(ctx context.Context, in UpdateInput) (*Entity, error)
	Delete(ctx context.Context, in DeleteInput) (string, error)
}

// NewService は指定された種別の Service を生成します。
func NewService(kind Kind, repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{kind: kind, repo: repo, clock: clock, tx: tx}
}

// Kind はサービスが扱うエンティティ種別を返します。
func (s *Service) Kind() Kind {
	return s.kind
}

// CreateInput は作成時の入力です。
type CreateInput struct {
	Name string
}

// UpdateInput は更新時の入力です。nil のフィールドは変更されません。
type UpdateInput struct {
	ID   int64
	Name *string
}

// GetInput は取得時の入力です。
type GetInput struct {
	ID int64
}

// DeleteInput は削除時の入力です。
type DeleteInput struct {
	ID int64
}

// Create は新しいエンティティを作成します。名前が既に存在する場合は
// ErrNameAlreadyExists を返します。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Entity, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.kind, err)
	}

	var created *Entity
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameNotExists(txCtx, name, 0); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Entity{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
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

// Update はエンティティを更新します。重複チェックでは更新対象自身を除外します。
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Entity, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("%s id %d: %w", s.kind, in.ID, ErrInvalidID)
	}

	var updated *Entity
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.findByIDOrNotFound(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return fmt.Errorf("%s: %w", s.kind, err)
			}
			if name != existing.Name {
				if err := s.ensureNameNotExists(txCtx, name, existing.ID); err != nil {
					return err
				}
				existing.Name = name
			}
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

// Get は ID でエンティティを取得します。
func (s *Service) Get(ctx context.Context, in GetInput) (*Entity, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("%s id %d: %w", s.kind, in.ID, ErrInvalidID)
	}

	var result *Entity
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

// List は全エンティティを名前の昇順で返します。
func (s *Service) List(ctx context.Context) ([]*Entity, error) {
	var entities []*Entity
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		entities = result
		return nil
	}); err != nil {
		return nil, err
	}

	return entities, nil
}

// Delete はエンティティを削除し、削除前の名前を返します。
func (s *Service) Delete(ctx context.Context, in DeleteInput) (string, error) {
	if in.ID <= 0 {
		return "", fmt.Errorf("%s id %d: %w", s.kind, in.ID, ErrInvalidID)
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

func (s *Service) findByIDOrNotFound(ctx context.Context, id int64) (*Entity, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s id %d: %w", s.kind, id, ErrNotFound)
		}
		return nil, err
	}
	return found, nil
}

// ensureNameNotExists は excludeID 以外の行に同名が存在しないことを確認します。
func (s *Service) ensureNameNotExists(ctx context.Context, name string, excludeID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("%s %q: %w", s.kind, name, ErrNameAlreadyExists)
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
