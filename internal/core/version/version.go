// Package version は単一行のアプリケーションバージョンレコードを扱います。
// 行の多重化は書き込み時の固定キー upsert で防ぎます。
package version

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrVersionNotSet はバージョンが未登録の場合に返却されます。
	ErrVersionNotSet = errors.New("version: not set")
	// ErrInvalidVersion はバージョン文字列が不正な場合に返却されます。
	ErrInvalidVersion = errors.New("version: invalid version")
)

// Record はアプリケーションバージョンを表します。
type Record struct {
	Version   string
	UpdatedAt time.Time
}

// Repository はバージョンレコード永続化の抽象です。
type Repository interface {
	Get(ctx context.Context) (*Record, error)
	Set(ctx context.Context, record *Record) (*Record, error)
}

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

// UseCase はバージョンユースケースの公開インターフェースです。
type UseCase interface {
	Get(ctx context.Context) (*Record, error)
	Set(ctx context.Context, version string) (*Record, error)
}

// Service はバージョンレコードの参照と更新をまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
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

// Get は現在のバージョンを返します。
func (s *Service) Get(ctx context.Context) (*Record, error) {
	var record *Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.Get(txCtx)
		if err != nil {
			return err
		}
		record = found
		return nil
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// Set はバージョンを upsert します。
func (s *Service) Set(ctx context.Context, raw string) (*Record, error) {
	version := strings.TrimSpace(raw)
	if version == "" {
		return nil, ErrInvalidVersion
	}

	var record *Record
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Set(txCtx, &Record{Version: version, UpdatedAt: s.clock.Now()})
		if err != nil {
			return err
		}
		record = result
		return nil
	}); err != nil {
		return nil, err
	}

	return record, nil
}
