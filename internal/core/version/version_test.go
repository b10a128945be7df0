package version

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	record *Record
}

func (r *fakeRepo) Get(_ context.Context) (*Record, error) {
	if r.record == nil {
		return nil, ErrVersionNotSet
	}
	clone := *r.record
	return &clone, nil
}

func (r *fakeRepo) Set(_ context.Context, record *Record) (*Record, error) {
	clone := *record
	r.record = &clone
	result := clone
	return &result, nil
}

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

func TestService_SetAndGet(t *testing.T) {
	t.Parallel()

	clock := &stubClock{now: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(&fakeRepo{}, clock, nil)

	set, err := svc.Set(context.Background(), " 1.4.2 ")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if set.Version != "1.4.2" {
		t.Fatalf("expected trimmed version 1.4.2, got %q", set.Version)
	}

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Version != "1.4.2" || !got.UpdatedAt.Equal(clock.now) {
		t.Fatalf("unexpected record: %+v", got)
	}

	// 固定キー upsert なので 2 度目の Set は行を増やさず置き換える。
	if _, err := svc.Set(context.Background(), "1.5.0"); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}
	got, err = svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Version != "1.5.0" {
		t.Fatalf("expected version 1.5.0, got %q", got.Version)
	}
}

func TestService_Get_NotSet(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeRepo{}, nil, nil)

	_, err := svc.Get(context.Background())
	if !errors.Is(err, ErrVersionNotSet) {
		t.Fatalf("expected ErrVersionNotSet, got %v", err)
	}
}

func TestService_Set_Invalid(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeRepo{}, nil, nil)

	_, err := svc.Set(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}
