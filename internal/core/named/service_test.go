package named

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	entities map[int64]*Entity
	seq      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entities: make(map[int64]*Entity)}
}

func (r *fakeRepo) Create(_ context.Context, entity *Entity) (*Entity, error) {
	for _, e := range r.entities {
		if e.Name == entity.Name {
			return nil, ErrCreateFailed
		}
	}
	clone := cloneEntity(entity)
	r.seq++
	clone.ID = r.seq
	r.entities[clone.ID] = clone
	return cloneEntity(clone), nil
}

func (r *fakeRepo) Update(_ context.Context, entity *Entity) (*Entity, error) {
	if _, ok := r.entities[entity.ID]; !ok {
		return nil, ErrNotFound
	}
	r.entities[entity.ID] = cloneEntity(entity)
	return cloneEntity(entity), nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.entities[id]; !ok {
		return ErrNotFound
	}
	delete(r.entities, id)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Entity, error) {
	entity, ok := r.entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntity(entity), nil
}

func (r *fakeRepo) FindByName(_ context.Context, name string) (*Entity, error) {
	for _, entity := range r.entities {
		if entity.Name == name {
			return cloneEntity(entity), nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context) ([]*Entity, error) {
	entities := make([]*Entity, 0, len(r.entities))
	for _, entity := range r.entities {
		entities = append(entities, cloneEntity(entity))
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Name < entities[j].Name
	})
	return entities, nil
}

func cloneEntity(entity *Entity) *Entity {
	if entity == nil {
		return nil
	}
	clone := *entity
	return &clone
}

func newTestService(kind Kind) (*Service, *fakeRepo, *stubClock) {
	repo := newFakeRepo()
	clock := &stubClock{now: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
	return NewService(kind, repo, clock, nil), repo, clock
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	svc, _, clock := newTestService(KindGroup)

	created, err := svc.Create(context.Background(), CreateInput{Name: " Admins "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	if created.Name != "Admins" {
		t.Fatalf("expected normalized name Admins, got %q", created.Name)
	}
	if !created.CreatedAt.Equal(clock.now) {
		t.Fatalf("expected created_at %v, got %v", clock.now, created.CreatedAt)
	}

	got, err := svc.Get(context.Background(), GetInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *got != *created {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}
}

func TestService_Create_DuplicateName(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(KindGroup)

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Admins"}); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateInput{Name: "Admins"})
	if !errors.Is(err, ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}

	if len(repo.entities) != 1 {
		t.Fatalf("expected a single row to remain, got %d", len(repo.entities))
	}
}

func TestService_Create_EmptyName(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindLocation)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Admins"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newName := "Ops"
	updated, err := svc.Update(context.Background(), UpdateInput{ID: created.ID, Name: &newName})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("expected id %d to be stable, got %d", created.ID, updated.ID)
	}
	if updated.Name != "Ops" {
		t.Fatalf("expected name Ops, got %q", updated.Name)
	}

	got, err := svc.Get(context.Background(), GetInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "Ops" {
		t.Fatalf("expected persisted name Ops, got %q", got.Name)
	}
}

func TestService_Update_NilNameLeavesRowUntouched(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindDivision)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Engineering"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), UpdateInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Engineering" {
		t.Fatalf("expected name to stay Engineering, got %q", updated.Name)
	}
}

func TestService_Update_OwnNameSucceeds(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindDepartment)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Finance"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	same := "Finance"
	if _, err := svc.Update(context.Background(), UpdateInput{ID: created.ID, Name: &same}); err != nil {
		t.Fatalf("updating a row to its own name should succeed, got %v", err)
	}
}

func TestService_Update_DuplicateName(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Admins"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{Name: "Ops"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	taken := "Admins"
	_, err = svc.Update(context.Background(), UpdateInput{ID: second.ID, Name: &taken})
	if !errors.Is(err, ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	name := "Ops"
	_, err := svc.Update(context.Background(), UpdateInput{ID: 999, Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_List_OrderedByName(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindLocation)

	for _, name := range []string{"Zeta", "Alpha", "Beta"} {
		if _, err := svc.Create(context.Background(), CreateInput{Name: name}); err != nil {
			t.Fatalf("Create(%s) returned error: %v", name, err)
		}
	}

	entities, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"Alpha", "Beta", "Zeta"}
	if len(entities) != len(want) {
		t.Fatalf("expected %d entities, got %d", len(want), len(entities))
	}
	for i, name := range want {
		if entities[i].Name != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, entities[i].Name)
		}
	}
}

func TestService_List_Empty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	entities, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entities) != 0 {
		t.Fatalf("expected empty list, got %d entities", len(entities))
	}
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Ops"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	name, err := svc.Delete(context.Background(), DeleteInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if name != "Ops" {
		t.Fatalf("expected deleted name Ops, got %q", name)
	}

	if _, err := svc.Get(context.Background(), GetInput{ID: created.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	entities, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entities) != 0 {
		t.Fatalf("expected deleted row to vanish from list, got %d entities", len(entities))
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(KindGroup)

	_, err := svc.Delete(context.Background(), DeleteInput{ID: 999})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
