package named

import "context"

// Repository は名前付きエンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, entity *Entity) (*Entity, error)
	Update(ctx context.Context, entity *Entity) (*Entity, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Entity, error)
	FindByName(ctx context.Context, name string) (*Entity, error)
	// List は名前の昇順で全件を返します。
	List(ctx context.Context) ([]*Entity, error)
}
