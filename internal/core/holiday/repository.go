package holiday

import "context"

// Repository は祝日永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, holiday *Holiday) (*Holiday, error)
	Update(ctx context.Context, holiday *Holiday) (*Holiday, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Holiday, error)
	FindByName(ctx context.Context, name string) (*Holiday, error)
	// List は名前の昇順で全件を返します。
	List(ctx context.Context) ([]*Holiday, error)
}
