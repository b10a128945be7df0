package named

import "time"

// Kind は名前付きエンティティの種別を表します。
type Kind string

const (
	KindGroup      Kind = "group"
	KindDivision   Kind = "division"
	KindDepartment Kind = "department"
	KindLocation   Kind = "location"
)

// Entity は一意な名前を持つ単純エンティティ(グループ・部門・事業部・拠点)です。
type Entity struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
