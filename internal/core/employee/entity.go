package employee

import "time"

// Employee は従業員エンティティです。部門・グループ・拠点を参照で保持します。
type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	DivisionID int64
	GroupID    int64
	LocationID int64
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Division   *RefSnapshot
	Group      *RefSnapshot
	Location   *RefSnapshot
}

// RefSnapshot は従業員が参照するエンティティのスナップショットです。
type RefSnapshot struct {
	ID   int64
	Name string
}

// DisplayName は "姓, 名" 形式の表示名を返します。
func (e *Employee) DisplayName() string {
	return e.LastName + ", " + e.FirstName
}
