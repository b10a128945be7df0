package named

import "errors"

var (
	// ErrNotFound は対象エンティティが存在しない場合に返却されます。
	ErrNotFound = errors.New("not found")
	// ErrNameAlreadyExists は名前重複時に返却されます。
	ErrNameAlreadyExists = errors.New("name already exists")
	// ErrCreateFailed は整合性違反により作成に失敗した場合に返却されます。
	ErrCreateFailed = errors.New("create failed")
	// ErrInvalidName は名前が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
)
