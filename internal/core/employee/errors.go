package employee

import "errors"

var (
	ErrInvalidID          = errors.New("employee: invalid id")
	ErrInvalidFirstName   = errors.New("employee: invalid first name")
	ErrInvalidLastName    = errors.New("employee: invalid last name")
	ErrInvalidEmail       = errors.New("employee: invalid email")
	ErrInvalidDivisionID  = errors.New("employee: invalid division id")
	ErrInvalidGroupID     = errors.New("employee: invalid group id")
	ErrInvalidLocationID  = errors.New("employee: invalid location id")
	ErrEmployeeNotFound   = errors.New("employee: not found")
	ErrEmailAlreadyExists = errors.New("employee: email already exists")
	ErrCreateFailed       = errors.New("employee: create failed")
)
