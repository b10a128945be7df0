package holiday

import "errors"

var (
	ErrInvalidID           = errors.New("holiday: invalid id")
	ErrInvalidName         = errors.New("holiday: invalid name")
	ErrInvalidRuleType     = errors.New("holiday: invalid rule type")
	ErrInvalidObservedRule = errors.New("holiday: invalid observed rule")
	ErrHolidayNotFound     = errors.New("holiday: not found")
	ErrNameAlreadyExists   = errors.New("holiday: name already exists")
	ErrCreateFailed        = errors.New("holiday: create failed")
)
