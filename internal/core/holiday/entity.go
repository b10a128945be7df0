package holiday

import "time"

// RuleType は祝日の判定ルール種別を表します。
type RuleType string

const (
	RuleFixedDate   RuleType = "fixed_date"
	RuleNthWeekday  RuleType = "nth_weekday"
	RuleLastWeekday RuleType = "last_weekday"
	RuleCustom      RuleType = "custom"
)

// ObservedRule は振替の扱いを表します。
type ObservedRule string

const (
	ObservedNone            ObservedRule = "none"
	ObservedNextBusinessDay ObservedRule = "next_business_day"
	ObservedNearestWeekday  ObservedRule = "nearest_weekday"
)

// Holiday は祝日エンティティです。数値フィールドはルール定義の材料として
// 保存されるだけで、実日付への展開はこのシステムの範囲外です。
type Holiday struct {
	ID           int64
	Name         string
	RuleType     RuleType
	ObservedRule ObservedRule
	Month        *int
	Day          *int
	Weekday      *int
	Week         *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
