package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountType represents how a manual discount value is interpreted
type DiscountType int

const (
	DiscountTypeAmount  DiscountType = 0
	DiscountTypePercent DiscountType = 1
)

func (t DiscountType) String() string {
	names := [...]string{"AMOUNT", "PERCENT"}
	if int(t) < 0 || int(t) >= len(names) {
		return "AMOUNT"
	}
	return names[t]
}

// ParseDiscountType maps a wire name to a DiscountType
func ParseDiscountType(s string) (DiscountType, bool) {
	switch s {
	case "AMOUNT":
		return DiscountTypeAmount, true
	case "PERCENT":
		return DiscountTypePercent, true
	}
	return DiscountTypeAmount, false
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DiscountType(i)
		return nil
	}
	if parsed, ok := ParseDiscountType(str); ok {
		*t = parsed
	}
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	if value == nil {
		*t = DiscountTypeAmount
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DiscountType(v)
	case int:
		*t = DiscountType(v)
	}
	return nil
}
