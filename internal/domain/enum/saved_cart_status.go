package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SavedCartStatus represents the status of a parked cart
type SavedCartStatus int

const (
	SavedCartStatusSaved       SavedCartStatus = 0
	SavedCartStatusLocked      SavedCartStatus = 1
	SavedCartStatusExpired     SavedCartStatus = 2
	SavedCartStatusPendingSync SavedCartStatus = 3
)

func (s SavedCartStatus) String() string {
	names := [...]string{"SAVED", "LOCKED", "EXPIRED", "PENDING_SYNC"}
	if int(s) < 0 || int(s) >= len(names) {
		return "SAVED"
	}
	return names[s]
}

// ParseSavedCartStatus maps a wire name to a SavedCartStatus
func ParseSavedCartStatus(str string) (SavedCartStatus, bool) {
	switch str {
	case "SAVED":
		return SavedCartStatusSaved, true
	case "LOCKED":
		return SavedCartStatusLocked, true
	case "EXPIRED":
		return SavedCartStatusExpired, true
	case "PENDING_SYNC":
		return SavedCartStatusPendingSync, true
	}
	return SavedCartStatusSaved, false
}

func (s SavedCartStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SavedCartStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SavedCartStatus(i)
		return nil
	}
	if parsed, ok := ParseSavedCartStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s SavedCartStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SavedCartStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SavedCartStatusSaved
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SavedCartStatus(v)
	case int:
		*s = SavedCartStatus(v)
	}
	return nil
}
