package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CreditNoteStatus represents whether a credit note can still be redeemed
type CreditNoteStatus int

const (
	CreditNoteStatusActive  CreditNoteStatus = 0
	CreditNoteStatusExpired CreditNoteStatus = 1
)

func (s CreditNoteStatus) String() string {
	if s == CreditNoteStatusExpired {
		return "EXPIRED"
	}
	return "ACTIVE"
}

func (s CreditNoteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CreditNoteStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "EXPIRED" {
		*s = CreditNoteStatusExpired
	} else {
		*s = CreditNoteStatusActive
	}
	return nil
}

func (s CreditNoteStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CreditNoteStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = CreditNoteStatus(v)
	case int:
		*s = CreditNoteStatus(v)
	default:
		*s = CreditNoteStatusActive
	}
	return nil
}
