package enum

import (
	"encoding/json"
)

// CartStatus represents the lifecycle state of the live cart
type CartStatus int

const (
	CartStatusOpen        CartStatus = 0
	CartStatusCheckingOut CartStatus = 1
	CartStatusPaid        CartStatus = 2
)

func (s CartStatus) String() string {
	return [...]string{"OPEN", "CHECKING_OUT", "PAID"}[s]
}

func (s CartStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CartStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "OPEN":
		*s = CartStatusOpen
	case "CHECKING_OUT":
		*s = CartStatusCheckingOut
	case "PAID":
		*s = CartStatusPaid
	}
	return nil
}
