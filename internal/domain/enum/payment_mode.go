package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMode represents the instrument used for a payment line
type PaymentMode int

const (
	PaymentModeCash       PaymentMode = 0
	PaymentModeCard       PaymentMode = 1
	PaymentModeUPI        PaymentMode = 2
	PaymentModeWallet     PaymentMode = 3
	PaymentModeGiftCard   PaymentMode = 4
	PaymentModeCreditNote PaymentMode = 5
)

var paymentModeNames = [...]string{"CASH", "CARD", "UPI", "WALLET", "GIFTCARD", "CREDIT_NOTE"}

func (m PaymentMode) String() string {
	if int(m) < 0 || int(m) >= len(paymentModeNames) {
		return "UNKNOWN"
	}
	return paymentModeNames[m]
}

// ParsePaymentMode maps a wire name to a PaymentMode
func ParsePaymentMode(s string) (PaymentMode, error) {
	for i, name := range paymentModeNames {
		if name == s {
			return PaymentMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown payment mode %q", s)
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	parsed, err := ParsePaymentMode(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMode(v)
	case int:
		*m = PaymentMode(v)
	}
	return nil
}
