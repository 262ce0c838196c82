package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	StoreID   string `json:"store_id,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount,omitempty"`
	Total     float64 `json:"total"`
}

// ReceiptAdjustment is a labelled deduction such as an auto or manual bill discount.
type ReceiptAdjustment struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ReceiptPayment is one settled payment line.
type ReceiptPayment struct {
	Mode      string  `json:"mode"`
	Reference string  `json:"reference,omitempty"`
	Amount    float64 `json:"amount"`
}

// Receipt is a value object representing a printable receipt.
// It is not persisted; it is composed from an invoice at print time.
type Receipt struct {
	Header    ReceiptHeader       `json:"header"`
	InvoiceNo string              `json:"invoice_no"`
	Date      string              `json:"date"`
	Cashier   string              `json:"cashier,omitempty"`
	Customer  string              `json:"customer,omitempty"`
	Items     []ReceiptItem       `json:"items"`
	SubTotal  float64             `json:"sub_total"`
	Discounts []ReceiptAdjustment `json:"discounts,omitempty"`
	Taxes     float64             `json:"taxes"`
	Total     float64             `json:"total"`
	Payments  []ReceiptPayment    `json:"payments"`
	Paid      float64             `json:"paid"`
	ChangeDue float64             `json:"change_due"`
}
