package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/printer"
)

// ReceiptOptions configures the receipt header and the paper width
type ReceiptOptions struct {
	Header      entity.ReceiptHeader
	PrinterType string
	Width       int
}

// ReceiptService composes invoice receipts and sends them to the thermal printer.
type ReceiptService struct {
	printer  printer.Printer
	invoices repository.InvoiceRepository
	opts     ReceiptOptions
	log      *zap.Logger
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(p printer.Printer, invoices repository.InvoiceRepository, opts ReceiptOptions, log *zap.Logger) *ReceiptService {
	return &ReceiptService{
		printer:  p,
		invoices: invoices,
		opts:     opts,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.opts.PrinterType != "none" && s.opts.PrinterType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.opts.PrinterType,
	}
}

// PrintInvoice loads an invoice and prints its receipt.
// The receipt is returned even when printing fails so the caller can show it on screen.
func (s *ReceiptService) PrintInvoice(ctx context.Context, invoiceID string) (*entity.Receipt, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Failed to load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	receipt := s.BuildReceipt(invoice)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.opts.Width)); err != nil {
		s.log.Error("printer error",
			zap.String("invoice_no", invoice.InvoiceNo),
			zap.Error(err),
		)
		return receipt, apperror.NewCollaboratorError("Failed to print receipt", err)
	}

	return receipt, nil
}

// BuildReceipt composes the printable view of an invoice
func (s *ReceiptService) BuildReceipt(invoice *entity.Invoice) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:    s.opts.Header,
		InvoiceNo: invoice.InvoiceNo,
		Date:      invoice.CreatedAt.Format("2006-01-02 15:04"),
		Cashier:   invoice.Staff.Name,
		SubTotal:  invoice.Totals.Subtotal.Float64(),
		Taxes:     invoice.Totals.Taxes.Float64(),
		Total:     invoice.Totals.Payable.Float64(),
		ChangeDue: invoice.ChangeDue.Float64(),
	}
	if invoice.Customer.Name != "" {
		receipt.Customer = invoice.Customer.Name
	} else {
		receipt.Customer = invoice.Customer.Phone
	}

	for _, line := range invoice.Lines {
		raw := line.UnitPrice() * money.Amount(line.Qty)
		total := billing.PriceLine(line)
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      line.Name,
			Quantity:  line.Qty,
			UnitPrice: line.UnitPrice().Float64(),
			Discount:  (raw - total).Float64(),
			Total:     total.Float64(),
		})
	}

	for _, d := range invoice.AutoDiscounts {
		receipt.Discounts = append(receipt.Discounts, entity.ReceiptAdjustment{Label: d.Label, Amount: d.Amount.Float64()})
	}
	for _, d := range invoice.BillManualDiscounts {
		receipt.Discounts = append(receipt.Discounts, entity.ReceiptAdjustment{
			Label:  "Discount: " + d.Reason,
			Amount: billing.DiscountValue(d, invoice.Totals.Subtotal).Float64(),
		})
	}

	var paid money.Amount
	for _, p := range invoice.Payments {
		paid += p.Amount
		ref := ""
		if p.Details != nil {
			ref = p.Details.Reference()
		}
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Mode:      p.Mode().String(),
			Reference: ref,
			Amount:    p.Amount.Float64(),
		})
	}
	receipt.Paid = paid.Float64()

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes for a printer width chars wide.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("GSTIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, amount(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
		if item.Discount > 0 {
			doc.TextF("  less %.2f", item.Discount)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", amount(r.SubTotal))
	for _, d := range r.Discounts {
		doc.KeyValue(d.Label, "-"+amount(d.Amount))
	}
	if r.Taxes > 0 {
		doc.KeyValue("Taxes:", amount(r.Taxes))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", amount(r.Total)).
		SetBold(false)

	if len(r.Payments) > 0 {
		doc.Separator('-')
		for _, p := range r.Payments {
			doc.KeyValue(p.Mode, amount(p.Amount))
			if p.Reference != "" {
				doc.TextF("  %s", p.Reference)
			}
		}
	}
	if r.ChangeDue > 0 {
		doc.KeyValue("Change:", amount(r.ChangeDue))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Barcode(r.InvoiceNo).
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
