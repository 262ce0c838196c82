package repository

// Repositories bundles the collaborators the billing services depend on,
// so a storage driver can be chosen in one place.
type Repositories struct {
	Catalog     CatalogRepository
	Customers   CustomerRepository
	Staff       StaffRepository
	CreditNotes CreditNoteRepository
	SavedCarts  SavedCartRepository
	Invoices    InvoiceRepository
	Idempotency IdempotencyRepository
}
