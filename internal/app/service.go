package app

import "context"

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic: implementations contain no
// HTTP concerns and no display logic of any kind. Every operation is scoped
// to the authenticated account's userID, which the adapter extracts from the
// verified token.
type ApplicationService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, req RegisterRequest) (*UserResult, error)

	// Authenticate verifies credentials and returns the account profile.
	// Fails with ErrInvalidCredentials on unknown email or wrong password.
	Authenticate(ctx context.Context, email, password string) (*UserResult, error)

	// GetUser returns the account profile by id.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// ── Customers ────────────────────────────────────────────────────────────

	ListCustomers(ctx context.Context, userID int) ([]CustomerResult, error)
	CreateCustomer(ctx context.Context, userID int, req CreateCustomerRequest) (*CustomerResult, error)
	GetCustomer(ctx context.Context, userID, customerID int) (*CustomerResult, error)
	UpdateCustomer(ctx context.Context, userID, customerID int, req UpdateCustomerRequest) (*CustomerResult, error)
	DeleteCustomer(ctx context.Context, userID, customerID int) error

	// ── Products ─────────────────────────────────────────────────────────────

	ListProducts(ctx context.Context) ([]ProductResult, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error)
	GetProduct(ctx context.Context, productID int) (*ProductResult, error)
	UpdateProduct(ctx context.Context, productID int, req UpdateProductRequest) (*ProductResult, error)
	DeleteProduct(ctx context.Context, productID int) error

	// ── Sales ────────────────────────────────────────────────────────────────

	// CreateSale records an itemized or bare-credit sale atomically.
	CreateSale(ctx context.Context, userID int, req SaleRequest) (*SaleResult, error)

	// ReplaceSale swaps the sale's content for the request's, reversing the
	// old effects and applying the new ones in one transaction.
	ReplaceSale(ctx context.Context, userID, saleID int, req SaleRequest) (*SaleResult, error)

	// DeleteSale reverses and removes the sale.
	DeleteSale(ctx context.Context, userID, saleID int) error

	// GetSale returns one sale with derived totals.
	GetSale(ctx context.Context, userID, saleID int) (*SaleResult, error)

	// ── Reports ──────────────────────────────────────────────────────────────

	// SalesReport lists every sale with items, subtotals, total and valor.
	SalesReport(ctx context.Context, userID int) ([]SaleResult, error)

	// SummaryReport aggregates sales over the raw query-string filters
	// (inclusive YYYY-MM-DD bounds, optional customer id).
	SummaryReport(ctx context.Context, userID int, from, to, customerID string) (*SummaryResult, error)
}
