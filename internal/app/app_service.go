package app

import (
	"context"
	"errors"
	"fmt"

	"mercadinho-pos/internal/core"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password. The adapter maps it to 401 without distinguishing the
// two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

type appService struct {
	users     core.UserService
	customers core.CustomerService
	products  core.ProductService
	sales     core.SaleService
	reports   core.ReportingService
}

// NewAppService wires the core services into the ApplicationService facade.
func NewAppService(
	users core.UserService,
	customers core.CustomerService,
	products core.ProductService,
	sales core.SaleService,
	reports core.ReportingService,
) ApplicationService {
	return &appService{
		users:     users,
		customers: customers,
		products:  products,
		sales:     sales,
		reports:   reports,
	}
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (s *appService) Register(ctx context.Context, req RegisterRequest) (*UserResult, error) {
	if req.Password == "" {
		return nil, &core.InvalidRequestError{Reason: "password is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Name, req.Email, string(hash), req.Establishment)
	if err != nil {
		return nil, err
	}
	return toUserResult(user), nil
}

func (s *appService) Authenticate(ctx context.Context, email, password string) (*UserResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return toUserResult(user), nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResult(user), nil
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context, userID int) ([]CustomerResult, error) {
	customers, err := s.customers.GetCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]CustomerResult, 0, len(customers))
	for _, c := range customers {
		results = append(results, toCustomerResult(&c))
	}
	return results, nil
}

func (s *appService) CreateCustomer(ctx context.Context, userID int, req CreateCustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.CreateCustomer(ctx, userID, req.Name, req.Phone, req.Credit, req.Reference)
	if err != nil {
		return nil, err
	}
	r := toCustomerResult(c)
	return &r, nil
}

func (s *appService) GetCustomer(ctx context.Context, userID, customerID int) (*CustomerResult, error) {
	c, err := s.customers.GetCustomer(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	r := toCustomerResult(c)
	return &r, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, userID, customerID int, req UpdateCustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.UpdateCustomer(ctx, userID, customerID, core.CustomerInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Credit:    req.Credit,
		Reference: req.Reference,
	})
	if err != nil {
		return nil, err
	}
	r := toCustomerResult(c)
	return &r, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, userID, customerID int) error {
	return s.customers.DeleteCustomer(ctx, userID, customerID)
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) ([]ProductResult, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ProductResult, 0, len(products))
	for _, p := range products {
		results = append(results, toProductResult(&p))
	}
	return results, nil
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	p, err := s.products.CreateProduct(ctx, req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	r := toProductResult(p)
	return &r, nil
}

func (s *appService) GetProduct(ctx context.Context, productID int) (*ProductResult, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	r := toProductResult(p)
	return &r, nil
}

func (s *appService) UpdateProduct(ctx context.Context, productID int, req UpdateProductRequest) (*ProductResult, error) {
	p, err := s.products.UpdateProduct(ctx, productID, core.ProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		return nil, err
	}
	r := toProductResult(p)
	return &r, nil
}

func (s *appService) DeleteProduct(ctx context.Context, productID int) error {
	return s.products.DeleteProduct(ctx, productID)
}

// ── Sales ────────────────────────────────────────────────────────────────────

func (s *appService) CreateSale(ctx context.Context, userID int, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.CreateSale(ctx, userID, toSaleInput(req))
	if err != nil {
		return nil, err
	}
	return toSaleResult(sale), nil
}

func (s *appService) ReplaceSale(ctx context.Context, userID, saleID int, req SaleRequest) (*SaleResult, error) {
	sale, err := s.sales.ReplaceSale(ctx, userID, saleID, toSaleInput(req))
	if err != nil {
		return nil, err
	}
	return toSaleResult(sale), nil
}

func (s *appService) DeleteSale(ctx context.Context, userID, saleID int) error {
	return s.sales.DeleteSale(ctx, userID, saleID)
}

func (s *appService) GetSale(ctx context.Context, userID, saleID int) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, userID, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResult(sale), nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) SalesReport(ctx context.Context, userID int) ([]SaleResult, error) {
	reports, err := s.reports.SalesReport(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]SaleResult, 0, len(reports))
	for i := range reports {
		results = append(results, toSaleReportResult(&reports[i]))
	}
	return results, nil
}

func (s *appService) SummaryReport(ctx context.Context, userID int, from, to, customerID string) (*SummaryResult, error) {
	filter, err := core.ParseSummaryFilter(from, to, customerID)
	if err != nil {
		return nil, err
	}

	summary, err := s.reports.SummaryReport(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	result := &SummaryResult{
		TotalSales:   summary.TotalSales,
		TotalRevenue: summary.TotalRevenue,
	}
	if summary.BestSellingProduct != nil {
		result.BestSellingProduct = &BestProductResult{
			ID:           summary.BestSellingProduct.ID,
			Name:         summary.BestSellingProduct.Name,
			QuantitySold: summary.BestSellingProduct.QuantitySold,
		}
	}
	if summary.TopCustomer != nil {
		result.TopCustomer = &TopCustomerResult{
			ID:        summary.TopCustomer.ID,
			Name:      summary.TopCustomer.Name,
			SaleCount: summary.TopCustomer.SaleCount,
		}
	}
	return result, nil
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func toUserResult(u *core.User) *UserResult {
	return &UserResult{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Establishment: u.Establishment,
	}
}

func toCustomerResult(c *core.Customer) CustomerResult {
	return CustomerResult{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Credit:    c.Credit,
		Reference: c.Reference,
	}
}

func toProductResult(p *core.Product) ProductResult {
	return ProductResult{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
}

func toSaleInput(req SaleRequest) core.SaleInput {
	input := core.SaleInput{
		CustomerID:   req.CustomerID,
		CreditAmount: req.Value,
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, core.SaleItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return input
}

func toSaleResult(sale *core.Sale) *SaleResult {
	result := &SaleResult{
		ID:           sale.ID,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		Date:         sale.CreatedAt,
		Total:        sale.Total(),
		Value:        sale.DisplayValue(),
		Items:        make([]SaleItemResult, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		result.Items = append(result.Items, SaleItemResult{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	return result
}

func toSaleReportResult(r *core.SaleReport) SaleResult {
	result := SaleResult{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Date:         r.CreatedAt,
		Total:        r.Total,
		Value:        r.Value,
		Items:        make([]SaleItemResult, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		result.Items = append(result.Items, SaleItemResult{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return result
}
