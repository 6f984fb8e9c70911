package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for report date filters.
const dateLayout = "2006-01-02"

// ── Report types ──────────────────────────────────────────────────────────────

// SaleReportItem is one line of a sale in the sales report, with the
// subtotal (quantity × snapshotted unit price) materialized.
type SaleReportItem struct {
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// SaleReport is the derived read view of one sale. Total is the sum of item
// subtotals; Value is what the sale displays as: the bare-credit amount when
// non-zero, the computed total otherwise.
type SaleReport struct {
	ID           int
	CustomerID   *int
	CustomerName *string
	CreatedAt    time.Time
	Total        decimal.Decimal
	Value        decimal.Decimal
	Items        []SaleReportItem
}

// ProductSales names the best-selling product of a summary period.
type ProductSales struct {
	ID           int
	Name         string
	QuantitySold int
}

// CustomerSales names the most frequent customer of a summary period.
type CustomerSales struct {
	ID        int
	Name      string
	SaleCount int
}

// Summary aggregates the filtered sale set. Bare-credit sales count toward
// TotalSales but contribute nothing to TotalRevenue, since they carry no items.
// BestSellingProduct and TopCustomer are nil when the filtered set has no
// qualifying items or customers.
type Summary struct {
	TotalSales         int
	TotalRevenue       decimal.Decimal
	BestSellingProduct *ProductSales
	TopCustomer        *CustomerSales
}

// SummaryFilter bounds the summary's sale set. Date bounds are inclusive on
// the sale's creation date; nil fields mean unbounded.
type SummaryFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *int
}

// ParseSummaryFilter validates the raw query-string filters. Dates must be
// YYYY-MM-DD and customerID must be an integer; empty strings mean "no
// filter".
func ParseSummaryFilter(from, to, customerID string) (SummaryFilter, error) {
	var f SummaryFilter

	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return f, invalidRequestf("invalid start date %q: expected format YYYY-MM-DD", from)
		}
		f.From = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return f, invalidRequestf("invalid end date %q: expected format YYYY-MM-DD", to)
		}
		f.To = &t
	}
	if customerID != "" {
		id, err := strconv.Atoi(customerID)
		if err != nil {
			return f, invalidRequestf("invalid customer id %q: expected an integer", customerID)
		}
		f.CustomerID = &id
	}
	return f, nil
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService computes read-only derived views over committed sale data.
// It never mutates anything.
type ReportingService interface {
	// SalesReport returns every sale of the account with per-item subtotals,
	// the computed total and the displayed value.
	SalesReport(ctx context.Context, userID int) ([]SaleReport, error)

	// SummaryReport aggregates the account's sales matching the filter:
	// sale count, revenue over line items, best-selling product and most
	// frequent customer. Ties on the "most" figures break toward the lowest id.
	SummaryReport(ctx context.Context, userID int, filter SummaryFilter) (*Summary, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

// ── SalesReport ───────────────────────────────────────────────────────────────

func (s *reportingService) SalesReport(ctx context.Context, userID int) ([]SaleReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.customer_id, c.name, s.created_at, s.credit_amount
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.user_id = $1
		ORDER BY s.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var reports []SaleReport
	var creditAmounts []decimal.Decimal
	for rows.Next() {
		var r SaleReport
		var credit decimal.Decimal
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.CustomerName, &r.CreatedAt, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		reports = append(reports, r)
		creditAmounts = append(creditAmounts, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}

	for i := range reports {
		items, err := fetchSaleItemsQ(ctx, s.pool, reports[i].ID)
		if err != nil {
			return nil, err
		}

		total := decimal.Zero
		for _, it := range items {
			subtotal := it.Subtotal()
			total = total.Add(subtotal)
			reports[i].Items = append(reports[i].Items, SaleReportItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    subtotal,
			})
		}
		reports[i].Total = total
		if !creditAmounts[i].IsZero() {
			reports[i].Value = creditAmounts[i]
		} else {
			reports[i].Value = total
		}
	}
	return reports, nil
}

// ── SummaryReport ─────────────────────────────────────────────────────────────

func (s *reportingService) SummaryReport(ctx context.Context, userID int, filter SummaryFilter) (*Summary, error) {
	where, args := summaryWhere(userID, filter)

	summary := &Summary{TotalRevenue: decimal.Zero}

	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales s"+where, args...,
	).Scan(&summary.TotalSales)
	if err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(si.quantity * si.unit_price), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id`+where, args...,
	).Scan(&summary.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	// Highest summed quantity wins; equal quantities break toward the lowest
	// product id so the result is deterministic.
	var best ProductSales
	err = s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, SUM(si.quantity)::int
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id`+where+`
		GROUP BY p.id, p.name
		ORDER BY SUM(si.quantity) DESC, p.id ASC
		LIMIT 1`, args...,
	).Scan(&best.ID, &best.Name, &best.QuantitySold)
	switch {
	case err == nil:
		summary.BestSellingProduct = &best
	case errors.Is(err, pgx.ErrNoRows):
		// no itemized sales in the filtered set
	default:
		return nil, fmt.Errorf("failed to find best-selling product: %w", err)
	}

	// Same tie-break policy for the most frequent customer.
	var top CustomerSales
	err = s.pool.QueryRow(ctx, `
		SELECT c.id, c.name, COUNT(*)::int
		FROM sales s
		JOIN customers c ON c.id = s.customer_id`+where+`
		GROUP BY c.id, c.name
		ORDER BY COUNT(*) DESC, c.id ASC
		LIMIT 1`, args...,
	).Scan(&top.ID, &top.Name, &top.SaleCount)
	switch {
	case err == nil:
		summary.TopCustomer = &top
	case errors.Is(err, pgx.ErrNoRows):
		// no sales with a customer in the filtered set
	default:
		return nil, fmt.Errorf("failed to find top customer: %w", err)
	}

	return summary, nil
}

// summaryWhere builds the shared WHERE clause over the sales table (aliased
// s) for the account and filter.
func summaryWhere(userID int, filter SummaryFilter) (string, []any) {
	where := " WHERE s.user_id = $1"
	args := []any{userID}

	if filter.From != nil {
		args = append(args, filter.From.Format(dateLayout))
		where += fmt.Sprintf(" AND s.created_at::date >= $%d::date", len(args))
	}
	if filter.To != nil {
		args = append(args, filter.To.Format(dateLayout))
		where += fmt.Sprintf(" AND s.created_at::date <= $%d::date", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += fmt.Sprintf(" AND s.customer_id = $%d", len(args))
	}
	return where, args
}
