package core_test

import (
	"context"
	"errors"
	"testing"

	"mercadinho-pos/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func setupReportingTestDB(t *testing.T) (*pgxpool.Pool, core.SaleService, core.ReportingService, context.Context) {
	t.Helper()
	pool := setupTestDB(t)
	return pool, core.NewSaleService(pool), core.NewReportingService(pool), context.Background()
}

func TestReporting_Summary_TotalsAndRevenue(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	// Two itemized sales (3×10 + 2×8 = 46) and one bare-credit sale of 15.
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(1),
		Items:      []core.SaleItemInput{{ProductID: 1, Quantity: 3}},
	}); err != nil {
		t.Fatalf("CreateSale 1 failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Items: []core.SaleItemInput{{ProductID: 2, Quantity: 2}},
	}); err != nil {
		t.Fatalf("CreateSale 2 failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID:   intPtr(2),
		CreditAmount: decimal.NewFromInt(15),
	}); err != nil {
		t.Fatalf("CreateSale 3 failed: %v", err)
	}

	summary, err := reports.SummaryReport(ctx, 1, core.SummaryFilter{})
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}

	// The bare-credit sale counts as a sale but carries no item revenue.
	if summary.TotalSales != 3 {
		t.Errorf("Expected 3 total sales, got %d", summary.TotalSales)
	}
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(46)) {
		t.Errorf("Expected revenue 46, got %s", summary.TotalRevenue)
	}
	if summary.BestSellingProduct == nil || summary.BestSellingProduct.ID != 1 {
		t.Errorf("Expected best-selling product 1, got %+v", summary.BestSellingProduct)
	}
}

func TestReporting_Summary_EmptySet(t *testing.T) {
	pool, _, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	summary, err := reports.SummaryReport(ctx, 1, core.SummaryFilter{})
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.TotalSales != 0 {
		t.Errorf("Expected 0 sales, got %d", summary.TotalSales)
	}
	if !summary.TotalRevenue.IsZero() {
		t.Errorf("Expected revenue 0, got %s", summary.TotalRevenue)
	}
	if summary.BestSellingProduct != nil {
		t.Errorf("Expected nil best-selling product, got %+v", summary.BestSellingProduct)
	}
	if summary.TopCustomer != nil {
		t.Errorf("Expected nil top customer, got %+v", summary.TopCustomer)
	}
}

func TestReporting_Summary_TieBreaksTowardLowestID(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	// Products 1 and 2 each sell 4 units; customers 1 and 2 each buy once.
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(2),
		Items:      []core.SaleItemInput{{ProductID: 2, Quantity: 4}},
	}); err != nil {
		t.Fatalf("CreateSale 1 failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(1),
		Items:      []core.SaleItemInput{{ProductID: 1, Quantity: 4}},
	}); err != nil {
		t.Fatalf("CreateSale 2 failed: %v", err)
	}

	summary, err := reports.SummaryReport(ctx, 1, core.SummaryFilter{})
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.BestSellingProduct == nil || summary.BestSellingProduct.ID != 1 {
		t.Errorf("Tied products must resolve to the lowest id, got %+v", summary.BestSellingProduct)
	}
	if summary.TopCustomer == nil || summary.TopCustomer.ID != 1 {
		t.Errorf("Tied customers must resolve to the lowest id, got %+v", summary.TopCustomer)
	}
}

func TestReporting_Summary_CustomerFilter(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(1),
		Items:      []core.SaleItemInput{{ProductID: 1, Quantity: 2}},
	}); err != nil {
		t.Fatalf("CreateSale 1 failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(2),
		Items:      []core.SaleItemInput{{ProductID: 2, Quantity: 1}},
	}); err != nil {
		t.Fatalf("CreateSale 2 failed: %v", err)
	}

	summary, err := reports.SummaryReport(ctx, 1, core.SummaryFilter{CustomerID: intPtr(1)})
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.TotalSales != 1 {
		t.Errorf("Expected 1 sale for customer 1, got %d", summary.TotalSales)
	}
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected revenue 20, got %s", summary.TotalRevenue)
	}
	if summary.TopCustomer == nil || summary.TopCustomer.ID != 1 {
		t.Errorf("Expected top customer 1, got %+v", summary.TopCustomer)
	}
}

func TestReporting_Summary_DateFilterExcludesOutsideRange(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	sale, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Items: []core.SaleItemInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	// Backdate the sale so a recent window excludes it.
	if _, err := pool.Exec(ctx,
		"UPDATE sales SET created_at = '2020-01-15T12:00:00Z' WHERE id = $1", sale.ID,
	); err != nil {
		t.Fatalf("Failed to backdate sale: %v", err)
	}

	filter, err := core.ParseSummaryFilter("2020-01-01", "2020-01-31", "")
	if err != nil {
		t.Fatalf("ParseSummaryFilter failed: %v", err)
	}
	summary, err := reports.SummaryReport(ctx, 1, filter)
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.TotalSales != 1 {
		t.Errorf("Expected the backdated sale inside the window, got %d sales", summary.TotalSales)
	}

	filter, err = core.ParseSummaryFilter("2020-02-01", "", "")
	if err != nil {
		t.Fatalf("ParseSummaryFilter failed: %v", err)
	}
	summary, err = reports.SummaryReport(ctx, 1, filter)
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.TotalSales != 0 {
		t.Errorf("Expected no sales after the window, got %d", summary.TotalSales)
	}
}

func TestReporting_SalesReport_ValueFallsBackToTotal(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID: intPtr(1),
		Items:      []core.SaleItemInput{{ProductID: 1, Quantity: 3}},
	}); err != nil {
		t.Fatalf("CreateSale itemized failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		CustomerID:   intPtr(1),
		CreditAmount: decimal.NewFromInt(12),
	}); err != nil {
		t.Fatalf("CreateSale bare-credit failed: %v", err)
	}

	report, err := reports.SalesReport(ctx, 1)
	if err != nil {
		t.Fatalf("SalesReport failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("Expected 2 report rows, got %d", len(report))
	}

	// Newest first: the bare-credit sale displays its credit amount with no
	// items; the itemized one displays its computed total.
	bare, itemized := report[0], report[1]
	if !bare.Value.Equal(decimal.NewFromInt(12)) || !bare.Total.IsZero() {
		t.Errorf("Bare-credit row: expected value 12, total 0; got value %s, total %s", bare.Value, bare.Total)
	}
	if len(bare.Items) != 0 {
		t.Errorf("Bare-credit row must have no items, got %d", len(bare.Items))
	}
	if !itemized.Value.Equal(decimal.NewFromInt(30)) || !itemized.Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Itemized row: expected value and total 30; got value %s, total %s", itemized.Value, itemized.Total)
	}
	if len(itemized.Items) != 1 || !itemized.Items[0].Subtotal.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Itemized row: expected one item with subtotal 30, got %+v", itemized.Items)
	}
}

func TestReporting_Summary_ScopedToAccount(t *testing.T) {
	pool, sales, reports, ctx := setupReportingTestDB(t)
	defer pool.Close()

	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Items: []core.SaleItemInput{{ProductID: 1, Quantity: 5}},
	}); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	summary, err := reports.SummaryReport(ctx, 2, core.SummaryFilter{})
	if err != nil {
		t.Fatalf("SummaryReport failed: %v", err)
	}
	if summary.TotalSales != 0 {
		t.Errorf("User 2 must not see user 1's sales, got %d", summary.TotalSales)
	}
}

func TestParseSummaryFilter_RejectsGarbage(t *testing.T) {
	cases := []struct {
		name               string
		from, to, customer string
	}{
		{"bad start date", "15/01/2020", "", ""},
		{"bad end date", "", "not-a-date", ""},
		{"bad customer id", "", "", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.ParseSummaryFilter(tc.from, tc.to, tc.customer)
			if !errors.Is(err, core.ErrInvalidRequest) {
				t.Errorf("Expected invalid-request error, got %v", err)
			}
		})
	}
}
