package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserResult is the public account profile.
type UserResult struct {
	ID            int    `json:"id"`
	Name          string `json:"nome"`
	Email         string `json:"email"`
	Establishment string `json:"estabelecimento"`
}

// CustomerResult is the wire form of a customer.
type CustomerResult struct {
	ID        int             `json:"id"`
	Name      string          `json:"nome"`
	Phone     string          `json:"telefone"`
	Credit    decimal.Decimal `json:"fiado"`
	Reference string          `json:"referencia"`
}

// ProductResult is the wire form of a product.
type ProductResult struct {
	ID    int             `json:"id"`
	Name  string          `json:"nome"`
	Price decimal.Decimal `json:"preco"`
	Stock int             `json:"estoque"`
}

// SaleItemResult is one line of a sale with its materialized subtotal.
type SaleItemResult struct {
	ProductID   int             `json:"produto_id"`
	ProductName string          `json:"produto_nome"`
	Quantity    int             `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"preco_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResult is the wire form of a sale. Total is the sum of item subtotals;
// Value ("valor") is the bare-credit amount when non-zero, the total
// otherwise.
type SaleResult struct {
	ID           int              `json:"id"`
	CustomerID   *int             `json:"cliente_id"`
	CustomerName *string          `json:"cliente_nome"`
	Date         time.Time        `json:"data"`
	Total        decimal.Decimal  `json:"total"`
	Value        decimal.Decimal  `json:"valor"`
	Items        []SaleItemResult `json:"itens"`
}

// BestProductResult names the best-selling product of a summary period.
type BestProductResult struct {
	ID           int    `json:"id"`
	Name         string `json:"nome"`
	QuantitySold int    `json:"quantidade_vendida"`
}

// TopCustomerResult names the most frequent customer of a summary period.
type TopCustomerResult struct {
	ID        int    `json:"id"`
	Name      string `json:"nome"`
	SaleCount int    `json:"quantidade_compras"`
}

// SummaryResult is the body of GET /relatorios/resumo.
type SummaryResult struct {
	TotalSales         int                `json:"total_vendas"`
	TotalRevenue       decimal.Decimal    `json:"faturamento_total"`
	BestSellingProduct *BestProductResult `json:"produto_mais_vendido"`
	TopCustomer        *TopCustomerResult `json:"cliente_mais_compras"`
}
