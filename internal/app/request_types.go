package app

import "github.com/shopspring/decimal"

// Wire field names follow the original storefront contract (Portuguese),
// so the existing frontend keeps working unchanged.

// RegisterRequest is the body of POST /auth/cadastro.
type RegisterRequest struct {
	Name          string `json:"nome"`
	Email         string `json:"email"`
	Password      string `json:"senha"`
	Establishment string `json:"estabelecimento"`
}

// CreateCustomerRequest is the body of POST /clientes.
type CreateCustomerRequest struct {
	Name      string          `json:"nome"`
	Phone     string          `json:"telefone"`
	Credit    decimal.Decimal `json:"fiado"`
	Reference string          `json:"referencia"`
}

// UpdateCustomerRequest is the body of PUT /clientes/{id}; absent fields keep
// their stored values.
type UpdateCustomerRequest struct {
	Name      *string          `json:"nome"`
	Phone     *string          `json:"telefone"`
	Credit    *decimal.Decimal `json:"fiado"`
	Reference *string          `json:"referencia"`
}

// CreateProductRequest is the body of POST /produtos.
type CreateProductRequest struct {
	Name  string          `json:"nome"`
	Price decimal.Decimal `json:"preco"`
	Stock int             `json:"estoque"`
}

// UpdateProductRequest is the body of PUT /produtos/{id}; absent fields keep
// their stored values.
type UpdateProductRequest struct {
	Name  *string          `json:"nome"`
	Price *decimal.Decimal `json:"preco"`
	Stock *int             `json:"estoque"`
}

// SaleItemRequest is one requested line of a sale.
type SaleItemRequest struct {
	ProductID int `json:"produto_id"`
	Quantity  int `json:"quantidade"`
}

// SaleRequest is the body of POST /vendas and PUT /vendas/{id}. A request
// with items is an itemized sale; one without items but with a customer and
// a valor is a bare-credit ("fiado") sale.
type SaleRequest struct {
	CustomerID *int              `json:"cliente_id"`
	Items      []SaleItemRequest `json:"itens"`
	Value      decimal.Decimal   `json:"valor"`
}
