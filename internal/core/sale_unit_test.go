package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateSaleInput(t *testing.T) {
	customer := 1
	cases := []struct {
		name    string
		input   SaleInput
		wantErr bool
	}{
		{
			name:    "itemized sale",
			input:   SaleInput{Items: []SaleItemInput{{ProductID: 1, Quantity: 2}}},
			wantErr: false,
		},
		{
			name:    "bare credit with customer",
			input:   SaleInput{CustomerID: &customer, CreditAmount: decimal.NewFromInt(10)},
			wantErr: false,
		},
		{
			name:    "zero-amount bare credit is allowed",
			input:   SaleInput{CustomerID: &customer},
			wantErr: false,
		},
		{
			name:    "no items and no customer",
			input:   SaleInput{},
			wantErr: true,
		},
		{
			name:    "negative credit amount",
			input:   SaleInput{CustomerID: &customer, CreditAmount: decimal.NewFromInt(-10)},
			wantErr: true,
		},
		{
			name: "items and credit amount together",
			input: SaleInput{
				CustomerID:   &customer,
				Items:        []SaleItemInput{{ProductID: 1, Quantity: 1}},
				CreditAmount: decimal.NewFromInt(5),
			},
			wantErr: true,
		},
		{
			name:    "zero quantity item",
			input:   SaleInput{Items: []SaleItemInput{{ProductID: 1, Quantity: 0}}},
			wantErr: true,
		},
		{
			name:    "negative quantity item",
			input:   SaleInput{Items: []SaleItemInput{{ProductID: 1, Quantity: -3}}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSaleInput(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("Expected invalid-request error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestAffectedCustomers(t *testing.T) {
	one, two := 1, 2
	cases := []struct {
		name       string
		prev, next *int
		want       []int
	}{
		{"both nil", nil, nil, nil},
		{"only previous", &one, nil, []int{1}},
		{"only next", nil, &two, []int{2}},
		{"same customer once", &one, &one, []int{1}},
		{"different customers", &one, &two, []int{1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := affectedCustomers(tc.prev, tc.next)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestSale_KindAndDisplayValue(t *testing.T) {
	itemized := Sale{
		Items: []SaleItem{
			{Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
			{Quantity: 2, UnitPrice: decimal.NewFromFloat(8.50)},
		},
	}
	if itemized.Kind() != SaleItemized {
		t.Errorf("Expected itemized, got %s", itemized.Kind())
	}
	if !itemized.Total().Equal(decimal.NewFromInt(47)) {
		t.Errorf("Expected total 47, got %s", itemized.Total())
	}
	if !itemized.DisplayValue().Equal(decimal.NewFromInt(47)) {
		t.Errorf("Expected display value 47, got %s", itemized.DisplayValue())
	}

	bare := Sale{CreditAmount: decimal.NewFromInt(25)}
	if bare.Kind() != SaleBareCredit {
		t.Errorf("Expected bare credit, got %s", bare.Kind())
	}
	if !bare.Total().IsZero() {
		t.Errorf("Expected total 0, got %s", bare.Total())
	}
	if !bare.DisplayValue().Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected display value 25, got %s", bare.DisplayValue())
	}
}

func TestSaleItem_Subtotal(t *testing.T) {
	it := SaleItem{Quantity: 4, UnitPrice: decimal.NewFromFloat(2.75)}
	if !it.Subtotal().Equal(decimal.NewFromInt(11)) {
		t.Errorf("Expected subtotal 11, got %s", it.Subtotal())
	}
}
