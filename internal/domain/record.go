package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro comercial
const (
	RecordKindSale     = "sale"
	RecordKindPurchase = "purchase"
)

// LineItem é um item de produto dentro de uma venda ou compra.
// Pertence exclusivamente ao registro pai, sem ciclo de vida próprio.
type LineItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal retorna quantidade * preço unitário do item
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Record representa uma venda ou compra. O payload de itens fica em
// LineItemsRaw e é decodificado uma única vez pelo módulo de relatórios;
// registros legados guardam um único produto nas colunas ProductName,
// Quantity e UnitPrice, com LineItemsRaw vazio.
type Record struct {
	ID           int             `json:"id"`
	Date         time.Time       `json:"date"`
	SellerID     int             `json:"seller_id"`
	ClientID     *int            `json:"client_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineItemsRaw json.RawMessage `json:"line_items"`
	Seller       *UserSummary    `json:"seller,omitempty"`
	Client       *UserSummary    `json:"client,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreateRecordRequest struct {
	Date        string          `json:"date"`
	SellerID    int             `json:"seller_id"`
	ClientID    *int            `json:"client_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineItems   []LineItem      `json:"line_items"`
}

type UpdateRecordRequest struct {
	Date        *string          `json:"date"`
	SellerID    *int             `json:"seller_id"`
	ClientID    *int             `json:"client_id"`
	ProductName *string          `json:"product_name"`
	Quantity    *int             `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineItems   []LineItem       `json:"line_items"`
}

// RecordScope é o recorte de visibilidade de registros para uma identidade.
// É aplicado pelas repositories na cláusula WHERE das listagens.
type RecordScope struct {
	All      bool
	SellerID *int
	ClientID *int
	ReadOnly bool
}
