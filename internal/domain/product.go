package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type UpdateProductRequest struct {
	ID    int              `json:"id"`
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}
