package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularidades de agrupamento temporal dos relatórios
const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
	BucketYear  = "year"
)

// FilterAll é o valor neutro dos filtros de vendedor e produto
const FilterAll = "all"

// ReportFilters são os parâmetros de agregação controlados pelo usuário.
// Cada um pode voltar ao seu padrão de forma independente.
type ReportFilters struct {
	Bucket  string `json:"bucket"`
	Seller  string `json:"seller"`
	Product string `json:"product"`
}

// DefaultReportFilters retorna os filtros padrão (semana, todos, todos)
func DefaultReportFilters() ReportFilters {
	return ReportFilters{
		Bucket:  BucketWeek,
		Seller:  FilterAll,
		Product: FilterAll,
	}
}

// AggregationResult é a série temporal consumida pelo gráfico: Labels e
// Sums são paralelos e os rótulos ficam na ordem em que aparecem nos
// registros, nunca reordenados.
type AggregationResult struct {
	Labels []string          `json:"labels"`
	Sums   []decimal.Decimal `json:"sums"`
}

// SellerFacet é uma opção do filtro de vendedor
type SellerFacet struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReportFacets alimenta os seletores de filtro antes da agregação rodar
type ReportFacets struct {
	Sellers  []SellerFacet `json:"sellers"`
	Products []string      `json:"products"`
}

// ReportSnapshot é o total diário pré-calculado pelo agendador noturno
type ReportSnapshot struct {
	ID        int             `json:"id"`
	Kind      string          `json:"kind"`
	Date      time.Time       `json:"date"`
	Label     string          `json:"label"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
