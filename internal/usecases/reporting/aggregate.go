package reporting

import (
	"bytes"
	"errors"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedLineItems indica que o payload de itens de um registro não é
// um JSON estruturado válido. É um diagnóstico por registro: o registro é
// excluído da agregação e o lote continua.
var ErrMalformedLineItems = errors.New("payload de itens do registro inválido")

var nullPayload = []byte("null")

// NormalizeLineItems obtém os itens de um registro com uma única
// decodificação validada: payload estruturado quando existe, senão o
// formato legado de produto único é sintetizado como um item
func NormalizeLineItems(record *domain.Record) ([]domain.LineItem, error) {
	raw := bytes.TrimSpace(record.LineItemsRaw)

	if len(raw) > 0 && !bytes.Equal(raw, nullPayload) {
		var items []domain.LineItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, ErrMalformedLineItems
		}

		if len(items) > 0 {
			for _, item := range items {
				if item.ProductName == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
					return nil, ErrMalformedLineItems
				}
			}
			return items, nil
		}
	}

	if record.ProductName != "" && record.Quantity > 0 {
		return []domain.LineItem{{
			ProductName: record.ProductName,
			Quantity:    record.Quantity,
			UnitPrice:   record.UnitPrice,
		}}, nil
	}

	return nil, ErrMalformedLineItems
}

// Aggregate reduz os registros a uma série temporal: filtra por vendedor e
// produto, agrupa subtotais (quantidade * preço unitário) por bucket de
// calendário e preserva os rótulos na ordem do primeiro encontro, que é a
// ordem de plotagem do gráfico.
//
// É uma função pura dos registros e filtros: registros com payload de
// itens malformado são apenas pulados (com log), nunca abortam o lote, e
// entrada vazia produz um resultado vazio bem formado.
func Aggregate(records []*domain.Record, filters domain.ReportFilters) *domain.AggregationResult {
	if filters.Bucket == "" {
		filters.Bucket = domain.BucketWeek
	}
	if filters.Seller == "" {
		filters.Seller = domain.FilterAll
	}
	if filters.Product == "" {
		filters.Product = domain.FilterAll
	}

	labels := make([]string, 0)
	sums := make(map[string]decimal.Decimal)

	for _, record := range records {
		if filters.Seller != domain.FilterAll && strconv.Itoa(record.SellerID) != filters.Seller {
			continue
		}

		items, err := NormalizeLineItems(record)
		if err != nil {
			log.L.WithFields(log.Fields{
				"record_id": record.ID,
				"error":     err.Error(),
			}).Warn("Registro com itens malformados excluído da agregação")
			continue
		}

		key := ""
		for _, item := range items {
			if filters.Product != domain.FilterAll && item.ProductName != filters.Product {
				continue
			}

			// Registros sem item sobrevivente não criam bucket
			if key == "" {
				key = BucketKey(record.Date, filters.Bucket)
			}

			sum, seen := sums[key]
			if !seen {
				labels = append(labels, key)
			}
			sums[key] = sum.Add(item.Subtotal())
		}
	}

	result := &domain.AggregationResult{
		Labels: labels,
		Sums:   make([]decimal.Decimal, 0, len(labels)),
	}
	for _, label := range labels {
		result.Sums = append(result.Sums, sums[label])
	}

	return result
}

// Facets extrai as opções dos seletores de filtro: vendedores distintos
// dos registros e nomes de produto distintos de todos os itens, ambos na
// ordem do primeiro encontro. Registros com payload malformado contribuem
// com o vendedor, mas não com produtos.
func Facets(records []*domain.Record) *domain.ReportFacets {
	facets := &domain.ReportFacets{
		Sellers:  make([]domain.SellerFacet, 0),
		Products: make([]string, 0),
	}

	seenSellers := make(map[int]bool)
	seenProducts := make(map[string]bool)

	for _, record := range records {
		if record.Seller != nil && !seenSellers[record.Seller.ID] {
			seenSellers[record.Seller.ID] = true
			facets.Sellers = append(facets.Sellers, domain.SellerFacet{
				ID:   record.Seller.ID,
				Name: record.Seller.DisplayName(),
			})
		}

		items, err := NormalizeLineItems(record)
		if err != nil {
			continue
		}

		for _, item := range items {
			if !seenProducts[item.ProductName] {
				seenProducts[item.ProductName] = true
				facets.Products = append(facets.Products, item.ProductName)
			}
		}
	}

	return facets
}
