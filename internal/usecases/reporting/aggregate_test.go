package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

func day(value string) time.Time {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return d
}

func structuredRecord(id, sellerID int, date string, items []domain.LineItem) *domain.Record {
	raw, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}

	return &domain.Record{
		ID:           id,
		Date:         day(date),
		SellerID:     sellerID,
		LineItemsRaw: raw,
	}
}

func legacyRecord(id, sellerID int, date, productName string, quantity int, unitPrice string) *domain.Record {
	return &domain.Record{
		ID:          id,
		Date:        day(date),
		SellerID:    sellerID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   decimal.RequireFromString(unitPrice),
	}
}

// assertSums compara as somas por igualdade numérica, já que a
// representação textual de um decimal depende do expoente
func assertSums(t *testing.T, result *domain.AggregationResult, expected []string) {
	t.Helper()

	require.Len(t, result.Sums, len(expected))
	for i, want := range expected {
		assert.True(t, result.Sums[i].Equal(decimal.RequireFromString(want)),
			"sum[%d]: expected %s, got %s", i, want, result.Sums[i].String())
	}
}

func TestNormalizeLineItems(t *testing.T) {
	t.Run("Payload estruturado válido", func(t *testing.T) {
		record := structuredRecord(1, 1, "2024-01-15", []domain.LineItem{
			{ProductName: "Cartão de visita", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
			{ProductName: "Banner", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
		})

		items, err := NormalizeLineItems(record)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Cartão de visita", items[0].ProductName)
		assert.Equal(t, "21", items[0].Subtotal().String())
	})

	t.Run("Registro legado vira um único item", func(t *testing.T) {
		record := legacyRecord(2, 1, "2024-01-15", "Flyer", 100, "0.35")

		items, err := NormalizeLineItems(record)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Flyer", items[0].ProductName)
		assert.Equal(t, "35", items[0].Subtotal().String())
	})

	t.Run("JSON que não é lista de itens é malformado", func(t *testing.T) {
		record := &domain.Record{ID: 3, Date: day("2024-01-15"), LineItemsRaw: []byte(`{"oops": true}`)}

		_, err := NormalizeLineItems(record)
		assert.ErrorIs(t, err, ErrMalformedLineItems)
	})

	t.Run("Item com quantidade zero é malformado", func(t *testing.T) {
		record := &domain.Record{
			ID:           4,
			Date:         day("2024-01-15"),
			LineItemsRaw: []byte(`[{"product_name":"Banner","quantity":0,"unit_price":"10"}]`),
		}

		_, err := NormalizeLineItems(record)
		assert.ErrorIs(t, err, ErrMalformedLineItems)
	})

	t.Run("Lista vazia cai no formato legado", func(t *testing.T) {
		record := legacyRecord(5, 1, "2024-01-15", "Adesivo", 10, "1.20")
		record.LineItemsRaw = []byte(`[]`)

		items, err := NormalizeLineItems(record)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Adesivo", items[0].ProductName)
	})

	t.Run("Sem payload e sem dados legados é malformado", func(t *testing.T) {
		record := &domain.Record{ID: 6, Date: day("2024-01-15")}

		_, err := NormalizeLineItems(record)
		assert.ErrorIs(t, err, ErrMalformedLineItems)
	})
}

func TestAggregate_DefaultFilters(t *testing.T) {
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-01-15", "Flyer", 2, "10.00"),
		legacyRecord(2, 2, "2024-01-18", "Banner", 1, "50.00"),
	}

	// Sem filtros: bucket semanal, todos os vendedores e produtos
	result := Aggregate(records, domain.ReportFilters{})

	require.Equal(t, []string{"2024-01-15 to 2024-01-21"}, result.Labels)
	assertSums(t, result, []string{"70"})
}

func TestAggregate_LabelsInFirstSeenOrder(t *testing.T) {
	// Registros fora de ordem cronológica: os rótulos seguem a ordem dos
	// registros, nunca são reordenados
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-03-10", "Flyer", 1, "10.00"),
		legacyRecord(2, 1, "2024-01-05", "Flyer", 1, "20.00"),
		legacyRecord(3, 1, "2024-03-11", "Flyer", 1, "5.00"),
	}

	result := Aggregate(records, domain.ReportFilters{Bucket: domain.BucketMonth})

	assert.Equal(t, []string{"March 2024", "January 2024"}, result.Labels)
	assertSums(t, result, []string{"15", "20"})
}

func TestAggregate_SellerFilter(t *testing.T) {
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-01-15", "Flyer", 1, "10.00"),
		legacyRecord(2, 2, "2024-01-15", "Flyer", 1, "25.00"),
		legacyRecord(3, 1, "2024-01-16", "Banner", 1, "40.00"),
	}

	result := Aggregate(records, domain.ReportFilters{
		Bucket: domain.BucketDay,
		Seller: "1",
	})

	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, result.Labels)
	assertSums(t, result, []string{"10", "40"})
}

func TestAggregate_ProductFilterPerLineItem(t *testing.T) {
	// O filtro de produto atua item a item: o registro conta parcialmente
	records := []*domain.Record{
		structuredRecord(1, 1, "2024-01-15", []domain.LineItem{
			{ProductName: "Cartão", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductName: "Banner", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
		}),
		structuredRecord(2, 1, "2024-01-16", []domain.LineItem{
			{ProductName: "Banner", Quantity: 2, UnitPrice: decimal.RequireFromString("75.00")},
		}),
	}

	result := Aggregate(records, domain.ReportFilters{
		Bucket:  domain.BucketDay,
		Product: "Banner",
	})

	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, result.Labels)
	assertSums(t, result, []string{"80", "150"})
}

func TestAggregate_ProductFilterNeverExceedsUnfiltered(t *testing.T) {
	records := []*domain.Record{
		structuredRecord(1, 1, "2024-01-15", []domain.LineItem{
			{ProductName: "Cartão", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductName: "Banner", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
		}),
		structuredRecord(2, 2, "2024-01-16", []domain.LineItem{
			{ProductName: "Banner", Quantity: 2, UnitPrice: decimal.RequireFromString("75.00")},
		}),
		legacyRecord(3, 1, "2024-01-16", "Flyer", 100, "0.35"),
	}

	unfiltered := Aggregate(records, domain.ReportFilters{Bucket: domain.BucketDay})
	totalByLabel := make(map[string]decimal.Decimal)
	for i, label := range unfiltered.Labels {
		totalByLabel[label] = unfiltered.Sums[i]
	}

	// Filtrar por produto nunca aumenta a soma de um bucket
	for _, product := range []string{"Cartão", "Banner", "Flyer"} {
		filtered := Aggregate(records, domain.ReportFilters{Bucket: domain.BucketDay, Product: product})
		for i, label := range filtered.Labels {
			total, seen := totalByLabel[label]
			require.True(t, seen, "produto %s criou o bucket %s que não existe sem filtro", product, label)
			assert.True(t, filtered.Sums[i].LessThanOrEqual(total),
				"produto %s, bucket %s: %s > %s", product, label, filtered.Sums[i].String(), total.String())
		}
	}
}

func TestAggregate_RecordWithoutSurvivingItemsCreatesNoBucket(t *testing.T) {
	records := []*domain.Record{
		structuredRecord(1, 1, "2024-01-15", []domain.LineItem{
			{ProductName: "Cartão", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		}),
	}

	result := Aggregate(records, domain.ReportFilters{
		Bucket:  domain.BucketDay,
		Product: "Banner",
	})

	assert.Empty(t, result.Labels)
	assert.Empty(t, result.Sums)
}

func TestAggregate_MalformedRecordIsSkipped(t *testing.T) {
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-01-15", "Flyer", 1, "10.00"),
		{
			ID:           2,
			Date:         day("2024-01-15"),
			SellerID:     1,
			LineItemsRaw: []byte(`not json at all`),
		},
		legacyRecord(3, 1, "2024-01-15", "Flyer", 1, "15.00"),
	}

	result := Aggregate(records, domain.ReportFilters{Bucket: domain.BucketDay})

	// O registro malformado não aborta o lote nem contribui para a soma
	require.Equal(t, []string{"2024-01-15"}, result.Labels)
	assertSums(t, result, []string{"25"})
}

func TestAggregate_EmptyInput(t *testing.T) {
	result := Aggregate(nil, domain.ReportFilters{})

	require.NotNil(t, result)
	assert.NotNil(t, result.Labels)
	assert.NotNil(t, result.Sums)
	assert.Empty(t, result.Labels)
}

func TestAggregate_LabelsAndSumsAlwaysParallel(t *testing.T) {
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-01-15", "Flyer", 1, "10.00"),
		legacyRecord(2, 2, "2024-02-20", "Banner", 1, "50.00"),
		legacyRecord(3, 1, "2024-03-25", "Cartão", 3, "2.50"),
	}

	for _, bucket := range []string{domain.BucketDay, domain.BucketWeek, domain.BucketMonth, domain.BucketYear} {
		result := Aggregate(records, domain.ReportFilters{Bucket: bucket})
		assert.Len(t, result.Sums, len(result.Labels), "bucket %s", bucket)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []*domain.Record{
		legacyRecord(1, 1, "2024-01-15", "Flyer", 2, "10.00"),
		legacyRecord(2, 2, "2024-01-16", "Banner", 1, "50.00"),
	}
	filters := domain.ReportFilters{Bucket: domain.BucketDay}

	first := Aggregate(records, filters)
	second := Aggregate(records, filters)

	assert.Equal(t, first.Labels, second.Labels)
	require.Len(t, second.Sums, len(first.Sums))
	for i := range first.Sums {
		assert.True(t, first.Sums[i].Equal(second.Sums[i]))
	}
}

func TestAggregate_DecimalSumsAreExact(t *testing.T) {
	// 0.1 somado dez vezes precisa dar exatamente 1, sem ruído binário
	records := make([]*domain.Record, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, legacyRecord(i+1, 1, "2024-01-15", "Adesivo", 1, "0.10"))
	}

	result := Aggregate(records, domain.ReportFilters{Bucket: domain.BucketDay})

	require.Len(t, result.Sums, 1)
	assert.True(t, result.Sums[0].Equal(decimal.NewFromInt(1)))
}

func TestFacets(t *testing.T) {
	records := []*domain.Record{
		structuredRecord(1, 1, "2024-01-15", []domain.LineItem{
			{ProductName: "Cartão", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductName: "Banner", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
		}),
		legacyRecord(2, 2, "2024-01-16", "Flyer", 1, "0.50"),
		structuredRecord(3, 1, "2024-01-17", []domain.LineItem{
			{ProductName: "Banner", Quantity: 2, UnitPrice: decimal.RequireFromString("75.00")},
		}),
	}
	records[0].Seller = &domain.UserSummary{ID: 1, Name: "Maria", Lastname: "Silva"}
	records[1].Seller = &domain.UserSummary{ID: 2, Name: "João"}
	records[2].Seller = &domain.UserSummary{ID: 1, Name: "Maria", Lastname: "Silva"}

	facets := Facets(records)

	require.Len(t, facets.Sellers, 2)
	assert.Equal(t, "Maria Silva", facets.Sellers[0].Name)
	assert.Equal(t, "João", facets.Sellers[1].Name)
	assert.Equal(t, []string{"Cartão", "Banner", "Flyer"}, facets.Products)
}

func TestFacets_MalformedRecordStillContributesSeller(t *testing.T) {
	records := []*domain.Record{
		{
			ID:           1,
			Date:         day("2024-01-15"),
			SellerID:     7,
			Seller:       &domain.UserSummary{ID: 7, Name: "Ana"},
			LineItemsRaw: []byte(`broken`),
		},
	}

	facets := Facets(records)

	require.Len(t, facets.Sellers, 1)
	assert.Equal(t, 7, facets.Sellers[0].ID)
	assert.Empty(t, facets.Products)
}
