package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

var validBuckets = map[string]bool{
	domain.BucketDay:   true,
	domain.BucketWeek:  true,
	domain.BucketMonth: true,
	domain.BucketYear:  true,
}

// Report agrega vendas ou compras conforme os filtros da query string.
// Filtros ausentes caem nos padrões (semana, todos, todos) de forma
// independente entre si.
func Report(service reporting.Reporter, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		filters := domain.DefaultReportFilters()

		if bucket := r.URL.Query().Get("bucket"); bucket != "" {
			if !validBuckets[bucket] {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Agrupamento inválido: use day, week, month ou year", nil)
				return
			}
			filters.Bucket = bucket
		}

		if seller := r.URL.Query().Get("seller"); seller != "" {
			filters.Seller = seller
		}

		if product := r.URL.Query().Get("product"); product != "" {
			filters.Product = product
		}

		result, err := service.Report(r.Context(), userClaims, kind, filters)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// ReportFacets retorna as opções de filtro (vendedores e produtos)
// visíveis para a identidade do token
func ReportFacets(service reporting.Reporter, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, _ := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)

		facets, err := service.ReportFacets(r.Context(), userClaims, kind)
		if err != nil {
			handleRecordError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(facets)
	}
}
