package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/sales-manager-api/infrastructure/cache"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/recording"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

// Reporter gera relatórios de vendas e compras já recortados pela regra
// de visibilidade da identidade
type Reporter interface {
	Report(ctx context.Context, claims *domain.Claims, kind string, filters domain.ReportFilters) (*domain.AggregationResult, error)
	ReportFacets(ctx context.Context, claims *domain.Claims, kind string) (*domain.ReportFacets, error)
}

type Service struct {
	saleRepo     repository.RecordRepository
	purchaseRepo repository.RecordRepository
	reportCache  cache.ReportCache
	cacheTTL     time.Duration
}

func NewService(
	saleRepo repository.RecordRepository,
	purchaseRepo repository.RecordRepository,
) Reporter {
	return &Service{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		reportCache:  cache.NoopReportCache{},
	}
}

// WithCache habilita o cache de resultados de agregação. O carimbo de
// versão do conjunto de registros faz parte da chave, então uma mutação
// muda a chave e a entrada velha fica órfã até expirar pelo TTL.
func (s *Service) WithCache(reportCache cache.ReportCache, ttl time.Duration) *Service {
	s.reportCache = reportCache
	s.cacheTTL = ttl
	return s
}

func (s *Service) Report(ctx context.Context, claims *domain.Claims, kind string, filters domain.ReportFilters) (*domain.AggregationResult, error) {
	scope, err := recording.ScopeFor(claims)
	if err != nil {
		return nil, err
	}

	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}

	cacheKey := ""
	if s.cacheTTL > 0 {
		stamp, err := repo.VersionStamp(scope)
		if err != nil {
			log.ForContext(ctx).WithError(err).Warn("Falha ao obter a versão dos registros, relatório segue sem cache")
		} else {
			cacheKey = reportCacheKey(kind, scope, filters, stamp)
			if cached, found, err := s.reportCache.Get(ctx, cacheKey); err != nil {
				log.ForContext(ctx).WithError(err).Warn("Falha ao consultar cache de relatório")
			} else if found {
				return cached, nil
			}
		}
	}

	records, err := repo.List(scope)
	if err != nil {
		return nil, err
	}

	result := Aggregate(records, filters)

	if cacheKey != "" {
		if err := s.reportCache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			log.ForContext(ctx).WithError(err).Warn("Falha ao salvar relatório no cache")
		}
	}

	return result, nil
}

func (s *Service) ReportFacets(ctx context.Context, claims *domain.Claims, kind string) (*domain.ReportFacets, error) {
	scope, err := recording.ScopeFor(claims)
	if err != nil {
		return nil, err
	}

	repo, err := s.repoFor(kind)
	if err != nil {
		return nil, err
	}

	records, err := repo.List(scope)
	if err != nil {
		return nil, err
	}

	return Facets(records), nil
}

func (s *Service) repoFor(kind string) (repository.RecordRepository, error) {
	switch kind {
	case domain.RecordKindSale:
		return s.saleRepo, nil
	case domain.RecordKindPurchase:
		return s.purchaseRepo, nil
	default:
		return nil, fmt.Errorf("tipo de registro desconhecido: %s", kind)
	}
}

// reportCacheKey inclui o recorte da identidade, para que roles diferentes
// nunca compartilhem entradas, e o carimbo de versão do conjunto de
// registros, para que somas velhas nunca sobrevivam a uma mutação
func reportCacheKey(kind string, scope domain.RecordScope, filters domain.ReportFilters, stamp string) string {
	scopeKey := "all"
	switch {
	case scope.SellerID != nil:
		scopeKey = fmt.Sprintf("seller:%d", *scope.SellerID)
	case scope.ClientID != nil:
		scopeKey = fmt.Sprintf("client:%d", *scope.ClientID)
	}

	return fmt.Sprintf("report:%s:%s:v=%s:b=%s:s=%s:p=%s", kind, scopeKey, stamp, filters.Bucket, filters.Seller, filters.Product)
}
