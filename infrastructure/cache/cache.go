package cache

import (
	"context"
	"time"

	"github.com/vfg2006/sales-manager-api/internal/domain"
)

// ReportCache guarda resultados de agregação já calculados por chave de
// filtro. Falhas de cache nunca devem derrubar a geração do relatório.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.AggregationResult, bool, error)
	Set(ctx context.Context, key string, value *domain.AggregationResult, ttl time.Duration) error
}

// NoopReportCache é usado quando o Redis está desabilitado por configuração
type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.AggregationResult, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.AggregationResult, _ time.Duration) error {
	return nil
}
