package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

const reportSnapshotsTable = "report_snapshots"

type ReportSnapshotRepository interface {
	SaveOrUpdate(snapshot *domain.ReportSnapshot) error
	GetByKindAndDateRange(kind string, startDate, endDate time.Time) ([]*domain.ReportSnapshot, error)
	DeleteOlderThan(days int) (int64, error)
}

type reportSnapshotRepository struct {
	conn postgres.Queryer
}

func NewReportSnapshotRepository(conn postgres.Queryer) ReportSnapshotRepository {
	return &reportSnapshotRepository{
		conn: conn,
	}
}

func (r *reportSnapshotRepository) SaveOrUpdate(snapshot *domain.ReportSnapshot) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(reportSnapshotsTable).
		Columns("kind", "date", "label", "total").
		Values(
			snapshot.Kind,
			snapshot.Date.Format(time.DateOnly),
			snapshot.Label,
			snapshot.Total,
		).
		Suffix(`
			ON CONFLICT (kind, date) DO UPDATE SET
				label = EXCLUDED.label,
				total = EXCLUDED.total,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao salvar snapshot de relatório: %w", err)
	}

	return nil
}

func (r *reportSnapshotRepository) GetByKindAndDateRange(kind string, startDate, endDate time.Time) ([]*domain.ReportSnapshot, error) {
	query, args, err := squirrel.
		Select("id", "kind", "date", "label", "total", "created_at", "updated_at").
		From(reportSnapshotsTable).
		Where(squirrel.Eq{"kind": kind}).
		Where(squirrel.GtOrEq{"date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"date": endDate.Format(time.DateOnly)}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.ReportSnapshot, 0)
	for rows.Next() {
		var snapshot domain.ReportSnapshot
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.Kind,
			&snapshot.Date,
			&snapshot.Label,
			&snapshot.Total,
			&snapshot.CreatedAt,
			&snapshot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, rows.Err()
}

func (r *reportSnapshotRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete(reportSnapshotsTable).
		Where(squirrel.Lt{"date": cutoff.Format(time.DateOnly)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
