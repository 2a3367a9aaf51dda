package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

const (
	salesTable     = "sales"
	purchasesTable = "purchases"
)

// RecordRepository persiste vendas ou compras, conforme a tabela configurada.
// As listagens recebem o RecordScope da identidade e o aplicam na cláusula
// WHERE, de modo que registros fora do recorte nunca saem do banco.
type RecordRepository interface {
	Create(record *domain.Record) (*domain.Record, error)
	Update(record *domain.Record) error
	Delete(recordID int) error
	GetByID(recordID int) (*domain.Record, error)
	List(scope domain.RecordScope) ([]*domain.Record, error)
	VersionStamp(scope domain.RecordScope) (string, error)
}

type recordRepository struct {
	conn  postgres.Queryer
	table string
}

func NewSaleRepository(conn postgres.Queryer) RecordRepository {
	return &recordRepository{conn: conn, table: salesTable}
}

func NewPurchaseRepository(conn postgres.Queryer) RecordRepository {
	return &recordRepository{conn: conn, table: purchasesTable}
}

func (r *recordRepository) Create(record *domain.Record) (*domain.Record, error) {
	lineItems := record.LineItemsRaw
	if len(lineItems) == 0 {
		lineItems = []byte("[]")
	}

	query, args, err := squirrel.
		Insert(r.table).
		Columns("date", "seller_id", "client_id", "product_name", "quantity", "unit_price", "line_items").
		Values(
			record.Date,
			record.SellerID,
			record.ClientID,
			record.ProductName,
			record.Quantity,
			record.UnitPrice,
			lineItems,
		).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(query, args...).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *recordRepository) Update(record *domain.Record) error {
	queryBuilder := squirrel.
		Update(r.table).
		Set("date", record.Date).
		Set("seller_id", record.SellerID).
		Set("client_id", record.ClientID).
		Set("product_name", record.ProductName).
		Set("quantity", record.Quantity).
		Set("unit_price", record.UnitPrice).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": record.ID})

	if len(record.LineItemsRaw) > 0 {
		queryBuilder = queryBuilder.Set("line_items", record.LineItemsRaw)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *recordRepository) Delete(recordID int) error {
	query, args, err := squirrel.
		Delete(r.table).
		Where(squirrel.Eq{"id": recordID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *recordRepository) GetByID(recordID int) (*domain.Record, error) {
	query, args, err := r.selectBuilder().
		Where(squirrel.Eq{"r.id": recordID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	record, err := r.scanRecord(rows)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *recordRepository) List(scope domain.RecordScope) ([]*domain.Record, error) {
	queryBuilder := applyScope(r.selectBuilder().OrderBy("r.date ASC", "r.id ASC"), scope)

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.Record, 0)
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// VersionStamp resume o conjunto visível pelo recorte num carimbo
// (contagem + último updated_at) que muda a cada mutação. Entra na chave do
// cache de relatórios, então uma mutação derruba as entradas naturalmente.
func (r *recordRepository) VersionStamp(scope domain.RecordScope) (string, error) {
	queryBuilder := applyScope(squirrel.
		Select("COUNT(*)", "COALESCE(MAX(updated_at), 'epoch'::timestamptz)").
		From(r.table+" r"), scope)

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int64
	var latest time.Time
	if err := r.conn.QueryRow(query, args...).Scan(&count, &latest); err != nil {
		return "", err
	}

	return fmt.Sprintf("%d-%d", count, latest.UTC().UnixNano()), nil
}

// applyScope aplica o recorte de visibilidade por role, resolvido uma única
// vez no usecase, na cláusula WHERE
func applyScope(queryBuilder squirrel.SelectBuilder, scope domain.RecordScope) squirrel.SelectBuilder {
	if scope.All {
		return queryBuilder
	}

	if scope.SellerID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"r.seller_id": *scope.SellerID})
	}
	if scope.ClientID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"r.client_id": *scope.ClientID})
	}

	return queryBuilder
}

func (r *recordRepository) selectBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"r.id", "r.date", "r.seller_id", "r.client_id",
			"r.product_name", "r.quantity", "r.unit_price", "r.line_items",
			"r.created_at", "r.updated_at",
			"s.name", "s.lastname", "s.role_id",
			"c.name", "c.lastname", "c.role_id",
		).
		From(r.table + " r").
		LeftJoin(usersTable + " s ON s.id = r.seller_id").
		LeftJoin(usersTable + " c ON c.id = r.client_id")
}

func (r *recordRepository) scanRecord(rows *sql.Rows) (*domain.Record, error) {
	var record domain.Record
	var clientID sql.NullInt64
	var lineItems []byte
	var sellerName, sellerLastname sql.NullString
	var sellerRole sql.NullInt64
	var clientName, clientLastname sql.NullString
	var clientRole sql.NullInt64

	err := rows.Scan(
		&record.ID,
		&record.Date,
		&record.SellerID,
		&clientID,
		&record.ProductName,
		&record.Quantity,
		&record.UnitPrice,
		&lineItems,
		&record.CreatedAt,
		&record.UpdatedAt,
		&sellerName,
		&sellerLastname,
		&sellerRole,
		&clientName,
		&clientLastname,
		&clientRole,
	)
	if err != nil {
		return nil, err
	}

	record.LineItemsRaw = lineItems

	if clientID.Valid {
		id := int(clientID.Int64)
		record.ClientID = &id
	}

	if sellerName.Valid {
		record.Seller = &domain.UserSummary{
			ID:       record.SellerID,
			Name:     sellerName.String,
			Lastname: sellerLastname.String,
			RoleID:   int(sellerRole.Int64),
		}
	}

	if record.ClientID != nil && clientName.Valid {
		record.Client = &domain.UserSummary{
			ID:       *record.ClientID,
			Name:     clientName.String,
			Lastname: clientLastname.String,
			RoleID:   int(clientRole.Int64),
		}
	}

	return &record, nil
}
