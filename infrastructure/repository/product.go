package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

const productsTable = "products"

type ProductRepository interface {
	CreateProduct(product *domain.Product) (*domain.Product, error)
	UpdateProduct(product *domain.Product) error
	DeleteProduct(productID int) error
	GetProductByID(productID int) (*domain.Product, error)
	ListProducts() ([]*domain.Product, error)
}

type productRepository struct {
	conn postgres.Queryer
}

func NewProductRepository(conn postgres.Queryer) ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

func (r *productRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query, args, err := squirrel.
		Insert(productsTable).
		Columns("name", "price").
		Values(product.Name, product.Price).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.conn.QueryRow(query, args...).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(product *domain.Product) error {
	queryBuilder := squirrel.
		Update(productsTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": product.ID})

	if product.Name != "" {
		queryBuilder = queryBuilder.Set("name", product.Name)
	}

	if !product.Price.IsZero() {
		queryBuilder = queryBuilder.Set("price", product.Price)
	}

	query, args, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *productRepository) DeleteProduct(productID int) error {
	query, args, err := squirrel.
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(query, args...)
	return err
}

func (r *productRepository) GetProductByID(productID int) (*domain.Product, error) {
	query, args, err := squirrel.
		Select("id", "name", "price", "created_at", "updated_at").
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var product domain.Product
	err = r.conn.QueryRow(query, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) ListProducts() ([]*domain.Product, error) {
	query, args, err := squirrel.
		Select("id", "name", "price", "created_at", "updated_at").
		From(productsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}
