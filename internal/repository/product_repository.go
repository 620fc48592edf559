package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ostro-bazar/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRow is a product joined with its category name, the shape the
// storefront API serves.
type ProductRow struct {
	domain.Product
	CategoryName string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductRow, error)
	List(ctx context.Context, category string) ([]*ProductRow, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, title, price, original_price, category_id, thumbnail, rating, stock, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Price,
		product.OriginalPrice,
		product.CategoryID,
		product.Thumbnail,
		product.Rating,
		product.Stock,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET title = $2, price = $3, original_price = $4, category_id = $5,
		    thumbnail = $6, rating = $7, stock = $8, description = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Price,
		product.OriginalPrice,
		product.CategoryID,
		product.Thumbnail,
		product.Rating,
		product.Stock,
		product.Description,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateStock replaces only the stock count of a product
func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	query := `UPDATE products SET stock = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, stock)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product joined with its category name
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProductRow, error) {
	query := `
		SELECT p.id, p.title, p.price, p.original_price, p.category_id, p.thumbnail,
		       p.rating, p.stock, p.description, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	row := &ProductRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.Title,
		&row.Price,
		&row.OriginalPrice,
		&row.CategoryID,
		&row.Thumbnail,
		&row.Rating,
		&row.Stock,
		&row.Description,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.CategoryName,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return row, nil
}

// List retrieves products joined with category names, optionally filtered by
// category name. An empty category or "all" means unfiltered.
func (r *productRepository) List(ctx context.Context, category string) ([]*ProductRow, error) {
	query := `
		SELECT p.id, p.title, p.price, p.original_price, p.category_id, p.thumbnail,
		       p.rating, p.stock, p.description, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON p.category_id = c.id
	`

	args := []interface{}{}
	if category != "" && !strings.EqualFold(category, "all") {
		query += ` WHERE LOWER(c.name) = LOWER($1)`
		args = append(args, category)
	}
	query += ` ORDER BY p.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*ProductRow{}
	for rows.Next() {
		row := &ProductRow{}
		err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Price,
			&row.OriginalPrice,
			&row.CategoryID,
			&row.Thumbnail,
			&row.Rating,
			&row.Stock,
			&row.Description,
			&row.CreatedAt,
			&row.UpdatedAt,
			&row.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
