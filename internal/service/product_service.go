package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ostro-bazar/internal/domain"
	"ostro-bazar/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrUnknownCategory = errors.New("unknown category")
)

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Title         string
	Price         float64
	OriginalPrice *float64
	CategoryID    uuid.UUID
	Thumbnail     string
	Rating        float64
	Stock         int
	Description   string
}

// ProductService defines the interface for catalog management logic
type ProductService interface {
	List(ctx context.Context, category string) ([]*repository.ProductRow, error)
	Get(ctx context.Context, id uuid.UUID) (*repository.ProductRow, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) error
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List retrieves products, optionally filtered by category name
func (s *productService) List(ctx context.Context, category string) ([]*repository.ProductRow, error) {
	return s.productRepo.List(ctx, category)
}

// Get retrieves a single product
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*repository.ProductRow, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create validates the input and inserts a new product
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if input.Title == "" || input.Price < 0 || input.CategoryID == uuid.Nil {
		return nil, ErrMissingFields
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	product := &domain.Product{
		ID:            uuid.New(),
		Title:         input.Title,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		CategoryID:    input.CategoryID,
		Thumbnail:     input.Thumbnail,
		Rating:        input.Rating,
		Stock:         input.Stock,
		Description:   input.Description,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if product.Thumbnail == "" {
		product.Thumbnail = "/public/placeholder.jpg"
	}
	if product.Rating == 0 {
		product.Rating = 5.0
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update replaces an existing product's writable fields
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) error {
	if input.Title == "" || input.Price < 0 || input.CategoryID == uuid.Nil {
		return ErrMissingFields
	}

	product := &domain.Product{
		ID:            id,
		Title:         input.Title,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		CategoryID:    input.CategoryID,
		Thumbnail:     input.Thumbnail,
		Rating:        input.Rating,
		Stock:         input.Stock,
		Description:   input.Description,
		UpdatedAt:     time.Now(),
	}

	return s.productRepo.Update(ctx, product)
}

// UpdateStock replaces only the stock count
func (s *productService) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	if stock < 0 {
		return ErrMissingFields
	}
	return s.productRepo.UpdateStock(ctx, id, stock)
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// ListCategories retrieves all categories
func (s *productService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
