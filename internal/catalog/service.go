package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 24
	maxListLimit     = 100
)

// Service exposes catalog browse and admin management operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Seed(ctx context.Context) (int, error)
}

// ListProductsInput captures browse filters and paging.
type ListProductsInput struct {
	Category        string
	IsNew           *bool
	IsFeatured      *bool
	IsDeal          *bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name       string
	PriceCents int
	Unit       *string
	Category   string
	ImageURL   *string
	IsActive   bool
	IsNew      bool
	IsFeatured bool
	IsDeal     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name       *string
	PriceCents *int
	Unit       *string
	Category   *string
	ImageURL   *string
	IsActive   *bool
	IsNew      *bool
	IsFeatured *bool
	IsDeal     *bool
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo ProductRepository
}

type service struct {
	repo ProductRepository
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// ListProducts returns one page of listings with display ratings attached.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	products, total, err := s.repo.List(ctx, ListFilters{
		Category:   input.Category,
		IsNew:      input.IsNew,
		IsFeatured: input.IsFeatured,
		IsDeal:     input.IsDeal,
		ActiveOnly: !input.IncludeInactive,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ProductListResult{
		Products: make([]ProductDTO, 0, len(products)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range products {
		result.Products = append(result.Products, *toProductDTO(&products[i]))
	}
	return result, nil
}

// GetProduct loads a single listing.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDTO(product), nil
}

// CreateProduct inserts a new listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	product, err := s.repo.Create(ctx, &models.Product{
		Name:       input.Name,
		PriceCents: input.PriceCents,
		Unit:       input.Unit,
		Category:   input.Category,
		ImageURL:   input.ImageURL,
		IsActive:   input.IsActive,
		IsNew:      input.IsNew,
		IsFeatured: input.IsFeatured,
		IsDeal:     input.IsDeal,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toProductDTO(product), nil
}

// UpdateProduct applies the present fields, leaving the rest untouched.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name must not be empty")
		}
		product.Name = *input.Name
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Unit != nil {
		product.Unit = input.Unit
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsDeal != nil {
		product.IsDeal = *input.IsDeal
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return toProductDTO(updated), nil
}

// DeleteProduct removes the listing.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}
