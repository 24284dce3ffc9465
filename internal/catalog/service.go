package catalog

import (
	"context"

	"github.com/freshkart/storefront-go/pkg/api"
	pkgerrors "github.com/freshkart/storefront-go/pkg/errors"
	"github.com/freshkart/storefront-go/pkg/logger"
)

type catalogAPI interface {
	Categories(ctx context.Context) ([]api.Category, error)
	Products(ctx context.Context) ([]api.Product, error)
	ProductByID(ctx context.Context, id int64) (*api.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error)
}

// Service exposes read access to the product catalog.
type Service interface {
	Categories(ctx context.Context) ([]api.Category, error)
	Products(ctx context.Context) ([]api.Product, error)
	Product(ctx context.Context, id int64) (*api.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error)
}

type service struct {
	api  catalogAPI
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(client catalogAPI, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "api client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "logger is required")
	}
	return &service{api: client, logg: logg}, nil
}

func (s *service) Categories(ctx context.Context) ([]api.Category, error) {
	return s.api.Categories(s.logg.WithOperation(ctx, "catalog.categories"))
}

func (s *service) Products(ctx context.Context) ([]api.Product, error) {
	return s.api.Products(s.logg.WithOperation(ctx, "catalog.products"))
}

func (s *service) Product(ctx context.Context, id int64) (*api.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "product id is required")
	}
	return s.api.ProductByID(s.logg.WithOperation(ctx, "catalog.product"), id)
}

func (s *service) ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error) {
	if categoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "category id is required")
	}
	return s.api.ProductsByCategory(s.logg.WithOperation(ctx, "catalog.products_by_category"), categoryID)
}
