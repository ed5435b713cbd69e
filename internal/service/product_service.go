package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Lixing-Zhang/restaurant-pos/internal/models"
	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
)

// ProductService handles catalog listing and administration
type ProductService struct {
	repo repository.ProductRepository
	log  *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository, log *slog.Logger) *ProductService {
	if log == nil {
		log = slog.Default()
	}
	return &ProductService{
		repo: repo,
		log:  log,
	}
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListByCategory groups products under every category, in display order.
// Categories without products are kept so the UI renders a stable set of tabs.
func (s *ProductService) ListByCategory(ctx context.Context) ([]models.CategoryGroup, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[models.Category][]models.Product, len(models.Categories))
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	groups := make([]models.CategoryGroup, 0, len(models.Categories))
	for _, c := range models.Categories {
		list := byCategory[c]
		if list == nil {
			list = []models.Product{}
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		groups = append(groups, models.CategoryGroup{
			Category: c,
			Label:    c.Label(),
			Products: list,
		})
	}
	return groups, nil
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.log.Info("product created", "product_id", product.ID, "name", product.Name)
	return nil
}

// UpdateProduct changes a catalog entry; saved orders keep their snapshot
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return err
	}
	s.log.Info("product updated", "product_id", product.ID, "price", product.Price.StringFixed(2))
	return nil
}

// DeleteProduct removes a catalog entry; order lines keep name, price and
// quantity and lose the product reference
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "product_id", id)
	return nil
}
