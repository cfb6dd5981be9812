package service

import (
	"context"
	"strings"
	"time"

	"github.com/auction-service/internal/logger"
	"github.com/auction-service/internal/model"
	"github.com/auction-service/internal/repo"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

const similarLimit = 4

type ProductService struct {
	products repo.ProductRepository
	users    repo.UserRepository
}

func NewProductService(products repo.ProductRepository, users repo.UserRepository) *ProductService {
	return &ProductService{products: products, users: users}
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Category    string          `json:"category"`
	Images      []model.Picture `json:"images"`
}

func (r ProductRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return invalid("name is required")
	case r.Price <= 0:
		return invalid("price must be greater than 0")
	}
	return nil
}

func (r ProductRequest) apply(p *model.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Price = r.Price
	p.Category = strings.TrimSpace(r.Category)
	p.Pictures = r.Images
	if p.Pictures == nil {
		p.Pictures = []model.Picture{}
	}
}

func (s *ProductService) GetProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *ProductService) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	log := logger.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{CreatedAt: time.Now()}
	req.apply(product)

	if err := s.products.Create(ctx, product); err != nil {
		log.Error("mongo: failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", product.ID.Hex()))
	return product, nil
}

// GetProduct returns the product together with a few others from the same
// category.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*model.ProductDetails, error) {
	oid, err := parseID("product", id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	candidates, err := s.products.GetByCategory(ctx, product.Category, similarLimit+1)
	if err != nil {
		logger.FromContext(ctx).Error("mongo: failed to get similar products", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}

	similar := make([]model.Product, 0, similarLimit)
	for _, p := range candidates {
		if p.ID == product.ID || len(similar) == similarLimit {
			continue
		}
		similar = append(similar, p)
	}

	return &model.ProductDetails{Product: product, Similar: similar}, nil
}

func (s *ProductService) GetByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, model.CategoryAll) {
		return s.products.GetAll(ctx)
	}
	return s.products.GetByCategory(ctx, category, 0)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*model.Product, error) {
	log := logger.FromContext(ctx)

	oid, err := parseID("product", id)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	req.apply(product)

	if err := s.products.Update(ctx, product); err != nil {
		log.Error("mongo: failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product on behalf of userID, who must be an admin.
func (s *ProductService) DeleteProduct(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx)

	oid, err := parseID("product", id)
	if err != nil {
		return err
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrForbidden
		}
		return err
	}
	if !user.IsAdmin {
		log.Warn("non-admin tried to delete product", zap.String("user_id", userID), zap.String("product_id", id))
		return model.ErrForbidden
	}

	if err := s.products.Delete(ctx, oid); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			log.Error("mongo: failed to delete product", zap.String("product_id", id), zap.Error(err))
		}
		return err
	}

	log.Info("product deleted", zap.String("product_id", id))
	return nil
}
