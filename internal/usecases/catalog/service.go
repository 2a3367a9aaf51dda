package catalog

import (
	"errors"

	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var (
	ErrProductNotFound     = errors.New("produto não encontrado")
	ErrMissingRequiredData = errors.New("nome e preço do produto são obrigatórios")
)

type ProductService interface {
	List() ([]*domain.Product, error)
	Get(productID int) (*domain.Product, error)
	Create(product *domain.Product) (*domain.Product, error)
	Update(req *domain.UpdateProductRequest) (*domain.Product, error)
	Delete(productID int) error
}

type Service struct {
	repo repository.ProductRepository
}

func NewService(repo repository.ProductRepository) ProductService {
	return &Service{repo: repo}
}

func (s *Service) List() ([]*domain.Product, error) {
	return s.repo.ListProducts()
}

func (s *Service) Get(productID int) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return product, nil
}

func (s *Service) Create(product *domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Price.IsNegative() {
		return nil, ErrMissingRequiredData
	}

	return s.repo.CreateProduct(product)
}

func (s *Service) Update(req *domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(req.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrMissingRequiredData
		}
		product.Price = *req.Price
	}

	if err := s.repo.UpdateProduct(product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) Delete(productID int) error {
	product, err := s.repo.GetProductByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	return s.repo.DeleteProduct(productID)
}
