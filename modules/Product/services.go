package Product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = fmt.Errorf("category must be one of: %s", joinCategories())
	ErrInvalidPrice    = errors.New("price must be between 0 and 99999999.99")
	ErrUnknownSupplier = errors.New("supplier does not exist")
)

var maxPrice = decimal.RequireFromString("99999999.99")

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

var productService *ProductService

type ProductService struct {
	db *gorm.DB
}

// InitializeService initializes the product service with a database connection
func InitializeService(db *gorm.DB) {
	productService = &ProductService{db: db}
}

// GetProductService returns the initialized product service
func GetProductService() *ProductService {
	return productService
}

func (s *ProductService) query() *gorm.DB {
	return s.db.Preload("Supplier")
}

func (s *ProductService) GetProductByID(id uint) (*Product, error) {
	var product Product
	if err := s.query().First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	product.populate()
	return &product, nil
}

func (s *ProductService) find(scope func(*gorm.DB) *gorm.DB) ([]*Product, error) {
	var products []*Product
	if err := scope(s.query()).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		p.populate()
	}
	return products, nil
}

func (s *ProductService) GetAllProducts() ([]*Product, error) {
	return s.find(func(db *gorm.DB) *gorm.DB { return db })
}

// LowStock returns products whose stock level is not Good.
func (s *ProductService) LowStock() ([]*Product, error) {
	return s.find(func(db *gorm.DB) *gorm.DB { return db.Where("quantity < ?", lowBelow) })
}

// BelowMinStock returns products under their own reorder threshold.
func (s *ProductService) BelowMinStock() ([]*Product, error) {
	return s.find(func(db *gorm.DB) *gorm.DB { return db.Where("quantity < min_stock") })
}

func (s *ProductService) Stats() (*ProductStats, error) {
	stats := &ProductStats{Categories: []CategoryCount{}}
	if err := s.db.Model(&Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&Product{}).Where("quantity < ?", lowBelow).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&Product{}).
		Select("category, COUNT(id) AS count").
		Group("category").
		Order("category ASC").
		Scan(&stats.Categories).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ProductService) CreateProduct(req CreateProductRequest) (*Product, error) {
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	if err := s.ensureSupplier(req.SupplierID); err != nil {
		return nil, err
	}

	minStock := DefaultMinStock
	if req.MinStock != nil {
		minStock = *req.MinStock
	}

	product := &Product{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    *req.Quantity,
		Price:       req.Price.Round(2),
		SupplierID:  req.SupplierID,
		MinStock:    minStock,
		Description: req.Description,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, err
	}
	return s.GetProductByID(product.ID)
}

// UpdateProduct applies req and returns the row as it was before and after the write.
func (s *ProductService) UpdateProduct(id uint, req UpdateProductRequest) (old *Product, updated *Product, err error) {
	old, err = s.GetProductByID(id)
	if err != nil {
		return nil, nil, err
	}
	next := *old

	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, nil, ErrInvalidCategory
		}
		next.Category = *req.Category
	}
	if req.Quantity != nil {
		next.Quantity = *req.Quantity
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, nil, err
		}
		next.Price = req.Price.Round(2)
	}
	if req.SupplierID != nil && *req.SupplierID != next.SupplierID {
		if err := s.ensureSupplier(*req.SupplierID); err != nil {
			return nil, nil, err
		}
		next.SupplierID = *req.SupplierID
	}
	if req.MinStock != nil {
		next.MinStock = *req.MinStock
	}
	if req.Description != nil {
		next.Description = req.Description
	}

	next.Supplier = nil
	if err := s.db.Omit("Supplier").Save(&next).Error; err != nil {
		return nil, nil, err
	}

	updated, err = s.GetProductByID(id)
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

func (s *ProductService) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ProductService) ensureSupplier(id uint) error {
	var count int64
	if err := s.db.Model(&Supplier.Supplier{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownSupplier
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(maxPrice) {
		return ErrInvalidPrice
	}
	return nil
}
