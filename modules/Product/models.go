package Product

import (
	"github.com/kigongo-vincent/invai-backend/internal/model"
	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/shopspring/decimal"
)

type Category string

const (
	Electronics    Category = "Electronics"
	Furniture      Category = "Furniture"
	OfficeSupplies Category = "Office Supplies"
)

var Categories = []Category{Electronics, Furniture, OfficeSupplies}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type StockLevel string

const (
	StockCritical StockLevel = "Critical"
	StockLow      StockLevel = "Low"
	StockGood     StockLevel = "Good"
)

const (
	criticalBelow = 20
	lowBelow      = 50
	// DefaultMinStock applies when a product is created without min_stock.
	DefaultMinStock uint = 10
)

// LevelFor classifies a quantity: <20 Critical, <50 Low, otherwise Good.
func LevelFor(quantity uint) StockLevel {
	switch {
	case quantity < criticalBelow:
		return StockCritical
	case quantity < lowBelow:
		return StockLow
	default:
		return StockGood
	}
}

type Product struct {
	model.Base
	Name        string             `json:"name" gorm:"not null;size:100"`
	Category    Category           `json:"category" gorm:"not null;size:50;index"`
	Quantity    uint               `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal    `json:"price" gorm:"not null;type:decimal(10,2)"`
	SupplierID  uint               `json:"supplier" gorm:"not null;index"`
	Supplier    *Supplier.Supplier `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	MinStock    uint               `json:"min_stock" gorm:"not null;default:10"`
	Description *string            `json:"description"`

	SupplierName string     `json:"supplier_name" gorm:"-"`
	StockLevel   StockLevel `json:"stock_level" gorm:"-"`
}

// populate fills the response-only fields.
func (p *Product) populate() {
	p.StockLevel = LevelFor(p.Quantity)
	if p.Supplier != nil {
		p.SupplierName = p.Supplier.Name
	}
}

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Category    Category         `json:"category" binding:"required"`
	Quantity    *uint            `json:"quantity" binding:"required"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	SupplierID  uint             `json:"supplier" binding:"required"`
	MinStock    *uint            `json:"min_stock"`
	Description *string          `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Category    *Category        `json:"category"`
	Quantity    *uint            `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	SupplierID  *uint            `json:"supplier"`
	MinStock    *uint            `json:"min_stock"`
	Description *string          `json:"description"`
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}

type ProductStats struct {
	TotalProducts int64           `json:"total_products"`
	LowStockCount int64           `json:"low_stock_count"`
	Categories    []CategoryCount `json:"categories"`
}
