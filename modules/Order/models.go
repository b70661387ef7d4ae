package Order

import (
	"time"

	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	Pending    Status = "Pending"
	Processing Status = "Processing"
	Shipped    Status = "Shipped"
	Delivered  Status = "Delivered"
	Cancelled  Status = "Cancelled"
)

var Statuses = []Status{Pending, Processing, Shipped, Delivered, Cancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Order struct {
	ID        uint             `json:"id" gorm:"primarykey"`
	ProductID uint             `json:"product" gorm:"not null;index"`
	Product   *Product.Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint             `json:"user" gorm:"not null;index"`
	User      *User.UserModel  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  uint             `json:"quantity" gorm:"not null"`
	Status    Status           `json:"status" gorm:"not null;size:20;default:Pending;index"`
	CreatedAt time.Time        `json:"date"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `json:"-" gorm:"index"`

	ProductName string          `json:"product_name" gorm:"-"`
	UserName    string          `json:"user_name" gorm:"-"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"-"`
}

// Total is quantity × unit price, exact to the cent.
func (o *Order) Total() decimal.Decimal {
	if o.Product == nil {
		return decimal.Zero
	}
	return o.Product.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// CustomerName is the ordering user's display name.
func (o *Order) CustomerName() string {
	if o.User == nil {
		return ""
	}
	return o.User.FullName()
}

func (o *Order) populate() {
	o.TotalPrice = o.Total()
	o.UserName = o.CustomerName()
	if o.Product != nil {
		o.ProductName = o.Product.Name
	}
}

// Snapshot keeps what deletion alerts need once the row is gone.
type Snapshot struct {
	ID           uint
	ProductName  string
	CustomerName string
	Quantity     uint
	Status       Status
	Total        decimal.Decimal
}

func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:           o.ID,
		ProductName:  o.ProductName,
		CustomerName: o.CustomerName(),
		Quantity:     o.Quantity,
		Status:       o.Status,
		Total:        o.Total(),
	}
}

type CreateOrderRequest struct {
	ProductID uint   `json:"product" binding:"required"`
	UserID    *uint  `json:"user"`
	Quantity  uint   `json:"quantity" binding:"required,min=1"`
	Status    Status `json:"status"`
}

type UpdateOrderRequest struct {
	ProductID *uint   `json:"product"`
	Quantity  *uint   `json:"quantity" binding:"omitempty,min=1"`
	Status    *Status `json:"status"`
}

type OrderFilter struct {
	Status    Status
	UserID    *uint
	StartDate *time.Time
	EndDate   *time.Time
}

type OrderStats struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
}
