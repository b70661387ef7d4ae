package Order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = fmt.Errorf("status must be one of: %s", joinStatuses())
	ErrUnknownProduct  = errors.New("product does not exist")
	ErrUnknownCustomer = errors.New("user does not exist")
)

func joinStatuses() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

var orderService *OrderService

type OrderService struct {
	db *gorm.DB
}

// InitializeService initializes the order service with a database connection
func InitializeService(db *gorm.DB) {
	orderService = &OrderService{db: db}
}

// GetOrderService returns the initialized order service
func GetOrderService() *OrderService {
	return orderService
}

func (s *OrderService) query() *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return s.db.Preload("Product", unscoped).Preload("User", unscoped)
}

func (s *OrderService) GetOrderByID(id uint) (*Order, error) {
	var order Order
	if err := s.query().First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	order.populate()
	return &order, nil
}

func (s *OrderService) GetAllOrders(filter OrderFilter) ([]*Order, error) {
	q := s.query()
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at < ?", *filter.EndDate)
	}

	var orders []*Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.populate()
	}
	return orders, nil
}

func (s *OrderService) Stats() (*OrderStats, error) {
	stats := &OrderStats{}
	if err := s.db.Model(&Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&Order{}).Where("status = ?", Pending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&Order{}).Where("status = ?", Delivered).Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// CreateOrder places an order for req.UserID, or for customerID when unset.
func (s *OrderService) CreateOrder(customerID uint, req CreateOrderRequest) (*Order, error) {
	if req.Status == "" {
		req.Status = Pending
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if req.UserID != nil {
		customerID = *req.UserID
	}
	if err := s.ensureExists(&Product.Product{}, req.ProductID, ErrUnknownProduct); err != nil {
		return nil, err
	}
	if err := s.ensureExists(&User.UserModel{}, customerID, ErrUnknownCustomer); err != nil {
		return nil, err
	}

	order := &Order{
		ProductID: req.ProductID,
		UserID:    customerID,
		Quantity:  req.Quantity,
		Status:    req.Status,
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, err
	}
	return s.GetOrderByID(order.ID)
}

// UpdateOrder applies req and reports the status the order had before the write.
func (s *OrderService) UpdateOrder(id uint, req UpdateOrderRequest) (*Order, Status, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, "", err
	}
	oldStatus := order.Status

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, "", ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.ProductID != nil && *req.ProductID != order.ProductID {
		if err := s.ensureExists(&Product.Product{}, *req.ProductID, ErrUnknownProduct); err != nil {
			return nil, "", err
		}
		updates["product_id"] = *req.ProductID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&Order{ID: id}).Updates(updates).Error; err != nil {
			return nil, "", err
		}
	}

	updated, err := s.GetOrderByID(id)
	if err != nil {
		return nil, "", err
	}
	return updated, oldStatus, nil
}

// DeleteOrder removes the order and returns what it looked like beforehand.
func (s *OrderService) DeleteOrder(id uint) (*Snapshot, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}
	snapshot := order.Snapshot()

	if err := s.db.Delete(&Order{}, id).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *OrderService) ensureExists(model interface{}, id uint, notFound error) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
