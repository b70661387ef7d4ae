package Supplier

import (
	"errors"

	"gorm.io/gorm"
)

var ErrSupplierNotFound = errors.New("supplier not found")

var supplierService *SupplierService

type SupplierService struct {
	db *gorm.DB
}

// InitializeService initializes the supplier service with a database connection
func InitializeService(db *gorm.DB) {
	supplierService = &SupplierService{db: db}
}

// GetSupplierService returns the initialized supplier service
func GetSupplierService() *SupplierService {
	return supplierService
}

func (s *SupplierService) GetSupplierByID(id uint) (*Supplier, error) {
	var supplier Supplier
	if err := s.db.First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (s *SupplierService) GetAllSuppliers() ([]*Supplier, error) {
	var suppliers []*Supplier
	if err := s.db.Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// NamesByID resolves supplier names for a set of ids in one query.
func (s *SupplierService) NamesByID(ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var suppliers []Supplier
	if err := s.db.Select("id", "name").Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	for _, sup := range suppliers {
		names[sup.ID] = sup.Name
	}
	return names, nil
}

func (s *SupplierService) CreateSupplier(req CreateSupplierRequest) (*Supplier, error) {
	supplier := &Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
	}
	if err := s.db.Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) UpdateSupplier(id uint, req UpdateSupplierRequest) (*Supplier, error) {
	supplier, err := s.GetSupplierByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Contact != nil {
		supplier.Contact = *req.Contact
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) DeleteSupplier(id uint) error {
	result := s.db.Delete(&Supplier{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
