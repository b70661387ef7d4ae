package Supplier

import (
	"github.com/kigongo-vincent/invai-backend/internal/model"
)

type Supplier struct {
	model.Base
	Name    string `json:"name" gorm:"not null;size:100"`
	Contact string `json:"contact" gorm:"not null"`
	Phone   string `json:"phone" gorm:"size:20"`
}

type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Contact string `json:"contact" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=20"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Contact *string `json:"contact" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
}
