// Package model holds the columns shared by soft-deletable tables.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Base mirrors gorm.Model with the snake_case JSON names the API exposes.
type Base struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
