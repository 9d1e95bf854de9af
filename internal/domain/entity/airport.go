package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airport represents airport reference data used to decorate routes
type Airport struct {
	ID        uint
	Code      string
	Name      string
	CityName  string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
