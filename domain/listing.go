package domain

import "time"

// Listing representa un espacio que un host pone en alquiler
type Listing struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NumPeople int       `gorm:"column:num_people;not null" json:"num_people"`
	Country   string    `gorm:"type:varchar(256);not null;index:idx_listings_location" json:"country"`
	City      string    `gorm:"type:varchar(256);not null;index:idx_listings_location" json:"city"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Listing) TableName() string {
	return "listings"
}

// ListingRating es un listing con el promedio de sus calificaciones
type ListingRating struct {
	ID            uint    `json:"id"`
	Country       string  `json:"country"`
	City          string  `json:"city"`
	Price         float64 `json:"price"`
	AverageRating float64 `json:"average_rating"`
}
