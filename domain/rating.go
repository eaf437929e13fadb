package domain

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Rating es la calificación de una estadía
// ListingID se copia de la reserva, nunca del input del cliente
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	BookingID uint      `gorm:"not null;index" json:"booking_id"`
	Score     int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Booking *Booking `gorm:"foreignKey:BookingID" json:"-"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Rating) TableName() string {
	return "ratings"
}

// ValidScore indica si el puntaje está entre 1 y 5
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
