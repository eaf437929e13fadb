package domain

import "time"

// Booking es la reserva de un Listing para un intervalo cerrado de fechas
// Las fechas se guardan como "YYYY-MM-DD", así el orden de strings es el orden del calendario
type Booking struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index" json:"listing_id"`
	GuestID    uint      `gorm:"not null;index" json:"guest_id"`
	GuestNames []string  `gorm:"serializer:json;type:json" json:"names"`
	StartDate  string    `gorm:"type:char(10);not null" json:"start_date"`
	EndDate    string    `gorm:"type:char(10);not null" json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Booking) TableName() string {
	return "bookings"
}

// Range devuelve el rango de fechas de la reserva
func (b Booking) Range() (DateRange, error) {
	start, err := ParseDate(b.StartDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(b.EndDate)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{From: start, To: end}, nil
}
