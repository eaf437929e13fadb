package domain

import "time"

// Role define los tipos de usuario que existen
type Role string

const (
	RoleAdmin Role = "admin" // Ve estadísticas de calificaciones
	RoleHost  Role = "host"  // Publica listings
	RoleGuest Role = "guest" // Busca, reserva y califica
)

// Valid indica si el rol es uno de los conocidos
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleGuest:
		return true
	}
	return false
}

// User representa una credencial del sistema
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"` // El "-" oculta el hash en JSON
	Role      Role      `gorm:"type:varchar(20);not null;default:'guest'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (User) TableName() string {
	return "users"
}

// Principal es la identidad verificada que viaja con cada request protegida
type Principal struct {
	UserID uint
	Role   Role
}
