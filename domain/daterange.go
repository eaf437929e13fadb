package domain

import (
	"fmt"
	"time"
)

// DateLayout es el formato ISO de fecha calendario que usamos en la API y en la BD
const DateLayout = "2006-01-02"

// DateRange es un intervalo CERRADO de días [From, To]
// Ambos extremos cuentan como ocupados
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDate parsea un string "YYYY-MM-DD"
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return date, nil
}

// ParseDateRange parsea y valida un rango de fechas
// Devuelve un error de validación si alguna fecha es inválida o si from > to
func ParseDateRange(from, to string) (DateRange, error) {
	start, err := ParseDate(from)
	if err != nil {
		return DateRange{}, NewValidationError("invalid_date", err.Error())
	}
	end, err := ParseDate(to)
	if err != nil {
		return DateRange{}, NewValidationError("invalid_date", err.Error())
	}
	if end.Before(start) {
		return DateRange{}, NewValidationError("invalid_date_range", "date_from must be on or before date_to")
	}
	return DateRange{From: start, To: end}, nil
}

// Overlaps indica si dos rangos cerrados se superponen: s <= t && f <= e
// Una reserva que termina el día X choca con otra que empieza el día X
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !other.From.After(r.To)
}

// FromString devuelve el inicio en formato YYYY-MM-DD
func (r DateRange) FromString() string {
	return r.From.Format(DateLayout)
}

// ToString devuelve el fin en formato YYYY-MM-DD
func (r DateRange) ToString() string {
	return r.To.Format(DateLayout)
}

// Days cuenta los días del rango, ambos extremos incluidos
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// FindConflict recorre las reservas existentes de un listing y devuelve
// la primera que se superpone con el rango pedido, o nil si está libre
func FindConflict(existing []Booking, requested DateRange) *Booking {
	for i := range existing {
		booked, err := existing[i].Range()
		if err != nil {
			// Una fila con fechas corruptas no puede probar que el rango esté libre
			return &existing[i]
		}
		if booked.Overlaps(requested) {
			return &existing[i]
		}
	}
	return nil
}
