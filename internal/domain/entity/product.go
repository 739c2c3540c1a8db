package entity

import "time"

// Product representa un producto del catálogo. El mantenimiento de sus campos
// descriptivos queda fuera del motor; aquí solo se consulta para validar órdenes
// y resolver su Stock asociado.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Brand       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
