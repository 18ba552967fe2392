package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryLine es una línea de entrega vista por el núcleo de porcionado (solo lectura).
// Tipo vacío significa el producto base configurado.
type DeliveryLine struct {
	ID         string
	DeliveryID string
	ClientID   string
	Fecha      time.Time // fecha programada de la entrega
	Tipo       string
	Cantidad   decimal.Decimal
	Gramaje    decimal.Decimal
}

// Gramos devuelve Gramaje * Cantidad.
func (l *DeliveryLine) Gramos() decimal.Decimal {
	return l.Gramaje.Mul(l.Cantidad)
}
