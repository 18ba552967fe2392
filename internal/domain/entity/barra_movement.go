package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BarraMovement registra un consumo de una barra dentro de un porcionado.
type BarraMovement struct {
	ID              string
	TransactionID   string // ID del porcionado que originó el consumo
	BarraID         string
	Gramos          decimal.Decimal // gramos consumidos (positivo)
	CantidadAntes   decimal.Decimal
	CantidadDespues decimal.Decimal
	CreatedAt       time.Time
}
