package entity

import (
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Escalas persistidas (decimales): gramos y gramajes NUMERIC(14,4), cantidad de barras NUMERIC(18,8).
const (
	GramosScale   int32 = 4
	CantidadScale int32 = 8
)

// FitsScale indica si v se puede guardar con scale decimales sin redondeo.
func FitsScale(v decimal.Decimal, scale int32) bool {
	return v.Equal(v.Round(scale))
}

// Barra representa un lote de materia prima producido (barras de un mismo peso unitario).
// Cantidad puede ser fraccionaria: tras un consumo pueden quedar unidades parciales.
type Barra struct {
	ID              string
	PesoGramos      decimal.Decimal // peso por unidad, fijo en el lote
	Cantidad        decimal.Decimal // unidades restantes (>= 0)
	FechaProduccion time.Time
	Disponible      bool // las barras no disponibles no cuentan para stock ni asignación
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalGramos devuelve PesoGramos * Cantidad.
func (b *Barra) TotalGramos() decimal.Decimal {
	return b.PesoGramos.Mul(b.Cantidad)
}

// Consume descuenta grams del lote y devuelve la nueva cantidad de unidades.
// Nunca deja el lote en negativo: pedir más de lo que tiene es ErrInvalidQuantity.
func (b *Barra) Consume(grams decimal.Decimal) (decimal.Decimal, error) {
	if !grams.IsPositive() || !b.PesoGramos.IsPositive() {
		return b.Cantidad, domain.ErrInvalidQuantity
	}
	total := b.TotalGramos()
	if grams.GreaterThan(total) {
		return b.Cantidad, domain.ErrInvalidQuantity
	}
	if grams.Equal(total) {
		b.Cantidad = decimal.Zero
		return b.Cantidad, nil
	}
	// redondeada a la escala persistida: lo que se guarda es lo que se devuelve
	b.Cantidad = total.Sub(grams).DivRound(b.PesoGramos, CantidadScale)
	return b.Cantidad, nil
}

// Validate verifica los invariantes de un lote nuevo o editado.
func (b *Barra) Validate() error {
	if !b.PesoGramos.IsPositive() || b.Cantidad.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	if !FitsScale(b.PesoGramos, GramosScale) || !FitsScale(b.Cantidad, CantidadScale) {
		return domain.ErrInvalidQuantity
	}
	if b.FechaProduccion.IsZero() {
		return domain.ErrInvalidInput
	}
	return nil
}
