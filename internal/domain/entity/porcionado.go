package entity

import (
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de un porcionado. La única transición válida es pendiente -> porcionado.
const (
	EstadoPendiente  = "pendiente"
	EstadoPorcionado = "porcionado"
)

// ValidEstado indica si s es un estado conocido.
func ValidEstado(s string) bool {
	return s == EstadoPendiente || s == EstadoPorcionado
}

// PorcionadoKey identifica un lote de porcionado: producto, gramaje y día.
type PorcionadoKey struct {
	Producto string
	Gramaje  decimal.Decimal
	Fecha    time.Time // medianoche local del día
}

// MapKey forma comparable de la clave, apta para usar en mapas.
// El gramaje se normaliza (200 y 200.0 son la misma clave).
type MapKey struct {
	Producto string
	Gramaje  string
	Fecha    string
}

// MapKey devuelve la forma comparable de k.
func (k PorcionadoKey) MapKey() MapKey {
	return MapKey{
		Producto: k.Producto,
		Gramaje:  k.Gramaje.String(),
		Fecha:    k.Fecha.Format("2006-01-02"),
	}
}

// Porcionado es el registro de estado de un lote de porcionado de un día.
// Cantidad se deriva de las entregas; queda congelada al pasar a porcionado.
type Porcionado struct {
	ID        string // vacío mientras el lote no se ha persistido
	Producto  string
	Gramaje   decimal.Decimal
	Cantidad  decimal.Decimal
	Fecha     time.Time
	Estado    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key devuelve la identidad del lote.
func (p *Porcionado) Key() PorcionadoKey {
	return PorcionadoKey{Producto: p.Producto, Gramaje: p.Gramaje, Fecha: p.Fecha}
}

// Persisted indica si el registro ya existe en el almacenamiento.
func (p *Porcionado) Persisted() bool {
	return p.ID != ""
}

// IsPorcionado indica si el lote ya consumió material.
func (p *Porcionado) IsPorcionado() bool {
	return p.Estado == EstadoPorcionado
}

// Gramos devuelve Gramaje * Cantidad.
func (p *Porcionado) Gramos() decimal.Decimal {
	return p.Gramaje.Mul(p.Cantidad)
}

// CanTransition aplica la regla de una sola dirección pendiente -> porcionado.
func CanTransition(from, to string) error {
	if from == EstadoPendiente && to == EstadoPorcionado {
		return nil
	}
	return domain.ErrInvalidTransition
}
