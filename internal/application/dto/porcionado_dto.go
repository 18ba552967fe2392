package dto

import "github.com/shopspring/decimal"

// PorcionadoResponse un lote de porcionado del día (vista agregada + estado persistido).
// ID vacío indica que el lote aún no se ha persistido; se marca por clave.
type PorcionadoResponse struct {
	ID        string          `json:"id,omitempty"`
	Producto  string          `json:"producto"`
	Gramaje   decimal.Decimal `json:"gramaje"`
	Cantidad  decimal.Decimal `json:"cantidad"`
	Gramos    decimal.Decimal `json:"gramos"`
	Fecha     string          `json:"fecha"`
	Estado    string          `json:"estado"`
	Persisted bool            `json:"persisted"`
}

// UpdateEstadoRequest body para PATCH /api/porcionados/:id.
type UpdateEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente porcionado"`
}

// MarkPorcionadoRequest body para POST /api/porcionados/mark.
type MarkPorcionadoRequest struct {
	Producto string          `json:"producto" validate:"required,max=100"`
	Gramaje  decimal.Decimal `json:"gramaje"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Fecha    string          `json:"fecha" validate:"required"`
}

// ConsumoResponse gramos descontados de una barra.
type ConsumoResponse struct {
	BarraID         string          `json:"barra_id"`
	Gramos          decimal.Decimal `json:"gramos"`
	CantidadAntes   decimal.Decimal `json:"cantidad_antes"`
	CantidadDespues decimal.Decimal `json:"cantidad_despues"`
}

// MarkPorcionadoResponse resultado de marcar un lote como porcionado.
type MarkPorcionadoResponse struct {
	Porcionado        PorcionadoResponse `json:"porcionado"`
	AlreadyPorcionado bool               `json:"already_porcionado"`
	ConsumedGrams     decimal.Decimal    `json:"consumed_grams"`
	Consumos          []ConsumoResponse  `json:"consumos"`
}
