package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBarraRequest body para POST /api/barras (registro de producción).
type CreateBarraRequest struct {
	PesoGramos      decimal.Decimal `json:"peso_gramos"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	FechaProduccion string          `json:"fecha_produccion" validate:"required"`
	Disponible      *bool           `json:"disponible"`
}

// UpdateBarraRequest body para PATCH /api/barras/:id (edición administrativa explícita).
type UpdateBarraRequest struct {
	PesoGramos      *decimal.Decimal `json:"peso_gramos"`
	Cantidad        *decimal.Decimal `json:"cantidad"`
	FechaProduccion *string          `json:"fecha_produccion" validate:"omitempty,min=10"`
	Disponible      *bool            `json:"disponible"`
}

// ListBarrasQuery filtros de GET /api/barras.
type ListBarrasQuery struct {
	Fecha      string `query:"fecha"`      // día de producción (YYYY-MM-DD)
	Disponible string `query:"disponible"` // "true" | "false" | vacío
}

// BarraResponse salida de una barra.
type BarraResponse struct {
	ID              string          `json:"id"`
	PesoGramos      decimal.Decimal `json:"peso_gramos"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	TotalGramos     decimal.Decimal `json:"total_gramos"`
	FechaProduccion time.Time       `json:"fecha_produccion"`
	Disponible      bool            `json:"disponible"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StockSummaryResponse gramos disponibles hasta una fecha de corte opcional.
type StockSummaryResponse struct {
	Hasta          string          `json:"hasta,omitempty"`
	AvailableGrams decimal.Decimal `json:"available_grams"`
	Barras         int             `json:"barras"`
}

// AvailabilityResponse resultado de una verificación de faltante (sin mutación).
type AvailabilityResponse struct {
	Fecha          string          `json:"fecha"`
	RequiredGrams  decimal.Decimal `json:"required_grams"`
	AvailableGrams decimal.Decimal `json:"available_grams"`
	ShortageGrams  decimal.Decimal `json:"shortage_grams"`
	OK             bool            `json:"ok"`
}
