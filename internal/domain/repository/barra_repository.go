package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BarraFilter filtros del listado administrativo de barras.
type BarraFilter struct {
	ProducedFrom *time.Time // fecha_produccion >= ProducedFrom
	ProducedTo   *time.Time // fecha_produccion <= ProducedTo
	Disponible   *bool
}

// BarraRepository define el puerto de persistencia del libro de barras (DIP).
type BarraRepository interface {
	Create(ctx context.Context, barra *entity.Barra) error
	GetByID(ctx context.Context, id string) (*entity.Barra, error)
	Update(ctx context.Context, barra *entity.Barra) error
	Delete(ctx context.Context, id string) error
	// List ordena por fecha_produccion DESC (más reciente primero).
	List(ctx context.Context, filter BarraFilter) ([]*entity.Barra, error)

	// ListAvailable devuelve barras disponibles (producidas hasta asOf si no es nil)
	// ordenadas por fecha_produccion ASC, id ASC.
	ListAvailable(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error)
	// ListAvailableForUpdate igual que ListAvailable pero bloquea las filas (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	ListAvailableForUpdate(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error)
	// UpdateCantidad persiste solo la cantidad restante tras un consumo.
	UpdateCantidad(ctx context.Context, id string, cantidad decimal.Decimal) error
}
