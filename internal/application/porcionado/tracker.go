package porcionado

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Tracker es el dueño de los estados de los lotes de porcionado.
// Los lotes se materializan de forma perezosa: se persisten solo en el primer marcado exitoso.
type Tracker struct {
	agg *Aggregator
	now func() time.Time
}

// NewTracker construye el tracker sobre el agregador de demanda.
func NewTracker(agg *Aggregator) *Tracker {
	return &Tracker{agg: agg, now: time.Now}
}

// GetOrCreateBatch devuelve el registro persistido de key o uno efímero en pendiente con la
// cantidad agregada. La cantidad de un lote pendiente se refresca desde las entregas; la de un
// lote porcionado queda congelada. ErrNotFound si no hay registro ni demanda para la clave.
func (t *Tracker) GetOrCreateBatch(ctx context.Context, batches repository.PorcionadoRepository, lines repository.DeliveryLineRepository, key entity.PorcionadoKey) (*entity.Porcionado, error) {
	existing, err := batches.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsPorcionado() {
		return existing, nil
	}

	cantidad, found, err := t.agg.DemandFor(ctx, lines, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	if existing != nil {
		t.RefreshQuantity(existing, cantidad)
		return existing, nil
	}

	now := t.now()
	return &entity.Porcionado{
		Producto:  key.Producto,
		Gramaje:   key.Gramaje,
		Cantidad:  cantidad,
		Fecha:     key.Fecha,
		Estado:    entity.EstadoPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RefreshQuantity actualiza la cantidad de un lote pendiente. Devuelve true si cambió.
// Un lote porcionado no se toca.
func (t *Tracker) RefreshQuantity(batch *entity.Porcionado, cantidad decimal.Decimal) bool {
	if batch.IsPorcionado() || batch.Cantidad.Equal(cantidad) {
		return false
	}
	batch.Cantidad = cantidad
	return true
}

// Transition aplica el cambio de estado. Solo pendiente -> porcionado.
func (t *Tracker) Transition(batch *entity.Porcionado, to string) error {
	if err := entity.CanTransition(batch.Estado, to); err != nil {
		return err
	}
	batch.Estado = to
	batch.UpdatedAt = t.now()
	return nil
}

// Save persiste el lote: Create si es nuevo, Update si ya existía.
func (t *Tracker) Save(ctx context.Context, batches repository.PorcionadoRepository, batch *entity.Porcionado, isNew bool) error {
	if isNew {
		return batches.Create(ctx, batch)
	}
	return batches.Update(ctx, batch)
}
