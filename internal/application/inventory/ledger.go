package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/ledger"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Ledger es el libro de barras: único dueño de las cantidades de cada lote.
// Construirlo con repositorios atados a una transacción para que los consumos sean atómicos.
type Ledger struct {
	barras    repository.BarraRepository
	movements repository.BarraMovementRepository
	now       func() time.Time
}

// NewLedger construye el libro. movements puede ser nil si solo se usan lecturas.
func NewLedger(barras repository.BarraRepository, movements repository.BarraMovementRepository) *Ledger {
	return &Ledger{barras: barras, movements: movements, now: time.Now}
}

// ListAvailableLots devuelve las barras disponibles (producidas hasta asOf si no es nil)
// en orden FIFO: fecha de producción ascendente, empate por ID.
func (l *Ledger) ListAvailableLots(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	lots, err := l.barras.ListAvailable(ctx, asOf)
	if err != nil {
		return nil, err
	}
	ledger.SortFIFO(lots)
	return lots, nil
}

// LockAvailableLots igual que ListAvailableLots pero bloqueando las filas hasta el fin de la transacción.
func (l *Ledger) LockAvailableLots(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	lots, err := l.barras.ListAvailableForUpdate(ctx, asOf)
	if err != nil {
		return nil, err
	}
	ledger.SortFIFO(lots)
	return lots, nil
}

// TotalGrams suma PesoGramos * Cantidad de lots.
func (l *Ledger) TotalGrams(lots []*entity.Barra) decimal.Decimal {
	return ledger.TotalGrams(lots)
}

// Consume descuenta grams de la barra lotID y devuelve su nueva cantidad.
// transactionID identifica el porcionado que consume (queda en el movimiento).
func (l *Ledger) Consume(ctx context.Context, lotID string, grams decimal.Decimal, transactionID string) (decimal.Decimal, error) {
	barra, err := l.barras.GetByID(ctx, lotID)
	if err != nil {
		return decimal.Zero, err
	}
	if barra == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	before := barra.Cantidad
	after, err := barra.Consume(grams)
	if err != nil {
		return before, err
	}
	if err := l.barras.UpdateCantidad(ctx, barra.ID, after); err != nil {
		return before, err
	}
	if l.movements != nil {
		mov := &entity.BarraMovement{
			ID:              uuid.New().String(),
			TransactionID:   transactionID,
			BarraID:         barra.ID,
			Gramos:          grams,
			CantidadAntes:   before,
			CantidadDespues: after,
			CreatedAt:       l.now(),
		}
		if err := l.movements.Create(ctx, mov); err != nil {
			return before, err
		}
	}
	return after, nil
}

// RegisterProduction crea un lote nuevo de barras.
func (l *Ledger) RegisterProduction(ctx context.Context, pesoGramos, cantidad decimal.Decimal, producedOn time.Time, disponible bool) (*entity.Barra, error) {
	now := l.now()
	barra := &entity.Barra{
		ID:              uuid.New().String(),
		PesoGramos:      pesoGramos,
		Cantidad:        cantidad,
		FechaProduccion: producedOn,
		Disponible:      disponible,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := barra.Validate(); err != nil {
		return nil, err
	}
	if err := l.barras.Create(ctx, barra); err != nil {
		return nil, err
	}
	return barra, nil
}

// RemoveLot elimina un lote. El porcionado nunca borra barras; solo esta vía administrativa.
func (l *Ledger) RemoveLot(ctx context.Context, id string) error {
	barra, err := l.barras.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if barra == nil {
		return domain.ErrNotFound
	}
	return l.barras.Delete(ctx, id)
}

// SetAvailability marca un lote como disponible o no para la asignación.
func (l *Ledger) SetAvailability(ctx context.Context, id string, disponible bool) (*entity.Barra, error) {
	barra, err := l.barras.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if barra == nil {
		return nil, domain.ErrNotFound
	}
	barra.Disponible = disponible
	barra.UpdatedAt = l.now()
	if err := l.barras.Update(ctx, barra); err != nil {
		return nil, err
	}
	return barra, nil
}
