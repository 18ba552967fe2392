package repository

import (
	"context"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
)

// BarraMovementRepository define el puerto para el registro de consumos de barras.
type BarraMovementRepository interface {
	Create(ctx context.Context, movement *entity.BarraMovement) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.BarraMovement, error)
	ListByBarra(ctx context.Context, barraID string) ([]*entity.BarraMovement, error)
}
