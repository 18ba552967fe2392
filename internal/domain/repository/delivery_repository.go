package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
)

// DeliveryLineRepository es el modelo de lectura de entregas. El núcleo nunca escribe entregas.
type DeliveryLineRepository interface {
	// ListLinesBetween devuelve las líneas cuya entrega tiene fecha en [start, end].
	ListLinesBetween(ctx context.Context, start, end time.Time) ([]*entity.DeliveryLine, error)
}
