package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
)

// PorcionadoRepository define el puerto de persistencia de los lotes de porcionado.
// Existe como máximo un registro por (producto, gramaje, fecha).
type PorcionadoRepository interface {
	Create(ctx context.Context, p *entity.Porcionado) error
	Update(ctx context.Context, p *entity.Porcionado) error
	GetByID(ctx context.Context, id string) (*entity.Porcionado, error)
	GetByKey(ctx context.Context, key entity.PorcionadoKey) (*entity.Porcionado, error)
	// ListByFecha devuelve los registros persistidos del día (fecha = medianoche local).
	ListByFecha(ctx context.Context, fecha time.Time) ([]*entity.Porcionado, error)
}
