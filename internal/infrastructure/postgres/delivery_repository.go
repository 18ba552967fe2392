package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.DeliveryLineRepository = (*DeliveryLineRepo)(nil)

// DeliveryLineRepo modelo de lectura sobre deliveries/hamburguesas. Nunca escribe.
type DeliveryLineRepo struct {
	q Querier
}

// NewDeliveryLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryLineRepository(q Querier) *DeliveryLineRepo {
	return &DeliveryLineRepo{q: q}
}

// ListLinesBetween líneas de entregas con fecha en [start, end]. Tipo, cantidad y gramaje nulos
// se leen como vacío y cero.
func (r *DeliveryLineRepo) ListLinesBetween(ctx context.Context, start, end time.Time) ([]*entity.DeliveryLine, error) {
	query := `
		SELECT h.id, d.id, d.client_id, d.fecha,
			COALESCE(h.tipo, ''), COALESCE(h.cantidad, 0), COALESCE(h.gramaje, 0)
		FROM hamburguesas h
		JOIN deliveries d ON d.id = h.delivery_id
		WHERE d.fecha >= $1 AND d.fecha <= $2
		ORDER BY d.fecha, h.id`
	rows, err := r.q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list delivery lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryLine
	for rows.Next() {
		var l entity.DeliveryLine
		if err := rows.Scan(&l.ID, &l.DeliveryID, &l.ClientID, &l.Fecha, &l.Tipo, &l.Cantidad, &l.Gramaje); err != nil {
			return nil, fmt.Errorf("scan delivery line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
