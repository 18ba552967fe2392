package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.BarraMovementRepository = (*BarraMovementRepo)(nil)

const movementColumns = `id, transaction_id, barra_id, gramos, cantidad_antes, cantidad_despues, created_at`

// BarraMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type BarraMovementRepo struct {
	q Querier
}

// NewBarraMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBarraMovementRepository(q Querier) *BarraMovementRepo {
	return &BarraMovementRepo{q: q}
}

// Create persiste un consumo de barra.
func (r *BarraMovementRepo) Create(ctx context.Context, m *entity.BarraMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `INSERT INTO barra_movements (` + movementColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.BarraID, m.Gramos, m.CantidadAntes, m.CantidadDespues, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create barra movement: %w", err)
	}
	return nil
}

// ListByTransaction consumos de un porcionado.
func (r *BarraMovementRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.BarraMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM barra_movements WHERE transaction_id = $1 ORDER BY created_at, id`
	return r.list(ctx, "list by transaction", query, transactionID)
}

// ListByBarra historial de consumos de una barra.
func (r *BarraMovementRepo) ListByBarra(ctx context.Context, barraID string) ([]*entity.BarraMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM barra_movements WHERE barra_id = $1 ORDER BY created_at, id`
	return r.list(ctx, "list by barra", query, barraID)
}

func (r *BarraMovementRepo) list(ctx context.Context, op, query string, arg any) ([]*entity.BarraMovement, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.BarraMovement
	for rows.Next() {
		var m entity.BarraMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.BarraID, &m.Gramos, &m.CantidadAntes, &m.CantidadDespues, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan barra movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
