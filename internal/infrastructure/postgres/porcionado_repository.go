package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.PorcionadoRepository = (*PorcionadoRepo)(nil)

// errPorcionadoKeyTaken otro marcado concurrente creó el mismo lote; el TxRunner reintenta.
var errPorcionadoKeyTaken = fmt.Errorf("%w: porcionado ya existe para la clave", domain.ErrConflict)

const porcionadoColumns = `id, producto, gramaje, cantidad, fecha, estado, created_at, updated_at`

// PorcionadoRepo implementación de PorcionadoRepository sobre PostgreSQL.
type PorcionadoRepo struct {
	q Querier
}

// NewPorcionadoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPorcionadoRepository(q Querier) *PorcionadoRepo {
	return &PorcionadoRepo{q: q}
}

// Create inserta el lote. La unicidad (producto, gramaje, fecha) la garantiza la BD.
func (r *PorcionadoRepo) Create(ctx context.Context, p *entity.Porcionado) error {
	query := `
		INSERT INTO porcionados (` + porcionadoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Producto, p.Gramaje, p.Cantidad, p.Fecha, p.Estado, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errPorcionadoKeyTaken
		}
		return fmt.Errorf("create porcionado: %w", err)
	}
	return nil
}

// Update persiste estado y cantidad.
func (r *PorcionadoRepo) Update(ctx context.Context, p *entity.Porcionado) error {
	query := `UPDATE porcionados SET cantidad = $2, estado = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Cantidad, p.Estado, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update porcionado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil, nil si no existe.
func (r *PorcionadoRepo) GetByID(ctx context.Context, id string) (*entity.Porcionado, error) {
	query := `SELECT ` + porcionadoColumns + ` FROM porcionados WHERE id = $1`
	p, err := scanPorcionado(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get porcionado: %w", err)
	}
	return p, nil
}

// GetByKey obtiene el lote de (producto, gramaje, fecha). Devuelve nil, nil si no existe.
func (r *PorcionadoRepo) GetByKey(ctx context.Context, key entity.PorcionadoKey) (*entity.Porcionado, error) {
	query := `
		SELECT ` + porcionadoColumns + `
		FROM porcionados
		WHERE producto = $1 AND gramaje = $2 AND fecha = $3::date`
	p, err := scanPorcionado(r.q.QueryRow(ctx, query, key.Producto, key.Gramaje, key.Fecha.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get porcionado by key: %w", err)
	}
	return p, nil
}

// ListByFecha lista los lotes persistidos del día.
func (r *PorcionadoRepo) ListByFecha(ctx context.Context, fecha time.Time) ([]*entity.Porcionado, error) {
	query := `
		SELECT ` + porcionadoColumns + `
		FROM porcionados
		WHERE fecha = $1::date
		ORDER BY producto, gramaje`
	rows, err := r.q.Query(ctx, query, fecha.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list porcionados: %w", err)
	}
	defer rows.Close()
	var list []*entity.Porcionado
	for rows.Next() {
		p, err := scanPorcionado(rows)
		if err != nil {
			return nil, fmt.Errorf("scan porcionado: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPorcionado(row pgx.Row) (*entity.Porcionado, error) {
	var p entity.Porcionado
	if err := row.Scan(&p.ID, &p.Producto, &p.Gramaje, &p.Cantidad, &p.Fecha, &p.Estado, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
