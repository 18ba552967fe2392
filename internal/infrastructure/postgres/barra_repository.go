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
	"github.com/shopspring/decimal"
)

var _ repository.BarraRepository = (*BarraRepo)(nil)

const barraColumns = `id, peso_gramos, cantidad, fecha_produccion, disponible, created_at, updated_at`

// BarraRepo implementación de BarraRepository sobre PostgreSQL (usable con pool o tx).
type BarraRepo struct {
	q Querier
}

// NewBarraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBarraRepository(q Querier) *BarraRepo {
	return &BarraRepo{q: q}
}

// Create inserta una barra.
func (r *BarraRepo) Create(ctx context.Context, b *entity.Barra) error {
	query := `
		INSERT INTO barras (` + barraColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.PesoGramos, b.Cantidad, b.FechaProduccion, b.Disponible, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create barra: %w", err)
	}
	return nil
}

// GetByID obtiene una barra por ID. Devuelve nil, nil si no existe.
func (r *BarraRepo) GetByID(ctx context.Context, id string) (*entity.Barra, error) {
	query := `SELECT ` + barraColumns + ` FROM barras WHERE id = $1`
	b, err := scanBarra(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get barra: %w", err)
	}
	return b, nil
}

// Update reemplaza los campos editables de una barra.
func (r *BarraRepo) Update(ctx context.Context, b *entity.Barra) error {
	query := `
		UPDATE barras
		SET peso_gramos = $2, cantidad = $3, fecha_produccion = $4, disponible = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.PesoGramos, b.Cantidad, b.FechaProduccion, b.Disponible, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update barra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una barra (y en cascada sus movimientos).
func (r *BarraRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM barras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete barra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista barras más recientes primero, con filtros opcionales.
func (r *BarraRepo) List(ctx context.Context, filter repository.BarraFilter) ([]*entity.Barra, error) {
	query := `SELECT ` + barraColumns + ` FROM barras WHERE 1=1`
	var args []any
	pos := 1
	if filter.ProducedFrom != nil {
		query += fmt.Sprintf(" AND fecha_produccion >= $%d", pos)
		args = append(args, *filter.ProducedFrom)
		pos++
	}
	if filter.ProducedTo != nil {
		query += fmt.Sprintf(" AND fecha_produccion <= $%d", pos)
		args = append(args, *filter.ProducedTo)
		pos++
	}
	if filter.Disponible != nil {
		query += fmt.Sprintf(" AND disponible = $%d", pos)
		args = append(args, *filter.Disponible)
	}
	query += " ORDER BY fecha_produccion DESC, id ASC"
	return r.query(ctx, "list barras", query, args...)
}

// ListAvailable barras disponibles producidas hasta asOf (si no es nil), en orden FIFO.
func (r *BarraRepo) ListAvailable(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	query := `
		SELECT ` + barraColumns + `
		FROM barras
		WHERE disponible = TRUE AND ($1::timestamptz IS NULL OR fecha_produccion <= $1)
		ORDER BY fecha_produccion ASC, id ASC`
	return r.query(ctx, "list available barras", query, asOf)
}

// ListAvailableForUpdate igual que ListAvailable pero con SELECT ... FOR UPDATE.
func (r *BarraRepo) ListAvailableForUpdate(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	query := `
		SELECT ` + barraColumns + `
		FROM barras
		WHERE disponible = TRUE AND ($1::timestamptz IS NULL OR fecha_produccion <= $1)
		ORDER BY fecha_produccion ASC, id ASC
		FOR UPDATE`
	return r.query(ctx, "lock available barras", query, asOf)
}

// UpdateCantidad persiste la cantidad restante de una barra.
func (r *BarraRepo) UpdateCantidad(ctx context.Context, id string, cantidad decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE barras SET cantidad = $2, updated_at = now() WHERE id = $1`, id, cantidad)
	if err != nil {
		return fmt.Errorf("update cantidad barra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BarraRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Barra, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Barra
	for rows.Next() {
		b, err := scanBarra(rows)
		if err != nil {
			return nil, fmt.Errorf("scan barra: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBarra(row pgx.Row) (*entity.Barra, error) {
	var b entity.Barra
	if err := row.Scan(&b.ID, &b.PesoGramos, &b.Cantidad, &b.FechaProduccion, &b.Disponible, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
