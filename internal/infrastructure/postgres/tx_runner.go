package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

var _ porcionado.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE.
// Dos marcados concurrentes no pueden leer el mismo stock y creer ambos que alcanza:
// uno de los dos falla con 40001 y se reintenta desde cero.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner. maxRetries es el número total de intentos (mínimo 1).
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante fallos de serialización, deadlocks o una carrera al crear el mismo porcionado, reintenta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	barraRepo repository.BarraRepository,
	porcionadoRepo repository.PorcionadoRepository,
	lineRepo repository.DeliveryLineRepository,
	movRepo repository.BarraMovementRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("transacción en conflicto, reintentando")
	}
	if retryable(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	barraRepo repository.BarraRepository,
	porcionadoRepo repository.PorcionadoRepository,
	lineRepo repository.DeliveryLineRepository,
	movRepo repository.BarraMovementRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBarraRepository(tx),
		NewPorcionadoRepository(tx),
		NewDeliveryLineRepository(tx),
		NewBarraMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	return isRetryable(err) || errors.Is(err, errPorcionadoKeyTaken)
}
