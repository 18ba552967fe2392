package porcionado

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Porcionado-api/internal/application/inventory"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/ledger"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ConsumedLot gramos descontados de una barra durante un marcado.
type ConsumedLot struct {
	BarraID         string
	Gramos          decimal.Decimal
	CantidadAntes   decimal.Decimal
	CantidadDespues decimal.Decimal
}

// MarkResult resultado de MarkPortioned.
type MarkResult struct {
	Porcionado        *entity.Porcionado
	Consumed          []ConsumedLot
	ConsumedGrams     decimal.Decimal
	AlreadyPorcionado bool
}

// Engine es el motor de asignación: verifica material suficiente y consume barras en orden FIFO
// dentro de una sola transacción. Es el único escritor de la cantidad de las barras.
type Engine struct {
	tx      TxRunner
	tracker *Tracker
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

// NewEngine construye el motor.
func NewEngine(tx TxRunner, tracker *Tracker, log zerolog.Logger) *Engine {
	return &Engine{
		tx:      tx,
		tracker: tracker,
		loc:     tracker.agg.Location(),
		now:     time.Now,
		log:     log,
	}
}

// SetClock reemplaza el reloj del corte de stock (fin del día actual).
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// MarkPortioned marca el lote (producto, gramaje, día) como porcionado consumiendo
// gramaje*cantidad gramos de las barras disponibles, las más antiguas primero.
// Re-marcar un lote ya porcionado no hace nada. Si el material no alcanza devuelve
// *domain.InsufficientMaterialError y no modifica nada.
//
// cantidad debe ser positiva; la cantidad usada es la demanda agregada del día.
func (e *Engine) MarkPortioned(ctx context.Context, producto string, gramaje, cantidad decimal.Decimal, day time.Time) (*MarkResult, error) {
	start := time.Now()
	defer func() { markDuration.Observe(time.Since(start).Seconds()) }()

	producto = strings.TrimSpace(producto)
	if producto == "" {
		markTotal.WithLabelValues(resultRejected).Inc()
		return nil, domain.ErrInvalidInput
	}
	if !gramaje.IsPositive() || !cantidad.IsPositive() || !entity.FitsScale(gramaje, entity.GramosScale) {
		markTotal.WithLabelValues(resultRejected).Inc()
		return nil, domain.ErrInvalidQuantity
	}
	key := entity.PorcionadoKey{Producto: producto, Gramaje: gramaje, Fecha: fecha.StartOfDay(day, e.loc)}
	log := e.log.With().
		Str("producto", key.Producto).
		Str("gramaje", key.Gramaje.String()).
		Str("fecha", fecha.Format(key.Fecha)).
		Logger()

	var result *MarkResult
	err := e.tx.Run(ctx, func(
		barraRepo repository.BarraRepository,
		porcionadoRepo repository.PorcionadoRepository,
		lineRepo repository.DeliveryLineRepository,
		movRepo repository.BarraMovementRepository,
	) error {
		// fn puede re-ejecutarse ante un fallo de serialización.
		result = nil

		batch, err := e.tracker.GetOrCreateBatch(ctx, porcionadoRepo, lineRepo, key)
		if err != nil {
			return err
		}
		if batch.IsPorcionado() {
			result = &MarkResult{Porcionado: batch, ConsumedGrams: decimal.Zero, AlreadyPorcionado: true}
			return nil
		}

		if !batch.Cantidad.Equal(cantidad) {
			log.Warn().
				Str("cantidad_solicitada", cantidad.String()).
				Str("cantidad_demanda", batch.Cantidad.String()).
				Msg("la cantidad solicitada difiere de la demanda agregada; se usa la demanda")
		}
		toAdd := batch.Gramos()
		if !toAdd.IsPositive() {
			return domain.ErrInvalidQuantity
		}

		alreadyUsed, err := e.alreadyUsedGrams(ctx, porcionadoRepo, key)
		if err != nil {
			return err
		}

		led := inventory.NewLedger(barraRepo, movRepo)
		cutoff := fecha.EndOfDay(e.now(), e.loc)
		lots, err := led.LockAvailableLots(ctx, &cutoff)
		if err != nil {
			return err
		}
		available := led.TotalGrams(lots)
		required := alreadyUsed.Add(toAdd)

		log.Debug().
			Str("to_add_grams", toAdd.String()).
			Str("already_used_grams", alreadyUsed.String()).
			Str("required_grams", required.String()).
			Str("available_grams", available.String()).
			Msg("cálculo de material")

		if required.GreaterThan(available) {
			return domain.NewInsufficientMaterial(required, available)
		}

		plan, remaining := ledger.PlanConsumption(lots, toAdd)
		if remaining.IsPositive() {
			return domain.NewInsufficientMaterial(toAdd, toAdd.Sub(remaining))
		}

		isNew := !batch.Persisted()
		if isNew {
			batch.ID = uuid.New().String()
		}

		res := &MarkResult{Porcionado: batch, ConsumedGrams: decimal.Zero}
		for _, step := range plan {
			before := step.Barra.Cantidad
			after, err := led.Consume(ctx, step.Barra.ID, step.Gramos, batch.ID)
			if err != nil {
				return err
			}
			res.Consumed = append(res.Consumed, ConsumedLot{
				BarraID:         step.Barra.ID,
				Gramos:          step.Gramos,
				CantidadAntes:   before,
				CantidadDespues: after,
			})
			res.ConsumedGrams = res.ConsumedGrams.Add(step.Gramos)
			log.Debug().
				Str("barra_id", step.Barra.ID).
				Str("gramos", step.Gramos.String()).
				Str("cantidad_despues", after.String()).
				Msg("barra consumida")
		}

		if err := e.tracker.Transition(batch, entity.EstadoPorcionado); err != nil {
			return err
		}
		if err := e.tracker.Save(ctx, porcionadoRepo, batch, isNew); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		var insufficient *domain.InsufficientMaterialError
		switch {
		case errors.As(err, &insufficient):
			markTotal.WithLabelValues(resultInsufficient).Inc()
			shortageGrams.Observe(insufficient.ShortageGrams.InexactFloat64())
			log.Warn().
				Str("required_grams", insufficient.RequiredGrams.String()).
				Str("available_grams", insufficient.AvailableGrams.String()).
				Str("shortage_grams", insufficient.ShortageGrams.String()).
				Msg("material insuficiente para porcionar")
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidTransition):
			markTotal.WithLabelValues(resultRejected).Inc()
		default:
			markTotal.WithLabelValues(resultError).Inc()
			log.Error().Err(err).Msg("error marcando porcionado")
		}
		return nil, err
	}

	if result.AlreadyPorcionado {
		markTotal.WithLabelValues(resultAlready).Inc()
	} else {
		markTotal.WithLabelValues(resultOK).Inc()
		consumedGramsTotal.Add(result.ConsumedGrams.InexactFloat64())
		log.Info().
			Str("porcionado_id", result.Porcionado.ID).
			Str("consumed_grams", result.ConsumedGrams.String()).
			Int("barras", len(result.Consumed)).
			Msg("porcionado marcado")
	}
	return result, nil
}

// alreadyUsedGrams suma gramaje*cantidad de los otros lotes del día ya porcionados.
func (e *Engine) alreadyUsedGrams(ctx context.Context, batches repository.PorcionadoRepository, key entity.PorcionadoKey) (decimal.Decimal, error) {
	list, err := batches.ListByFecha(ctx, key.Fecha)
	if err != nil {
		return decimal.Zero, err
	}
	self := key.MapKey()
	total := decimal.Zero
	for _, b := range list {
		if !b.IsPorcionado() || b.Key().MapKey() == self {
			continue
		}
		total = total.Add(b.Gramos())
	}
	return total, nil
}
