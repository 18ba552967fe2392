package porcionado

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
	"github.com/rs/zerolog"
)

// UseCase operaciones de porcionado expuestas a la capa HTTP.
type UseCase struct {
	porcionados repository.PorcionadoRepository
	lines       repository.DeliveryLineRepository
	agg         *Aggregator
	engine      *Engine
	loc         *time.Location
}

// NewUseCase arma agregador, tracker y motor sobre los repositorios dados.
// porcionados y lines se usan para lecturas fuera de transacción; tx para los marcados.
func NewUseCase(
	porcionados repository.PorcionadoRepository,
	lines repository.DeliveryLineRepository,
	tx TxRunner,
	defaultProducto string,
	loc *time.Location,
	log zerolog.Logger,
) *UseCase {
	agg := NewAggregator(defaultProducto, loc)
	return &UseCase{
		porcionados: porcionados,
		lines:       lines,
		agg:         agg,
		engine:      NewEngine(tx, NewTracker(agg), log),
		loc:         agg.Location(),
	}
}

// Engine devuelve el motor de asignación.
func (uc *UseCase) Engine() *Engine { return uc.engine }

// ListForDay devuelve los lotes del día: demanda agregada más estado persistido,
// ordenados por producto y gramaje.
func (uc *UseCase) ListForDay(ctx context.Context, fechaStr string) ([]dto.PorcionadoResponse, error) {
	day, err := fecha.Parse(fechaStr, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	groups, err := uc.agg.AggregateForDay(ctx, uc.lines, uc.porcionados, day)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PorcionadoResponse, 0, len(groups))
	for _, d := range groups {
		items = append(items, demandResponse(d))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Producto != items[j].Producto {
			return items[i].Producto < items[j].Producto
		}
		return items[i].Gramaje.LessThan(items[j].Gramaje)
	})
	return items, nil
}

// SetEstado cambia el estado de un lote persistido. Pasar a porcionado ejecuta el motor;
// volver a pendiente nunca está permitido.
func (uc *UseCase) SetEstado(ctx context.Context, id string, in dto.UpdateEstadoRequest) (*dto.MarkPorcionadoResponse, error) {
	estado := strings.TrimSpace(in.Estado)
	if !entity.ValidEstado(estado) {
		return nil, domain.ErrInvalidInput
	}
	batch, err := uc.porcionados.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if estado == entity.EstadoPendiente {
		return nil, domain.ErrInvalidTransition
	}
	key := batch.Key()
	key.Fecha = fecha.DateIn(batch.Fecha, uc.loc)
	cantidad := batch.Cantidad
	if !cantidad.IsPositive() {
		// lote pendiente persistido sin demanda previa: el motor resuelve la cantidad vigente
		d, found, err := uc.agg.DemandFor(ctx, uc.lines, key)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domain.ErrNotFound
		}
		cantidad = d
	}
	res, err := uc.engine.MarkPortioned(ctx, key.Producto, key.Gramaje, cantidad, key.Fecha)
	if err != nil {
		return nil, err
	}
	return markResponse(res), nil
}

// MarkByKey marca por clave (producto, gramaje, fecha); se usa cuando el lote aún no tiene id.
func (uc *UseCase) MarkByKey(ctx context.Context, in dto.MarkPorcionadoRequest) (*dto.MarkPorcionadoResponse, error) {
	day, err := fecha.Parse(in.Fecha, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.engine.MarkPortioned(ctx, in.Producto, in.Gramaje, in.Cantidad, day)
	if err != nil {
		return nil, err
	}
	return markResponse(res), nil
}

func demandResponse(d *Demand) dto.PorcionadoResponse {
	out := dto.PorcionadoResponse{
		Producto: d.Key.Producto,
		Gramaje:  d.Key.Gramaje,
		Cantidad: d.Cantidad,
		Gramos:   d.Gramos(),
		Fecha:    fecha.Format(d.Key.Fecha),
		Estado:   d.Estado,
	}
	if d.Batch != nil {
		out.ID = d.Batch.ID
		out.Persisted = true
	}
	return out
}

func toPorcionadoResponse(p *entity.Porcionado) dto.PorcionadoResponse {
	return dto.PorcionadoResponse{
		ID:        p.ID,
		Producto:  p.Producto,
		Gramaje:   p.Gramaje,
		Cantidad:  p.Cantidad,
		Gramos:    p.Gramos(),
		Fecha:     fecha.Format(p.Fecha),
		Estado:    p.Estado,
		Persisted: p.Persisted(),
	}
}

func markResponse(res *MarkResult) *dto.MarkPorcionadoResponse {
	out := &dto.MarkPorcionadoResponse{
		Porcionado:        toPorcionadoResponse(res.Porcionado),
		AlreadyPorcionado: res.AlreadyPorcionado,
		ConsumedGrams:     res.ConsumedGrams,
		Consumos:          make([]dto.ConsumoResponse, 0, len(res.Consumed)),
	}
	for _, c := range res.Consumed {
		out.Consumos = append(out.Consumos, dto.ConsumoResponse{
			BarraID:         c.BarraID,
			Gramos:          c.Gramos,
			CantidadAntes:   c.CantidadAntes,
			CantidadDespues: c.CantidadDespues,
		})
	}
	return out
}
