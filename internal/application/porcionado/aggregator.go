package porcionado

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
	"github.com/shopspring/decimal"
)

// Demand es la demanda agregada de un lote (producto, gramaje) en un día.
type Demand struct {
	Key      entity.PorcionadoKey
	Cantidad decimal.Decimal
	Estado   string
	Lineas   int                // líneas de entrega que aportan; 0 si solo existe el registro persistido
	Batch    *entity.Porcionado // registro persistido, nil si el lote es efímero
}

// Gramos devuelve Gramaje * Cantidad de la demanda.
func (d *Demand) Gramos() decimal.Decimal {
	return d.Key.Gramaje.Mul(d.Cantidad)
}

// Aggregator agrupa líneas de entrega de un día en lotes de porcionado.
// Es una vista derivada: se recalcula en cada lectura, nunca se cachea.
type Aggregator struct {
	defaultProducto string
	loc             *time.Location
}

// NewAggregator construye el agregador. defaultProducto se asume para líneas sin tipo.
func NewAggregator(defaultProducto string, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{defaultProducto: defaultProducto, loc: loc}
}

// Location zona horaria del día de negocio.
func (a *Aggregator) Location() *time.Location { return a.loc }

// Producto normaliza el tipo de una línea: vacío -> producto base.
func (a *Aggregator) Producto(tipo string) string {
	if t := strings.TrimSpace(tipo); t != "" {
		return t
	}
	return a.defaultProducto
}

// Group agrupa lines por (producto, gramaje) exactos y suma cantidades.
// El estado de cada grupo sale del registro persistido con la misma clave (pendiente si no hay).
// Los lotes ya porcionados conservan su cantidad congelada, y los que quedaron sin líneas
// se incluyen igual para no perder el registro del consumo.
func (a *Aggregator) Group(day time.Time, lines []*entity.DeliveryLine, batches []*entity.Porcionado) map[entity.MapKey]*Demand {
	dayStart := fecha.StartOfDay(day, a.loc)
	out := make(map[entity.MapKey]*Demand)

	for _, l := range lines {
		key := entity.PorcionadoKey{Producto: a.Producto(l.Tipo), Gramaje: l.Gramaje, Fecha: dayStart}
		mk := key.MapKey()
		d, ok := out[mk]
		if !ok {
			d = &Demand{Key: key, Cantidad: decimal.Zero, Estado: entity.EstadoPendiente}
			out[mk] = d
		}
		d.Cantidad = d.Cantidad.Add(l.Cantidad)
		d.Lineas++
	}

	for _, b := range batches {
		mk := b.Key().MapKey()
		d, ok := out[mk]
		if !ok {
			if !b.IsPorcionado() {
				continue
			}
			d = &Demand{Key: entity.PorcionadoKey{Producto: b.Producto, Gramaje: b.Gramaje, Fecha: dayStart}}
			out[mk] = d
		}
		d.Batch = b
		d.Estado = b.Estado
		if b.IsPorcionado() {
			d.Cantidad = b.Cantidad
		}
	}
	return out
}

// AggregateForDay carga las líneas del día local [00:00:00.000, 23:59:59.999] y los registros
// persistidos de ese día, y los agrupa. Un día sin entregas devuelve un mapa vacío.
func (a *Aggregator) AggregateForDay(ctx context.Context, lines repository.DeliveryLineRepository, batches repository.PorcionadoRepository, day time.Time) (map[entity.MapKey]*Demand, error) {
	start, end := fecha.DayRange(day, a.loc)
	ls, err := lines.ListLinesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	bs, err := batches.ListByFecha(ctx, start)
	if err != nil {
		return nil, err
	}
	return a.Group(start, ls, bs), nil
}

// DemandFor devuelve la cantidad demandada hoy para key según las entregas.
// found es false si ninguna línea del día corresponde a la clave.
func (a *Aggregator) DemandFor(ctx context.Context, lines repository.DeliveryLineRepository, key entity.PorcionadoKey) (decimal.Decimal, bool, error) {
	start, end := fecha.DayRange(key.Fecha, a.loc)
	ls, err := lines.ListLinesBetween(ctx, start, end)
	if err != nil {
		return decimal.Zero, false, err
	}
	groups := a.Group(start, ls, nil)
	k := key
	k.Fecha = start
	d, ok := groups[k.MapKey()]
	if !ok {
		return decimal.Zero, false, nil
	}
	return d.Cantidad, true, nil
}
