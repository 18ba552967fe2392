// Package ledger contiene la lógica pura del libro de barras: totales en gramos,
// orden FIFO y plan de consumo. No toca persistencia.
package ledger

import (
	"sort"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Consumption es un paso del plan: cuántos gramos se descuentan de qué barra.
type Consumption struct {
	Barra  *entity.Barra
	Gramos decimal.Decimal
}

// TotalGrams suma PesoGramos * Cantidad de las barras dadas.
func TotalGrams(lots []*entity.Barra) decimal.Decimal {
	total := decimal.Zero
	for _, b := range lots {
		total = total.Add(b.TotalGramos())
	}
	return total
}

// SortFIFO ordena por fecha de producción ascendente (la más antigua primero).
// Empates por ID para que el orden sea determinista.
func SortFIFO(lots []*entity.Barra) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		if !a.FechaProduccion.Equal(b.FechaProduccion) {
			return a.FechaProduccion.Before(b.FechaProduccion)
		}
		return a.ID < b.ID
	})
}

// PlanConsumption recorre lots en el orden recibido y reparte grams entre ellas:
// de cada barra toma min(total de la barra, restante). Las barras con total <= 0 se saltan.
// Devuelve el plan y los gramos que no se pudieron cubrir (cero si alcanzó).
func PlanConsumption(lots []*entity.Barra, grams decimal.Decimal) ([]Consumption, decimal.Decimal) {
	remaining := grams
	var plan []Consumption
	for _, b := range lots {
		if !remaining.IsPositive() {
			break
		}
		total := b.TotalGramos()
		if !total.IsPositive() {
			continue
		}
		take := decimal.Min(total, remaining)
		plan = append(plan, Consumption{Barra: b, Gramos: take})
		remaining = remaining.Sub(take)
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return plan, remaining
}

// Shortage devuelve max(0, required - available).
func Shortage(required, available decimal.Decimal) decimal.Decimal {
	if required.LessThanOrEqual(available) {
		return decimal.Zero
	}
	return required.Sub(available)
}
