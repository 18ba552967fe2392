package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/ledger"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BarraRepository = (*barraRepo)(nil)

type barraRepo struct {
	access accessFn
}

func (r *barraRepo) Create(_ context.Context, barra *entity.Barra) error {
	return r.access(func(st *state) error {
		if _, ok := st.barras[barra.ID]; ok {
			return domain.ErrConflict
		}
		st.barras[barra.ID] = *barra
		return nil
	})
}

func (r *barraRepo) GetByID(_ context.Context, id string) (*entity.Barra, error) {
	var out *entity.Barra
	err := r.access(func(st *state) error {
		if b, ok := st.barras[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *barraRepo) Update(_ context.Context, barra *entity.Barra) error {
	return r.access(func(st *state) error {
		if _, ok := st.barras[barra.ID]; !ok {
			return domain.ErrNotFound
		}
		st.barras[barra.ID] = *barra
		return nil
	})
}

func (r *barraRepo) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.barras[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.barras, id)
		return nil
	})
}

func (r *barraRepo) List(_ context.Context, filter repository.BarraFilter) ([]*entity.Barra, error) {
	var out []*entity.Barra
	err := r.access(func(st *state) error {
		for _, b := range st.barras {
			if filter.ProducedFrom != nil && b.FechaProduccion.Before(*filter.ProducedFrom) {
				continue
			}
			if filter.ProducedTo != nil && b.FechaProduccion.After(*filter.ProducedTo) {
				continue
			}
			if filter.Disponible != nil && b.Disponible != *filter.Disponible {
				continue
			}
			b := b
			out = append(out, &b)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].FechaProduccion.Equal(out[j].FechaProduccion) {
			return out[i].FechaProduccion.After(out[j].FechaProduccion)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *barraRepo) ListAvailable(_ context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	var out []*entity.Barra
	err := r.access(func(st *state) error {
		for _, b := range st.barras {
			if !b.Disponible {
				continue
			}
			if asOf != nil && b.FechaProduccion.After(*asOf) {
				continue
			}
			b := b
			out = append(out, &b)
		}
		return nil
	})
	ledger.SortFIFO(out)
	return out, err
}

// ListAvailableForUpdate dentro de Store.Run el mutex ya está tomado; no hay bloqueo por fila.
func (r *barraRepo) ListAvailableForUpdate(ctx context.Context, asOf *time.Time) ([]*entity.Barra, error) {
	return r.ListAvailable(ctx, asOf)
}

func (r *barraRepo) UpdateCantidad(_ context.Context, id string, cantidad decimal.Decimal) error {
	return r.access(func(st *state) error {
		b, ok := st.barras[id]
		if !ok {
			return domain.ErrNotFound
		}
		b.Cantidad = cantidad
		b.UpdatedAt = time.Now()
		st.barras[id] = b
		return nil
	})
}
