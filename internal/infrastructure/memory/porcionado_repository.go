package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.PorcionadoRepository = (*porcionadoRepo)(nil)

type porcionadoRepo struct {
	access accessFn
}

func (r *porcionadoRepo) Create(_ context.Context, p *entity.Porcionado) error {
	return r.access(func(st *state) error {
		if _, ok := st.porcionados[p.ID]; ok {
			return domain.ErrConflict
		}
		mk := p.Key().MapKey()
		for _, existing := range st.porcionados {
			if existing.Key().MapKey() == mk {
				return domain.ErrConflict
			}
		}
		st.porcionados[p.ID] = *p
		return nil
	})
}

func (r *porcionadoRepo) Update(_ context.Context, p *entity.Porcionado) error {
	return r.access(func(st *state) error {
		if _, ok := st.porcionados[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.porcionados[p.ID] = *p
		return nil
	})
}

func (r *porcionadoRepo) GetByID(_ context.Context, id string) (*entity.Porcionado, error) {
	var out *entity.Porcionado
	err := r.access(func(st *state) error {
		if p, ok := st.porcionados[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *porcionadoRepo) GetByKey(_ context.Context, key entity.PorcionadoKey) (*entity.Porcionado, error) {
	mk := key.MapKey()
	var out *entity.Porcionado
	err := r.access(func(st *state) error {
		for _, p := range st.porcionados {
			if p.Key().MapKey() == mk {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *porcionadoRepo) ListByFecha(_ context.Context, fecha time.Time) ([]*entity.Porcionado, error) {
	day := fecha.Format("2006-01-02")
	var out []*entity.Porcionado
	err := r.access(func(st *state) error {
		for _, p := range st.porcionados {
			if p.Fecha.Format("2006-01-02") == day {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}
