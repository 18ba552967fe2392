package memory

import (
	"context"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.BarraMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	access accessFn
}

func (r *movementRepo) Create(_ context.Context, movement *entity.BarraMovement) error {
	return r.access(func(st *state) error {
		st.movements = append(st.movements, *movement)
		return nil
	})
}

func (r *movementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.BarraMovement, error) {
	return r.filter(func(m entity.BarraMovement) bool { return m.TransactionID == transactionID })
}

func (r *movementRepo) ListByBarra(_ context.Context, barraID string) ([]*entity.BarraMovement, error) {
	return r.filter(func(m entity.BarraMovement) bool { return m.BarraID == barraID })
}

func (r *movementRepo) filter(keep func(entity.BarraMovement) bool) ([]*entity.BarraMovement, error) {
	var out []*entity.BarraMovement
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if keep(m) {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}
