package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ repository.DeliveryLineRepository = (*deliveryLineRepo)(nil)

type deliveryLineRepo struct {
	access accessFn
}

func (r *deliveryLineRepo) ListLinesBetween(_ context.Context, start, end time.Time) ([]*entity.DeliveryLine, error) {
	var out []*entity.DeliveryLine
	err := r.access(func(st *state) error {
		for _, l := range st.lines {
			if l.Fecha.Before(start) || l.Fecha.After(end) {
				continue
			}
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
