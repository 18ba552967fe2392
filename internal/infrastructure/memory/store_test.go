package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBarra(id string, peso, cantidad int64, producedOn time.Time) *entity.Barra {
	return &entity.Barra{
		ID:              id,
		PesoGramos:      decimal.NewFromInt(peso),
		Cantidad:        decimal.NewFromInt(cantidad),
		FechaProduccion: producedOn,
		Disponible:      true,
	}
}

func TestStore_RunRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Barras().Create(ctx, newBarra("b1", 500, 2, time.Now())))

	boom := errors.New("boom")
	err := s.Run(ctx, func(barras repository.BarraRepository, _ repository.PorcionadoRepository, _ repository.DeliveryLineRepository, movs repository.BarraMovementRepository) error {
		require.NoError(t, barras.UpdateCantidad(ctx, "b1", decimal.Zero))
		require.NoError(t, movs.Create(ctx, &entity.BarraMovement{ID: "m1", BarraID: "b1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := s.Barras().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, b.Cantidad.Equal(decimal.NewFromInt(2)))
	movs, err := s.Movements().ListByBarra(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestStore_RunCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Barras().Create(ctx, newBarra("b1", 500, 2, time.Now())))

	err := s.Run(ctx, func(barras repository.BarraRepository, _ repository.PorcionadoRepository, _ repository.DeliveryLineRepository, _ repository.BarraMovementRepository) error {
		return barras.UpdateCantidad(ctx, "b1", decimal.RequireFromString("0.4"))
	})
	require.NoError(t, err)

	b, err := s.Barras().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "0.4", b.Cantidad.String())
}

func TestBarraRepo_ListAvailable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)
	repo := s.Barras()
	require.NoError(t, repo.Create(ctx, newBarra("c", 100, 1, d2)))
	require.NoError(t, repo.Create(ctx, newBarra("b", 100, 1, d2)))
	require.NoError(t, repo.Create(ctx, newBarra("a", 100, 1, d1)))
	require.NoError(t, repo.Create(ctx, newBarra("future", 100, 1, d3)))
	off := newBarra("off", 100, 1, d1)
	off.Disponible = false
	require.NoError(t, repo.Create(ctx, off))

	lots, err := repo.ListAvailable(ctx, &d2)
	require.NoError(t, err)
	ids := make([]string, 0, len(lots))
	for _, l := range lots {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	all, err := repo.List(ctx, repository.BarraFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "future", all[0].ID)
}

func TestBarraRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Barras().Create(ctx, newBarra("b1", 500, 2, time.Now())))

	b, err := s.Barras().GetByID(ctx, "b1")
	require.NoError(t, err)
	b.Cantidad = decimal.Zero

	again, err := s.Barras().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, again.Cantidad.Equal(decimal.NewFromInt(2)))
}

func TestPorcionadoRepo_UniqueKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &entity.Porcionado{
		ID:       "p1",
		Producto: "hamburguesa",
		Gramaje:  decimal.NewFromInt(200),
		Cantidad: decimal.NewFromInt(5),
		Fecha:    day,
		Estado:   entity.EstadoPorcionado,
	}
	require.NoError(t, s.Porcionados().Create(ctx, p))

	dup := *p
	dup.ID = "p2"
	dup.Gramaje = decimal.RequireFromString("200.0")
	assert.ErrorIs(t, s.Porcionados().Create(ctx, &dup), domain.ErrConflict)

	got, err := s.Porcionados().GetByKey(ctx, entity.PorcionadoKey{Producto: "hamburguesa", Gramaje: decimal.NewFromInt(200), Fecha: day})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)

	list, err := s.Porcionados().ListByFecha(ctx, day)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeliveryLineRepo_ListLinesBetween(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	s.AddDeliveryLines(
		&entity.DeliveryLine{ID: "l1", Fecha: start},
		&entity.DeliveryLine{ID: "l2", Fecha: end},
		&entity.DeliveryLine{ID: "l3", Fecha: end.Add(time.Millisecond)},
	)

	lines, err := s.DeliveryLines().ListLinesBetween(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "l1", lines[0].ID)
	assert.Equal(t, "l2", lines[1].ID)
}
