//go:build integration

package postgres_test

// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Porcionado-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("porcionado_test"),
		tcPostgres.WithUsername("porcionado"),
		tcPostgres.WithPassword("porcionado"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// idempotente
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedLine(t *testing.T, pool *pgxpool.Pool, tipo, gramaje, cantidad string, at time.Time) {
	t.Helper()
	ctx := context.Background()
	deliveryID := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO deliveries (id, client_id, fecha) VALUES ($1, 'c1', $2)`, deliveryID, at)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO hamburguesas (id, delivery_id, tipo, cantidad, gramaje) VALUES ($1, $2, NULLIF($3, ''), $4, $5)`,
		uuid.NewString(), deliveryID, tipo, d(cantidad), d(gramaje))
	require.NoError(t, err)
}

func seedBarra(t *testing.T, repo *postgres.BarraRepo, peso, cantidad string, producedOn time.Time) string {
	t.Helper()
	now := time.Now()
	b := &entity.Barra{
		ID:              uuid.NewString(),
		PesoGramos:      d(peso),
		Cantidad:        d(cantidad),
		FechaProduccion: producedOn,
		Disponible:      true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b.ID
}

func TestPostgres_MarkPortioned(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	loc := time.UTC
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	barras := postgres.NewBarraRepository(pool)
	older := seedBarra(t, barras, "500", "2", day.AddDate(0, 0, -1))
	newer := seedBarra(t, barras, "500", "2", day)
	seedLine(t, pool, "", "200", "3", day.Add(9*time.Hour))
	seedLine(t, pool, "hamburguesa", "200", "4", day.Add(11*time.Hour))
	seedLine(t, pool, "chorizo", "100", "30", day.Add(11*time.Hour))

	tx := postgres.NewTxRunner(pool, 5, logger.Nop().Component("tx"))
	uc := porcionado.NewUseCase(postgres.NewPorcionadoRepository(pool), postgres.NewDeliveryLineRepository(pool), tx, "hamburguesa", loc, logger.Nop().Component("porcionado"))

	items, err := uc.ListForDay(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "chorizo", items[0].Producto)
	assert.True(t, items[1].Cantidad.Equal(d("7")))

	res, err := uc.MarkByKey(ctx, dto.MarkPorcionadoRequest{Producto: "hamburguesa", Gramaje: d("200"), Cantidad: d("7"), Fecha: "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, res.ConsumedGrams.Equal(d("1400")))
	require.Len(t, res.Consumos, 2)
	assert.Equal(t, older, res.Consumos[0].BarraID)

	b, err := barras.GetByID(ctx, older)
	require.NoError(t, err)
	assert.True(t, b.Cantidad.IsZero())
	b, err = barras.GetByID(ctx, newer)
	require.NoError(t, err)
	assert.True(t, b.Cantidad.Equal(d("1.2")))

	movs, err := postgres.NewBarraMovementRepository(pool).ListByTransaction(ctx, res.Porcionado.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	// quedan 600 g; chorizo exige 1400 ya comprometidos + 3000
	_, err = uc.MarkByKey(ctx, dto.MarkPorcionadoRequest{Producto: "chorizo", Gramaje: d("100"), Cantidad: d("30"), Fecha: "2024-01-01"})
	var insufficient *domain.InsufficientMaterialError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.ShortageGrams.Equal(d("3800")))

	b, err = barras.GetByID(ctx, newer)
	require.NoError(t, err)
	assert.True(t, b.Cantidad.Equal(d("1.2")))

	_, err = uc.SetEstado(ctx, res.Porcionado.ID, dto.UpdateEstadoRequest{Estado: entity.EstadoPendiente})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	again, err := uc.SetEstado(ctx, res.Porcionado.ID, dto.UpdateEstadoRequest{Estado: entity.EstadoPorcionado})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPorcionado)
}

func TestPostgres_ConcurrentMarksDoNotOverdraw(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	loc := time.UTC
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	barras := postgres.NewBarraRepository(pool)
	id := seedBarra(t, barras, "1000", "1", day)
	productos := []string{"hamburguesa", "chorizo", "morcilla", "pollo"}
	for _, p := range productos {
		seedLine(t, pool, p, "100", "6", day.Add(9*time.Hour))
	}

	tx := postgres.NewTxRunner(pool, 10, logger.Nop().Component("tx"))
	uc := porcionado.NewUseCase(postgres.NewPorcionadoRepository(pool), postgres.NewDeliveryLineRepository(pool), tx, "hamburguesa", loc, logger.Nop().Component("porcionado"))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, p := range productos {
		wg.Add(1)
		go func(producto string) {
			defer wg.Done()
			_, err := uc.MarkByKey(ctx, dto.MarkPorcionadoRequest{Producto: producto, Gramaje: d("100"), Cantidad: d("6"), Fecha: "2024-01-01"})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	b, err := barras.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, b.Cantidad.Equal(d("0.4")))
}

func TestPostgres_PorcionadoKeyIsUnique(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := postgres.NewPorcionadoRepository(pool)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p := &entity.Porcionado{ID: uuid.NewString(), Producto: "hamburguesa", Gramaje: d("200"), Cantidad: d("5"), Fecha: day, Estado: entity.EstadoPorcionado, CreatedAt: day, UpdatedAt: day}
	require.NoError(t, repo.Create(ctx, p))

	dup := *p
	dup.ID = uuid.NewString()
	dup.Gramaje = d("200.0")
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrConflict)

	got, err := repo.GetByKey(ctx, entity.PorcionadoKey{Producto: "hamburguesa", Gramaje: d("200"), Fecha: day})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "2024-01-01", got.Fecha.Format("2006-01-02"))
}

func TestPostgres_ReMarcarPorIDEnZonaConOffsetNegativo(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	loc := time.FixedZone("COT", -5*3600)
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	day2 := day1.AddDate(0, 0, 1)

	barras := postgres.NewBarraRepository(pool)
	id := seedBarra(t, barras, "1000", "10", day1.AddDate(0, 0, -1))
	seedLine(t, pool, "hamburguesa", "200", "5", day1.Add(10*time.Hour))
	seedLine(t, pool, "hamburguesa", "200", "5", day2.Add(10*time.Hour))

	tx := postgres.NewTxRunner(pool, 5, logger.Nop().Component("tx"))
	uc := porcionado.NewUseCase(postgres.NewPorcionadoRepository(pool), postgres.NewDeliveryLineRepository(pool), tx, "hamburguesa", loc, logger.Nop().Component("porcionado"))

	res, err := uc.MarkByKey(ctx, dto.MarkPorcionadoRequest{Producto: "hamburguesa", Gramaje: d("200"), Cantidad: d("5"), Fecha: "2024-01-02"})
	require.NoError(t, err)
	assert.True(t, res.ConsumedGrams.Equal(d("1000")))

	// la fecha leída de la columna DATE no debe correr el lote al día anterior
	again, err := uc.SetEstado(ctx, res.Porcionado.ID, dto.UpdateEstadoRequest{Estado: entity.EstadoPorcionado})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPorcionado)
	assert.True(t, again.ConsumedGrams.IsZero())
	assert.Equal(t, "2024-01-02", again.Porcionado.Fecha)

	b, err := barras.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, b.Cantidad.Equal(d("9")))

	items, err := uc.ListForDay(ctx, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.EstadoPendiente, items[0].Estado)
}

func TestPostgres_ConsumoFraccionalSeGuardaALaEscalaPersistida(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	loc := time.UTC
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	barras := postgres.NewBarraRepository(pool)
	id := seedBarra(t, barras, "3", "1", day)
	seedLine(t, pool, "hamburguesa", "1", "1", day.Add(9*time.Hour))

	tx := postgres.NewTxRunner(pool, 5, logger.Nop().Component("tx"))
	uc := porcionado.NewUseCase(postgres.NewPorcionadoRepository(pool), postgres.NewDeliveryLineRepository(pool), tx, "hamburguesa", loc, logger.Nop().Component("porcionado"))

	res, err := uc.MarkByKey(ctx, dto.MarkPorcionadoRequest{Producto: "hamburguesa", Gramaje: d("1"), Cantidad: d("1"), Fecha: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, res.Consumos, 1)

	b, err := barras.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "0.66666667", b.Cantidad.String())
	assert.True(t, res.Consumos[0].CantidadDespues.Equal(b.Cantidad))

	movs, err := postgres.NewBarraMovementRepository(pool).ListByTransaction(ctx, res.Porcionado.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].CantidadDespues.Equal(b.Cantidad))

	// conservación a la escala de gramos persistida
	delta := d("3").Mul(d("1").Sub(b.Cantidad)).Round(entity.GramosScale)
	assert.True(t, delta.Equal(res.ConsumedGrams), "delta %s consumido %s", delta, res.ConsumedGrams)
}
