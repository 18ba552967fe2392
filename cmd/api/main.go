package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Porcionado-api/internal/application/inventory"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/internal/infrastructure/memory"
	"github.com/jhoicas/Porcionado-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Porcionado-api/internal/interfaces/http"
	"github.com/jhoicas/Porcionado-api/pkg/config"
	"github.com/jhoicas/Porcionado-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// repositorios y runner transaccional del backend elegido
type backend struct {
	barras      repository.BarraRepository
	movements   repository.BarraMovementRepository
	porcionados repository.PorcionadoRepository
	lines       repository.DeliveryLineRepository
	tx          porcionado.TxRunner
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	// gramos como números JSON, no strings
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer be.close()

	barraUC := inventory.NewBarraUseCase(be.barras, be.movements, loc)
	stockUC := inventory.NewStockUseCase(be.barras, be.lines, loc)
	porcionadoUC := porcionado.NewUseCase(
		be.porcionados, be.lines, be.tx,
		cfg.Porcionado.DefaultProducto, loc, log.Component("porcionado"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Porcionado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		BarraUC:      barraUC,
		StockUC:      stockUC,
		PorcionadoUC: porcionadoUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &backend{
			barras:      store.Barras(),
			movements:   store.Movements(),
			porcionados: store.Porcionados(),
			lines:       store.DeliveryLines(),
			tx:          store,
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &backend{
		barras:      postgres.NewBarraRepository(pool),
		movements:   postgres.NewBarraMovementRepository(pool),
		porcionados: postgres.NewPorcionadoRepository(pool),
		lines:       postgres.NewDeliveryLineRepository(pool),
		tx:          postgres.NewTxRunner(pool, cfg.Porcionado.TxMaxRetries, log.Component("tx")),
		close:       pool.Close,
	}, nil
}
