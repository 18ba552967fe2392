package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Porcionado-api/internal/application/inventory"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BarraUC      *inventory.BarraUseCase
	StockUC      *inventory.StockUseCase
	PorcionadoUC *porcionado.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Barras (libro de materia prima)
	barras := api.Group("/barras")
	barraHandler := NewBarraHandler(deps.BarraUC, deps.StockUC)
	barras.Get("/stock/summary", barraHandler.StockSummary)
	barras.Get("/shortage", barraHandler.Shortage)
	barras.Get("/availability", barraHandler.Availability)
	barras.Get("/", barraHandler.List)
	barras.Post("/", barraHandler.Create)
	barras.Get("/:id", barraHandler.GetByID)
	barras.Patch("/:id", barraHandler.Update)
	barras.Delete("/:id", barraHandler.Delete)

	// Porcionados
	porcionados := api.Group("/porcionados")
	porcionadoHandler := NewPorcionadoHandler(deps.PorcionadoUC)
	porcionados.Get("/", porcionadoHandler.List)
	porcionados.Post("/mark", porcionadoHandler.Mark)
	porcionados.Patch("/:id", porcionadoHandler.SetEstado)
}
