package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// BarraHandler maneja las peticiones HTTP del libro de barras.
type BarraHandler struct {
	uc    *inventory.BarraUseCase
	stock *inventory.StockUseCase
}

// NewBarraHandler construye el handler.
func NewBarraHandler(uc *inventory.BarraUseCase, stock *inventory.StockUseCase) *BarraHandler {
	return &BarraHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Registrar producción de barras
// @Tags         barras
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBarraRequest  true  "Lote producido"
// @Success      201   {object}  dto.BarraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/barras [post]
func (h *BarraHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBarraRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener barra por ID
// @Tags         barras
// @Produce      json
// @Param        id   path  string  true  "ID de la barra"
// @Success      200  {object}  dto.BarraResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barras/{id} [get]
func (h *BarraHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar barras
// @Tags         barras
// @Produce      json
// @Param        fecha       query  string  false  "Día de producción (YYYY-MM-DD)"
// @Param        disponible  query  bool    false  "Filtrar por disponibilidad"
// @Success      200  {array}  dto.BarraResponse
// @Router       /api/barras [get]
func (h *BarraHandler) List(c *fiber.Ctx) error {
	var q dto.ListBarrasQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar barra
// @Tags         barras
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la barra"
// @Param        body  body  dto.UpdateBarraRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BarraResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/barras/{id} [patch]
func (h *BarraHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBarraRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar barra
// @Tags         barras
// @Param        id   path  string  true  "ID de la barra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/barras/{id} [delete]
func (h *BarraHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StockSummary godoc
// @Summary      Gramos disponibles
// @Tags         barras
// @Produce      json
// @Param        hasta  query  string  false  "Fecha de corte (YYYY-MM-DD)"
// @Success      200  {object}  dto.StockSummaryResponse
// @Router       /api/barras/stock/summary [get]
func (h *BarraHandler) StockSummary(c *fiber.Ctx) error {
	out, err := h.stock.Summary(c.UserContext(), c.Query("hasta"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Shortage godoc
// @Summary      Verificar faltante para una cantidad de gramos
// @Tags         barras
// @Produce      json
// @Param        fecha           query  string  true  "Día (YYYY-MM-DD)"
// @Param        required_grams  query  number  true  "Gramos requeridos"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/barras/shortage [get]
func (h *BarraHandler) Shortage(c *fiber.Ctx) error {
	fecha := c.Query("fecha")
	if fecha == "" {
		return badRequest(c, "VALIDATION", "fecha es requerida (YYYY-MM-DD)")
	}
	required, err := decimal.NewFromString(c.Query("required_grams"))
	if err != nil {
		return badRequest(c, "INVALID_QUANTITY", "required_grams debe ser numérico")
	}
	out, err := h.stock.Shortage(c.UserContext(), fecha, required)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Demanda del día contra stock disponible
// @Tags         barras
// @Produce      json
// @Param        fecha  query  string  true  "Día (YYYY-MM-DD)"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/barras/availability [get]
func (h *BarraHandler) Availability(c *fiber.Ctx) error {
	fecha := c.Query("fecha")
	if fecha == "" {
		return badRequest(c, "VALIDATION", "fecha es requerida (YYYY-MM-DD)")
	}
	out, err := h.stock.Availability(c.UserContext(), fecha)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
