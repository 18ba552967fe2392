package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
)

// PorcionadoHandler maneja las peticiones HTTP de porcionado.
type PorcionadoHandler struct {
	uc *porcionado.UseCase
}

// NewPorcionadoHandler construye el handler.
func NewPorcionadoHandler(uc *porcionado.UseCase) *PorcionadoHandler {
	return &PorcionadoHandler{uc: uc}
}

// List godoc
// @Summary      Lotes de porcionado del día
// @Description  Agrega las líneas de entrega del día por producto y gramaje, con el estado persistido.
// @Tags         porcionados
// @Produce      json
// @Param        fecha  query  string  true  "Día (YYYY-MM-DD)"
// @Success      200  {array}   dto.PorcionadoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/porcionados [get]
func (h *PorcionadoHandler) List(c *fiber.Ctx) error {
	fecha := c.Query("fecha")
	if fecha == "" {
		return badRequest(c, "VALIDATION", "fecha es requerida (YYYY-MM-DD)")
	}
	out, err := h.uc.ListForDay(c.UserContext(), fecha)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetEstado godoc
// @Summary      Cambiar estado de un porcionado
// @Description  Pasar a "porcionado" consume barras (FIFO). Volver a "pendiente" no está permitido.
// @Tags         porcionados
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del porcionado"
// @Param        body  body  dto.UpdateEstadoRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.MarkPorcionadoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientMaterialResponse
// @Router       /api/porcionados/{id} [patch]
func (h *PorcionadoHandler) SetEstado(c *fiber.Ctx) error {
	var in dto.UpdateEstadoRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetEstado(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Mark godoc
// @Summary      Marcar porcionado por clave
// @Description  Para lotes que aún no tienen id: (producto, gramaje, cantidad, fecha).
// @Tags         porcionados
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkPorcionadoRequest  true  "Lote a marcar"
// @Success      200   {object}  dto.MarkPorcionadoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientMaterialResponse
// @Router       /api/porcionados/mark [post]
func (h *PorcionadoHandler) Mark(c *fiber.Ctx) error {
	var in dto.MarkPorcionadoRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.MarkByKey(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
