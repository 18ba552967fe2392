package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/application/inventory"
	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Porcionado-api/internal/interfaces/http"
	"github.com/jhoicas/Porcionado-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta el router completo sobre el almacenamiento en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		BarraUC:      inventory.NewBarraUseCase(store.Barras(), store.Movements(), time.UTC),
		StockUC:      inventory.NewStockUseCase(store.Barras(), store.DeliveryLines(), time.UTC),
		PorcionadoUC: porcionado.NewUseCase(store.Porcionados(), store.DeliveryLines(), store, "hamburguesa", time.UTC, logger.Nop().Component("porcionado")),
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func addLine(store *memory.Store, id, gramaje, cantidad string) {
	store.AddDeliveryLines(&entity.DeliveryLine{
		ID:         id,
		DeliveryID: "e-" + id,
		ClientID:   "c1",
		Fecha:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Tipo:       "hamburguesa",
		Gramaje:    decimal.RequireFromString(gramaje),
		Cantidad:   decimal.RequireFromString(cantidad),
	})
}

func createBarra(t *testing.T, app *fiber.App, peso, cantidad float64, fecha string) dto.BarraResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/barras", fiber.Map{
		"peso_gramos":      peso,
		"cantidad":         cantidad,
		"fecha_produccion": fecha,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.BarraResponse
	decode(t, resp, &out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Barras
// ──────────────────────────────────────────────────────────────────────────────

func TestBarras_CrearYObtener(t *testing.T) {
	app, _ := buildTestApp(t)

	created := createBarra(t, app, 500, 2, "2024-01-01")
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Disponible)
	assert.True(t, created.TotalGramos.Equal(decimal.NewFromInt(1000)))

	resp := doJSON(t, app, http.MethodGet, "/api/barras/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.BarraResponse
	decode(t, resp, &got)
	assert.Equal(t, created.ID, got.ID)
}

func TestBarras_InexistenteDevuelve404(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/barras/no-existe", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestBarras_RechazaPesoNoPositivo(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/barras", fiber.Map{
		"peso_gramos":      0,
		"cantidad":         2,
		"fecha_produccion": "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

func TestBarras_FechaRequerida(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/barras", fiber.Map{"peso_gramos": 500, "cantidad": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "fecha_produccion")
}

func TestBarras_EliminarDevuelve204(t *testing.T) {
	app, _ := buildTestApp(t)
	created := createBarra(t, app, 500, 1, "2024-01-01")

	resp := doJSON(t, app, http.MethodDelete, "/api/barras/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/barras/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBarras_ResumenYFaltante(t *testing.T) {
	app, _ := buildTestApp(t)
	createBarra(t, app, 500, 2, "2024-01-01")
	createBarra(t, app, 500, 1, "2024-01-03")

	resp := doJSON(t, app, http.MethodGet, "/api/barras/stock/summary?hasta=2024-01-02", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.StockSummaryResponse
	decode(t, resp, &summary)
	assert.True(t, summary.AvailableGrams.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, summary.Barras)

	resp = doJSON(t, app, http.MethodGet, "/api/barras/shortage?fecha=2024-01-01&required_grams=1200", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check dto.AvailabilityResponse
	decode(t, resp, &check)
	assert.False(t, check.OK)
	assert.True(t, check.ShortageGrams.Equal(decimal.NewFromInt(200)))
}

func TestBarras_FaltanteRechazaGramosInvalidos(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/barras/shortage?fecha=2024-01-01&required_grams=abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Porcionados
// ──────────────────────────────────────────────────────────────────────────────

func TestPorcionados_ListarRequiereFecha(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/porcionados", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPorcionados_ListarAgregaElDia(t *testing.T) {
	app, store := buildTestApp(t)
	addLine(store, "l1", "200", "3")
	addLine(store, "l2", "200", "2")

	resp := doJSON(t, app, http.MethodGet, "/api/porcionados?fecha=2024-01-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.PorcionadoResponse
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.True(t, items[0].Cantidad.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, entity.EstadoPendiente, items[0].Estado)
	assert.False(t, items[0].Persisted)
}

func TestPorcionados_MaterialInsuficienteDevuelve409(t *testing.T) {
	app, store := buildTestApp(t)
	addLine(store, "l1", "200", "6")
	createBarra(t, app, 500, 2, "2024-01-01")

	resp := doJSON(t, app, http.MethodPost, "/api/porcionados/mark", fiber.Map{
		"producto": "hamburguesa",
		"gramaje":  200,
		"cantidad": 6,
		"fecha":    "2024-01-01",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.InsufficientMaterialResponse
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_MATERIAL", body.Code)
	assert.True(t, body.RequiredGrams.Equal(decimal.NewFromInt(1200)))
	assert.True(t, body.AvailableGrams.Equal(decimal.NewFromInt(1000)))
	assert.True(t, body.ShortageGrams.Equal(decimal.NewFromInt(200)))

	barras, err := store.Barras().ListAvailable(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, barras, 1)
	assert.True(t, barras[0].Cantidad.Equal(decimal.NewFromInt(2)))
}

func TestPorcionados_NoSePuedeDesmarcar(t *testing.T) {
	app, store := buildTestApp(t)
	addLine(store, "l1", "200", "4")
	createBarra(t, app, 500, 2, "2024-01-01")

	resp := doJSON(t, app, http.MethodPost, "/api/porcionados/mark", fiber.Map{
		"producto": "hamburguesa",
		"gramaje":  200,
		"cantidad": 4,
		"fecha":    "2024-01-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var marked dto.MarkPorcionadoResponse
	decode(t, resp, &marked)
	require.NotEmpty(t, marked.Porcionado.ID)
	assert.Equal(t, entity.EstadoPorcionado, marked.Porcionado.Estado)
	assert.True(t, marked.ConsumedGrams.Equal(decimal.NewFromInt(800)))

	resp = doJSON(t, app, http.MethodPatch, "/api/porcionados/"+marked.Porcionado.ID, fiber.Map{"estado": "pendiente"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	// re-marcar no consume de nuevo
	resp = doJSON(t, app, http.MethodPatch, "/api/porcionados/"+marked.Porcionado.ID, fiber.Map{"estado": "porcionado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again dto.MarkPorcionadoResponse
	decode(t, resp, &again)
	assert.True(t, again.AlreadyPorcionado)
	assert.True(t, again.ConsumedGrams.IsZero())
}

func TestPorcionados_ValidacionDeEstado(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPatch, "/api/porcionados/x", fiber.Map{"estado": "listo"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)

	resp = doJSON(t, app, http.MethodPatch, "/api/porcionados/x", fiber.Map{"estado": "porcionado"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPorcionados_RechazaCantidadNoPositiva(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/porcionados/mark", fiber.Map{
		"producto": "hamburguesa",
		"gramaje":  200,
		"cantidad": 0,
		"fecha":    "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
}
