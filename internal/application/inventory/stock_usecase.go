package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/ledger"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// StockUseCase consultas de solo lectura sobre el stock de barras:
// resumen de gramos disponibles y verificaciones de faltante ("what-if").
type StockUseCase struct {
	ledger *Ledger
	lines  repository.DeliveryLineRepository
	loc    *time.Location
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(barras repository.BarraRepository, lines repository.DeliveryLineRepository, loc *time.Location) *StockUseCase {
	return &StockUseCase{ledger: NewLedger(barras, nil), lines: lines, loc: loc}
}

// Summary devuelve los gramos disponibles. Si hasta no está vacío, solo cuentan
// las barras producidas hasta el final de ese día.
func (uc *StockUseCase) Summary(ctx context.Context, hasta string) (*dto.StockSummaryResponse, error) {
	var cutoff *time.Time
	out := &dto.StockSummaryResponse{}
	if hasta != "" {
		day, err := fecha.Parse(hasta, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end := fecha.EndOfDay(day, uc.loc)
		cutoff = &end
		out.Hasta = fecha.Format(day)
	}
	lots, err := uc.ledger.ListAvailableLots(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	out.AvailableGrams = uc.ledger.TotalGrams(lots)
	out.Barras = len(lots)
	return out, nil
}

// Shortage calcula, sin mutar nada, si requiredGrams se cubre con las barras
// disponibles producidas hasta el final de fecha.
func (uc *StockUseCase) Shortage(ctx context.Context, fechaStr string, requiredGrams decimal.Decimal) (*dto.AvailabilityResponse, error) {
	if requiredGrams.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	day, err := fecha.Parse(fechaStr, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	end := fecha.EndOfDay(day, uc.loc)
	lots, err := uc.ledger.ListAvailableLots(ctx, &end)
	if err != nil {
		return nil, err
	}
	return availability(day, requiredGrams, uc.ledger.TotalGrams(lots)), nil
}

// Availability compara la demanda total del día (todas las líneas de entrega) con el stock
// disponible hasta el final del día. Demanda y stock se cargan en paralelo.
func (uc *StockUseCase) Availability(ctx context.Context, fechaStr string) (*dto.AvailabilityResponse, error) {
	day, err := fecha.Parse(fechaStr, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	start, end := fecha.DayRange(day, uc.loc)

	var (
		lines []*entity.DeliveryLine
		lots  []*entity.Barra
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = uc.lines.ListLinesBetween(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		lots, err = uc.ledger.ListAvailableLots(gctx, &end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	required := decimal.Zero
	for _, l := range lines {
		required = required.Add(l.Gramos())
	}
	return availability(day, required, ledger.TotalGrams(lots)), nil
}

func availability(day time.Time, required, available decimal.Decimal) *dto.AvailabilityResponse {
	shortage := ledger.Shortage(required, available)
	return &dto.AvailabilityResponse{
		Fecha:          fecha.Format(day),
		RequiredGrams:  required,
		AvailableGrams: available,
		ShortageGrams:  shortage,
		OK:             shortage.IsZero(),
	}
}
