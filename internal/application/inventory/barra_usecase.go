package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/Porcionado-api/internal/application/dto"
	"github.com/jhoicas/Porcionado-api/internal/domain"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
	"github.com/jhoicas/Porcionado-api/pkg/fecha"
)

// BarraUseCase casos de uso administrativos del libro de barras (alta, edición, baja, listado).
type BarraUseCase struct {
	repo   repository.BarraRepository
	ledger *Ledger
	loc    *time.Location
}

// NewBarraUseCase construye el caso de uso. loc es la zona del día de negocio.
func NewBarraUseCase(repo repository.BarraRepository, movements repository.BarraMovementRepository, loc *time.Location) *BarraUseCase {
	return &BarraUseCase{repo: repo, ledger: NewLedger(repo, movements), loc: loc}
}

// Create registra un lote de producción.
func (uc *BarraUseCase) Create(ctx context.Context, in dto.CreateBarraRequest) (*dto.BarraResponse, error) {
	producedOn, err := fecha.Parse(in.FechaProduccion, uc.loc)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	disponible := true
	if in.Disponible != nil {
		disponible = *in.Disponible
	}
	barra, err := uc.ledger.RegisterProduction(ctx, in.PesoGramos, in.Cantidad, producedOn, disponible)
	if err != nil {
		return nil, err
	}
	return toBarraResponse(barra), nil
}

// GetByID obtiene una barra por ID; ErrNotFound si no existe.
func (uc *BarraUseCase) GetByID(ctx context.Context, id string) (*dto.BarraResponse, error) {
	barra, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if barra == nil {
		return nil, domain.ErrNotFound
	}
	return toBarraResponse(barra), nil
}

// Update aplica una edición administrativa explícita. Si solo cambia disponible,
// pasa por Ledger.SetAvailability.
func (uc *BarraUseCase) Update(ctx context.Context, id string, in dto.UpdateBarraRequest) (*dto.BarraResponse, error) {
	if in.Disponible != nil && in.PesoGramos == nil && in.Cantidad == nil && in.FechaProduccion == nil {
		barra, err := uc.ledger.SetAvailability(ctx, id, *in.Disponible)
		if err != nil {
			return nil, err
		}
		return toBarraResponse(barra), nil
	}

	barra, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if barra == nil {
		return nil, domain.ErrNotFound
	}
	if in.PesoGramos != nil {
		barra.PesoGramos = *in.PesoGramos
	}
	if in.Cantidad != nil {
		barra.Cantidad = *in.Cantidad
	}
	if in.FechaProduccion != nil {
		producedOn, err := fecha.Parse(*in.FechaProduccion, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		barra.FechaProduccion = producedOn
	}
	if in.Disponible != nil {
		barra.Disponible = *in.Disponible
	}
	if err := barra.Validate(); err != nil {
		return nil, err
	}
	barra.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, barra); err != nil {
		return nil, err
	}
	return toBarraResponse(barra), nil
}

// Delete elimina una barra.
func (uc *BarraUseCase) Delete(ctx context.Context, id string) error {
	return uc.ledger.RemoveLot(ctx, id)
}

// List lista barras, más recientes primero, con filtro opcional por día de producción y disponibilidad.
func (uc *BarraUseCase) List(ctx context.Context, q dto.ListBarrasQuery) ([]dto.BarraResponse, error) {
	var filter repository.BarraFilter
	if q.Fecha != "" {
		day, err := fecha.Parse(q.Fecha, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		start, end := fecha.DayRange(day, uc.loc)
		filter.ProducedFrom = &start
		filter.ProducedTo = &end
	}
	if q.Disponible != "" {
		disponible, err := strconv.ParseBool(q.Disponible)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.Disponible = &disponible
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BarraResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBarraResponse(b))
	}
	return items, nil
}

func toBarraResponse(b *entity.Barra) *dto.BarraResponse {
	if b == nil {
		return nil
	}
	return &dto.BarraResponse{
		ID:              b.ID,
		PesoGramos:      b.PesoGramos,
		Cantidad:        b.Cantidad,
		TotalGramos:     b.TotalGramos(),
		FechaProduccion: b.FechaProduccion,
		Disponible:      b.Disponible,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
