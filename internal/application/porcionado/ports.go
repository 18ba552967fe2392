package porcionado

import (
	"context"

	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que los consumos de barras y el cambio de estado se confirmen juntos o no se confirmen.
// Una implementación puede reintentar fn ante fallos de serialización; fn debe ser re-ejecutable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		barraRepo repository.BarraRepository,
		porcionadoRepo repository.PorcionadoRepository,
		lineRepo repository.DeliveryLineRepository,
		movRepo repository.BarraMovementRepository,
	) error) error
}
