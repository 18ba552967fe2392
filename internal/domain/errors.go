package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInvalidQuantity      = errors.New("cantidad o gramaje inválido")
	ErrInvalidTransition    = errors.New("transición de estado no permitida")
	ErrInsufficientMaterial = errors.New("no hay suficiente material terminado para porcionar")
	ErrConflict             = errors.New("conflicto con el estado actual")
)

// InsufficientMaterialError detalla el faltante en gramos para mostrarlo al usuario.
// errors.Is(err, ErrInsufficientMaterial) es verdadero.
type InsufficientMaterialError struct {
	RequiredGrams  decimal.Decimal
	AvailableGrams decimal.Decimal
	ShortageGrams  decimal.Decimal
}

// NewInsufficientMaterial construye el error calculando el faltante (required - available).
func NewInsufficientMaterial(required, available decimal.Decimal) *InsufficientMaterialError {
	return &InsufficientMaterialError{
		RequiredGrams:  required,
		AvailableGrams: available,
		ShortageGrams:  required.Sub(available),
	}
}

func (e *InsufficientMaterialError) Error() string {
	return fmt.Sprintf("%s: requeridos %s g, disponibles %s g, faltan %s g",
		ErrInsufficientMaterial, e.RequiredGrams, e.AvailableGrams, e.ShortageGrams)
}

func (e *InsufficientMaterialError) Is(target error) bool {
	return target == ErrInsufficientMaterial
}
