// Package memory implementa los puertos de persistencia en memoria, protegidos por un mutex.
// Una transacción trabaja sobre una copia del estado y la publica solo si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Porcionado-api/internal/application/porcionado"
	"github.com/jhoicas/Porcionado-api/internal/domain/entity"
	"github.com/jhoicas/Porcionado-api/internal/domain/repository"
)

var _ porcionado.TxRunner = (*Store)(nil)

type state struct {
	barras      map[string]entity.Barra
	porcionados map[string]entity.Porcionado
	lines       map[string]entity.DeliveryLine
	movements   []entity.BarraMovement
}

func newState() state {
	return state{
		barras:      map[string]entity.Barra{},
		porcionados: map[string]entity.Porcionado{},
		lines:       map[string]entity.DeliveryLine{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.barras {
		out.barras[k] = v
	}
	for k, v := range s.porcionados {
		out.porcionados[k] = v
	}
	for k, v := range s.lines {
		out.lines[k] = v
	}
	out.movements = append([]entity.BarraMovement(nil), s.movements...)
	return out
}

// accessFn da acceso exclusivo al estado durante fn.
type accessFn func(fn func(st *state) error) error

// Store almacenamiento en proceso. Sirve como driver de desarrollo y en tests.
type Store struct {
	mu    sync.Mutex
	state state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) locked(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// Barras repositorio de barras fuera de transacción.
func (s *Store) Barras() repository.BarraRepository { return &barraRepo{access: s.locked} }

// Porcionados repositorio de lotes fuera de transacción.
func (s *Store) Porcionados() repository.PorcionadoRepository {
	return &porcionadoRepo{access: s.locked}
}

// DeliveryLines modelo de lectura de entregas.
func (s *Store) DeliveryLines() repository.DeliveryLineRepository {
	return &deliveryLineRepo{access: s.locked}
}

// Movements registro de consumos de barras.
func (s *Store) Movements() repository.BarraMovementRepository {
	return &movementRepo{access: s.locked}
}

// Run ejecuta fn con el mutex tomado durante toda la unidad de trabajo, sobre una copia
// del estado. Si fn devuelve error la copia se descarta y nada cambia.
func (s *Store) Run(ctx context.Context, fn func(
	barraRepo repository.BarraRepository,
	porcionadoRepo repository.PorcionadoRepository,
	lineRepo repository.DeliveryLineRepository,
	movRepo repository.BarraMovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.state.clone()
	access := func(fn func(st *state) error) error { return fn(&tx) }
	if err := fn(
		&barraRepo{access: access},
		&porcionadoRepo{access: access},
		&deliveryLineRepo{access: access},
		&movementRepo{access: access},
	); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// AddDeliveryLines carga líneas de entrega (el núcleo nunca escribe entregas; esto lo
// usan las semillas de desarrollo y los tests en lugar del sistema de entregas).
func (s *Store) AddDeliveryLines(lines ...*entity.DeliveryLine) {
	_ = s.locked(func(st *state) error {
		for _, l := range lines {
			st.lines[l.ID] = *l
		}
		return nil
	})
}

// RemoveDeliveryLine quita una línea de entrega.
func (s *Store) RemoveDeliveryLine(id string) {
	_ = s.locked(func(st *state) error {
		delete(st.lines, id)
		return nil
	})
}
