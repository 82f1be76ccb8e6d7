// Package lifecycle contiene las máquinas de estado de pedidos, facturas y
// cuentas. Toda transición se valida contra una tabla (estado, evento) -> estado
// antes de escribir; nada se infiere de las escrituras de campos.
package lifecycle

import (
	"github.com/jhoicas/erp-ledger/internal/domain"
)

// Event acción que intenta mover un agregado de estado.
type Event string

// Machine tabla de transiciones para un tipo de estado.
type Machine[S ~string] struct {
	name     string
	table    map[S]map[Event]S
	terminal map[S]bool
}

func newMachine[S ~string](name string, table map[S]map[Event]S, terminal ...S) Machine[S] {
	t := make(map[S]bool, len(terminal))
	for _, s := range terminal {
		t[s] = true
	}
	return Machine[S]{name: name, table: table, terminal: t}
}

// Fire devuelve el estado destino o ErrStateTransition si (from, ev) no está en la tabla.
func (m Machine[S]) Fire(from S, ev Event) (S, error) {
	if to, ok := m.table[from][ev]; ok {
		return to, nil
	}
	return from, domain.StateTransition("%s: %q no permitido desde %q", m.name, ev, from)
}

// Can true si el evento está permitido desde el estado.
func (m Machine[S]) Can(from S, ev Event) bool {
	_, ok := m.table[from][ev]
	return ok
}

// IsTerminal true si el estado no admite más transiciones.
func (m Machine[S]) IsTerminal(s S) bool {
	return m.terminal[s]
}
