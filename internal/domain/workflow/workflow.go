// Package workflow define las máquinas de estados de los procesos de
// aprobación: recepciones, bajas y pedidos. Cada workflow es una tabla de
// transiciones exhaustiva con una única función de transición vigilada;
// cualquier movimiento fuera de la tabla se rechaza.
package workflow

import "github.com/sigfarma/sigfarma-api/internal/domain"

// Estados del ciclo de aprobación (recepciones y bajas).
const (
	StatusPending   = "pendiente"
	StatusApproved  = "aprobada"
	StatusRejected  = "rechazada"
	StatusCompleted = "completada"
)

// Estados del ciclo de pedidos.
const (
	OrderPending   = "pendiente"
	OrderSent      = "enviado"
	OrderReceived  = "recibido"
	OrderCompleted = "completado"
	OrderCancelled = "cancelado"
)

// Machine es una tabla de transiciones: estado origen → estados destino
// permitidos. Los estados sin entradas salientes son terminales.
type Machine map[string][]string

// Approval: pendiente → {aprobada, rechazada}; aprobada → completada.
// Rechazada y completada son terminales.
var Approval = Machine{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// Orders: pendiente → enviado → recibido → completado, lineal; cualquier
// estado no terminal puede pasar a cancelado.
var Orders = Machine{
	OrderPending:  {OrderSent, OrderCancelled},
	OrderSent:     {OrderReceived, OrderCancelled},
	OrderReceived: {OrderCompleted, OrderCancelled},
}

// CanTransition indica si el movimiento from → to está en la tabla.
func (m Machine) CanTransition(from, to string) bool {
	for _, next := range m[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition valida y devuelve el nuevo estado, o ErrInvalidTransition si el
// movimiento no está en la tabla. Es el único camino para cambiar de estado.
func (m Machine) Transition(from, to string) (string, error) {
	if !m.CanTransition(from, to) {
		return "", domain.ErrInvalidTransition
	}
	return to, nil
}

// IsTerminal indica si el estado no tiene transiciones salientes.
func (m Machine) IsTerminal(status string) bool {
	return len(m[status]) == 0
}
