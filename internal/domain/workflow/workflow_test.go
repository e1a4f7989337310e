package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

// Tabla de aprobación: los únicos movimientos legales son
// pendiente→aprobada, pendiente→rechazada y aprobada→completada.
func TestApproval_TransicionesLegales(t *testing.T) {
	cases := []struct{ from, to string }{
		{workflow.StatusPending, workflow.StatusApproved},
		{workflow.StatusPending, workflow.StatusRejected},
		{workflow.StatusApproved, workflow.StatusCompleted},
	}
	for _, c := range cases {
		got, err := workflow.Approval.Transition(c.from, c.to)
		require.NoError(t, err, "%s → %s debe ser legal", c.from, c.to)
		assert.Equal(t, c.to, got)
	}
}

func TestApproval_TransicionesIlegales(t *testing.T) {
	cases := []struct{ from, to string }{
		{workflow.StatusRejected, workflow.StatusApproved},  // terminal
		{workflow.StatusCompleted, workflow.StatusPending},  // terminal
		{workflow.StatusPending, workflow.StatusCompleted},  // salta la aprobación
		{workflow.StatusApproved, workflow.StatusRejected},  // ya aprobada
		{workflow.StatusPending, workflow.StatusPending},    // no-op prohibido
	}
	for _, c := range cases {
		_, err := workflow.Approval.Transition(c.from, c.to)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition,
			"%s → %s debe rechazarse", c.from, c.to)
	}
}

func TestApproval_EstadosTerminales(t *testing.T) {
	assert.True(t, workflow.Approval.IsTerminal(workflow.StatusRejected))
	assert.True(t, workflow.Approval.IsTerminal(workflow.StatusCompleted))
	assert.False(t, workflow.Approval.IsTerminal(workflow.StatusPending))
	assert.False(t, workflow.Approval.IsTerminal(workflow.StatusApproved))
}

// Pedidos: ciclo lineal pendiente→enviado→recibido→completado.
func TestOrders_CicloLineal(t *testing.T) {
	seq := []string{workflow.OrderPending, workflow.OrderSent, workflow.OrderReceived, workflow.OrderCompleted}
	for i := 0; i < len(seq)-1; i++ {
		_, err := workflow.Orders.Transition(seq[i], seq[i+1])
		require.NoError(t, err, "%s → %s", seq[i], seq[i+1])
	}
}

func TestOrders_SaltosProhibidos(t *testing.T) {
	cases := []struct{ from, to string }{
		{workflow.OrderPending, workflow.OrderReceived},   // salta enviado
		{workflow.OrderPending, workflow.OrderCompleted},  // salta todo
		{workflow.OrderSent, workflow.OrderCompleted},     // salta recibido
		{workflow.OrderReceived, workflow.OrderSent},      // retroceso
		{workflow.OrderCompleted, workflow.OrderCancelled}, // terminal
		{workflow.OrderCancelled, workflow.OrderPending},  // terminal
	}
	for _, c := range cases {
		_, err := workflow.Orders.Transition(c.from, c.to)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", c.from, c.to)
	}
}

// Cualquier estado no terminal puede cancelarse.
func TestOrders_CancelacionDesdeNoTerminales(t *testing.T) {
	for _, from := range []string{workflow.OrderPending, workflow.OrderSent, workflow.OrderReceived} {
		_, err := workflow.Orders.Transition(from, workflow.OrderCancelled)
		assert.NoError(t, err, "%s → cancelado debe permitirse", from)
	}
}
