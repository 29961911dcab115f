package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOrderValidForAccounting(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{"Entregue", true},
		{"Concluído", true},
		{"Pago", true},
		{"Enviado", true},
		{"", true},
		{"Cancelado", false},
		{"CANCELADA", false},
		{"Pedido cancelado pelo comprador", false},
		{"Cancelled", false},
		{"Devolvido", false},
		{"Devolução concluída", false},
		{"Reembolsado", false},
		{"Reembolso parcial", false},
		{"Não pago", false},
		{"Nao pago", false},
		{"Aguardando pagamento", false},
		{"Unpaid", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOrderValidForAccounting(tt.status))
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "nao pago", normalizeStatus("Não Pago"))
	assert.Equal(t, "devolucao", normalizeStatus("DEVOLUÇÃO"))
}
