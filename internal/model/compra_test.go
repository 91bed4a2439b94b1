package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransicionesDeCompra(t *testing.T) {
	casos := []struct {
		desde, hacia EstadoCompra
		valida       bool
	}{
		{CompraPendiente, CompraRecibida, true},
		{CompraPendiente, CompraCancelada, true},
		{CompraRecibida, CompraPendiente, false},
		{CompraRecibida, CompraCancelada, false},
		{CompraCancelada, CompraPendiente, false},
		{CompraCancelada, CompraRecibida, false},
		{CompraPendiente, CompraPendiente, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.valida, c.desde.PuedeTransicionar(c.hacia),
			"%s → %s", c.desde, c.hacia)
	}
}

func TestTransicionarDevuelveElNuevoEstado(t *testing.T) {
	estado, err := CompraPendiente.Transicionar(CompraRecibida)
	require.NoError(t, err)
	assert.Equal(t, CompraRecibida, estado)
}

func TestTransicionarInvalidaConservaElEstado(t *testing.T) {
	estado, err := CompraRecibida.Transicionar(CompraCancelada)
	require.Error(t, err)
	assert.Equal(t, CompraRecibida, estado)
	assert.Contains(t, err.Error(), "transición de estado inválida")
}
