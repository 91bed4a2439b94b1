package service

import (
	"context"
	"testing"

	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevaCuentaParaTest() (CuentaService, *stubCuentaRepo, uuid.UUID) {
	repo := newStubCuentaRepo()
	entidades := newStubEntidadRepo()
	entidadID := entidades.agregar(model.EntidadCliente)
	return NewCuentaService(repo, entidades, nil), repo, entidadID
}

func TestPrimerMovimientoParteDeSaldoCero(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()

	mov, err := svc.RegistrarDebito(context.Background(), MovimientoParams{
		EntidadID:   entidadID,
		Monto:       decimal.NewFromInt(1500),
		Descripcion: "Venta inicial",
	})
	require.NoError(t, err)
	assert.True(t, mov.Debe.Equal(decimal.NewFromInt(1500)))
	assert.True(t, mov.Haber.IsZero())
	assert.True(t, mov.Saldo.Equal(decimal.NewFromInt(1500)))
}

func TestSaldoEncadenadoDebitoYCredito(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()
	ctx := context.Background()

	_, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(1000), Descripcion: "Compra fiado",
	})
	require.NoError(t, err)

	mov, err := svc.RegistrarCredito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromFloat(399.50), Descripcion: "Pago parcial",
	})
	require.NoError(t, err)
	assert.True(t, mov.Saldo.Equal(decimal.NewFromFloat(600.50)),
		"saldo esperado 600.50, quedó %s", mov.Saldo)

	saldo, err := svc.Saldo(ctx, entidadID)
	require.NoError(t, err)
	assert.True(t, saldo.Equal(decimal.NewFromFloat(600.50)))
}

func TestAsientosNumeradosPorCuenta(t *testing.T) {
	repo := newStubCuentaRepo()
	entidades := newStubEntidadRepo()
	clienteID := entidades.agregar(model.EntidadCliente)
	proveedorID := entidades.agregar(model.EntidadProveedor)
	svc := NewCuentaService(repo, entidades, nil)
	ctx := context.Background()

	// Asientos intercalados sobre dos cuentas: cada una numera su propia
	// cadena. El orden de replay sale del seq, no del timestamp, que en
	// escrituras del mismo tick empata.
	primero, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: clienteID, Monto: decimal.NewFromInt(1000), Descripcion: "Venta fiada",
	})
	require.NoError(t, err)

	ajeno, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: proveedorID, Monto: decimal.NewFromInt(500), Descripcion: "Compra recibida",
	})
	require.NoError(t, err)

	segundo, err := svc.RegistrarCredito(ctx, MovimientoParams{
		EntidadID: clienteID, Monto: decimal.NewFromInt(300), Descripcion: "Pago parcial",
	})
	require.NoError(t, err)

	tercero, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: clienteID, Monto: decimal.NewFromInt(200), Descripcion: "Otra venta",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, primero.Seq)
	assert.EqualValues(t, 2, segundo.Seq)
	assert.EqualValues(t, 3, tercero.Seq)
	assert.EqualValues(t, 1, ajeno.Seq)
}

func TestMontoNoPositivoRechazado(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()

	for _, monto := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := svc.RegistrarDebito(context.Background(), MovimientoParams{
			EntidadID: entidadID, Monto: monto, Descripcion: "inválido",
		})
		assert.ErrorIs(t, err, ErrMontoInvalido)
	}
}

func TestMovimientoSobreEntidadInexistente(t *testing.T) {
	svc, _, _ := nuevaCuentaParaTest()

	_, err := svc.RegistrarDebito(context.Background(), MovimientoParams{
		EntidadID: uuid.New(), Monto: decimal.NewFromInt(10), Descripcion: "fantasma",
	})
	assert.ErrorIs(t, err, ErrEntidadNoEncontrada)
}

func TestSaldoSinMovimientosEsCero(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()

	saldo, err := svc.Saldo(context.Background(), entidadID)
	require.NoError(t, err)
	assert.True(t, saldo.IsZero())
}

func TestValidarIntegridadLedgerSano(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.RegistrarDebito(ctx, MovimientoParams{
			EntidadID: entidadID, Monto: decimal.NewFromInt(int64(100 + i)), Descripcion: "venta",
		})
		require.NoError(t, err)
	}

	resp, err := svc.ValidarIntegridad(ctx, entidadID)
	require.NoError(t, err)
	assert.True(t, resp.EsValido)
	assert.Equal(t, 5, resp.Movimientos)
	assert.Empty(t, resp.Inconsistencias)
}

func TestValidarIntegridadDetectaSaldoCorrupto(t *testing.T) {
	svc, repo, entidadID := nuevaCuentaParaTest()
	ctx := context.Background()

	_, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(100), Descripcion: "venta",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(200), Descripcion: "venta",
	})
	require.NoError(t, err)

	// Corromper el segundo asiento como lo haría un UPDATE manual.
	repo.movimientos[1].Saldo = decimal.NewFromInt(999)

	resp, err := svc.ValidarIntegridad(ctx, entidadID)
	require.NoError(t, err)
	assert.False(t, resp.EsValido)
	require.Len(t, resp.Inconsistencias, 1)
	inc := resp.Inconsistencias[0]
	assert.Equal(t, 1, inc.Posicion)
	assert.True(t, inc.SaldoGuardado.Equal(decimal.NewFromInt(999)))
	assert.True(t, inc.SaldoCalculado.Equal(decimal.NewFromInt(300)))
	assert.True(t, inc.Diferencia.Equal(decimal.NewFromInt(699)))
}

func TestRecalcularSaldosReparaElLedger(t *testing.T) {
	svc, repo, entidadID := nuevaCuentaParaTest()
	ctx := context.Background()

	_, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(100), Descripcion: "venta",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarCredito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(30), Descripcion: "pago",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(50), Descripcion: "venta",
	})
	require.NoError(t, err)

	// Corromper los dos últimos saldos.
	repo.movimientos[1].Saldo = decimal.NewFromInt(-1)
	repo.movimientos[2].Saldo = decimal.NewFromInt(12345)

	resp, err := svc.RecalcularSaldos(ctx, entidadID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Actualizados)
	assert.True(t, resp.SaldoFinal.Equal(decimal.NewFromInt(120)))

	// Tras la reparación la validación vuelve a pasar.
	validacion, err := svc.ValidarIntegridad(ctx, entidadID)
	require.NoError(t, err)
	assert.True(t, validacion.EsValido)
}

func TestRecalcularSaldosSinCambiosNoReescribe(t *testing.T) {
	svc, _, entidadID := nuevaCuentaParaTest()
	ctx := context.Background()

	_, err := svc.RegistrarDebito(ctx, MovimientoParams{
		EntidadID: entidadID, Monto: decimal.NewFromInt(80), Descripcion: "venta",
	})
	require.NoError(t, err)

	resp, err := svc.RecalcularSaldos(ctx, entidadID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Actualizados)
	assert.True(t, resp.SaldoFinal.Equal(decimal.NewFromInt(80)))
}
