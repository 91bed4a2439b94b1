package service

import (
	"context"
	"testing"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc        VentaService
	stock      *stubStockRepo
	movs       *stubMovInventarioRepo
	cuentaRepo *stubCuentaRepo
	sucursalID uuid.UUID
	entidadID  uuid.UUID
	usuarioID  uuid.UUID
}

func nuevaVentaParaTest() *ventaFixture {
	stock := newStubStockRepo()
	movs := &stubMovInventarioRepo{}
	cuentaRepo := newStubCuentaRepo()
	entidades := newStubEntidadRepo()
	entidadID := entidades.agregar(model.EntidadCliente)
	cuenta := NewCuentaService(cuentaRepo, entidades, nil)

	return &ventaFixture{
		svc:        NewVentaService(newStubVentaRepo(), stock, movs, cuenta),
		stock:      stock,
		movs:       movs,
		cuentaRepo: cuentaRepo,
		sucursalID: uuid.New(),
		entidadID:  entidadID,
		usuarioID:  uuid.New(),
	}
}

func (f *ventaFixture) sembrarVariante(codigo string, cantidad int, precio int64) {
	producto := &model.Producto{
		ID:          uuid.New(),
		Nombre:      "Prenda " + codigo,
		PrecioVenta: decimal.NewFromInt(precio),
		Activo:      true,
	}
	f.stock.agregar(&model.VarianteStock{
		ProductoID:     producto.ID,
		SucursalID:     f.sucursalID,
		CodigoVariante: codigo,
		Cantidad:       cantidad,
		Producto:       producto,
	})
}

func TestRegistrarVentaDescuentaStock(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 2}},
		MedioPago:  "efectivo",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Numero)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, model.VentaCompletada, resp.Estado)
	assert.Equal(t, 8, f.stock.cantidadDe("VARCAMISA", f.sucursalID))
}

func TestVentaConLineaNegativaReponeStock(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)
	f.sembrarVariante("VARPANTALON", 4, 4000)

	// Ticket mixto: vende un pantalón y recibe una camisa devuelta.
	resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		Detalles: []dto.VentaDetalleRequest{
			{CodigoVariante: "VARPANTALON", Cantidad: 1},
			{CodigoVariante: "VARCAMISA", Cantidad: -1},
		},
		MedioPago: "efectivo",
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 3, f.stock.cantidadDe("VARPANTALON", f.sucursalID))
	assert.Equal(t, 11, f.stock.cantidadDe("VARCAMISA", f.sucursalID))

	// La línea negativa queda auditada como devolución.
	tipos := map[string]int{}
	for _, m := range f.movs.movimientos {
		tipos[m.Tipo]++
	}
	assert.Equal(t, 1, tipos["venta"])
	assert.Equal(t, 1, tipos["devolucion"])
}

func TestVentaCantidadCeroRechazada(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	_, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 0}},
		MedioPago:  "efectivo",
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestVentaSinStockSuficiente(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 1, 2500)

	_, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 3}},
		MedioPago:  "efectivo",
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestVentaEnCuentaCorrienteDebitaAlCliente(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	entidadID := f.entidadID.String()
	resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		EntidadID:  &entidadID,
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 2}},
		MedioPago:  "cuenta_corriente",
	})
	require.NoError(t, err)

	require.Len(t, f.cuentaRepo.movimientos, 1)
	asiento := f.cuentaRepo.movimientos[0]
	assert.True(t, asiento.Debe.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, f.entidadID, asiento.EntidadID)
	require.NotNil(t, asiento.NumeroComprobante)
	assert.Equal(t, "VTA-000001", *asiento.NumeroComprobante)
	assert.Equal(t, 1, resp.Numero)
}

func TestVentaEnCuentaCorrienteSinClienteRechazada(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	_, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 1}},
		MedioPago:  "cuenta_corriente",
	})
	assert.Error(t, err)
}

func TestAnularVentaRestauraStockYContraasienta(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	entidadID := f.entidadID.String()
	resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		EntidadID:  &entidadID,
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 3}},
		MedioPago:  "cuenta_corriente",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock.cantidadDe("VARCAMISA", f.sucursalID))

	ventaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Anular(context.Background(), ventaID, "cliente arrepentido"))

	assert.Equal(t, 10, f.stock.cantidadDe("VARCAMISA", f.sucursalID))

	// Débito original + crédito de anulación: el saldo vuelve a cero.
	require.Len(t, f.cuentaRepo.movimientos, 2)
	assert.True(t, f.cuentaRepo.movimientos[1].Haber.Equal(decimal.NewFromInt(7500)))
	assert.True(t, f.cuentaRepo.movimientos[1].Saldo.IsZero())

	anulada, err := f.svc.PorID(context.Background(), ventaID)
	require.NoError(t, err)
	assert.Equal(t, model.VentaCancelada, anulada.Estado)
}

func TestAnularVentaRepetidaNoDuplicaStockNiCredito(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	entidadID := f.entidadID.String()
	resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
		SucursalID: f.sucursalID.String(),
		EntidadID:  &entidadID,
		Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 3}},
		MedioPago:  "cuenta_corriente",
	})
	require.NoError(t, err)

	ventaID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Anular(context.Background(), ventaID, "error de carga"))

	// El estado se chequea dentro de la transacción con el header
	// bloqueado: la segunda anulación encuentra la venta ya cancelada.
	err = f.svc.Anular(context.Background(), ventaID, "reintento del cajero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya está anulada")

	// Reposición y contra-asiento aplicados una sola vez.
	assert.Equal(t, 10, f.stock.cantidadDe("VARCAMISA", f.sucursalID))
	require.Len(t, f.cuentaRepo.movimientos, 2)
	assert.True(t, f.cuentaRepo.movimientos[1].Saldo.IsZero())
}

func TestNumeracionDeVentasEsSecuencial(t *testing.T) {
	f := nuevaVentaParaTest()
	f.sembrarVariante("VARCAMISA", 10, 2500)

	for esperado := 1; esperado <= 3; esperado++ {
		resp, err := f.svc.Registrar(context.Background(), f.usuarioID, dto.RegistrarVentaRequest{
			SucursalID: f.sucursalID.String(),
			Detalles:   []dto.VentaDetalleRequest{{CodigoVariante: "VARCAMISA", Cantidad: 1}},
			MedioPago:  "debito",
		})
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.Numero)
	}
}
