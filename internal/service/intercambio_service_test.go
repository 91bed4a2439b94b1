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

type intercambioFixture struct {
	svc        IntercambioService
	stock      *stubStockRepo
	movs       *stubMovInventarioRepo
	cuentaRepo *stubCuentaRepo
	sucursalID uuid.UUID
	entidadID  uuid.UUID
}

func nuevoIntercambioParaTest() *intercambioFixture {
	stock := newStubStockRepo()
	movs := &stubMovInventarioRepo{}
	cuentaRepo := newStubCuentaRepo()
	entidades := newStubEntidadRepo()
	entidadID := entidades.agregar(model.EntidadCliente)
	cuenta := NewCuentaService(cuentaRepo, entidades, nil)

	return &intercambioFixture{
		svc:        NewIntercambioService(newStubIntercambioRepo(), stock, movs, cuenta, nil),
		stock:      stock,
		movs:       movs,
		cuentaRepo: cuentaRepo,
		sucursalID: uuid.New(),
		entidadID:  entidadID,
	}
}

// sembrarVariante deja una variante con stock y precio de venta dados.
func (f *intercambioFixture) sembrarVariante(codigo string, cantidad int, precio int64) {
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

func TestIntercambioFormatoLegacy(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VAR0001001001", 5, 1000)
	f.sembrarVariante("VAR0002001001", 3, 1500)

	entidadID := f.entidadID.String()
	resp, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		CodigoDevolucion:   "VAR0001001001",
		CantidadDevolucion: 1,
		CodigoNuevo:        "VAR0002001001",
		CantidadNueva:      1,
		SucursalID:         f.sucursalID.String(),
		Motivo:             "talle equivocado",
		EntidadID:          &entidadID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.TotalDevolucion.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.TotalNuevo.Equal(decimal.NewFromInt(1500)))
	assert.True(t, resp.Diferencia.Equal(decimal.NewFromInt(500)))

	// Stock: devuelto entra, entregado sale.
	assert.Equal(t, 6, f.stock.cantidadDe("VAR0001001001", f.sucursalID))
	assert.Equal(t, 2, f.stock.cantidadDe("VAR0002001001", f.sucursalID))
}

func TestIntercambioMultiProducto(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VAR0001001001", 10, 800)
	f.sembrarVariante("VAR0001002001", 10, 800)
	f.sembrarVariante("VAR0003001001", 10, 2000)

	resp, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{
			{CodigoVariante: "VAR0001001001", Cantidad: 2},
			{CodigoVariante: "VAR0001002001", Cantidad: 1},
		},
		ProductosNuevos: []dto.LineaIntercambio{
			{CodigoVariante: "VAR0003001001", Cantidad: 1},
		},
		SucursalID: f.sucursalID.String(),
		Motivo:     "cambio de modelo",
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalDevolucion.Equal(decimal.NewFromInt(2400)))
	assert.True(t, resp.TotalNuevo.Equal(decimal.NewFromInt(2000)))
	assert.True(t, resp.Diferencia.Equal(decimal.NewFromInt(-400)))

	// Dos filas de auditoría por devolución + una por entrega.
	require.Len(t, f.movs.movimientos, 3)
	tipos := map[string]int{}
	for _, m := range f.movs.movimientos {
		tipos[m.Tipo]++
	}
	assert.Equal(t, 2, tipos["devolucion"])
	assert.Equal(t, 1, tipos["entrega_cambio"])
}

func TestIntercambioDiferenciaPositivaDebitaAlCliente(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARBARATO", 5, 500)
	f.sembrarVariante("VARCARO", 5, 1200)

	entidadID := f.entidadID.String()
	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARBARATO", Cantidad: 1}},
		ProductosNuevos:    []dto.LineaIntercambio{{CodigoVariante: "VARCARO", Cantidad: 1}},
		SucursalID:         f.sucursalID.String(),
		EntidadID:          &entidadID,
	})
	require.NoError(t, err)

	require.Len(t, f.cuentaRepo.movimientos, 1)
	asiento := f.cuentaRepo.movimientos[0]
	assert.True(t, asiento.Debe.Equal(decimal.NewFromInt(700)))
	assert.True(t, asiento.Haber.IsZero())
	assert.Equal(t, f.entidadID, asiento.EntidadID)
}

func TestIntercambioDiferenciaNegativaAcreditaAlCliente(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARCARO", 5, 1200)
	f.sembrarVariante("VARBARATO", 5, 500)

	entidadID := f.entidadID.String()
	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARCARO", Cantidad: 1}},
		ProductosNuevos:    []dto.LineaIntercambio{{CodigoVariante: "VARBARATO", Cantidad: 1}},
		SucursalID:         f.sucursalID.String(),
		EntidadID:          &entidadID,
	})
	require.NoError(t, err)

	require.Len(t, f.cuentaRepo.movimientos, 1)
	asiento := f.cuentaRepo.movimientos[0]
	assert.True(t, asiento.Haber.Equal(decimal.NewFromInt(700)))
	assert.True(t, asiento.Debe.IsZero())
}

func TestIntercambioAnonimoNoTocaCuentaCorriente(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARBARATO", 5, 500)
	f.sembrarVariante("VARCARO", 5, 1200)

	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARBARATO", Cantidad: 1}},
		ProductosNuevos:    []dto.LineaIntercambio{{CodigoVariante: "VARCARO", Cantidad: 1}},
		SucursalID:         f.sucursalID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, f.cuentaRepo.movimientos)
}

func TestIntercambioSinLineasRechazado(t *testing.T) {
	f := nuevoIntercambioParaTest()

	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		SucursalID: f.sucursalID.String(),
	})
	assert.ErrorIs(t, err, ErrIntercambioVacio)
}

func TestIntercambioCantidadNoPositivaRechazada(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VAR0001001001", 5, 1000)

	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VAR0001001001", Cantidad: 0}},
		SucursalID:         f.sucursalID.String(),
	})
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestIntercambioSinStockDelProductoNuevo(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARDEV", 5, 500)
	f.sembrarVariante("VARNUEVO", 1, 900)

	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARDEV", Cantidad: 1}},
		ProductosNuevos:    []dto.LineaIntercambio{{CodigoVariante: "VARNUEVO", Cantidad: 3}},
		SucursalID:         f.sucursalID.String(),
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)

	// Nada se aplicó.
	assert.Equal(t, 5, f.stock.cantidadDe("VARDEV", f.sucursalID))
	assert.Equal(t, 1, f.stock.cantidadDe("VARNUEVO", f.sucursalID))
}

func TestIntercambioVarianteInexistente(t *testing.T) {
	f := nuevoIntercambioParaTest()

	_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
		ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARNOEXISTE", Cantidad: 1}},
		SucursalID:         f.sucursalID.String(),
	})
	assert.ErrorIs(t, err, ErrVarianteNoEncontrada)
}

func TestValidarDevolucionNoExigeStock(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARSINSTOCK", 0, 750)

	resp, err := f.svc.ValidarDevolucion(context.Background(), dto.ValidarLineaRequest{
		CodigoVariante: "VARSINSTOCK",
		Cantidad:       2,
		SucursalID:     f.sucursalID.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.TotalLinea.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 0, resp.StockDisponible)
}

func TestValidarProductoNuevoExigeStock(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARPOCO", 1, 750)

	_, err := f.svc.ValidarProductoNuevo(context.Background(), dto.ValidarLineaRequest{
		CodigoVariante: "VARPOCO",
		Cantidad:       2,
		SucursalID:     f.sucursalID.String(),
	})
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestHistorialDevuelveLosUltimos(t *testing.T) {
	f := nuevoIntercambioParaTest()
	f.sembrarVariante("VARA", 10, 100)
	f.sembrarVariante("VARB", 10, 100)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Crear(context.Background(), dto.CrearIntercambioRequest{
			ProductosDevueltos: []dto.LineaIntercambio{{CodigoVariante: "VARA", Cantidad: 1}},
			ProductosNuevos:    []dto.LineaIntercambio{{CodigoVariante: "VARB", Cantidad: 1}},
			SucursalID:         f.sucursalID.String(),
		})
		require.NoError(t, err)
	}

	items, err := f.svc.Historial(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "VARA", items[0].CodigosDevueltos)
	assert.Equal(t, "VARB", items[0].CodigosNuevos)
}
