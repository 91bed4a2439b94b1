package service

// Stub repositories shared by the service tests. All of them hold state
// in memory and return nil from DB(), which makes runTx execute the
// transactional closures directly.

import (
	"context"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── MovimientoCuentaRepository ───────────────────────────────────────────────

type stubCuentaRepo struct {
	movimientos []*model.MovimientoCuenta
}

func newStubCuentaRepo() *stubCuentaRepo { return &stubCuentaRepo{} }

func (r *stubCuentaRepo) DB() *gorm.DB { return nil }

func (r *stubCuentaRepo) CreateTx(_ *gorm.DB, m *model.MovimientoCuenta) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, m)
	return nil
}

func (r *stubCuentaRepo) ultimoDe(entidadID uuid.UUID) (*model.MovimientoCuenta, error) {
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].EntidadID == entidadID {
			return r.movimientos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCuentaRepo) UltimoMovimientoTx(_ *gorm.DB, entidadID uuid.UUID) (*model.MovimientoCuenta, error) {
	return r.ultimoDe(entidadID)
}

func (r *stubCuentaRepo) UltimoMovimiento(_ context.Context, entidadID uuid.UUID) (*model.MovimientoCuenta, error) {
	return r.ultimoDe(entidadID)
}

func (r *stubCuentaRepo) listDe(entidadID uuid.UUID) []model.MovimientoCuenta {
	out := make([]model.MovimientoCuenta, 0)
	for _, m := range r.movimientos {
		if m.EntidadID == entidadID {
			out = append(out, *m)
		}
	}
	return out
}

func (r *stubCuentaRepo) ListByEntidad(_ context.Context, entidadID uuid.UUID) ([]model.MovimientoCuenta, error) {
	return r.listDe(entidadID), nil
}

func (r *stubCuentaRepo) ListByEntidadTx(_ *gorm.DB, entidadID uuid.UUID) ([]model.MovimientoCuenta, error) {
	return r.listDe(entidadID), nil
}

func (r *stubCuentaRepo) ListRecientes(_ context.Context, entidadID uuid.UUID, limit int) ([]model.MovimientoCuenta, error) {
	movs := r.listDe(entidadID)
	if limit > 0 && len(movs) > limit {
		movs = movs[len(movs)-limit:]
	}
	return movs, nil
}

func (r *stubCuentaRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, saldo decimal.Decimal) error {
	for _, m := range r.movimientos {
		if m.ID == id {
			m.Saldo = saldo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.MovimientoCuentaRepository = (*stubCuentaRepo)(nil)

// ── EntidadRepository ────────────────────────────────────────────────────────

type stubEntidadRepo struct {
	entidades map[uuid.UUID]*model.Entidad
}

func newStubEntidadRepo() *stubEntidadRepo {
	return &stubEntidadRepo{entidades: make(map[uuid.UUID]*model.Entidad)}
}

func (r *stubEntidadRepo) agregar(tipo string) uuid.UUID {
	e := &model.Entidad{ID: uuid.New(), RazonSocial: "Entidad Test", Tipo: tipo, Activo: true}
	r.entidades[e.ID] = e
	return e.ID
}

func (r *stubEntidadRepo) Create(_ context.Context, e *model.Entidad) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entidades[e.ID] = e
	return nil
}

func (r *stubEntidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Entidad, error) {
	e, ok := r.entidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEntidadRepo) FindByCUIT(_ context.Context, cuit string) (*model.Entidad, error) {
	for _, e := range r.entidades {
		if e.CUIT != nil && *e.CUIT == cuit {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEntidadRepo) List(_ context.Context, _ dto.EntidadFilter) ([]model.Entidad, int64, error) {
	out := make([]model.Entidad, 0, len(r.entidades))
	for _, e := range r.entidades {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEntidadRepo) ListConMovimientosDesde(_ context.Context, _ time.Time, _ int) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *stubEntidadRepo) Update(_ context.Context, e *model.Entidad) error {
	r.entidades[e.ID] = e
	return nil
}

func (r *stubEntidadRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if e, ok := r.entidades[id]; ok {
		e.Activo = false
	}
	return nil
}

var _ repository.EntidadRepository = (*stubEntidadRepo)(nil)

// ── StockRepository ──────────────────────────────────────────────────────────

type stockKey struct {
	codigo   string
	sucursal uuid.UUID
}

// stubStockRepo mimics the floor-at-zero guard of the real repository.
// Find devuelve copias, como haría una lectura de la base.
type stubStockRepo struct {
	variantes map[stockKey]*model.VarianteStock
	porID     map[uuid.UUID]*model.VarianteStock
	totales   map[stockKey]int
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		variantes: make(map[stockKey]*model.VarianteStock),
		porID:     make(map[uuid.UUID]*model.VarianteStock),
		totales:   make(map[stockKey]int),
	}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) agregar(v *model.VarianteStock) *model.VarianteStock {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variantes[stockKey{v.CodigoVariante, v.SucursalID}] = v
	r.porID[v.ID] = v
	r.totales[stockKey{v.ProductoID.String(), v.SucursalID}] += v.Cantidad
	return v
}

func (r *stubStockRepo) cantidadDe(codigo string, sucursalID uuid.UUID) int {
	if v, ok := r.variantes[stockKey{codigo, sucursalID}]; ok {
		return v.Cantidad
	}
	return 0
}

func (r *stubStockRepo) CreateVariante(_ context.Context, v *model.VarianteStock) error {
	r.agregar(v)
	return nil
}

func (r *stubStockRepo) CreateVarianteTx(_ *gorm.DB, v *model.VarianteStock) error {
	r.agregar(v)
	return nil
}

func (r *stubStockRepo) find(codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error) {
	v, ok := r.variantes[stockKey{codigo, sucursalID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubStockRepo) FindVariantePorCodigo(_ context.Context, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error) {
	return r.find(codigo, sucursalID)
}

func (r *stubStockRepo) FindVariantePorCodigoTx(_ *gorm.DB, codigo string, sucursalID uuid.UUID) (*model.VarianteStock, error) {
	return r.find(codigo, sucursalID)
}

func (r *stubStockRepo) FindOrCreateVarianteTx(_ *gorm.DB, v *model.VarianteStock) (*model.VarianteStock, error) {
	if existente, err := r.find(v.CodigoVariante, v.SucursalID); err == nil {
		return existente, nil
	}
	r.agregar(v)
	copia := *v
	return &copia, nil
}

func (r *stubStockRepo) AjustarVarianteTx(_ *gorm.DB, varianteID uuid.UUID, delta int) error {
	v, ok := r.porID[varianteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v.Cantidad+delta < 0 {
		return repository.ErrStockNegativo
	}
	v.Cantidad += delta
	return nil
}

func (r *stubStockRepo) AjustarTotalTx(_ *gorm.DB, productoID, sucursalID uuid.UUID, delta int) error {
	k := stockKey{productoID.String(), sucursalID}
	if r.totales[k]+delta < 0 {
		return repository.ErrStockNegativo
	}
	r.totales[k] += delta
	return nil
}

func (r *stubStockRepo) ListVariantesPorProducto(_ context.Context, productoID uuid.UUID) ([]model.VarianteStock, error) {
	out := make([]model.VarianteStock, 0)
	for _, v := range r.variantes {
		if v.ProductoID == productoID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubStockRepo) ListVariantesPorSucursal(_ context.Context, sucursalID uuid.UUID) ([]model.VarianteStock, error) {
	out := make([]model.VarianteStock, 0)
	for _, v := range r.variantes {
		if v.SucursalID == sucursalID {
			out = append(out, *v)
		}
	}
	return out, nil
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── MovimientoInventarioRepository ───────────────────────────────────────────

type stubMovInventarioRepo struct {
	movimientos []model.MovimientoInventario
}

func (r *stubMovInventarioRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovInventarioRepo) List(_ context.Context, _ repository.MovimientoInventarioFilter) ([]model.MovimientoInventario, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoInventarioRepository = (*stubMovInventarioRepo)(nil)

// ── IntercambioRepository ────────────────────────────────────────────────────

type stubIntercambioRepo struct {
	intercambios map[uuid.UUID]*model.Intercambio
	orden        []uuid.UUID
}

func newStubIntercambioRepo() *stubIntercambioRepo {
	return &stubIntercambioRepo{intercambios: make(map[uuid.UUID]*model.Intercambio)}
}

func (r *stubIntercambioRepo) DB() *gorm.DB { return nil }

func (r *stubIntercambioRepo) CreateTx(_ *gorm.DB, i *model.Intercambio) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.CreatedAt = time.Now()
	r.intercambios[i.ID] = i
	r.orden = append(r.orden, i.ID)
	return nil
}

func (r *stubIntercambioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Intercambio, error) {
	i, ok := r.intercambios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubIntercambioRepo) List(_ context.Context, limit int) ([]model.Intercambio, error) {
	out := make([]model.Intercambio, 0, len(r.orden))
	for i := len(r.orden) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.intercambios[r.orden[i]])
	}
	return out, nil
}

var _ repository.IntercambioRepository = (*stubIntercambioRepo)(nil)

// ── CompraRepository ─────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(_ context.Context, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCompraRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCompraRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoCompra, fechaEntrega *time.Time, sucursalID *uuid.UUID) error {
	c, ok := r.compras[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	if fechaEntrega != nil {
		c.FechaEntrega = fechaEntrega
	}
	if sucursalID != nil {
		c.SucursalID = sucursalID
	}
	return nil
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.CompraFilter) ([]model.Compra, int64, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	numeroSeq int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) NextNumeroTx(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) agregar(codigo int, precioVenta decimal.Decimal) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      codigo,
		Nombre:      "Producto Test",
		PrecioCosto: decimal.NewFromInt(10),
		PrecioVenta: precioVenta,
		Activo:      true,
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo int) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) FindByProveedorID(_ context.Context, _ uuid.UUID) ([]model.Producto, error) {
	return nil, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── AtributoRepository ───────────────────────────────────────────────────────

type stubAtributoRepo struct {
	talles  map[uuid.UUID]*model.Talle
	colores map[uuid.UUID]*model.Color
}

func newStubAtributoRepo() *stubAtributoRepo {
	return &stubAtributoRepo{
		talles:  make(map[uuid.UUID]*model.Talle),
		colores: make(map[uuid.UUID]*model.Color),
	}
}

func (r *stubAtributoRepo) CreateTalle(_ context.Context, t *model.Talle) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.Codigo = len(r.talles) + 1
	r.talles[t.ID] = t
	return nil
}

func (r *stubAtributoRepo) CreateColor(_ context.Context, c *model.Color) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Codigo = len(r.colores) + 1
	r.colores[c.ID] = c
	return nil
}

func (r *stubAtributoRepo) FindTalleByID(_ context.Context, id uuid.UUID) (*model.Talle, error) {
	t, ok := r.talles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubAtributoRepo) FindColorByID(_ context.Context, id uuid.UUID) (*model.Color, error) {
	c, ok := r.colores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubAtributoRepo) ListTalles(_ context.Context) ([]model.Talle, error) {
	out := make([]model.Talle, 0, len(r.talles))
	for _, t := range r.talles {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubAtributoRepo) ListColores(_ context.Context) ([]model.Color, error) {
	out := make([]model.Color, 0, len(r.colores))
	for _, c := range r.colores {
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.AtributoRepository = (*stubAtributoRepo)(nil)

// ── SucursalRepository ───────────────────────────────────────────────────────

type stubSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
}

func newStubSucursalRepo() *stubSucursalRepo {
	return &stubSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
}

func (r *stubSucursalRepo) agregar(nombre string) uuid.UUID {
	s := &model.Sucursal{ID: uuid.New(), Nombre: nombre, Activo: true}
	r.sucursales[s.ID] = s
	return s.ID
}

func (r *stubSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sucursales[s.ID] = s
	return nil
}

func (r *stubSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSucursalRepo) List(_ context.Context) ([]model.Sucursal, error) {
	out := make([]model.Sucursal, 0, len(r.sucursales))
	for _, s := range r.sucursales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	r.sucursales[s.ID] = s
	return nil
}

var _ repository.SucursalRepository = (*stubSucursalRepo)(nil)
