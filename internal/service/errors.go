package service

import "errors"

// Sentinel errors shared across services. Handlers map them to HTTP
// status codes in the error middleware.
var (
	ErrMontoInvalido        = errors.New("el monto debe ser mayor a cero")
	ErrCantidadInvalida     = errors.New("la cantidad debe ser distinta de cero")
	ErrVarianteNoEncontrada = errors.New("variante no encontrada")
	ErrStockInsuficiente    = errors.New("stock insuficiente")
	ErrCompraYaProcesada    = errors.New("la compra ya fue procesada")
	ErrEntidadNoEncontrada  = errors.New("entidad no encontrada")
	ErrCUITDuplicado        = errors.New("ya existe una entidad con ese CUIT")
	ErrIntercambioVacio     = errors.New("el intercambio no tiene líneas")
)
