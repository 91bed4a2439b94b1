package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/breightend/Mykonos-os-sub001/internal/apierror"
	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/model"
	"github.com/breightend/Mykonos-os-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CuentasHandler exposes the cuenta corriente ledger: debit/credit
// postings, balance, movement history and the integrity endpoints.
type CuentasHandler struct{ svc service.CuentaService }

func NewCuentasHandler(svc service.CuentaService) *CuentasHandler {
	return &CuentasHandler{svc: svc}
}

// Debitar godoc
// @Summary Registra un debito en la cuenta corriente de una entidad
// @Tags cuentas
// @Accept json
// @Produce json
// @Param body body dto.MovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/account/debit [post]
func (h *CuentasHandler) Debitar(c *gin.Context) {
	h.registrar(c, h.svc.RegistrarDebito)
}

// Acreditar godoc
// @Summary Registra un credito (pago) en la cuenta corriente de una entidad
// @Tags cuentas
// @Accept json
// @Produce json
// @Param body body dto.MovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/account/credit [post]
func (h *CuentasHandler) Acreditar(c *gin.Context) {
	h.registrar(c, h.svc.RegistrarCredito)
}

func (h *CuentasHandler) registrar(c *gin.Context, fn func(ctx context.Context, p service.MovimientoParams) (*model.MovimientoCuenta, error)) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	params, err := movimientoParams(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("entity_id invalido"))
		return
	}
	mov, err := fn(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movimientoToResponse(mov))
}

// Saldo godoc
// @Summary Saldo actual de la cuenta corriente
// @Tags cuentas
// @Produce json
// @Param entity_id path string true "ID de entidad"
// @Success 200 {object} dto.SaldoResponse
// @Router /api/account/balance/{entity_id} [get]
func (h *CuentasHandler) Saldo(c *gin.Context) {
	id, ok := parseIDParam(c, "entity_id")
	if !ok {
		return
	}
	saldo, err := h.svc.Saldo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaldoResponse{EntidadID: id.String(), Saldo: saldo})
}

// Movimientos godoc
// @Summary Historial de movimientos de cuenta corriente
// @Tags cuentas
// @Produce json
// @Param entity_id path string true "ID de entidad"
// @Param limit query int false "Maximo de filas" default(100)
// @Success 200 {array} dto.MovimientoResponse
// @Router /api/account/movements/{entity_id} [get]
func (h *CuentasHandler) Movimientos(c *gin.Context) {
	id, ok := parseIDParam(c, "entity_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	movs, err := h.svc.Movimientos(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		resp = append(resp, movimientoToResponse(&movs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// ValidarIntegridad godoc
// @Summary Verifica la cadena de saldos de una entidad
// @Tags cuentas
// @Produce json
// @Param entity_id path string true "ID de entidad"
// @Success 200 {object} dto.ValidarIntegridadResponse
// @Router /api/account/validate/{entity_id} [get]
func (h *CuentasHandler) ValidarIntegridad(c *gin.Context) {
	id, ok := parseIDParam(c, "entity_id")
	if !ok {
		return
	}
	resp, err := h.svc.ValidarIntegridad(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recalcular godoc
// @Summary Reconstruye los saldos encadenados de una entidad
// @Tags cuentas
// @Produce json
// @Param entity_id path string true "ID de entidad"
// @Success 200 {object} dto.RecalcularSaldosResponse
// @Router /api/account/recalculate/{entity_id} [post]
func (h *CuentasHandler) Recalcular(c *gin.Context) {
	id, ok := parseIDParam(c, "entity_id")
	if !ok {
		return
	}
	resp, err := h.svc.RecalcularSaldos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func movimientoToResponse(m *model.MovimientoCuenta) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:                m.ID.String(),
		EntidadID:         m.EntidadID.String(),
		Descripcion:       m.Descripcion,
		Debe:              m.Debe,
		Haber:             m.Haber,
		Saldo:             m.Saldo,
		MedioPago:         m.MedioPago,
		NumeroComprobante: m.NumeroComprobante,
		CreatedAt:         m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func movimientoParams(req dto.MovimientoRequest) (service.MovimientoParams, error) {
	entidadID, err := uuid.Parse(req.EntidadID)
	if err != nil {
		return service.MovimientoParams{}, err
	}
	p := service.MovimientoParams{
		EntidadID:   entidadID,
		Monto:       req.Monto,
		Descripcion: req.Descripcion,
		MedioPago:   req.MedioPago,
	}
	if req.CompraID != nil && *req.CompraID != "" {
		compraID, err := uuid.Parse(*req.CompraID)
		if err != nil {
			return service.MovimientoParams{}, err
		}
		p.CompraID = &compraID
	}
	return p, nil
}
