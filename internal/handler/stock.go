package handler

import (
	"net/http"
	"strconv"

	"github.com/breightend/Mykonos-os-sub001/internal/apierror"
	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"
	"github.com/breightend/Mykonos-os-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler expone variantes por sucursal, ajustes manuales,
// transferencias entre sucursales y el audit trail de inventario.
type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// CrearVariante godoc
// @Summary Alta manual de una variante producto/talle/color en una sucursal
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.CrearVarianteRequest true "Variante"
// @Success 201 {object} dto.VarianteStockResponse
// @Router /api/stock/variants [post]
func (h *StockHandler) CrearVariante(c *gin.Context) {
	var req dto.CrearVarianteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearVariante(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VariantePorCodigo godoc
// @Summary Busca una variante por codigo en una sucursal
// @Tags stock
// @Produce json
// @Param barcode path string true "Codigo de variante"
// @Param sucursal_id query string true "Sucursal"
// @Success 200 {object} dto.VarianteStockResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/stock/variants/{barcode} [get]
func (h *StockHandler) VariantePorCodigo(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id invalido"))
		return
	}
	resp, err := h.svc.VariantePorCodigo(c.Request.Context(), c.Param("barcode"), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorProducto godoc
// @Summary Variantes de un producto en todas las sucursales
// @Tags stock
// @Produce json
// @Param id path string true "ID de producto"
// @Success 200 {array} dto.VarianteStockResponse
// @Router /api/stock/by-product/{id} [get]
func (h *StockHandler) PorProducto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.VariantesPorProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorSucursal godoc
// @Summary Stock completo de una sucursal
// @Tags stock
// @Produce json
// @Param id path string true "ID de sucursal"
// @Success 200 {object} dto.StockPorSucursalResponse
// @Router /api/stock/by-branch/{id} [get]
func (h *StockHandler) PorSucursal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.VariantesPorSucursal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary Ajuste manual de stock de una variante (delta con signo)
// @Tags stock
// @Accept json
// @Produce json
// @Param barcode path string true "Codigo de variante"
// @Param sucursal_id query string true "Sucursal"
// @Param body body dto.AjustarStockRequest true "Ajuste"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apierror.APIError
// @Router /api/stock/variants/{barcode}/adjust [post]
func (h *StockHandler) Ajustar(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjustarStock(c.Request.Context(), c.Param("barcode"), sucursalID, req.Delta, req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Transferir godoc
// @Summary Transfiere unidades de una variante entre sucursales
// @Tags stock
// @Accept json
// @Produce json
// @Param body body dto.TransferirStockRequest true "Transferencia"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apierror.APIError
// @Router /api/stock/transfer [post]
func (h *StockHandler) Transferir(c *gin.Context) {
	var req dto.TransferirStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Transferir(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Movimientos godoc
// @Summary Audit trail de inventario con filtros
// @Tags stock
// @Produce json
// @Param producto_id query string false "Producto"
// @Param sucursal_id query string false "Sucursal"
// @Param tipo query string false "Tipo de movimiento"
// @Param page query int false "Pagina" default(1)
// @Param limit query int false "Filas por pagina" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /api/stock/movements [get]
func (h *StockHandler) Movimientos(c *gin.Context) {
	filter := repository.MovimientoInventarioFilter{
		Tipo:  c.Query("tipo"),
		Page:  1,
		Limit: 50,
	}
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
	}
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("sucursal_id invalido"))
			return
		}
		filter.SucursalID = &id
	}
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		filter.Limit = l
	}
	movs, total, err := h.svc.Movimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  movs,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
