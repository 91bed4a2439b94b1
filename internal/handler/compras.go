package handler

import (
	"net/http"

	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ComprasHandler maneja ordenes de compra a proveedores y su recepcion.
type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una orden de compra en estado Pendiente de entrega
// @Tags compras
// @Accept json
// @Produce json
// @Param body body dto.CrearCompraRequest true "Compra"
// @Success 201 {object} dto.CompraResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/purchases [post]
func (h *ComprasHandler) Crear(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Recibir godoc
// @Summary Marca la compra como recibida y suma el stock en la sucursal
// @Description Idempotente por estado: una compra ya recibida responde 409.
// @Tags compras
// @Accept json
// @Produce json
// @Param id path string true "ID de compra"
// @Param body body dto.RecibirCompraRequest true "Sucursal receptora"
// @Success 200 {object} dto.CompraResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/purchases/{id}/receive [post]
func (h *ComprasHandler) Recibir(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecibirCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.Recibir(c.Request.Context(), id, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancela una compra pendiente
// @Tags compras
// @Produce json
// @Param id path string true "ID de compra"
// @Success 200 {object} map[string]bool
// @Failure 409 {object} apierror.APIError
// @Router /api/purchases/{id}/cancel [post]
func (h *ComprasHandler) Cancelar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ComprasHandler) PorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.PorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista compras con filtro por estado
// @Tags compras
// @Produce json
// @Param estado query string false "Estado exacto"
// @Param page query int false "Pagina" default(1)
// @Param limit query int false "Filas por pagina" default(50)
// @Success 200 {object} dto.CompraListResponse
// @Router /api/purchases [get]
func (h *ComprasHandler) Listar(c *gin.Context) {
	var filter dto.CompraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
