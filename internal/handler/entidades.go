package handler

import (
	"net/http"

	"github.com/breightend/Mykonos-os-sub001/internal/apierror"
	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// EntidadesHandler maneja clientes y proveedores.
type EntidadesHandler struct{ svc service.EntidadService }

func NewEntidadesHandler(svc service.EntidadService) *EntidadesHandler {
	return &EntidadesHandler{svc: svc}
}

// Crear godoc
// @Summary Alta de cliente o proveedor
// @Tags entidades
// @Accept json
// @Produce json
// @Param body body dto.CrearEntidadRequest true "Entidad"
// @Success 201 {object} dto.EntidadResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/entities [post]
func (h *EntidadesHandler) Crear(c *gin.Context) {
	var req dto.CrearEntidadRequest
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

func (h *EntidadesHandler) PorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.PorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Entidad no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista entidades filtrando por tipo y nombre
// @Tags entidades
// @Produce json
// @Param tipo query string false "cliente | proveedor"
// @Param nombre query string false "Busqueda parcial por razon social"
// @Success 200 {object} dto.EntidadListResponse
// @Router /api/entities [get]
func (h *EntidadesHandler) Listar(c *gin.Context) {
	var filter dto.EntidadFilter
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

func (h *EntidadesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEntidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntidadesHandler) Desactivar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
