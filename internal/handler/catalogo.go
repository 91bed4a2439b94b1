package handler

import (
	"net/http"

	"github.com/breightend/Mykonos-os-sub001/internal/apierror"
	"github.com/breightend/Mykonos-os-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Sucursales ───────────────────────────────────────────────────────────────

type SucursalesHandler struct{ svc service.SucursalService }

func NewSucursalesHandler(svc service.SucursalService) *SucursalesHandler {
	return &SucursalesHandler{svc: svc}
}

type sucursalRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=100"`
	Direccion string `json:"direccion"`
}

func (h *SucursalesHandler) Crear(c *gin.Context) {
	var req sucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	suc, err := h.svc.Crear(c.Request.Context(), req.Nombre, req.Direccion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, suc)
}

func (h *SucursalesHandler) PorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	suc, err := h.svc.PorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sucursal no encontrada"))
		return
	}
	c.JSON(http.StatusOK, suc)
}

func (h *SucursalesHandler) Listar(c *gin.Context) {
	sucursales, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sucursales"))
		return
	}
	c.JSON(http.StatusOK, sucursales)
}

func (h *SucursalesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req sucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	suc, err := h.svc.Actualizar(c.Request.Context(), id, req.Nombre, req.Direccion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suc)
}

// ── Talles y colores ─────────────────────────────────────────────────────────

type AtributosHandler struct{ svc service.AtributoService }

func NewAtributosHandler(svc service.AtributoService) *AtributosHandler {
	return &AtributosHandler{svc: svc}
}

type talleRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1,max=50"`
}

type colorRequest struct {
	Nombre string  `json:"nombre" validate:"required,min=1,max=50"`
	Hex    *string `json:"hex"    validate:"omitempty,hexcolor"`
}

func (h *AtributosHandler) CrearTalle(c *gin.Context) {
	var req talleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.CrearTalle(c.Request.Context(), req.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *AtributosHandler) ListarTalles(c *gin.Context) {
	talles, err := h.svc.ListTalles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar talles"))
		return
	}
	c.JSON(http.StatusOK, talles)
}

func (h *AtributosHandler) CrearColor(c *gin.Context) {
	var req colorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	col, err := h.svc.CrearColor(c.Request.Context(), req.Nombre, req.Hex)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (h *AtributosHandler) ListarColores(c *gin.Context) {
	colores, err := h.svc.ListColores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar colores"))
		return
	}
	c.JSON(http.StatusOK, colores)
}
