package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/breightend/Mykonos-os-sub001/internal/apierror"
	"github.com/breightend/Mykonos-os-sub001/internal/dto"
	"github.com/breightend/Mykonos-os-sub001/internal/infra"
	"github.com/breightend/Mykonos-os-sub001/internal/service"
	"github.com/breightend/Mykonos-os-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// IntercambiosHandler maneja cambios y devoluciones de mostrador.
type IntercambiosHandler struct {
	svc        service.IntercambioService
	dispatcher *worker.Dispatcher
	pdfPath    string
}

func NewIntercambiosHandler(svc service.IntercambioService, dispatcher *worker.Dispatcher, pdfPath string) *IntercambiosHandler {
	return &IntercambiosHandler{svc: svc, dispatcher: dispatcher, pdfPath: pdfPath}
}

// Crear godoc
// @Summary Registra un cambio de productos (devueltos y entregados)
// @Tags intercambios
// @Accept json
// @Produce json
// @Param body body dto.CrearIntercambioRequest true "Intercambio"
// @Success 200 {object} dto.IntercambioResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/exchange/create [post]
func (h *IntercambiosHandler) Crear(c *gin.Context) {
	var req dto.CrearIntercambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Historial de cambios recientes
// @Tags intercambios
// @Produce json
// @Param limit query int false "Maximo de filas" default(50)
// @Success 200 {array} dto.IntercambioHistorialItem
// @Router /api/exchange/history [get]
func (h *IntercambiosHandler) Historial(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.svc.Historial(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar historial"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// ValidarDevolucion godoc
// @Summary Valida una linea de devolucion antes de confirmar el cambio
// @Tags intercambios
// @Accept json
// @Produce json
// @Param body body dto.ValidarLineaRequest true "Linea"
// @Success 200 {object} dto.ValidarLineaResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/exchange/validate-return [post]
func (h *IntercambiosHandler) ValidarDevolucion(c *gin.Context) {
	h.validar(c, h.svc.ValidarDevolucion)
}

// ValidarProductoNuevo godoc
// @Summary Valida una linea de producto a entregar (exige stock disponible)
// @Tags intercambios
// @Accept json
// @Produce json
// @Param body body dto.ValidarLineaRequest true "Linea"
// @Success 200 {object} dto.ValidarLineaResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/exchange/validate-new-product [post]
func (h *IntercambiosHandler) ValidarProductoNuevo(c *gin.Context) {
	h.validar(c, h.svc.ValidarProductoNuevo)
}

func (h *IntercambiosHandler) validar(c *gin.Context, fn func(ctx context.Context, req dto.ValidarLineaRequest) (*dto.ValidarLineaResponse, error)) {
	var req dto.ValidarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comprobante godoc
// @Summary Genera y descarga el comprobante PDF de un cambio
// @Description Con ?email=destino@dominio se encola ademas el envio por correo.
// @Tags intercambios
// @Produce application/pdf
// @Param id path string true "ID del intercambio"
// @Param email query string false "Enviar copia por correo"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /api/exchange/{id}/receipt [get]
func (h *IntercambiosHandler) Comprobante(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	intercambio, err := h.svc.PorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Intercambio no encontrado"))
		return
	}

	path, err := infra.GenerateIntercambioPDF(intercambio, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el comprobante"))
		return
	}

	if to := c.Query("email"); to != "" && h.dispatcher != nil {
		payload := worker.EmailJobPayload{
			ToEmail: to,
			Subject: "Comprobante de cambio - Mykonos",
			Body:    "Adjuntamos el comprobante de su cambio. Gracias por su visita.",
			PDFPath: path,
		}
		if err := h.dispatcher.EnqueueEmail(c.Request.Context(), payload); err != nil {
			log.Error().Err(err).Str("intercambio_id", id.String()).Msg("no se pudo encolar el email del comprobante")
		}
	}

	c.FileAttachment(path, "comprobante_cambio.pdf")
}
