package handler

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	inventario service.InventarioService
	cortes     service.CorteService
}

func NewInventarioHandler(inventario service.InventarioService, cortes service.CorteService) *InventarioHandler {
	return &InventarioHandler{inventario: inventario, cortes: cortes}
}

// EstadoTanques godoc
// @Summary      Estado de tanques
// @Description  Stock actual, capacidad y bandera de bajo mínimo por tanque de la sucursal.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TanqueEstado
// @Router       /v1/inventario/tanques [get]
func (h *InventarioHandler) EstadoTanques(c *gin.Context) {
	resp, err := h.inventario.EstadoTanques(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary      Ledger de movimientos
// @Description  Entradas inmutables del ledger de combustible, filtradas por tanque y rango de fechas.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        tanque_id   query string false "UUID del tanque"
// @Param        fecha_desde query string false "YYYY-MM-DD (default: hoy)"
// @Param        fecha_hasta query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {array} model.MovimientoCombustible
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, err.Error()))
		return
	}
	resp, err := h.inventario.Movimientos(c.Request.Context(), scopeFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarCorte godoc
// @Summary      Registrar corte diario
// @Description  Reconciliación volumétrica del tanque: teórico = inicial + compras - ventas; variación = físico - teórico. Reenviar el mismo (tanque, fecha) sobrescribe el corte anterior.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCorteRequest true "Lectura física del tanque"
// @Success      201 {object} dto.CorteResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/inventario/corte-diario [post]
func (h *InventarioHandler) RegistrarCorte(c *gin.Context) {
	var req dto.RegistrarCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cortes.Registrar(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarCortes godoc
// @Summary      Listar cortes diarios
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        fecha_desde query string false "YYYY-MM-DD (default: hoy)"
// @Param        fecha_hasta query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {array} dto.CorteResponse
// @Router       /v1/inventario/cortes [get]
func (h *InventarioHandler) ListarCortes(c *gin.Context) {
	resp, err := h.cortes.Listar(c.Request.Context(), scopeFrom(c), c.Query("fecha_desde"), c.Query("fecha_hasta"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReporteMermas godoc
// @Summary      Reporte consolidado de mermas
// @Description  Variación acumulada por tanque en el rango: mermas, sobrantes y días reconciliados.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        fecha_desde query string false "YYYY-MM-DD (default: hoy)"
// @Param        fecha_hasta query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.MermasReporteResponse
// @Router       /v1/inventario/mermas [get]
func (h *InventarioHandler) ReporteMermas(c *gin.Context) {
	resp, err := h.cortes.ReporteMermas(c.Request.Context(), scopeFrom(c), c.Query("fecha_desde"), c.Query("fecha_hasta"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
