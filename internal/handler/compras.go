package handler

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler { return &ComprasHandler{svc: svc} }

// RegistrarCompra godoc
// @Summary      Registrar recepción de combustible
// @Description  Crea la compra ACID: factura + detalle por tanque, incrementos de stock y ledger de movimientos.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Factura y detalle recibido"
// @Success      201  {object} dto.CompraResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/compras [post]
func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerCompra godoc
// @Summary      Consultar una compra
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/compras/{id} [get]
func (h *ComprasHandler) ObtenerCompra(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCompras godoc
// @Summary      Listar compras
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        fecha_desde query string false "YYYY-MM-DD (default: hoy)"
// @Param        fecha_hasta query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {array} dto.CompraResponse
// @Router       /v1/compras [get]
func (h *ComprasHandler) ListarCompras(c *gin.Context) {
	var filter dto.CompraFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), scopeFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
