package handler

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
)

type ValesHandler struct{ svc service.ValeService }

func NewValesHandler(svc service.ValeService) *ValesHandler { return &ValesHandler{svc: svc} }

// ValidarVale godoc
// @Summary      Validar un vale
// @Description  Corre las reglas de canje en orden (estado, vencimiento, sucursal, saldo, crédito). Un rechazo de negocio responde 200 con valido=false y el snapshot del vale.
// @Tags         vales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ValidarValeRequest true "Código y monto a canjear"
// @Success      200 {object} dto.ValidarValeResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vales/validar [post]
func (h *ValesHandler) ValidarVale(c *gin.Context) {
	var req dto.ValidarValeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVales godoc
// @Summary      Listar vales
// @Tags         vales
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "activo | agotado | vencido | anulado"
// @Success      200 {array} dto.ValeResponse
// @Router       /v1/vales [get]
func (h *ValesHandler) ListarVales(c *gin.Context) {
	vales, err := h.svc.Listar(c.Request.Context(), scopeFrom(c), c.Query("estado"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vales)
}
