package handler

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
)

type PreciosHandler struct{ svc service.PrecioService }

func NewPreciosHandler(svc service.PrecioService) *PreciosHandler { return &PreciosHandler{svc: svc} }

// PreciosVigentes godoc
// @Summary      Pizarra de precios vigentes
// @Description  Un precio efectivo por tipo de combustible. Servido desde cache Redis cuando está caliente.
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.PreciosVigentesResponse
// @Router       /v1/precios/vigentes [get]
func (h *PreciosHandler) PreciosVigentes(c *gin.Context) {
	resp, err := h.svc.Vigentes(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearPrecio godoc
// @Summary      Publicar un precio
// @Description  Inserta una nueva fila de precio (las filas nunca se actualizan) e invalida el cache de la sucursal.
// @Tags         precios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPrecioRequest true "Precio y vigencia"
// @Success      201 {object} dto.PrecioResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/precios [post]
func (h *PreciosHandler) CrearPrecio(c *gin.Context) {
	var req dto.CrearPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
