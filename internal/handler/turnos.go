package handler

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// AbrirTurno godoc
// @Summary      Abrir turno
// @Description  Abre el turno del despachador en la sucursal. Falla si ya tiene uno abierto.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirTurnoRequest true "Efectivo inicial"
// @Success      201 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/turnos [post]
func (h *TurnosHandler) AbrirTurno(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CerrarTurno godoc
// @Summary      Cerrar turno
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.CerrarTurnoRequest true "Efectivo final y notas"
// @Success      200 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/turnos/{id}/cerrar [post]
func (h *TurnosHandler) CerrarTurno(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "ID inválido"))
		return
	}
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), scopeFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TurnoActual godoc
// @Summary      Consultar turno abierto
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/turnos/actual [get]
func (h *TurnosHandler) TurnoActual(c *gin.Context) {
	turno, err := h.svc.Abierto(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, turno)
}
