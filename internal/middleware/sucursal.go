package middleware

import (
	"net/http"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SucursalKey = "sucursal_id"

// SucursalScope resolves the branch every request operates on. The branch
// comes from the X-Sucursal-Id header, must belong to the token's empresa,
// and, for branch-restricted users, must match the branch in their token.
func SucursalScope(sucursales repository.SucursalRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New(apierror.KindUnauthorized, "Autenticación requerida"))
			return
		}

		header := c.GetHeader("X-Sucursal-Id")
		if header == "" && claims.SucursalID != nil {
			header = *claims.SucursalID
		}
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
				apierror.New(apierror.KindValidation, "Encabezado X-Sucursal-Id requerido"))
			return
		}

		sucursalID, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
				apierror.New(apierror.KindValidation, "X-Sucursal-Id inválido"))
			return
		}

		if claims.SucursalID != nil && *claims.SucursalID != sucursalID.String() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New(apierror.KindForbidden, "No tiene acceso a esta sucursal"))
			return
		}

		empresaID, err := uuid.Parse(claims.EmpresaID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New(apierror.KindUnauthorized, "Token mal formado"))
			return
		}
		ok, err := sucursales.PerteneceAEmpresa(c.Request.Context(), sucursalID, empresaID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Envelope(err))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound,
				apierror.New(apierror.KindNotFound, "Sucursal no encontrada"))
			return
		}

		c.Set(SucursalKey, sucursalID)
		c.Next()
	}
}

// GetSucursalID retrieves the resolved branch id from the Gin context.
func GetSucursalID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(SucursalKey).(uuid.UUID)
	return id
}
