package handler

import (
	"net/http"
	"reflect"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/middleware"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.KindValidation, "JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status and envelope.
func respondError(c *gin.Context, err error) {
	env := apierror.Envelope(err)
	status := http.StatusInternalServerError
	if e := apierror.New(env.Kind, env.Detail); e != nil {
		status = e.HTTPStatus()
	}
	c.JSON(status, env)
}

// scopeFrom assembles the service scope from the JWT claims and the branch
// resolved by the scoping middleware.
func scopeFrom(c *gin.Context) service.Scope {
	claims := middleware.GetClaims(c)
	scope := service.Scope{SucursalID: middleware.GetSucursalID(c)}
	if claims != nil {
		scope.UsuarioID, _ = uuid.Parse(claims.UserID)
		scope.EmpresaID, _ = uuid.Parse(claims.EmpresaID)
	}
	return scope
}
