package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/luccTech/caixa-formatura/internal/apierror"

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
		c.JSON(http.StatusBadRequest, apierror.NewAPIError("JSON inválido: "+err.Error()))
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

// respondErr writes the error envelope with the status mapped from its kind.
// Internal causes (wrapped storage errors) are masked behind the message.
func respondErr(c *gin.Context, err error) {
	var e *apierror.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, apierror.NewAPIError("Erro interno do servidor"))
		return
	}
	msg := e.Message
	if e.Kind == apierror.KindStorage {
		msg = "Erro interno do servidor"
	}
	c.JSON(apierror.HTTPStatus(err), apierror.NewAPIError(msg))
}

// parseID reads a uuid path parameter; writes the 400 response on failure.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewAPIError("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}
