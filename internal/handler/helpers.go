package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/pweat/rejestr-prac/internal/apierror"
	"github.com/pweat/rejestr-prac/internal/middleware"
	"github.com/pweat/rejestr-prac/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is a struct; validator needs a numeric view of it for
	// tags like min=0 and gt=0.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON field names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds the JSON body and runs the validator tags. On failure
// it writes a 400 and returns false; the caller returns immediately.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds query parameters into q.
func bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters: "+err.Error()))
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name+"."))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name+"."))
		return 0, false
	}
	return v, true
}

// respondError maps service error kinds to status codes. Server-side failures
// are attached to the context for the request logger; anything the service
// did not classify is reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	msg := "internal server error"
	if errors.As(err, &svcErr) {
		msg = svcErr.Msg
	}

	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, apierror.New(msg))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(msg))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(msg))
	case errors.Is(err, service.ErrUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New(msg))
	case errors.Is(err, service.ErrOperationFailed):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(msg))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

// currentUserID returns the authenticated user's id, or 0.
func currentUserID(c *gin.Context) uint {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
