package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/server/http/dto"
	"github.com/polkiloo/autoshop/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func currentUserRef(c *gin.Context) *int64 {
	if id := CurrentUserID(c); id > 0 {
		return &id
	}
	return nil
}

// respondError maps domain errors to status codes. Unexpected errors are
// attached to the context so the request logger reports them.
func respondError(c *gin.Context, err error) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: domainErrors.ErrValidationFailed.Error(), Errors: verr.Fields})
	case errors.Is(err, domainErrors.ErrValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "resource not found"})
	case errors.Is(err, domainErrors.ErrInvoiceUnavailable):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "invoice not available"})
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "one or more products are unavailable"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "resource already exists"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid credentials"})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "forbidden"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}

// bindJSON decodes the request body into dst. A value of the wrong JSON type
// is reported as a field error with 422; any other decoding failure is a 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr := domainErrors.NewValidationError()
		verr.Add(typeErr.Field, "must be "+describeKind(typeErr.Type))
		respondError(c, verr)
		return
	}
	badRequest(c, "invalid request body")
}

func describeKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "a valid " + t.Kind().String()
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
