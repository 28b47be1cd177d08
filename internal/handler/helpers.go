package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"shoppos/internal/apierror"
	"shoppos/internal/middleware"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
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

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, filter)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// parseID reads a UUID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user's id, or nil.
func currentUserID(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}

// statusFor maps domain errors to HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrAlreadyRefunded):
		return http.StatusConflict
	case errors.Is(err, service.ErrConnectionFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrCustomerRequired),
		errors.Is(err, service.ErrCustomerOnlyForCredit),
		errors.Is(err, service.ErrInsufficientCash),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrAmountExceedsBalance),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrNoRefundItems),
		errors.Is(err, service.ErrUnknownSaleItem),
		errors.Is(err, service.ErrRefundQuantity),
		errors.Is(err, service.ErrNothingSelected),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Domain errors carry their own
// message; anything else is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, apierror.New("internal server error"))
		return
	}
	log.Debug().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Int("status", status).Msg("request rejected")
	c.AbortWithStatusJSON(status, apierror.New(err.Error()))
}
