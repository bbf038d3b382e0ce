package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"wtch/internal/apierror"
	"wtch/internal/services"
	"wtch/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse = apierror.Response

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorTable is checked in order; the first match wins.
var errorTable = []errorMapping{
	{services.ErrNoAddress, fiber.StatusUnprocessableEntity, apierror.CodeNoAddress, "Select a shipping address"},
	{services.ErrIncompleteAddress, fiber.StatusUnprocessableEntity, apierror.CodeIncompleteAddress, "Address, state and zip are required"},
	{services.ErrEmptyCart, fiber.StatusUnprocessableEntity, apierror.CodeEmptyCart, "Your cart is empty"},
	{services.ErrInvalidPromo, fiber.StatusUnprocessableEntity, apierror.CodeInvalidPromo, "Invalid promo code"},
	{services.ErrPromoAlreadyApplied, fiber.StatusConflict, apierror.CodePromoAlreadyApplied, "Promo code already applied"},
	{services.ErrProductUnavailable, fiber.StatusConflict, apierror.CodeProductUnavailable, "A product in your cart is no longer available"},

	{services.ErrInvalidQuantity, fiber.StatusUnprocessableEntity, apierror.CodeValidation, "Validation failed"},
	{services.ErrAmountTooLarge, fiber.StatusUnprocessableEntity, apierror.CodeValidation, "Order amount is too large"},
	{services.ErrInvalidRating, fiber.StatusUnprocessableEntity, apierror.CodeValidation, "Validation failed"},
	{services.ErrInvalidStatus, fiber.StatusUnprocessableEntity, apierror.CodeValidation, "Validation failed"},
	{services.ErrInvalidPaymentMethod, fiber.StatusUnprocessableEntity, apierror.CodeValidation, "Validation failed"},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, apierror.CodeUnauthorized, "Authentication failed"},
	{services.ErrInvalidToken, fiber.StatusUnauthorized, apierror.CodeUnauthorized, "Invalid or expired token"},
	{services.ErrForbidden, fiber.StatusForbidden, apierror.CodeForbidden, "You do not have access to this resource"},

	{services.ErrUserNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "User not found"},
	{services.ErrProductNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "Product not found"},
	{services.ErrCartNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "Cart not found"},
	{services.ErrCartItemNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "Cart item not found"},
	{services.ErrAddressNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "Address not found"},
	{services.ErrOrderNotFound, fiber.StatusNotFound, apierror.CodeNotFound, "Order not found"},

	{services.ErrUsernameTaken, fiber.StatusConflict, apierror.CodeConflict, "Registration failed"},
	{services.ErrEmailTaken, fiber.StatusConflict, apierror.CodeConflict, "Email already registered"},
	{services.ErrProductExists, fiber.StatusConflict, apierror.CodeConflict, "Product already exists"},
	{services.ErrReviewExists, fiber.StatusConflict, apierror.CodeConflict, "You already reviewed this product"},
}

// requestError is a malformed or invalid request body.
type requestError struct {
	message string
	cause   error
	fields  map[string]string
}

func (e *requestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// respondError writes the error response matching err.
func respondError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		resp := ErrorResponse{Code: apierror.CodeValidation, Message: reqErr.message, Errors: reqErr.fields}
		if reqErr.cause != nil {
			resp.Error = reqErr.cause.Error()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			logger.L().Debug("request failed",
				zap.String("path", c.Path()), zap.Int("status", m.status), zap.Error(err))
			return c.Status(m.status).JSON(ErrorResponse{Code: m.code, Message: m.message, Error: err.Error()})
		}
	}

	logger.L().Error("request failed",
		zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Code:    apierror.CodeServer,
		Message: "Internal server error",
		Error:   err.Error(),
	})
}

// ErrorHandler renders errors that escape handlers, such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := apierror.CodeServer
		switch fe.Code {
		case fiber.StatusNotFound:
			code = apierror.CodeNotFound
		case fiber.StatusUnauthorized:
			code = apierror.CodeUnauthorized
		case fiber.StatusForbidden:
			code = apierror.CodeForbidden
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = apierror.CodeValidation
		}
		return c.Status(fe.Code).JSON(ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &requestError{message: "Invalid request body", cause: err}
	}
	return validateStruct(req)
}

func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &requestError{message: "Validation failed", cause: err}
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &requestError{message: "Validation failed", fields: fields}
}
