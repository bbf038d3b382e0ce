// Package apierror holds the error body and machine-readable codes shared by the HTTP layer.
package apierror

// Codes returned in the "code" field.
const (
	CodeValidation          = "ERROR_VALIDATION"
	CodeUnauthorized        = "ERROR_UNAUTHORIZED"
	CodeForbidden           = "ERROR_FORBIDDEN"
	CodeNotFound            = "ERROR_NOT_FOUND"
	CodeConflict            = "ERROR_CONFLICT"
	CodeServer              = "ERROR_SERVER"
	CodeNoAddress           = "ERROR_NO_ADDRESS"
	CodeIncompleteAddress   = "ERROR_INCOMPLETE_ADDRESS"
	CodeEmptyCart           = "ERROR_EMPTY_CART"
	CodeInvalidPromo        = "ERROR_INVALID_PROMO"
	CodePromoAlreadyApplied = "ERROR_PROMO_ALREADY_APPLIED"
	CodeProductUnavailable  = "ERROR_PRODUCT_UNAVAILABLE"
)

// Response is the body of every failed request.
type Response struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
