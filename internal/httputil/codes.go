package httputil

// Machine-readable error codes returned in the error envelope.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"

	// Auth
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeAlreadyVerified    = "ALREADY_VERIFIED"
	CodeVerificationFailed = "VERIFICATION_FAILED"
	CodeResetTokenInvalid  = "RESET_TOKEN_INVALID"

	// Catalog
	CodeCategoryNotEmpty = "CATEGORY_NOT_EMPTY"
	CodeUnknownCategory  = "UNKNOWN_CATEGORY"

	// Orders
	CodeInvalidItem       = "INVALID_ITEM"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUpstreamError     = "UPSTREAM_ERROR"
)
