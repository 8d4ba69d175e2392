package utils

// Error codes returned in ErrorInfo.Code.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeInvalidPrice    = "INVALID_TARGET_PRICE"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeNoBrowser       = "SHARE_UNAVAILABLE"
	CodeBackendError    = "BACKEND_ERROR"
	CodePartialFailure  = "PARTIAL_FAILURE"
	CodeRateLimited     = "RATE_LIMITED"
)
