package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeMissingRequired = 1009
	ErrCodeInvalidFormat   = 1015

	// Domain state (2xxx)
	ErrCodeNotFound = 2001
	ErrCodeNoData   = 2103

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal        = 4001
	ErrCodeExportFailed    = 4003
	ErrCodeProviderFailure = 4006
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeNotFound
	case 409:
		return ErrCodeNoData
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	case 502:
		return ErrCodeProviderFailure
	default:
		return 0
	}
}
