package checkoutapi

// ValidationError is caller attributable and always detected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	msgMissingDetails = "Missing price or installment details."
	msgInvalidPrice   = "Invalid price."
	msgInvalidMonth   = "Invalid installment month."
	msgUnknownPlan    = "Unknown payment type."
)

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
