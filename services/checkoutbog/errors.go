package checkoutbog

import "fmt"

// SubmissionError is returned when the order could not be delivered or the processor refused it.
// StatusCode is 0 for transport failures.
type SubmissionError struct {
	Reason     string
	StatusCode int
	Body       []byte
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("order submission failed: %s", e.Reason)
	}
	return fmt.Sprintf("order submission failed: %s (http-status %d)", e.Reason, e.StatusCode)
}

func (e *SubmissionError) isRejection() bool {
	return e.StatusCode >= 400 && e.StatusCode <= 499
}

// RedirectMissingError means the processor accepted the order but returned no usable redirect link.
type RedirectMissingError struct {
	Body []byte
}

func (e *RedirectMissingError) Error() string {
	return "processor did not return redirect link"
}

// CallbackError is logged only: the processor always gets an acknowledgement.
type CallbackError struct {
	Reason string
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("invalid callback: %s", e.Reason)
}
