package command

import "errors"

var (
	// ErrBadRequest is matched by every validation failure
	ErrBadRequest = errors.New("bad request")

	ErrNotReady = errors.New("WhatsApp client not ready")

	// ErrDriverFailure wraps errors returned by the connection driver
	ErrDriverFailure = errors.New("driver failure")

	// ErrMedia wraps failures to load an image for sending
	ErrMedia = errors.New("Media error")
)

/* BadRequestError carries the client-facing reason of a validation failure
 * errors.Is(err, ErrBadRequest) holds for every BadRequestError
 */
type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string {
	return e.Reason
}

// Is reports ErrBadRequest as a match
func (e *BadRequestError) Is(target error) bool {
	return target == ErrBadRequest
}

func badRequest(reason string) error {
	return &BadRequestError{Reason: reason}
}
