package survey

import "errors"

// Caller-correctable failures of the form and response lifecycle. Every
// operation wraps these with a message naming the offending field or
// question, so handlers can match with errors.Is and forward the message.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateSlug     = errors.New("slug already in use")
	ErrFormArchived      = errors.New("form is archived")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrNotNumeric        = errors.New("answer must be numeric")
	ErrBelowMinimum      = errors.New("answer is below the minimum")
	ErrAboveMaximum      = errors.New("answer exceeds the maximum")
	ErrInvalidChoice     = errors.New("answer includes invalid choices")
	ErrMissingRequired   = errors.New("missing answers for required questions")
	ErrDuplicatePosition = errors.New("duplicate question position")
	ErrInvalidMetadata   = errors.New("invalid question metadata")
	ErrVersionConflict   = errors.New("form was modified concurrently")
)

var userErrors = []error{
	ErrNotFound,
	ErrDuplicateSlug,
	ErrFormArchived,
	ErrUnknownQuestion,
	ErrNotNumeric,
	ErrBelowMinimum,
	ErrAboveMaximum,
	ErrInvalidChoice,
	ErrMissingRequired,
	ErrDuplicatePosition,
	ErrInvalidMetadata,
	ErrVersionConflict,
}

// IsUserError reports whether err belongs to the caller-correctable taxonomy,
// as opposed to a storage or programming failure.
func IsUserError(err error) bool {
	for _, sentinel := range userErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
