// services/errors.go
package services

import "errors"

// Workflow errors surfaced verbatim to callers. Anything else coming out of
// a service is a store/upstream failure: logged in full, reported generically.
var (
	ErrEmailAlreadyRegistered = errors.New("this email address is already in use by another account")
	ErrRegistrationPending    = errors.New("a registration request for this email address is already pending approval")
	ErrRequestNotFound        = errors.New("registration request not found")
)

// ValidationError marks user-correctable input problems.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
