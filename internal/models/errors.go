package models

import "errors"

// ErrConstraintViolation is returned by the store when an insert breaks a
// unique constraint at write or commit time.
var ErrConstraintViolation = errors.New("constraint violation")
