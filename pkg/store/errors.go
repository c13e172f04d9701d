package store

import "errors"

// ErrCustomerNotFound is returned by CustomerProfileStore when the
// customer id is unknown. The engine propagates it without caching any
// partial result; check with errors.Is.
var ErrCustomerNotFound = errors.New("customer not found")
