package app

import "github.com/google/uuid"

// IDFunc produces session ids.
type IDFunc func() string

// newID is the default session id generator.
func newID() string { return uuid.NewString() }
