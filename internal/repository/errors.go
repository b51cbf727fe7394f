package repository

import "errors"

// ErrDuplicateKey is returned by Create when a unique field is taken.
var ErrDuplicateKey = errors.New("duplicate key")
