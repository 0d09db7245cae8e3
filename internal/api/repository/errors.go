package repository

import "errors"

// ErrDuplicateKey is returned when an insert loses to a storage-level
// uniqueness constraint. Services translate it into their own conflict
// shape instead of leaking driver detail upward.
var ErrDuplicateKey = errors.New("duplicate key")
