package storage

import "errors"

// ErrAccountExists is returned when registering an address twice.
var ErrAccountExists = errors.New("account already exists")
