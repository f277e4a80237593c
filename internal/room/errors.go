package room

import "errors"

var ErrNilConnection = errors.New("connection cannot be nil")
