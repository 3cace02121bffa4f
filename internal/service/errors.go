package service

import "errors"

// ErrNotFound marks lookups for rows the caller does not own or that
// do not exist. Handlers map it to a 404.
var ErrNotFound = errors.New("not found")
