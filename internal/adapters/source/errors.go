package source

import "errors"

// ErrFetch reports that a source could not be retrieved directly or through the proxy.
var ErrFetch = errors.New("fetch source failed")

// errStatus marks a non-2xx response.
var errStatus = errors.New("unexpected status")
