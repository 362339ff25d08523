package service

import "errors"

// ErrAllSourcesFailed is returned by Reload when no configured source could be ingested.
var ErrAllSourcesFailed = errors.New("all sources failed")
