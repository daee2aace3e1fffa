package service

import "errors"

// Auth flow specific errors used by handlers for stable error mapping.
var (
	ErrGoogleExchangeFailed = errors.New("google_exchange_failed")
	ErrGoogleLinkRequired   = errors.New("google_link_required")
)
