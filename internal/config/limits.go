package config

import "time"

const (
	// MaxRequestBodyBytes caps JSON request bodies on the session API.
	// The only body we accept is {"expanded": bool}.
	MaxRequestBodyBytes = 4 << 10

	// MaxRetryAttempts bounds RETRY_ATTEMPTS so a misconfigured client
	// cannot hammer the payload server.
	MaxRetryAttempts = 10
)

// Defaults used when the environment does not override them
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryAttempts  = 3
	DefaultSessionTTL     = 30 * time.Minute
	DefaultMaxSessions    = 1000
	DefaultLogMaxFiles    = 10
)
